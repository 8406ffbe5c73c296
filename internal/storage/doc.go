// Package storage provides the snippet document store for snipkit.
//
// The whole snippet collection is one ordered sequence persisted as a
// single document. Every mutation is a read-modify-write of the entire
// sequence:
//
//   - Document: a backend that loads and saves the full sequence
//   - JSONFile: the default backend, one compact JSON array on disk
//   - BadgerDocument: an optional Badger backend with one key per record
//   - Store: FetchAll, Update, Create and Delete on top of a Document
//   - Watcher: fsnotify-based change notification for the document file
//
// There is no locking. Two writers racing on the same document can lose
// each other's changes; the last write wins.
package storage
