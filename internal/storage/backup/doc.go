// Package backup provides point-in-time backups of the snippet document.
//
// Each backup is a single file:
//
//	backup-<timestamp>-<sequence>.snpb
//	[magic:8 "SNIPBACK"]
//	[HeaderLen:4][HeaderJSON:HeaderLen]
//	[DataLen:4][Data:DataLen]   (JSON snippet array, or sealed bytes)
//	[checksum:32 SHA-256 of all bytes above]
//
// When a passphrase is configured the data block is sealed with
// XChaCha20-Poly1305 under a key derived by Argon2id. The salt lives in
// the header, which is also bound to the ciphertext as associated data.
//
// Restoring replaces the whole document through storage.Document.Save.
package backup
