package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
	"github.com/yndnr/snipkit-go/internal/telemetry/metric"
)

// LastFileWarning is shown when removing a snippet's only file.
const LastFileWarning = "The snippet must have at least 1 file"

// NullMode is the language mode used when nothing matches.
const NullMode = "null"

// Draft is the staged copy of a snippet while it is being edited.
type Draft struct {
	Name        string
	Tags        string // raw, comma-separated
	Description string
	Files       []domain.File
}

// EditSession stages edits to one snippet and commits them on Save.
//
// Outside edit mode the session is a read-only view of the persisted
// snippet, except for RemoveFile which writes through immediately.
// An EditSession is not safe for concurrent use.
type EditSession struct {
	snippet  *domain.Snippet
	draft    *Draft
	selected int

	updater  SnippetUpdater
	notifier Notifier
	modes    ModeResolver
	metrics  *metric.Registry
}

// EditOption configures an EditSession.
type EditOption func(*EditSession)

// WithModes sets the language mode lookup used by Current.
func WithModes(m ModeResolver) EditOption {
	return func(e *EditSession) {
		e.modes = m
	}
}

// WithEditMetrics records the session outcome in r.
func WithEditMetrics(r *metric.Registry) EditOption {
	return func(e *EditSession) {
		e.metrics = r
	}
}

// NewEditSession creates a session on a private copy of snippet.
func NewEditSession(snippet *domain.Snippet, updater SnippetUpdater, notifier Notifier, opts ...EditOption) *EditSession {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	e := &EditSession{
		snippet:  snippet.Clone(),
		updater:  updater,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ============================================================================
// Accessors
// ============================================================================

// Editing reports whether the session is in edit mode.
func (e *EditSession) Editing() bool {
	return e.draft != nil
}

// Selected returns the selected file index.
func (e *EditSession) Selected() int {
	return e.selected
}

// Snippet returns a copy of the persisted snippet.
func (e *EditSession) Snippet() *domain.Snippet {
	return e.snippet.Clone()
}

// Draft returns a copy of the draft. ok is false outside edit mode.
func (e *EditSession) Draft() (d Draft, ok bool) {
	if e.draft == nil {
		return Draft{}, false
	}
	d = *e.draft
	d.Files = domain.CloneFiles(e.draft.Files)
	return d, true
}

// Files returns a copy of the active file list: the draft's while
// editing, the persisted snippet's otherwise.
func (e *EditSession) Files() []domain.File {
	return domain.CloneFiles(e.activeFiles())
}

// Current returns the selected file of the active list and its mode.
func (e *EditSession) Current() (domain.File, string) {
	files := e.activeFiles()
	if e.selected < 0 || e.selected >= len(files) {
		return domain.File{}, NullMode
	}
	f := files[e.selected]
	return f, e.ModeOf(f.Name)
}

func (e *EditSession) activeFiles() []domain.File {
	if e.draft != nil {
		return e.draft.Files
	}
	return e.snippet.Files
}

// ModeOf returns the language mode for a file name, NullMode when
// nothing matches.
func (e *EditSession) ModeOf(name string) string {
	if e.modes == nil {
		return NullMode
	}
	if mode := e.modes.ModeFor(name); mode != "" {
		return mode
	}
	return NullMode
}

// ============================================================================
// Mode Transitions
// ============================================================================

// Begin enters edit mode with a draft seeded from the persisted snippet.
func (e *EditSession) Begin() error {
	if e.draft != nil {
		return domain.ErrAlreadyEditing
	}
	e.draft = &Draft{
		Name:        e.snippet.Name,
		Tags:        domain.FormatTags(e.snippet.Tags),
		Description: e.snippet.Description,
		Files:       domain.CloneFiles(e.snippet.Files),
	}
	if e.draft.Files == nil {
		e.draft.Files = []domain.File{}
	}
	return nil
}

// Discard drops the draft and leaves edit mode. The store is not touched.
func (e *EditSession) Discard() {
	if e.draft != nil {
		e.record(metric.OutcomeDiscarded)
	}
	e.draft = nil
	e.selected = 0
}

// Save commits the draft if it differs from the persisted snippet and
// leaves edit mode. changed reports whether a write happened.
//
// Name, parsed tags, description, and files are compared. When nothing
// differs no write happens and UpdateAt is not bumped. Update errors are
// returned unchanged and leave the persisted snippet as it was.
func (e *EditSession) Save(ctx context.Context) (changed bool, err error) {
	if e.draft == nil {
		return false, domain.ErrNotEditing
	}

	// 1. Leave edit mode whatever happens next
	draft := e.draft
	e.draft = nil
	defer e.clampSelection()

	// 2. Diff against the persisted snippet
	tags := domain.ParseTags(draft.Tags)
	if draft.Name == e.snippet.Name &&
		domain.TagsEqual(tags, e.snippet.Tags) &&
		draft.Description == e.snippet.Description &&
		domain.FilesEqual(draft.Files, e.snippet.Files) {
		e.record(metric.OutcomeUnchanged)
		logger.L(ctx).Debug("edit session saved without changes", "key", e.snippet.Key)
		return false, nil
	}

	// 3. Build the full replacement record
	next := e.snippet.Clone()
	next.Name = draft.Name
	next.Tags = tags
	next.Description = draft.Description
	next.Files = domain.CloneFiles(draft.Files)

	// 4. Commit
	if _, err := e.updater.Update(ctx, next); err != nil {
		return false, err
	}
	e.snippet = next
	e.record(metric.OutcomeSaved)

	logger.L(ctx).Debug("edit session saved", "key", next.Key, "files", len(next.Files))
	return true, nil
}

// ============================================================================
// Draft Mutations
// ============================================================================

// SetName sets the draft name.
func (e *EditSession) SetName(name string) error {
	if e.draft == nil {
		return domain.ErrNotEditing
	}
	e.draft.Name = name
	return nil
}

// SetTags sets the raw, comma-separated draft tags.
func (e *EditSession) SetTags(raw string) error {
	if e.draft == nil {
		return domain.ErrNotEditing
	}
	e.draft.Tags = raw
	return nil
}

// SetDescription sets the draft description.
func (e *EditSession) SetDescription(desc string) error {
	if e.draft == nil {
		return domain.ErrNotEditing
	}
	e.draft.Description = desc
	return nil
}

// RenameFile renames draft file i.
func (e *EditSession) RenameFile(i int, name string) error {
	if e.draft == nil {
		return domain.ErrNotEditing
	}
	if i < 0 || i >= len(e.draft.Files) {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("file index %d out of range", i))
	}
	e.draft.Files[i].Name = name
	return nil
}

// AddFile appends an empty file with a fresh key to the draft.
// The selection does not move.
func (e *EditSession) AddFile() (domain.File, int, error) {
	if e.draft == nil {
		return domain.File{}, -1, domain.ErrNotEditing
	}
	if len(e.draft.Files) >= domain.MaxFilesPerSnippet {
		return domain.File{}, -1, domain.ErrSnippetValidation.
			WithDetails(fmt.Sprintf("snippet exceeds %d files", domain.MaxFilesPerSnippet))
	}

	f, err := domain.NewFile("", "")
	if err != nil {
		return domain.File{}, -1, err
	}
	e.draft.Files = append(e.draft.Files, f)
	return f, len(e.draft.Files) - 1, nil
}

// SetContent replaces the value of the selected draft file.
// Outside edit mode nothing changes and false is returned.
func (e *EditSession) SetContent(value string) bool {
	if e.draft == nil {
		return false
	}
	if e.selected < 0 || e.selected >= len(e.draft.Files) {
		return false
	}
	e.draft.Files[e.selected].Value = value
	return true
}

// Select changes the selected file, clamped to the active list.
// Returns the resulting selection.
func (e *EditSession) Select(i int) int {
	e.selected = i
	e.clampSelection()
	return e.selected
}

// RemoveFile removes file i from the active list.
//
// A snippet keeps at least one file: when the persisted snippet or the
// draft has one file or fewer the user is warned and nothing changes.
// In edit mode the draft is changed; otherwise the removal is written to
// the store immediately.
func (e *EditSession) RemoveFile(ctx context.Context, i int) (bool, error) {
	if len(e.snippet.Files) <= 1 || (e.draft != nil && len(e.draft.Files) <= 1) {
		e.notifier.Warn(LastFileWarning)
		return false, nil
	}

	files := e.activeFiles()
	if i < 0 || i >= len(files) {
		return false, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("file index %d out of range", i))
	}

	if e.draft != nil {
		e.draft.Files = slices.Delete(e.draft.Files, i, i+1)
		e.clampSelection()
		return true, nil
	}

	next := e.snippet.Clone()
	next.Files = slices.Delete(next.Files, i, i+1)
	if _, err := e.updater.Update(ctx, next); err != nil {
		return false, err
	}
	e.snippet = next
	e.clampSelection()

	logger.L(ctx).Debug("file removed", "key", next.Key, "index", i)
	return true, nil
}

func (e *EditSession) clampSelection() {
	n := len(e.activeFiles())
	if e.selected >= n {
		e.selected = n - 1
	}
	if e.selected < 0 {
		e.selected = 0
	}
}

func (e *EditSession) record(outcome string) {
	if e.metrics != nil {
		e.metrics.RecordEditSession(outcome)
	}
}
