package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
	"github.com/yndnr/snipkit-go/internal/telemetry/metric"
)

// CopiedMessage is the notification shown after a copy.
const CopiedMessage = "Copied to clipboard"

// NonStandardKeyWarning is shown when a caller-supplied key is not a ULID.
const NonStandardKeyWarning = "Key %q is not a ULID"

// SnippetRepository defines the storage interface for snippet operations.
type SnippetRepository interface {
	SnippetUpdater

	// FetchAll returns every snippet in stored order.
	FetchAll(ctx context.Context) ([]*domain.Snippet, error)

	// Create appends a snippet and returns its index.
	Create(ctx context.Context, snippet *domain.Snippet) (int, error)

	// Delete removes a snippet by key and returns the index it had.
	Delete(ctx context.Context, key string) (int, error)
}

// SnippetUpdater replaces a stored snippet by key.
type SnippetUpdater interface {
	// Update replaces the record with snippet.Key and stamps UpdateAt.
	Update(ctx context.Context, snippet *domain.Snippet) (int, error)
}

// Notifier shows short, fire-and-forget messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// ModeResolver maps a file name to an editor language mode.
type ModeResolver interface {
	ModeFor(fileName string) string
}

// ModeResolverFunc adapts a function to ModeResolver.
type ModeResolverFunc func(fileName string) string

// ModeFor calls f(fileName).
func (f ModeResolverFunc) ModeFor(fileName string) string {
	return f(fileName)
}

// nopNotifier drops every message.
type nopNotifier struct{}

func (nopNotifier) Info(string) {}
func (nopNotifier) Warn(string) {}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	// Tag must be carried by the snippet (exact match).
	Tag string

	// Name must be contained in the snippet name (case-insensitive).
	Name string
}

// Match reports whether s passes the filter.
func (f ListFilter) Match(s *domain.Snippet) bool {
	if f.Tag != "" && !s.HasTag(f.Tag) {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name)) {
		return false
	}
	return true
}

// SnippetService handles snippet use cases.
type SnippetService struct {
	repo         SnippetRepository
	clipboard    Clipboard
	notifier     Notifier
	modes        ModeResolver
	metrics      *metric.Registry
	showCopyNoti bool
}

// ServiceOption configures a SnippetService.
type ServiceOption func(*SnippetService)

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(c Clipboard) ServiceOption {
	return func(s *SnippetService) {
		s.clipboard = c
	}
}

// WithNotifier sets the notifier for user-visible messages.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *SnippetService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithModeResolver sets the language mode lookup passed to edit sessions.
func WithModeResolver(m ModeResolver) ServiceOption {
	return func(s *SnippetService) {
		s.modes = m
	}
}

// WithServiceMetrics records usage metrics in r.
func WithServiceMetrics(r *metric.Registry) ServiceOption {
	return func(s *SnippetService) {
		s.metrics = r
	}
}

// WithCopyNotification enables the notification shown after Copy.
func WithCopyNotification(enabled bool) ServiceOption {
	return func(s *SnippetService) {
		s.showCopyNoti = enabled
	}
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(repo SnippetRepository, opts ...ServiceOption) *SnippetService {
	s := &SnippetService{
		repo:         repo,
		notifier:     nopNotifier{},
		showCopyNoti: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Query Operations
// ============================================================================

// List returns the snippets matching filter in stored order.
func (s *SnippetService) List(ctx context.Context, filter ListFilter) ([]*domain.Snippet, error) {
	all, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Snippet, 0, len(all))
	for _, sn := range all {
		if filter.Match(sn) {
			out = append(out, sn)
		}
	}
	return out, nil
}

// Get returns the snippet with key.
func (s *SnippetService) Get(ctx context.Context, key string) (*domain.Snippet, error) {
	if key == "" {
		return nil, domain.ErrMissingArgument.WithDetails("key is required")
	}

	all, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, sn := range all {
		if sn.Key == key {
			return sn, nil
		}
	}
	return nil, domain.ErrSnippetNotFound.WithDetails(key)
}

// ============================================================================
// Mutating Operations
// ============================================================================

// CreateSnippetRequest contains parameters for snippet creation.
type CreateSnippetRequest struct {
	Key         string // Generated when empty
	Name        string
	Description string
	Tags        []string
	Files       []domain.File // Keys are generated when empty
}

// Create builds a new snippet from req and appends it to the store.
func (s *SnippetService) Create(ctx context.Context, req *CreateSnippetRequest) (*domain.Snippet, error) {
	// 1. Build the snippet with generated keys
	sn, err := domain.NewSnippet(req.Name, req.Files...)
	if err != nil {
		return nil, err
	}
	if req.Key != "" {
		sn.Key = req.Key
	}
	sn.Description = req.Description
	sn.Tags = domain.ParseTags(strings.Join(req.Tags, domain.TagSeparator))

	// 2. Validate before touching the store
	if err := sn.Validate(); err != nil {
		return nil, err
	}

	// 3. Persist
	if _, err := s.repo.Create(ctx, sn); err != nil {
		return nil, err
	}
	if req.Key != "" && !domain.IsValidKey(req.Key) {
		s.notifier.Warn(fmt.Sprintf(NonStandardKeyWarning, req.Key))
	}

	logger.L(ctx).Debug("snippet created", "key", sn.Key, "files", len(sn.Files))
	return sn, nil
}

// Delete removes the snippet with key.
func (s *SnippetService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrMissingArgument.WithDetails("key is required")
	}
	_, err := s.repo.Delete(ctx, key)
	return err
}

// Copy writes file fileIndex of snippet key to the clipboard and bumps the
// snippet's copy counter. The updated snippet is returned.
func (s *SnippetService) Copy(ctx context.Context, key string, fileIndex int) (*domain.Snippet, error) {
	if s.clipboard == nil {
		return nil, domain.ErrInternal.WithDetails("clipboard is not available")
	}

	// 1. Resolve snippet and file
	sn, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	file, err := sn.File(fileIndex)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(err.Error())
	}

	// 2. Clipboard first; a failed copy must not count
	if err := s.clipboard.WriteAll(file.Value); err != nil {
		return nil, domain.ErrInternal.WithCause(fmt.Errorf("write clipboard: %w", err))
	}

	// 3. Count the copy
	sn.Copy++
	if _, err := s.repo.Update(ctx, sn); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncCopies()
	}

	if s.showCopyNoti {
		s.notifier.Info(CopiedMessage)
	}
	logger.L(ctx).Debug("file copied", "key", key, "file", file.Name, "copy", sn.Copy)
	return sn, nil
}

// DeleteFile removes file fileIndex from snippet key outside edit mode.
// Returns false without writing if it is the snippet's last file.
func (s *SnippetService) DeleteFile(ctx context.Context, key string, fileIndex int) (bool, error) {
	session, err := s.Edit(ctx, key)
	if err != nil {
		return false, err
	}
	return session.RemoveFile(ctx, fileIndex)
}

// Edit opens an edit session on snippet key.
func (s *SnippetService) Edit(ctx context.Context, key string) (*EditSession, error) {
	sn, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return NewEditSession(sn, s.repo, s.notifier, WithModes(s.modes), WithEditMetrics(s.metrics)), nil
}
