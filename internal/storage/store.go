package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
	"github.com/yndnr/snipkit-go/internal/telemetry/metric"
)

// Store operation names used in logs and metrics.
const (
	opFetch  = "fetch"
	opUpdate = "update"
	opCreate = "create"
	opDelete = "delete"
	opInit   = "init"
)

// Store provides snippet operations on top of a Document.
//
// Each call re-reads the document; nothing is cached between calls.
type Store struct {
	doc     Document
	logger  logger.Logger
	metrics *metric.Registry
	now     func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger used when the context carries none.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics records store metrics in r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = r
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store backed by doc.
func NewStore(doc Document, opts ...Option) *Store {
	s := &Store{
		doc: doc,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns the underlying backend.
func (s *Store) Document() Document {
	return s.doc
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.doc.Close()
}

// Init creates an empty document if none exists.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	defer s.observe(opInit, start)

	if err := s.doc.Init(ctx); err != nil {
		s.recordError(opInit)
		return err
	}
	s.log(ctx).Debug("document initialized", "location", s.doc.Location())
	return nil
}

// FetchAll returns every snippet in stored order.
// The returned records are owned by the caller.
func (s *Store) FetchAll(ctx context.Context) ([]*domain.Snippet, error) {
	start := time.Now()
	defer s.observe(opFetch, start)

	return s.load(ctx, opFetch)
}

// Update replaces the stored record with the same key as snippet.
//
// The whole record is replaced; no field-level merge happens. UpdateAt is
// set to the current time, never earlier than the previous value, and is
// written back into snippet. Returns the record's index.
// Returns ErrSnippetNotFound without writing if the key is absent.
func (s *Store) Update(ctx context.Context, snippet *domain.Snippet) (int, error) {
	start := time.Now()
	defer s.observe(opUpdate, start)

	if snippet == nil {
		s.recordError(opUpdate)
		return -1, domain.ErrInvalidArgument.WithDetails("snippet is nil")
	}

	snippets, err := s.load(ctx, opUpdate)
	if err != nil {
		return -1, err
	}

	idx := FindByKey(snippets, snippet.Key)
	if idx < 0 {
		s.recordError(opUpdate)
		return -1, domain.ErrSnippetNotFound.WithDetails(snippet.Key)
	}
	if len(snippet.Files) < domain.MinFilesPerSnippet {
		s.recordError(opUpdate)
		return -1, domain.ErrSnippetValidation.WithDetails("snippet must have at least 1 file")
	}

	now := s.now().UnixMilli()
	if prev := snippets[idx].UpdateAt; now < prev {
		now = prev
	}
	snippet.UpdateAt = now
	snippets[idx] = snippet.Clone()

	if err := s.save(ctx, opUpdate, snippets); err != nil {
		return -1, err
	}

	s.log(ctx).Debug("snippet updated", "key", snippet.Key, "index", idx)
	return idx, nil
}

// Create appends snippet to the document and returns its index.
// A missing key is generated and timestamps are stamped.
// Returns ErrSnippetConflict if the key already exists.
func (s *Store) Create(ctx context.Context, snippet *domain.Snippet) (int, error) {
	start := time.Now()
	defer s.observe(opCreate, start)

	if snippet == nil {
		s.recordError(opCreate)
		return -1, domain.ErrInvalidArgument.WithDetails("snippet is nil")
	}

	if snippet.Key == "" {
		key, err := domain.GenerateKey()
		if err != nil {
			s.recordError(opCreate)
			return -1, err
		}
		snippet.Key = key
	}
	now := s.now().UnixMilli()
	if snippet.CreateAt == 0 {
		snippet.CreateAt = now
	}
	snippet.UpdateAt = now

	if err := snippet.Validate(); err != nil {
		s.recordError(opCreate)
		return -1, err
	}

	snippets, err := s.load(ctx, opCreate)
	if err != nil {
		return -1, err
	}
	if FindByKey(snippets, snippet.Key) >= 0 {
		s.recordError(opCreate)
		return -1, domain.ErrSnippetConflict.WithDetails(snippet.Key)
	}

	snippets = append(snippets, snippet.Clone())
	idx := len(snippets) - 1

	if err := s.save(ctx, opCreate, snippets); err != nil {
		return -1, err
	}

	s.log(ctx).Debug("snippet created", "key", snippet.Key, "index", idx)
	return idx, nil
}

// Delete removes the record with key and returns the index it had.
func (s *Store) Delete(ctx context.Context, key string) (int, error) {
	start := time.Now()
	defer s.observe(opDelete, start)

	snippets, err := s.load(ctx, opDelete)
	if err != nil {
		return -1, err
	}

	idx := FindByKey(snippets, key)
	if idx < 0 {
		s.recordError(opDelete)
		return -1, domain.ErrSnippetNotFound.WithDetails(key)
	}
	snippets = slices.Delete(snippets, idx, idx+1)

	if err := s.save(ctx, opDelete, snippets); err != nil {
		return -1, err
	}

	s.log(ctx).Debug("snippet deleted", "key", key, "index", idx)
	return idx, nil
}

func (s *Store) load(ctx context.Context, op string) ([]*domain.Snippet, error) {
	snippets, err := s.doc.Load(ctx)
	if err != nil {
		s.recordError(op)
		s.log(ctx).Debug("document read failed", "op", op, "location", s.doc.Location(), "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRead(len(snippets))
	}
	return snippets, nil
}

func (s *Store) save(ctx context.Context, op string, snippets []*domain.Snippet) error {
	if err := s.doc.Save(ctx, snippets); err != nil {
		s.recordError(op)
		s.log(ctx).Warn("document write failed", "op", op, "location", s.doc.Location(), "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.metrics != nil {
		s.metrics.RecordWrite(len(snippets))
	}
	return nil
}

// log returns the store logger enriched with the command and snippet key
// carried by ctx.
func (s *Store) log(ctx context.Context) logger.Logger {
	if s.logger != nil {
		ctx = logger.WithLogger(ctx, s.logger)
	}
	return logger.L(ctx)
}

func (s *Store) recordError(op string) {
	if s.metrics != nil {
		s.metrics.RecordError(op)
	}
}

func (s *Store) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, time.Since(start).Seconds())
	}
}
