package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
)

// Badger key layout.
var (
	snippetPrefix = []byte("snippet/")
	initMarkerKey = []byte("meta/initialized")
)

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 8MB
	CacheSize int64

	// SyncWrites fsyncs after each transaction commit.
	// Default: true
	SyncWrites bool

	// InMemory keeps all data in memory. Used by tests.
	InMemory bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:  "10m",
		GCThreshold: 0.5,
		CacheSize:   8 << 20,
		SyncWrites:  true,
	}
}

// BadgerDocument stores each snippet under its own key in a Badger
// database. Keys encode the record position, so a prefix scan returns
// records in stored order. Save rewrites every record in one transaction.
type BadgerDocument struct {
	db     *badger.DB
	dir    string
	cfg    BadgerConfig
	logger logger.Logger

	lastGCTime atomic.Int64 // Unix milliseconds
	gcRuns     atomic.Uint64

	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenBadgerDocument opens (or creates) a Badger database in dir.
func OpenBadgerDocument(dir string, cfg BadgerConfig, log logger.Logger) (*BadgerDocument, error) {
	if dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: log}
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(fmt.Errorf("badger: open db: %w", err))
	}

	d := &BadgerDocument{
		db:     db,
		dir:    dir,
		cfg:    cfg,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go d.gcLoop()

	log.Debug("badger document opened", "dir", dir, "gc_interval", cfg.GCInterval)
	return d, nil
}

// Load scans all snippet records in key order.
func (d *BadgerDocument) Load(ctx context.Context) ([]*domain.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snippets := []*domain.Snippet{}
	err := d.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(initMarkerKey); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrStorageUnavailable.WithDetails(d.dir)
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = snippetPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var s domain.Snippet
				if err := json.Unmarshal(val, &s); err != nil {
					return domain.ErrStorageCorrupt.
						WithDetails(fmt.Sprintf("record %x", item.Key())).
						WithCause(err)
				}
				snippets = append(snippets, &s)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if domain.IsDomainError(err, "") {
			return nil, err
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return snippets, nil
}

// Save deletes every snippet record and writes snippets in one transaction.
func (d *BadgerDocument) Save(ctx context.Context, snippets []*domain.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = snippetPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for i, s := range snippets {
			val, err := json.Marshal(s)
			if err != nil {
				return err
			}
			if err := txn.Set(recordKey(i), val); err != nil {
				return err
			}
		}
		return txn.Set(initMarkerKey, []byte{1})
	})
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Init writes the init marker if the database has never been saved.
func (d *BadgerDocument) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(initMarkerKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(initMarkerKey, []byte{1})
	})
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Location returns the database directory.
func (d *BadgerDocument) Location() string {
	if d.cfg.InMemory {
		return "badger:memory"
	}
	return d.dir
}

// GC runs value log garbage collection until nothing is left to rewrite.
// Returns the number of rewrite passes.
func (d *BadgerDocument) GC(ctx context.Context) (int, error) {
	if d.cfg.InMemory {
		return 0, nil
	}

	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return passes, err
		}
		err := d.db.RunValueLogGC(d.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return passes, fmt.Errorf("gc: %w", err)
		}
		passes++
	}

	d.lastGCTime.Store(time.Now().UnixMilli())
	d.gcRuns.Add(1)
	d.logger.Debug("badger gc completed", "passes", passes)
	return passes, nil
}

// Collectors returns Prometheus collectors reporting database size.
func (d *BadgerDocument) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "snipkit",
			Subsystem: "badger",
			Name:      "lsm_size_bytes",
			Help:      "Badger LSM tree size in bytes",
		}, func() float64 {
			lsm, _ := d.db.Size()
			return float64(lsm)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "snipkit",
			Subsystem: "badger",
			Name:      "value_log_size_bytes",
			Help:      "Badger value log size in bytes",
		}, func() float64 {
			_, vlog := d.db.Size()
			return float64(vlog)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "snipkit",
			Subsystem: "badger",
			Name:      "gc_runs_total",
			Help:      "Total number of completed value log GC runs",
		}, func() float64 {
			return float64(d.gcRuns.Load())
		}),
	}
}

// Close stops the GC loop and closes the database.
func (d *BadgerDocument) Close() error {
	close(d.stopCh)
	<-d.doneCh

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	d.logger.Debug("badger document closed", "dir", d.dir)
	return nil
}

// gcLoop runs periodic garbage collection.
func (d *BadgerDocument) gcLoop() {
	defer close(d.doneCh)

	interval, err := time.ParseDuration(d.cfg.GCInterval)
	if err != nil || interval <= 0 {
		d.logger.Warn("invalid gc_interval, using default 10m", "value", d.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := d.GC(ctx); err != nil {
				d.logger.Error("auto gc failed", "error", err)
			}
			cancel()

		case <-d.stopCh:
			return
		}
	}
}

// recordKey encodes position i as snippet/<8-byte big-endian>.
func recordKey(i int) []byte {
	key := make([]byte, len(snippetPrefix)+8)
	copy(key, snippetPrefix)
	binary.BigEndian.PutUint64(key[len(snippetPrefix):], uint64(i))
	return key
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
// Badger's info output is demoted to debug; it is noisy for a CLI.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
