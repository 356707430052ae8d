// Package store persists accepted circuits and integration reports in an
// embedded BadgerDB.
//
// Keys:
//
//	circuit/<circuit id>              → Circuit (JSON)
//	report/<circuit id>/<report id>   → IntegrationReport (JSON)
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/alexshd/circuitcheck"
)

const (
	circuitPrefix = "circuit/"
	reportPrefix  = "report/"
)

// ErrReportNotFound means no report is stored under the requested key.
var ErrReportNotFound = errors.New("report not found")

// Config holds configuration for a Store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM; data is lost on Close.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's internal log lines. Nil silences them.
	Logger *slog.Logger
}

// DefaultConfig returns a durable on-disk configuration for path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Store is a circuit and report store. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutCircuit stores c, replacing any circuit with the same ID. The record is
// validated first.
func (s *Store) PutCircuit(ctx context.Context, c circuitcheck.Circuit) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.put(ctx, circuitPrefix+c.ID, c)
}

// GetCircuit loads one circuit. A missing ID wraps
// circuitcheck.ErrCircuitNotFound.
func (s *Store) GetCircuit(ctx context.Context, id string) (circuitcheck.Circuit, error) {
	var c circuitcheck.Circuit
	err := s.get(ctx, circuitPrefix+id, &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return c, fmt.Errorf("%w: %q", circuitcheck.ErrCircuitNotFound, id)
	}
	return c, err
}

// ListCircuits returns every stored circuit ordered by ID.
func (s *Store) ListCircuits(ctx context.Context) ([]circuitcheck.Circuit, error) {
	var out []circuitcheck.Circuit
	err := s.scan(ctx, circuitPrefix, func(val []byte) error {
		var c circuitcheck.Circuit
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// DeleteCircuit removes a circuit. Its stored reports are kept.
func (s *Store) DeleteCircuit(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(circuitPrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %q", circuitcheck.ErrCircuitNotFound, id)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// PutReport stores an integration report under its circuit.
func (s *Store) PutReport(ctx context.Context, r circuitcheck.IntegrationReport) error {
	if r.ID == "" || r.CircuitID == "" {
		return errors.New("report needs an ID and a circuit ID")
	}
	return s.put(ctx, reportKey(r.CircuitID, r.ID), r)
}

// GetReport loads one report.
func (s *Store) GetReport(ctx context.Context, circuitID, reportID string) (circuitcheck.IntegrationReport, error) {
	var r circuitcheck.IntegrationReport
	err := s.get(ctx, reportKey(circuitID, reportID), &r)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r, fmt.Errorf("%w: %s/%s", ErrReportNotFound, circuitID, reportID)
	}
	return r, err
}

// ListReports returns the stored reports for circuitID, oldest first.
func (s *Store) ListReports(ctx context.Context, circuitID string) ([]circuitcheck.IntegrationReport, error) {
	var out []circuitcheck.IntegrationReport
	err := s.scan(ctx, reportPrefix+circuitID+"/", func(val []byte) error {
		var r circuitcheck.IntegrationReport
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Report IDs are random, so key order is not time order.
	slices.SortStableFunc(out, func(a, b circuitcheck.IntegrationReport) int {
		return a.GeneratedAt.Compare(b.GeneratedAt)
	})
	return out, nil
}

func reportKey(circuitID, reportID string) string {
	return reportPrefix + circuitID + "/" + reportID
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// scan calls fn with the value of every key under prefix, in key order.
func (s *Store) scan(ctx context.Context, prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(fn); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
}
