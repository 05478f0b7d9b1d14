package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"

	"github.com/i-am-sentient/sce/internal/engine"
)

// Storage keys
const (
	keyOptions     = "options"
	keyStats       = "stats"
	keyPerftPrefix = "perft/"
)

// EngineOptions is the persisted form of engine.Options.
type EngineOptions struct {
	DefaultDepth     int   `json:"default_depth"`
	MoveOverheadMs   int64 `json:"move_overhead_ms"`
	DefaultMovesToGo int   `json:"default_moves_to_go"`
	MinThinkTimeMs   int64 `json:"min_think_time_ms"`
}

func fromEngineOptions(o engine.Options) EngineOptions {
	return EngineOptions{
		DefaultDepth:     o.DefaultDepth,
		MoveOverheadMs:   o.MoveOverhead.Milliseconds(),
		DefaultMovesToGo: o.DefaultMovesToGo,
		MinThinkTimeMs:   o.MinThinkTime.Milliseconds(),
	}
}

func (o EngineOptions) toEngine() engine.Options {
	return engine.Options{
		DefaultDepth:     o.DefaultDepth,
		MoveOverhead:     time.Duration(o.MoveOverheadMs) * time.Millisecond,
		DefaultMovesToGo: o.DefaultMovesToGo,
		MinThinkTime:     time.Duration(o.MinThinkTimeMs) * time.Millisecond,
	}
}

// SearchStats accumulates statistics over all recorded searches.
type SearchStats struct {
	Searches     int           `json:"searches"`
	TotalNodes   uint64        `json:"total_nodes"`
	TotalTime    time.Duration `json:"total_time"`
	DeepestDepth int           `json:"deepest_depth"`
	Timeouts     int           `json:"timeouts"` // searches that completed no depth
	LastSearch   time.Time     `json:"last_search"`
}

// AverageNPS returns the mean search speed over all recorded searches.
func (s *SearchStats) AverageNPS() uint64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return uint64(float64(s.TotalNodes) / s.TotalTime.Seconds())
}

// PerftResult is a cached perft count, optionally with its divide.
type PerftResult struct {
	Nodes   uint64            `json:"nodes"`
	Divide  map[string]uint64 `json:"divide,omitempty"`
	Elapsed time.Duration     `json:"elapsed"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log logr.Logger
}

// NewStorage opens the database in the default data directory.
func NewStorage(log logr.Logger) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return Open(dbDir, log)
}

// Open opens or creates the database in dir.
func Open(dir string, log logr.Logger) (*Storage, error) {
	log = log.WithName("storage")

	opts := badger.DefaultOptions(dir)
	opts.Logger = newBadgerLogger(log)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}

	log.V(1).Info("opened database", "dir", dir)
	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// getJSON decodes the value under key into v. found is false when the key
// does not exist, leaving v untouched.
func getJSON(txn *badger.Txn, key string, v any) (found bool, err error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// SaveOptions saves the engine options.
func (s *Storage) SaveOptions(opts engine.Options) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyOptions, fromEngineOptions(opts))
	})
}

// LoadOptions loads the engine options, returning defaults if none were saved.
func (s *Storage) LoadOptions() (engine.Options, error) {
	stored := fromEngineOptions(engine.DefaultOptions())

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyOptions, &stored)
		return err
	})
	if err != nil {
		return engine.DefaultOptions(), fmt.Errorf("storage: load options: %w", err)
	}

	return stored.toEngine(), nil
}

// RecordSearch adds a finished search to the statistics.
func (s *Storage) RecordSearch(res engine.Result) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var stats SearchStats
		if _, err := getJSON(txn, keyStats, &stats); err != nil {
			return err
		}

		stats.Searches++
		stats.TotalNodes += res.Nodes
		stats.TotalTime += res.Elapsed
		if res.Depth > stats.DeepestDepth {
			stats.DeepestDepth = res.Depth
		}
		if res.Depth == 0 {
			stats.Timeouts++
		}
		stats.LastSearch = time.Now()

		return setJSON(txn, keyStats, &stats)
	})
}

// LoadSearchStats loads search statistics, returns empty stats if not found
func (s *Storage) LoadSearchStats() (*SearchStats, error) {
	stats := &SearchStats{}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})

	return stats, err
}

func perftKey(fen string, depth int) string {
	return fmt.Sprintf("%s%d/%s", keyPerftPrefix, depth, fen)
}

// LoadPerft returns the cached perft result for fen at depth.
func (s *Storage) LoadPerft(fen string, depth int) (PerftResult, bool, error) {
	var res PerftResult
	var found bool

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, perftKey(fen, depth), &res)
		return err
	})

	return res, found, err
}

// SavePerft caches a perft result for fen at depth.
func (s *Storage) SavePerft(fen string, depth int, res PerftResult) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, perftKey(fen, depth), res)
	})
}

// ClearPerft drops every cached perft result and returns how many there were.
func (s *Storage) ClearPerft() (int, error) {
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPerftPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	s.log.V(1).Info("cleared perft cache", "entries", len(keys))
	return len(keys), nil
}
