package badger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/session"
)

// SessionStorage persists the session State as a single JSON value.
type SessionStorage struct {
	db  *badger.DB
	key []byte
}

// Open opens (or creates) a Badger directory. An empty dir opens an
// in-memory database.
func Open(dir string, logger *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts.Logger = &zapLogger{logger: logger.Sugar()}
	} else {
		opts.Logger = nil
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", dir, err)
	}
	return db, nil
}

func NewSessionStorage(db *badger.DB) *SessionStorage {
	return &SessionStorage{db: db, key: []byte(session.StorageKey)}
}

// Load returns an empty State when nothing has been saved yet.
func (s *SessionStorage) Load() (session.State, error) {
	var state session.State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return session.State{}, nil
	}
	if err != nil {
		return session.State{}, err
	}
	return state, nil
}

func (s *SessionStorage) Save(state session.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, payload)
	})
}

type zapLogger struct {
	logger *zap.SugaredLogger
}

func (l *zapLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *zapLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *zapLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }
