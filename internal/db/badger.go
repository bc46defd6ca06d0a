package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"speakcoach/evaluator/models"
)

// BadgerOptions configures the embedded store.
type BadgerOptions struct {
	// Dir is the data directory. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory.
	InMemory bool

	Logger *logrus.Entry
}

// BadgerStore keeps msgpack-encoded evaluation records in BadgerDB.
// A session index points at the newest record of each session.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

var _ Store = (*BadgerStore)(nil)

func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("db: badger dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{log.WithField("component", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, now: nowUTC}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func evaluationKey(id string) []byte { return []byte("evaluation:" + id) }

func sessionKey(sessionID string) []byte { return []byte("session:" + sessionID) }

func (s *BadgerStore) Create(_ context.Context, sessionID, userID string, audioURL *string) (string, error) {
	now := s.now()
	rec := models.EvaluationRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Status:    models.StatusPending,
		AudioURL:  audioURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	val, err := msgpack.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("encode evaluation: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(evaluationKey(rec.ID), val); err != nil {
			return err
		}
		return txn.Set(sessionKey(sessionID), []byte(rec.ID))
	})
	if err != nil {
		return "", fmt.Errorf("insert evaluation for session %s: %w", sessionID, err)
	}
	return rec.ID, nil
}

func (s *BadgerStore) UpdateStatus(_ context.Context, id string, update models.StatusUpdate) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		rec.Status = update.Status
		rec.UpdatedAt = s.now()
		if update.Topics != nil {
			rec.Topics = update.Topics
		}
		if update.VoiceMetrics != nil {
			rec.VoiceMetrics = update.VoiceMetrics
		}
		if update.ErrorMessage != nil {
			rec.ErrorMessage = update.ErrorMessage
		}

		val, err := msgpack.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode evaluation: %w", err)
		}
		return txn.Set(evaluationKey(id), val)
	})
	if err != nil {
		return fmt.Errorf("update evaluation %s: %w", id, err)
	}
	return nil
}

func (s *BadgerStore) LatestBySession(_ context.Context, sessionID string) (*models.EvaluationRecord, error) {
	var rec *models.EvaluationRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec, err = getRecord(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func getRecord(txn *badger.Txn, id string) (*models.EvaluationRecord, error) {
	item, err := txn.Get(evaluationKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec models.EvaluationRecord
	err = item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("decode evaluation %s: %w", id, err)
	}
	return &rec, nil
}

// badgerLogger routes badger's internal logging through logrus.
type badgerLogger struct {
	log *logrus.Entry
}

func (l badgerLogger) Errorf(format string, args ...any) { l.log.Errorf(format, args...) }

func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warnf(format, args...) }

func (l badgerLogger) Infof(format string, args ...any) { l.log.Debugf(format, args...) }

func (l badgerLogger) Debugf(format string, args ...any) { l.log.Tracef(format, args...) }
