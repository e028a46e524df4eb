package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// BoltStore persists sessions in a bbolt file so conversations survive restarts.
type BoltStore struct {
	db         *bolt.DB
	maxHistory int
}

func NewBoltStore(path string, maxHistory int) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	return &BoltStore{db: db, maxHistory: maxHistory}, nil
}

func (s *BoltStore) GetOrCreate(_ context.Context, id string) (*Session, error) {
	var sess *Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		existing, err := readSession(b, id)
		if err != nil {
			return err
		}
		if existing != nil {
			sess = existing
			return nil
		}
		sess = newSession(id, time.Now())
		return writeSession(b, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("get or create session %s: %w", id, err)
	}
	return sess, nil
}

func (s *BoltStore) Get(_ context.Context, id string) (*Session, error) {
	var sess *Session
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		sess, err = readSession(tx.Bucket(sessionsBucket), id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

func (s *BoltStore) SetOrder(_ context.Context, id, orderID string) error {
	return s.update(id, func(sess *Session) {
		sess.OrderID = orderID
	})
}

func (s *BoltStore) Append(_ context.Context, id string, ex Exchange) error {
	return s.update(id, func(sess *Session) {
		sess.History = appendCapped(sess.History, ex, s.maxHistory)
	})
}

func (s *BoltStore) update(id string, fn func(*Session)) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		sess, err := readSession(b, id)
		if err != nil {
			return err
		}
		now := time.Now()
		if sess == nil {
			sess = newSession(id, now)
		}
		fn(sess)
		sess.UpdatedAt = now
		return writeSession(b, sess)
	})
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func readSession(b *bolt.Bucket, id string) (*Session, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if sess.History == nil {
		sess.History = []Exchange{}
	}
	return &sess, nil
}

func writeSession(b *bolt.Bucket, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return b.Put([]byte(sess.ID), data)
}
