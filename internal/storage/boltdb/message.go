package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
)

// Messages are stored under big-endian sequence keys, so the bucket's
// key order is the insertion order and the oldest entry is always first
// under a cursor.

// AppendMessage inserts a message at the tail of the log. The insert and
// the eviction of entries past the retention cap happen in one write
// transaction, so the cap is enforced against the true post-insert
// length even under concurrent appends.
func (s *Storage) AppendMessage(ctx context.Context, msg *models.Message) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)
		if bucket == nil {
			return fmt.Errorf("messages bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}

		// Evict from the head while over the retention cap. The cursor
		// sees this transaction's own insert, so the count is the true
		// post-insert length.
		cursor := bucket.Cursor()
		count := 0
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			count++
		}
		for ; count > storage.MessageLimit; count-- {
			if k, _ := cursor.First(); k == nil {
				break
			}
			if err := cursor.Delete(); err != nil {
				return fmt.Errorf("failed to evict oldest message: %w", err)
			}
		}

		return nil
	})
}

// LoadMessages returns all retained messages, oldest first.
func (s *Storage) LoadMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)
		if bucket == nil {
			return fmt.Errorf("messages bucket not found")
		}

		messages = make([]models.Message, 0, bucket.Stats().KeyN)

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var msg models.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, msg)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// CountMessages returns the number of retained messages.
func (s *Storage) CountMessages(ctx context.Context) (int, error) {
	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)
		if bucket == nil {
			return fmt.Errorf("messages bucket not found")
		}
		count = bucket.Stats().KeyN
		return nil
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}

// ClearMessages resets the log to empty. The sequence counter is left
// alone so message keys stay unique across the log's lifetime.
func (s *Storage) ClearMessages(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)
		if bucket == nil {
			return fmt.Errorf("messages bucket not found")
		}

		cursor := bucket.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			if err := cursor.Delete(); err != nil {
				return fmt.Errorf("failed to delete message: %w", err)
			}
		}

		return nil
	})
}
