// Package savestore persists quick-save slots in an embedded bbolt file. Each
// slot holds one zstd-compressed snapshot.
package savestore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	bbolt "go.etcd.io/bbolt"
)

// SlotCount is the number of save slots.
const SlotCount = 10

// ErrNotFound is returned when a slot holds no save.
var ErrNotFound = errors.New("savestore: slot is empty")

var (
	bucketSlots = []byte("slots")
	bucketMeta  = []byte("meta")
	keyLatest   = []byte("latest")
)

// Store wraps a bbolt database of save slots.
type Store struct {
	bolt *bbolt.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open opens or creates the save file at path and ensures all buckets exist.
//
// Postcondition: Returns a usable Store or a non-nil error.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("savestore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSlots, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("savestore: create buckets: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("savestore: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("savestore: zstd decoder: %w", err)
	}
	return &Store{bolt: db, enc: enc, dec: dec}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.bolt.Close()
		return fmt.Errorf("savestore: close encoder: %w", err)
	}
	return s.bolt.Close()
}

// Path returns the filesystem path of the underlying database.
func (s *Store) Path() string {
	return s.bolt.Path()
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("savestore: slot %d out of range [0,%d)", slot, SlotCount)
	}
	return nil
}

// Put compresses data into slot and marks it as the latest save.
//
// Precondition: 0 <= slot < SlotCount.
func (s *Store) Put(slot int, data []byte) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	compressed := s.enc.EncodeAll(data, nil)
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSlots).Put(intToKey(slot), compressed); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyLatest, intToKey(slot))
	})
}

// Get returns the decompressed contents of slot, or ErrNotFound.
//
// Precondition: 0 <= slot < SlotCount.
func (s *Store) Get(slot int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	var compressed []byte
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketSlots).Get(intToKey(slot))
		if v == nil {
			return ErrNotFound
		}
		compressed = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	data, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("savestore: decode slot %d: %w", slot, err)
	}
	return data, nil
}

// Latest returns the most recently written slot; ok is false when nothing
// has been saved yet.
func (s *Store) Latest() (slot int, ok bool, err error) {
	err = s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(keyLatest)
		if v == nil {
			return nil
		}
		slot, ok = keyToInt(v), true
		return nil
	})
	return slot, ok, err
}

// Slots lists every occupied slot in ascending order.
func (s *Store) Slots() ([]int, error) {
	var slots []int
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSlots).ForEach(func(k, _ []byte) error {
			slots = append(slots, keyToInt(k))
			return nil
		})
	})
	return slots, err
}

func intToKey(n int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func keyToInt(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}
