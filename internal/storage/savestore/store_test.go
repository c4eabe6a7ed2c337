package savestore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	payload := bytes.Repeat([]byte("scenario: vault13\n"), 200)

	require.NoError(t, s.Put(3, payload))
	got, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_GetEmptySlot(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(0)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_SlotRange(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Put(-1, []byte("x")))
	assert.Error(t, s.Put(SlotCount, []byte("x")))
	_, err := s.Get(SlotCount)
	assert.Error(t, err)
}

func TestStore_LatestAndSlots(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Latest()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(5, []byte("a")))
	require.NoError(t, s.Put(2, []byte("b")))
	slot, ok, err := s.Latest()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, slot)

	slots, err := s.Slots()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, slots)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(9, []byte("persisted")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(9)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestPropertyPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	rapid.Check(t, func(rt *rapid.T) {
		slot := rapid.IntRange(0, SlotCount-1).Draw(rt, "slot")
		data := rapid.SliceOfN(rapid.Byte(), 1, 4096).Draw(rt, "data")
		if err := s.Put(slot, data); err != nil {
			rt.Fatalf("put: %v", err)
		}
		got, err := s.Get(slot)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if !bytes.Equal(got, data) {
			rt.Fatalf("slot %d round trip mismatch", slot)
		}
	})
}
