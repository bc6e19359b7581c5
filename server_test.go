package main

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uttt-matchmaker/code"
)

func TestRoomMapRegister(t *testing.T) {
	rooms := NewRoomMap(2)
	first, second := NewRoom(nil), NewRoom(nil)

	require.NoError(t, rooms.Register("100000", first))
	assert.ErrorIs(t, rooms.Register("100000", second), ErrCodeTaken)
	require.NoError(t, rooms.Register("100001", second))
	assert.ErrorIs(t, rooms.Register("100002", NewRoom(nil)), ErrServerFull)
	assert.Equal(t, 2, rooms.Len())
}

func TestRoomMapTake(t *testing.T) {
	rooms := NewRoomMap(10)
	room := NewRoom(nil)
	require.NoError(t, rooms.Register("100000", room))

	taken, ok := rooms.Take("100000")
	require.True(t, ok)
	assert.Same(t, room, taken)

	_, ok = rooms.Take("100000")
	assert.False(t, ok)
	assert.Zero(t, rooms.Len())
}

func TestRoomMapRemoveOnlyOwnRoom(t *testing.T) {
	rooms := NewRoomMap(10)
	stale, current := NewRoom(nil), NewRoom(nil)
	require.NoError(t, rooms.Register("100000", stale))
	_, ok := rooms.Take("100000")
	require.True(t, ok)
	require.NoError(t, rooms.Register("100000", current))

	assert.False(t, rooms.Remove("100000", stale))
	assert.Equal(t, 1, rooms.Len())
	assert.True(t, rooms.Remove("100000", current))
	assert.False(t, rooms.Remove("100000", current))
	assert.Zero(t, rooms.Len())
}

func TestRoomMapDrain(t *testing.T) {
	rooms := NewRoomMap(10)
	require.NoError(t, rooms.Register("100000", NewRoom(nil)))
	require.NoError(t, rooms.Register("100001", NewRoom(nil)))

	drained := rooms.Drain()
	assert.Len(t, drained, 2)
	assert.Contains(t, drained, "100000")
	assert.Zero(t, rooms.Len())
	assert.ErrorIs(t, rooms.Register("100002", NewRoom(nil)), ErrRegistryClosed)
}

func TestRoomMapConcurrentRegistrations(t *testing.T) {
	const maxRooms = 50
	server := NewServer(maxRooms, NewSessionTokens(testSecret), code.GenerateRandom)

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
		full     atomic.Int32
		codes    sync.Map
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gameCode, err := server.CreateRoom(NewRoom(nil))
			if err != nil {
				assert.ErrorIs(t, err, ErrServerFull)
				full.Add(1)
				return
			}
			_, duplicate := codes.LoadOrStore(gameCode, true)
			assert.False(t, duplicate, "code %s handed out twice", gameCode)
			admitted.Add(1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, maxRooms, admitted.Load())
	assert.EqualValues(t, 150, full.Load())
	assert.Equal(t, maxRooms, server.Rooms.Len())
}

func TestRoomMapConcurrentTake(t *testing.T) {
	rooms := NewRoomMap(10)
	require.NoError(t, rooms.Register("100000", NewRoom(nil)))

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := rooms.Take("100000"); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, winners.Load())
}

func TestCreateRoomRedrawsOnCollision(t *testing.T) {
	server := NewServer(10, NewSessionTokens(testSecret), sequenceGenerator("100000", "100000", "100000", "100001"))

	first, err := server.CreateRoom(NewRoom(nil))
	require.NoError(t, err)
	second, err := server.CreateRoom(NewRoom(nil))
	require.NoError(t, err)

	assert.Equal(t, "100000", first)
	assert.Equal(t, "100001", second)
}

func TestSearcherMap(t *testing.T) {
	searchers := NewSearcherMap()
	a, b := uuid.New(), uuid.New()
	require.NoError(t, searchers.Register(a, nil))
	require.NoError(t, searchers.Register(b, nil))
	searchers.Remove(a)
	assert.Equal(t, 1, searchers.Len())

	drained := searchers.Drain()
	assert.Len(t, drained, 1)
	assert.Contains(t, drained, b)
	assert.Zero(t, searchers.Len())
	assert.ErrorIs(t, searchers.Register(uuid.New(), nil), ErrRegistryClosed)
}
