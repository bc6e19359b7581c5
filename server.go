package main

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"uttt-matchmaker/code"
)

var (
	ErrServerFull     = errors.New("maximum number of open rooms reached")
	ErrCodeTaken      = errors.New("game code already registered")
	ErrRegistryClosed = errors.New("registry closed")
)

// RoomRegistry maps game codes to open rooms. Every method is atomic; a room
// handed out by Take, Remove or Drain belongs to the caller from then on.
type RoomRegistry interface {
	// Register inserts room under code only if code is absent and there is
	// capacity left.
	Register(code string, room *Room) error
	Take(code string) (*Room, bool)
	// Remove deletes code only while it still maps to room.
	Remove(code string, room *Room) bool
	Drain() map[string]*Room
	Len() int
}

// SearcherRegistry tracks joiners that have not matched yet so shutdown can
// reach them.
type SearcherRegistry interface {
	Register(id uuid.UUID, joiner *PlayerWebsocket) error
	Remove(id uuid.UUID)
	Drain() map[uuid.UUID]*PlayerWebsocket
	Len() int
}

type RoomMap struct {
	rooms    map[string]*Room
	maxRooms int
	closed   bool
	lock     sync.Mutex
}

func NewRoomMap(maxRooms int) *RoomMap {
	return &RoomMap{rooms: make(map[string]*Room), maxRooms: maxRooms}
}

func (m *RoomMap) Register(code string, room *Room) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrRegistryClosed
	}
	if len(m.rooms) >= m.maxRooms {
		return ErrServerFull
	}
	if _, exists := m.rooms[code]; exists {
		return ErrCodeTaken
	}
	m.rooms[code] = room
	return nil
}

func (m *RoomMap) Take(code string) (*Room, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	room, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
	}
	return room, exists
}

func (m *RoomMap) Remove(code string, room *Room) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	if current, exists := m.rooms[code]; !exists || current != room {
		return false
	}
	delete(m.rooms, code)
	return true
}

// Drain empties the map and refuses registrations from then on.
func (m *RoomMap) Drain() map[string]*Room {
	m.lock.Lock()
	defer m.lock.Unlock()
	drained := m.rooms
	m.rooms = make(map[string]*Room)
	m.closed = true
	return drained
}

func (m *RoomMap) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.rooms)
}

type SearcherMap struct {
	searchers map[uuid.UUID]*PlayerWebsocket
	closed    bool
	lock      sync.Mutex
}

func NewSearcherMap() *SearcherMap {
	return &SearcherMap{searchers: make(map[uuid.UUID]*PlayerWebsocket)}
}

func (m *SearcherMap) Register(id uuid.UUID, joiner *PlayerWebsocket) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrRegistryClosed
	}
	m.searchers[id] = joiner
	return nil
}

func (m *SearcherMap) Remove(id uuid.UUID) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.searchers, id)
}

func (m *SearcherMap) Drain() map[uuid.UUID]*PlayerWebsocket {
	m.lock.Lock()
	defer m.lock.Unlock()
	drained := m.searchers
	m.searchers = make(map[uuid.UUID]*PlayerWebsocket)
	m.closed = true
	return drained
}

func (m *SearcherMap) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.searchers)
}

// Server is the process-wide handle every session shares.
type Server struct {
	Rooms        RoomRegistry
	Searchers    SearcherRegistry
	Tokens       *SessionTokens
	MaxRooms     int
	generateCode code.Generator
}

func NewServer(maxRooms int, tokens *SessionTokens, generateCode code.Generator) *Server {
	return &Server{
		Rooms:        NewRoomMap(maxRooms),
		Searchers:    NewSearcherMap(),
		Tokens:       tokens,
		MaxRooms:     maxRooms,
		generateCode: generateCode,
	}
}

// CreateRoom registers room under a fresh code, redrawing on collisions.
func (s *Server) CreateRoom(room *Room) (string, error) {
	for {
		gameCode := s.generateCode()
		err := s.Rooms.Register(gameCode, room)
		if errors.Is(err, ErrCodeTaken) {
			LogDuplicateCode(gameCode)
			continue
		}
		if err != nil {
			return "", err
		}
		return gameCode, nil
	}
}
