package main

import (
	"context"
	"sync"

	"github.com/gobwas/ws"
)

// Room is an open game waiting for its second player.
type Room struct {
	host   *PlayerWebsocket
	hostID string

	// ctx is cancelled by whoever removes the room from the registry, so the
	// host listener can tell a match or shutdown apart from a disconnect.
	ctx    context.Context
	cancel context.CancelFunc

	registered     chan struct{}
	registeredOnce sync.Once
}

func NewRoom(host *PlayerWebsocket) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		host:       host,
		ctx:        ctx,
		cancel:     cancel,
		registered: make(chan struct{}),
	}
}

// markRegistered releases writers waiting for the Registered message to go
// out first. hostID must be set before calling.
func (r *Room) markRegistered() {
	r.registeredOnce.Do(func() {
		close(r.registered)
	})
}

func (r *Room) HostID() string {
	<-r.registered
	return r.hostID
}

// NotifyMatched delivers RoomFound to the host and closes the host connection.
func (r *Room) NotifyMatched(gameCode string) error {
	defer r.finalize()
	if err := r.host.SendHostRoomFound(gameCode, r.HostID()); err != nil {
		return err
	}
	return r.host.CloseWrite(ws.StatusNormalClosure, "")
}

// NotifyClosed tells the host the server is going away and closes the host
// connection.
func (r *Room) NotifyClosed() error {
	defer r.finalize()
	<-r.registered
	if err := r.host.SendStatus(StatusServerClosed); err != nil {
		return err
	}
	return r.host.CloseWrite(ws.StatusGoingAway, "")
}

// Abandon closes the host connection without a status message.
func (r *Room) Abandon() error {
	defer r.finalize()
	<-r.registered
	return r.host.CloseWrite(ws.StatusGoingAway, "")
}

// finalize stops the host listener. Only the code path that removed the room
// from the registry calls it.
func (r *Room) finalize() {
	r.cancel()
	r.host.Close()
}
