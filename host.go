package main

import (
	"errors"

	"github.com/gobwas/ws"
	"github.com/google/uuid"
)

// HostSession creates a room for hostWs and keeps it open until a joiner
// takes it, the host disconnects or the server drains.
func (s *Server) HostSession(hostWs *PlayerWebsocket, ip string) {
	defer hostWs.Close()

	room := NewRoom(hostWs)
	gameCode, err := s.CreateRoom(room)
	if err != nil {
		room.cancel()
	}
	switch {
	case errors.Is(err, ErrServerFull):
		LogServerFull(ip, s.MaxRooms)
		if err := hostWs.SendStatus(StatusServerFull); err != nil {
			LogSendFailed(ip, err)
		}
		if err := hostWs.CloseWrite(ws.StatusNormalClosure, ""); err != nil {
			LogSendFailed(ip, err)
		}
		return
	case err != nil:
		LogRegistrationRefused(ip, err)
		if err := hostWs.SendStatus(StatusServerClosed); err != nil {
			LogSendFailed(ip, err)
		}
		if err := hostWs.CloseWrite(ws.StatusGoingAway, ""); err != nil {
			LogSendFailed(ip, err)
		}
		return
	}

	logger := GetSessionLogger(ip, gameCode)
	hostUUID := uuid.New()
	logger = logger.WithHost(hostUUID)
	hostID, err := s.Tokens.Issue(gameCode, RoleHost, hostUUID)
	if err == nil {
		room.hostID = hostID
		err = hostWs.SendRegistered(gameCode, hostID)
	}
	room.markRegistered()
	if err != nil {
		logger.RegistrationFailed(err)
		if s.Rooms.Remove(gameCode, room) {
			logger.RemovingRoom()
			room.finalize()
		}
		return
	}
	logger.Registered()

	s.listenHost(gameCode, room, logger)
}

// listenHost discards everything the host sends; it only exists to notice the
// connection going away.
func (s *Server) listenHost(gameCode string, room *Room, logger SessionLogger) {
	for {
		if _, _, err := room.host.ReadFrame(); err != nil {
			break
		}
	}
	if room.ctx.Err() != nil {
		logger.HostReleased()
		return
	}
	if s.Rooms.Remove(gameCode, room) {
		logger.HostDisconnected()
		room.finalize()
		return
	}
	// Taken or drained concurrently; the remover finalizes.
	logger.HostReleased()
}
