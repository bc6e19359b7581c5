package main

import (
	"errors"
	"fmt"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"

	"uttt-matchmaker/code"
)

// JoinSession reads game codes from joinWs until one matches an open room,
// the joiner leaves or sends something other than text.
func (s *Server) JoinSession(joinWs *PlayerWebsocket, ip string) {
	defer joinWs.Close()

	searcherID := uuid.New()
	logger := GetSearcherLogger(ip, searcherID)
	if err := s.Searchers.Register(searcherID, joinWs); err != nil {
		logger.Refused(err)
		if err := joinWs.SendStatus(StatusServerClosed); err != nil {
			logger.SendFailed(err)
		}
		if err := joinWs.CloseWrite(ws.StatusGoingAway, ""); err != nil {
			logger.SendFailed(err)
		}
		return
	}
	defer s.Searchers.Remove(searcherID)
	logger.Searching()

	for {
		data, op, err := joinWs.ReadFrame()
		if err != nil {
			var closed wsutil.ClosedError
			if errors.As(err, &closed) {
				logger.JoinerLeft()
			} else {
				logger.JoinerDisconnected(err)
			}
			return
		}
		if op != ws.OpText {
			logger.InvalidMessage(op)
			if err := joinWs.SendStatus(StatusInvalid); err != nil {
				logger.SendFailed(err)
				return
			}
			if err := joinWs.CloseWrite(ws.StatusUnsupportedData, ""); err != nil {
				logger.SendFailed(err)
			}
			return
		}

		gameCode := string(data)
		room, found := s.takeRoom(gameCode)
		if !found {
			logger.RoomNotFound(gameCode)
			if err := joinWs.SendStatus(StatusRoomNotFound); err != nil {
				logger.SendFailed(err)
				return
			}
			continue
		}

		s.Searchers.Remove(searcherID)
		matchLogger := logger.WithGameCode(gameCode)
		if err := s.completeMatch(gameCode, room, joinWs, searcherID); err != nil {
			matchLogger.MatchFailed(err)
			return
		}
		matchLogger.Matched()
		return
	}
}

// takeRoom looks a code up only if it could have been generated.
func (s *Server) takeRoom(gameCode string) (*Room, bool) {
	if !code.Valid(gameCode) {
		return nil, false
	}
	return s.Rooms.Take(gameCode)
}

// completeMatch notifies both players and finalizes room. The caller must
// have removed room from the registry.
func (s *Server) completeMatch(gameCode string, room *Room, joinWs *PlayerWebsocket, searcherID uuid.UUID) error {
	joinID, err := s.Tokens.Issue(gameCode, RoleJoin, searcherID)
	if err == nil {
		err = joinWs.SendJoinRoomFound(gameCode, joinID)
	}
	if err == nil {
		err = joinWs.CloseWrite(ws.StatusNormalClosure, "")
	}
	if err != nil {
		if err := room.Abandon(); err != nil {
			LogAbandonFailed(gameCode, err)
		}
		return fmt.Errorf("notifying joiner: %w", err)
	}
	if err := room.NotifyMatched(gameCode); err != nil {
		return fmt.Errorf("notifying host: %w", err)
	}
	return nil
}
