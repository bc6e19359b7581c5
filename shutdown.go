package main

import (
	"github.com/gobwas/ws"
)

// Drain empties both registries, telling every waiting host and searching
// joiner that the server is closing. Delivery failures are logged and
// skipped. Registrations after Drain are refused.
func (s *Server) Drain() {
	rooms := s.Rooms.Drain()
	for gameCode, room := range rooms {
		if err := room.NotifyClosed(); err != nil {
			LogDrainSendFailed(gameCode, err)
			continue
		}
		LogRoomDrained(gameCode)
	}

	searchers := s.Searchers.Drain()
	for id, joiner := range searchers {
		err := joiner.SendStatus(StatusServerClosed)
		if err == nil {
			err = joiner.CloseWrite(ws.StatusGoingAway, "")
		}
		joiner.Close()
		if err != nil {
			LogDrainSendFailed(id.String(), err)
		}
	}
	LogDrained(len(rooms), len(searchers))
}
