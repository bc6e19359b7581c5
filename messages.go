package main

type Status string

const (
	StatusRegistered   Status = "Registered"
	StatusServerFull   Status = "ServerFull"
	StatusRoomFound    Status = "RoomFound"
	StatusRoomNotFound Status = "RoomNotFound"
	StatusInvalid      Status = "Invalid"
	StatusServerClosed Status = "ServerClosed"
)

// StatusMessage is every payload the server sends. Identity fields are only
// present for Registered and RoomFound.
type StatusMessage struct {
	Status Status `json:"status"`
	GameID string `json:"game-id,omitempty"`
	HostID string `json:"host-id,omitempty"`
	JoinID string `json:"join-id,omitempty"`
}
