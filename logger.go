package main

import (
	"github.com/gobwas/ws"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func SetLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// SessionLogger carries the identity of one host or joiner connection.
type SessionLogger struct {
	zerolog zerolog.Logger
}

func GetSessionLogger(ip string, gameCode string) SessionLogger {
	return SessionLogger{log.With().Str("ip", ip).Str("game-code", gameCode).Logger()}
}

func GetSearcherLogger(ip string, searcherID uuid.UUID) SessionLogger {
	return SessionLogger{log.With().Str("ip", ip).Str("searcher-id", searcherID.String()).Logger()}
}

func (l SessionLogger) WithHost(hostID uuid.UUID) SessionLogger {
	return SessionLogger{l.zerolog.With().Str("host-id", hostID.String()).Logger()}
}

func (l SessionLogger) WithGameCode(gameCode string) SessionLogger {
	return SessionLogger{l.zerolog.With().Str("game-code", gameCode).Logger()}
}

func (l SessionLogger) Registered() {
	l.zerolog.Info().Msg("Room registered")
}

func (l SessionLogger) RegistrationFailed(err error) {
	l.zerolog.Error().Err(err).Msg("Could not deliver registration")
}

func (l SessionLogger) RemovingRoom() {
	l.zerolog.Info().Msg("Removing room")
}

func (l SessionLogger) HostDisconnected() {
	l.zerolog.Info().Msg("Host disconnected")
}

func (l SessionLogger) HostReleased() {
	l.zerolog.Debug().Msg("Host listener stopped")
}

func (l SessionLogger) Searching() {
	l.zerolog.Info().Msg("Join attempt started")
}

func (l SessionLogger) Refused(err error) {
	l.zerolog.Info().Err(err).Msg("Join attempt refused")
}

func (l SessionLogger) RoomNotFound(gameCode string) {
	l.zerolog.Info().Str("requested-code", gameCode).Msg("Room not found")
}

func (l SessionLogger) InvalidMessage(op ws.OpCode) {
	l.zerolog.Info().Uint8("opcode", uint8(op)).Msg("Invalid message received")
}

func (l SessionLogger) JoinerLeft() {
	l.zerolog.Info().Msg("Joiner left before entering a valid code")
}

func (l SessionLogger) JoinerDisconnected(err error) {
	l.zerolog.Info().Err(err).Msg("Joiner disconnected")
}

func (l SessionLogger) SendFailed(err error) {
	l.zerolog.Error().Err(err).Msg("Error sending message")
}

func (l SessionLogger) Matched() {
	l.zerolog.Info().Msg("Join & host notified")
}

func (l SessionLogger) MatchFailed(err error) {
	l.zerolog.Error().Err(err).Msg("Match could not be delivered")
}

func LogDuplicateCode(gameCode string) {
	log.Info().Str("game-code", gameCode).Msg("Duplicate code drawn")
}

func LogServerFull(ip string, maxRooms int) {
	log.Warn().Str("ip", ip).Int("max-rooms", maxRooms).Msg("Max rooms hit")
}

func LogRegistrationRefused(ip string, err error) {
	log.Info().Str("ip", ip).Err(err).Msg("Room registration refused")
}

func LogSendFailed(ip string, err error) {
	log.Error().Str("ip", ip).Err(err).Msg("Error sending message")
}

func LogAbandonFailed(gameCode string, err error) {
	log.Warn().Str("game-code", gameCode).Err(err).Msg("Could not close abandoned room")
}

func LogRoomDrained(gameCode string) {
	log.Info().Str("game-code", gameCode).Msg("Room closed by shutdown")
}

func LogDrainSendFailed(key string, err error) {
	log.Warn().Str("key", key).Err(err).Msg("Could not notify during shutdown")
}

func LogDrained(rooms, searchers int) {
	log.Info().Int("rooms", rooms).Int("searchers", searchers).Msg("Registries drained")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogShuttingDown() {
	log.Info().Msg("Shutting down")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}

func LogErrorWhileWritingResponse(err error) {
	log.Error().Err(err).Msg("Error while writing response")
}

func LogServerStopped(err error) {
	log.Error().Err(err).Msg("Server stopped")
}
