package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gobwas/ws"
)

type HTTPHandler struct {
	Server *Server
}

func NewHTTPServer(server *Server, allowedOrigins []string) http.Handler {
	httpHandler := HTTPHandler{server}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/ws/host", httpHandler.hostWebsocket())
	r.Get("/ws/join", httpHandler.joinWebsocket())
	r.Get("/session", httpHandler.getSession())
	r.Get("/stats", httpHandler.getStats())
	return r
}

func (h HTTPHandler) hostWebsocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, rw, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		h.Server.HostSession(NewUpgradedWebsocket(conn, rw), r.RemoteAddr)
	}
}

func (h HTTPHandler) joinWebsocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, rw, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		h.Server.JoinSession(NewUpgradedWebsocket(conn, rw), r.RemoteAddr)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		LogErrorWhileWritingResponse(err)
	}
}

func (h HTTPHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.Server.Tokens.Verify(r.URL.Query().Get("token"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"game-id": claims.GameID,
			"role":    string(claims.Role),
			"id":      claims.ID,
		})
	}
}

func (h HTTPHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{
			"rooms":     h.Server.Rooms.Len(),
			"searchers": h.Server.Searchers.Len(),
			"max-rooms": h.Server.MaxRooms,
		})
	}
}
