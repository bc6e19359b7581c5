package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"uttt-matchmaker/code"
)

const testSecret = "test-secret"

// sequenceGenerator returns codes in order and repeats the last one.
func sequenceGenerator(codes ...string) code.Generator {
	var lock sync.Mutex
	i := 0
	return func() string {
		lock.Lock()
		defer lock.Unlock()
		c := codes[min(i, len(codes)-1)]
		i++
		return c
	}
}

func newTestServer(t *testing.T, maxRooms int, generate code.Generator) (*Server, *httptest.Server) {
	t.Helper()
	server := NewServer(maxRooms, NewSessionTokens(testSecret), generate)
	srv := httptest.NewServer(NewHTTPServer(server, []string{"*"}))
	t.Cleanup(srv.Close)
	return server, srv
}

type testClient struct {
	conn net.Conn
	rw   io.ReadWriter
}

func dial(t *testing.T, srv *httptest.Server, path string) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, br, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	var r io.Reader = conn
	if br != nil {
		r = br
	}
	return &testClient{conn: conn, rw: struct {
		io.Reader
		io.Writer
	}{r, conn}}
}

func (c *testClient) read(t *testing.T) StatusMessage {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	data, err := wsutil.ReadServerText(c.rw)
	require.NoError(t, err)
	var msg StatusMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// expectClosed fails unless the server ends the connection.
func (c *testClient) expectClosed(t *testing.T) {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := wsutil.ReadServerText(c.rw)
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		require.False(t, netErr.Timeout(), "connection was not closed")
	}
}

func (c *testClient) sendText(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, wsutil.WriteClientText(c.conn, []byte(text)))
}

func (c *testClient) sendBinary(t *testing.T, data []byte) {
	t.Helper()
	require.NoError(t, wsutil.WriteClientBinary(c.conn, data))
}

func (c *testClient) sendClose(t *testing.T) {
	t.Helper()
	body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
	require.NoError(t, wsutil.WriteClientMessage(c.conn, ws.OpClose, body))
}

// registerHost opens a host connection and returns it with its Registered message.
func registerHost(t *testing.T, srv *httptest.Server) (*testClient, StatusMessage) {
	t.Helper()
	host := dial(t, srv, "/ws/host")
	msg := host.read(t)
	require.Equal(t, StatusRegistered, msg.Status)
	return host, msg
}

type lockedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

// captureLogs redirects the global logger for the rest of the test.
func captureLogs(t *testing.T) *lockedBuffer {
	t.Helper()
	logs := &lockedBuffer{}
	previous := log.Logger
	log.Logger = zerolog.New(logs)
	t.Cleanup(func() { log.Logger = previous })
	return logs
}

// closedPipe returns a connection whose peer is already gone.
func closedPipe(t *testing.T) net.Conn {
	t.Helper()
	end, peer := net.Pipe()
	require.NoError(t, peer.Close())
	t.Cleanup(func() { end.Close() })
	return end
}

// countLogLines counts log lines containing every one of parts.
func countLogLines(logs string, parts ...string) int {
	count := 0
	for _, line := range strings.Split(logs, "\n") {
		matched := true
		for _, part := range parts {
			if !strings.Contains(line, part) {
				matched = false
				break
			}
		}
		if matched && line != "" {
			count++
		}
	}
	return count
}
