package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// PlayerWebsocket is the server side of one player's connection. All writes,
// including replies to control frames, go through a single lock so frames
// never interleave.
type PlayerWebsocket struct {
	conn   net.Conn
	source io.Reader
	// writeTimeout bounds every write so a peer that stops reading cannot
	// hold up the sender.
	writeTimeout time.Duration
	writeLock    sync.Mutex
	closeOnce    sync.Once
}

const defaultWriteTimeout = time.Second * 5

func NewPlayerWebsocket(conn net.Conn) *PlayerWebsocket {
	return &PlayerWebsocket{conn: conn, source: conn, writeTimeout: defaultWriteTimeout}
}

// NewUpgradedWebsocket wraps a connection returned by ws.UpgradeHTTP. Bytes
// the client sent right behind its handshake may already sit in rw and are
// read before the connection itself.
func NewUpgradedWebsocket(conn net.Conn, rw *bufio.ReadWriter) *PlayerWebsocket {
	p := NewPlayerWebsocket(conn)
	if rw == nil || rw.Reader.Buffered() == 0 {
		return p
	}
	buffered, _ := rw.Reader.Peek(rw.Reader.Buffered())
	p.source = io.MultiReader(bytes.NewReader(bytes.Clone(buffered)), conn)
	return p
}

func (p *PlayerWebsocket) write(frame []byte) error {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout)); err != nil {
		return err
	}
	_, err := p.conn.Write(frame)
	return err
}

// writeFrame encodes the whole frame first so it reaches the connection in a
// single locked write.
func (p *PlayerWebsocket) writeFrame(encode func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return err
	}
	return p.write(buf.Bytes())
}

func (p *PlayerWebsocket) sendMessage(message any) error {
	encoded, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return p.writeFrame(func(w io.Writer) error {
		return wsutil.WriteServerText(w, encoded)
	})
}

func (p *PlayerWebsocket) SendRegistered(gameCode, hostID string) error {
	return p.sendMessage(StatusMessage{Status: StatusRegistered, GameID: gameCode, HostID: hostID})
}

func (p *PlayerWebsocket) SendHostRoomFound(gameCode, hostID string) error {
	return p.sendMessage(StatusMessage{Status: StatusRoomFound, GameID: gameCode, HostID: hostID})
}

func (p *PlayerWebsocket) SendJoinRoomFound(gameCode, joinID string) error {
	return p.sendMessage(StatusMessage{Status: StatusRoomFound, GameID: gameCode, JoinID: joinID})
}

func (p *PlayerWebsocket) SendStatus(status Status) error {
	return p.sendMessage(StatusMessage{Status: status})
}

// CloseWrite sends a close frame. The peer may still be read from until it
// answers or drops.
func (p *PlayerWebsocket) CloseWrite(code ws.StatusCode, reason string) error {
	body := ws.NewCloseFrameBody(code, reason)
	return p.writeFrame(func(w io.Writer) error {
		return ws.WriteFrame(w, ws.NewCloseFrame(body))
	})
}

// Close drops the underlying connection. Safe to call more than once.
func (p *PlayerWebsocket) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.conn.Close()
	})
	return err
}

// handleControl answers pings and close frames through the write lock.
func (p *PlayerWebsocket) handleControl(hdr ws.Header, r io.Reader) error {
	var reply bytes.Buffer
	err := wsutil.ControlHandler{
		Src:                 r,
		Dst:                 &reply,
		State:               ws.StateServerSide,
		DisableSrcCiphering: true,
	}.Handle(hdr)
	if reply.Len() > 0 {
		if werr := p.write(reply.Bytes()); err == nil {
			err = werr
		}
	}
	return err
}

// ReadFrame returns the next data frame. A close frame from the peer is
// answered and reported as wsutil.ClosedError.
func (p *PlayerWebsocket) ReadFrame() ([]byte, ws.OpCode, error) {
	rd := &wsutil.Reader{
		Source:         p.source,
		State:          ws.StateServerSide,
		CheckUTF8:      true,
		OnIntermediate: p.handleControl,
	}
	for {
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, 0, err
		}
		if hdr.OpCode.IsControl() {
			if err := p.handleControl(hdr, rd); err != nil {
				return nil, 0, err
			}
			continue
		}
		data, err := io.ReadAll(rd)
		return data, hdr.OpCode, err
	}
}
