package ws

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

// stream adapts the message based websocket connection to the byte stream a link
// expects. Every write becomes one binary message, reads hand out message contents
// in order and keep what does not fit into the caller's buffer.
type stream struct {
	conn *websocket.Conn

	rest []byte // unread part of the last message, only touched by the reader

	writeMu sync.Mutex // gorilla allows one concurrent writer
	closed  sync.Once
}

func newStream(conn *websocket.Conn) *stream {
	return &stream{conn: conn}
}

func (s *stream) Read(p []byte) (int, error) {
	for len(s.rest) == 0 {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		s.rest = msg
	}

	n := copy(p, s.rest)
	s.rest = s.rest[n:]
	return n, nil
}

func (s *stream) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a close message to the peer and closes the connection
func (s *stream) Close() error {
	err := net.ErrClosed
	s.closed.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if cerr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod)); cerr != nil && !errors.Is(cerr, websocket.ErrCloseSent) {
			Logger.Debugf("Sending close message: %v", cerr)
		}
		err = s.conn.Close()
	})
	return err
}

// --------------------------------------------------------------------------
// net.Conn Methods (the base transport sets write deadlines)
// --------------------------------------------------------------------------

func (s *stream) LocalAddr() net.Addr  { return s.conn.LocalAddr() }
func (s *stream) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

func (s *stream) SetDeadline(t time.Time) error {
	if err := s.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return s.conn.SetWriteDeadline(t)
}

func (s *stream) SetReadDeadline(t time.Time) error  { return s.conn.SetReadDeadline(t) }
func (s *stream) SetWriteDeadline(t time.Time) error { return s.conn.SetWriteDeadline(t) }
