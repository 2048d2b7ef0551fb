package base

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
)

// connection wraps an established byte stream with a read buffer and a write lock
type connection struct {
	rw           io.ReadWriteCloser
	buf          []byte
	writeTimeout time.Duration
	writeMu      sync.Mutex // Protects the write side, frames must not interleave
	closed       atomic.Bool
	readErr      error // Error returned together with data, reported on the next read
}

func newConnection(rw io.ReadWriteCloser, readBufferSize int, writeTimeout time.Duration) *connection {
	if readBufferSize <= 0 {
		readBufferSize = common.DefaultReadBufferSize
	}
	return &connection{
		rw:           rw,
		buf:          make([]byte, readBufferSize),
		writeTimeout: writeTimeout,
	}
}

// read returns the bytes of one read from the stream.
// It must not be called concurrently.
func (c *connection) read() ([]byte, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}

	n, err := c.rw.Read(c.buf)
	if err != nil {
		err = common.NewTransportError("read", err)
		if n > 0 {
			// hand out the data first, the error follows on the next read
			c.readErr = err
			return c.buf[:n], nil
		}
		return nil, err
	}
	return c.buf[:n], nil
}

// write writes the full frame, looping over short writes
func (c *connection) write(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return common.NewTransportError("write", net.ErrClosed)
	}

	if conn, ok := c.rw.(net.Conn); ok && c.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return common.NewTransportError("write", err)
		}
	}

	if err := writeFull(c.rw, frame); err != nil {
		return common.NewTransportError("write", err)
	}
	return nil
}

// close closes the stream once
func (c *connection) close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rw.Close()
}

// writeFull writes all of data to w
func writeFull(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}

// isClosedErr reports whether err was caused by closing the stream locally
func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
