package link

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
)

// FrameReader splits the byte stream of a transport into messages.
// A frame may be spread over several reads, the incomplete tail of one read is kept
// and completed by the next one.
type FrameReader struct {
	serializer   serializer.IRPCSerializer
	maxFrameSize int
	pending      []byte
}

// NewFrameReader creates a frame reader that retains at most maxFrameSize bytes of an
// incomplete frame (0 = common.DefaultMaxFrameSize)
func NewFrameReader(s serializer.IRPCSerializer, maxFrameSize int) *FrameReader {
	if maxFrameSize <= 0 {
		maxFrameSize = common.DefaultMaxFrameSize
	}
	return &FrameReader{
		serializer:   s,
		maxFrameSize: maxFrameSize,
	}
}

// Frames returns the messages contained in data, together with the retained bytes
// of earlier reads, in stream order.
// Malformed frames are reported as *common.DecodeError and skipped, the remaining
// frames are still decoded. The sequence must be consumed before the next call to Frames.
func (r *FrameReader) Frames(data []byte) iter.Seq2[common.Message, error] {
	return func(yield func(common.Message, error) bool) {
		buf := data
		if len(r.pending) > 0 {
			r.pending = append(r.pending, data...)
			buf = r.pending
		}

		for len(buf) > 0 {
			var msg common.Message
			n, err := r.serializer.Deserialize(buf, &msg)

			if errors.Is(err, serializer.ErrIncomplete) {
				buf = buf[min(max(n, 0), len(buf)):]
				if len(buf) > r.maxFrameSize {
					skipped := len(buf)
					buf = nil
					decodeErr := &common.DecodeError{
						Skipped: skipped,
						Err:     fmt.Errorf("incomplete frame exceeds %d bytes", r.maxFrameSize),
					}
					if !yield(common.Message{}, decodeErr) {
						r.retain(buf)
						return
					}
				}
				break
			}

			if err != nil {
				// without a reportable span the rest of the buffer cannot be trusted
				if n <= 0 || n > len(buf) {
					n = len(buf)
				}
				buf = buf[n:]
				if !yield(common.Message{}, &common.DecodeError{Skipped: n, Err: err}) {
					r.retain(buf)
					return
				}
				continue
			}

			buf = buf[n:]
			if !yield(msg, nil) {
				r.retain(buf)
				return
			}
		}

		r.retain(buf)
	}
}

// Buffered returns the number of retained bytes of an incomplete frame
func (r *FrameReader) Buffered() int {
	return len(r.pending)
}

// retain keeps rest for the next call to Frames. rest may alias the transport's read
// buffer or r.pending itself, so it is copied.
func (r *FrameReader) retain(rest []byte) {
	r.pending = append(r.pending[:0], rest...)
}
