package link

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/rpclink/lib/queue"
	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
	"github.com/ValentinKolb/rpclink/rpc/server"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("link")

// outboundFrame is an encoded frame waiting for the writer goroutine
type outboundFrame struct {
	frame []byte
	ack   chan error // optional, receives the result of the write
}

// Link is one point-to-point connection to a peer. It issues calls to the peer and
// serves the procedures of its registry to the peer at the same time.
//
// Each link runs two goroutines: the dispatch loop, which owns the read side of the
// transport, and the writer, which is the only goroutine writing to the transport.
type Link struct {
	config     common.LinkConfig
	transport  transport.IRPCTransport
	serializer serializer.IRPCSerializer
	registry   server.IProcedureRegistry

	reader   *FrameReader
	pending  *pendingTable
	outbound *queue.MPSC[outboundFrame]
	nextID   atomic.Uint64

	// procedures are invoked with this context, it is canceled on shutdown
	ctx    context.Context
	cancel context.CancelFunc

	closing   atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
	errMu     sync.RWMutex
	err       error
}

// Open connects the transport and starts the link.
// registry holds the procedures the peer may call, it may be nil if the peer never calls back.
//
// Usage:
//
//	l, err := link.Open(
//		common.DefaultLinkConfig("/dev/ttyACM0"),
//		serial.NewSerialTransport(),
//		serializer.NewMsgpackSerializer(),
//		nil,
//	)
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	sum, err := l.Call(ctx, "add", 2, 3)
func Open(
	config common.LinkConfig,
	transport transport.IRPCTransport,
	serializer serializer.IRPCSerializer,
	registry server.IProcedureRegistry,
) (*Link, error) {
	if registry == nil {
		registry = server.NewProcedureRegistry()
	}

	Logger.Debugf("Opening link: %s", config.String())

	if err := transport.Connect(config.Transport); err != nil {
		return nil, fmt.Errorf("failed to connect %s transport: %w", transport.GetName(), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &Link{
		config:     config,
		transport:  transport,
		serializer: serializer,
		registry:   registry,
		reader:     NewFrameReader(serializer, config.MaxFrameSize),
		pending:    newPendingTable(),
		outbound:   queue.NewMPSC[outboundFrame](),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go l.writeLoop()
	go l.dispatchLoop()

	Logger.Infof("Link open on %s transport (%s codec)", transport.GetName(), serializer.Name())
	return l, nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Close shuts the link down. Waiting calls fail with common.ErrLinkClosed.
// It is safe to call Close several times and from within a procedure.
func (l *Link) Close() error {
	l.closing.Store(true)
	l.shutdown(nil)
	return nil
}

// Done returns a channel that is closed once the link has shut down
func (l *Link) Done() <-chan struct{} {
	return l.done
}

// Err returns the error that terminated the link, nil while it runs or after Close
func (l *Link) Err() error {
	l.errMu.RLock()
	defer l.errMu.RUnlock()
	return l.err
}

// Wait blocks until the link has shut down and returns the fatal error, if any
func (l *Link) Wait() error {
	<-l.done
	return l.Err()
}

// Registry returns the procedures served to the peer
func (l *Link) Registry() server.IProcedureRegistry {
	return l.registry
}

// Pending returns the number of calls waiting for a response
func (l *Link) Pending() int {
	return l.pending.len()
}

// shutdown tears the link down once. cause is the fatal error, it is ignored if the
// link is being closed on purpose.
func (l *Link) shutdown(cause error) {
	l.closeOnce.Do(func() {
		if l.closing.Load() {
			cause = nil
		}

		l.errMu.Lock()
		l.err = cause
		l.errMu.Unlock()

		if cause != nil {
			Logger.Errorf("Link failed: %v", cause)
		} else {
			Logger.Infof("Link closed")
		}

		close(l.done)
		l.cancel()

		if err := l.transport.Close(); err != nil {
			Logger.Debugf("Closing transport: %v", err)
		}
		l.outbound.Close()

		if n := l.pending.failAll(l.closedErr()); n > 0 {
			Logger.Warningf("Failed %d pending calls on shutdown", n)
		}
	})
}

// closedErr is the error returned by operations after shutdown
func (l *Link) closedErr() error {
	if err := l.Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrLinkClosed, err)
	}
	return common.ErrLinkClosed
}

// isDone reports whether the link has shut down
func (l *Link) isDone() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Writer
// --------------------------------------------------------------------------

// enqueue hands a frame to the writer goroutine, it never blocks
func (l *Link) enqueue(frame []byte, ack chan error) error {
	if !l.outbound.Push(outboundFrame{frame: frame, ack: ack}) {
		return l.closedErr()
	}
	return nil
}

// writeLoop writes queued frames until the queue is closed and drained
func (l *Link) writeLoop() {
	for item := range l.outbound.Recv() {
		if l.isDone() {
			ackFrame(item, l.closedErr())
			continue
		}

		err := l.transport.Write(item.frame)
		ackFrame(item, err)
		if err != nil {
			l.shutdown(err)
		}
	}
}

func ackFrame(item outboundFrame, err error) {
	if item.ack != nil {
		item.ack <- err
	}
}
