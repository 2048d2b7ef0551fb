package link

import (
	"context"
	"fmt"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/metrics"
)

// --------------------------------------------------------------------------
// Call Client
// --------------------------------------------------------------------------

// Call invokes procedure on the peer and blocks until its response arrived.
// It returns the result payload of the peer, a *common.RemoteProcedureError if the
// peer reported a failure, an error matching common.ErrTimeout if CallTimeout elapsed,
// ctx.Err() if ctx ended first and common.ErrLinkClosed if the link shut down.
//
// Call is safe for concurrent use, every call is resolved independently.
// Procedures run on the dispatch loop, so a Call made from inside a procedure cannot
// receive its response and ends with common.ErrTimeout. Use Send or Notify there.
func (l *Link) Call(ctx context.Context, procedure string, args ...any) (any, error) {
	if l.isDone() {
		return nil, l.closedErr()
	}

	id := l.nextID.Add(1) - 1
	frame, err := l.serializer.Serialize(*common.NewRequest(id, procedure, args))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request %s: %w", procedure, err)
	}

	// register before sending, the response may arrive before enqueue returns
	call := l.pending.register(id, procedure)
	if err := l.enqueue(frame, nil); err != nil {
		l.pending.withdraw(id)
		return nil, err
	}
	metrics.RequestsSent.Inc()

	var timeout <-chan time.Time
	if l.config.CallTimeout > 0 {
		timer := time.NewTimer(l.config.CallTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-call.result:
		return res.value, res.err

	case <-timeout:
		metrics.CallsTimedOut.Inc()
		return l.abandon(call, fmt.Errorf("%w: %s (id %d) got no response within %s",
			common.ErrTimeout, procedure, id, l.config.CallTimeout))

	case <-ctx.Done():
		return l.abandon(call, fmt.Errorf("call %s (id %d): %w", procedure, id, ctx.Err()))

	case <-l.done:
		return l.abandon(call, l.closedErr())
	}
}

// abandon withdraws a call that stopped waiting. If the response won the race
// for the table entry, its result is returned instead of err.
func (l *Link) abandon(call *pendingCall, err error) (any, error) {
	if l.pending.withdraw(call.id) {
		return nil, err
	}
	res := <-call.result
	return res.value, res.err
}

// Send invokes procedure on the peer without waiting for the response.
// It returns once the request was written to the transport. The request consumes an id
// like a call, a response the peer may send is dropped as unmatched.
func (l *Link) Send(ctx context.Context, procedure string, args ...any) error {
	if l.isDone() {
		return l.closedErr()
	}

	id := l.nextID.Add(1) - 1
	frame, err := l.serializer.Serialize(*common.NewRequest(id, procedure, args))
	if err != nil {
		return fmt.Errorf("failed to encode request %s: %w", procedure, err)
	}

	if err := l.write(ctx, frame); err != nil {
		return err
	}
	metrics.RequestsSent.Inc()
	return nil
}

// Notify sends a one-way NOTIFY message, the peer never answers it
func (l *Link) Notify(ctx context.Context, procedure string, args ...any) error {
	if l.isDone() {
		return l.closedErr()
	}

	frame, err := l.serializer.Serialize(*common.NewNotify(procedure, args))
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", procedure, err)
	}
	return l.write(ctx, frame)
}

// write queues frame and waits until the writer goroutine wrote it
func (l *Link) write(ctx context.Context, frame []byte) error {
	ack := make(chan error, 1)
	if err := l.enqueue(frame, ack); err != nil {
		return err
	}

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return l.closedErr()
	}
}
