package link

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/metrics"
)

// dispatchLoop reads from the transport and routes every decoded message until the link shuts down
func (l *Link) dispatchLoop() {
	for {
		data, err := l.transport.Read()
		if err != nil {
			if !errors.Is(err, common.ErrTransport) {
				err = common.NewTransportError("read", err)
			}
			l.shutdown(err)
			return
		}
		if len(data) == 0 {
			continue
		}

		for msg, err := range l.reader.Frames(data) {
			if err != nil {
				metrics.DecodeErrors.Inc()
				Logger.Warningf("Dropping malformed frame: %v", err)
				continue
			}
			l.handleMessage(msg)
		}
	}
}

// handleMessage routes one inbound message by its kind
func (l *Link) handleMessage(msg common.Message) {
	switch msg.Kind {
	case common.MsgKindResponse:
		if l.pending.resolve(msg) {
			metrics.ResponsesMatched.Inc()
			return
		}
		metrics.ResponsesUnmatched.Inc()
		Logger.Debugf("Dropping response %d without waiting call", msg.ID)

	case common.MsgKindRequest:
		l.handleRequest(msg)

	case common.MsgKindNotify:
		l.handleNotify(msg)

	default:
		Logger.Warningf("Dropping message of unknown kind %d", msg.Kind)
	}
}

// handleRequest runs the requested procedure and queues the response
func (l *Link) handleRequest(msg common.Message) {
	metrics.RequestsDispatched.Inc()

	result, err := l.invoke(msg)

	var resp *common.Message
	if err != nil {
		resp = common.NewErrorResponse(msg.ID, err)
	} else {
		resp = common.NewResponse(msg.ID, result)
	}

	frame, encErr := l.serializer.Serialize(*resp)
	if encErr != nil {
		// the result cannot be represented on the wire, report that instead
		err = fmt.Errorf("failed to encode result of %s: %w", msg.Selector, encErr)
		frame, encErr = l.serializer.Serialize(*common.NewErrorResponse(msg.ID, err))
		if encErr != nil {
			Logger.Errorf("Dropping response %d: %v", msg.ID, encErr)
			return
		}
	}

	if err != nil {
		metrics.DispatchErrors.Inc()
		Logger.Debugf("Request %d for %s failed: %v", msg.ID, msg.Selector, err)
	}

	if err := l.enqueue(frame, nil); err != nil {
		Logger.Debugf("Dropping response %d: %v", msg.ID, err)
	}
}

// handleNotify runs the procedure of a notification if one is bound, nothing is ever sent back
func (l *Link) handleNotify(msg common.Message) {
	metrics.Notifications.Inc()

	if _, ok := l.registry.Lookup(msg.Selector); !ok {
		Logger.Debugf("Ignoring notification %s without bound procedure", msg.Selector)
		return
	}
	if _, err := l.invoke(msg); err != nil {
		Logger.Warningf("Notification %s failed: %v", msg.Selector, err)
	}
}

// invoke looks up and runs the procedure named by msg. Panics are turned into errors
// so a faulty procedure cannot take the dispatch loop down.
func (l *Link) invoke(msg common.Message) (result any, err error) {
	fn, ok := l.registry.Lookup(msg.Selector)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownProcedure, msg.Selector)
	}

	args, err := msg.Args()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("Procedure %s panicked: %v", msg.Selector, r)
			result, err = nil, fmt.Errorf("procedure %s panicked: %v", msg.Selector, r)
		}
	}()

	return fn(l.ctx, args)
}
