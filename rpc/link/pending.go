package link

import (
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// callResult is what a waiting call receives
type callResult struct {
	value any
	err   error
}

// pendingCall is a call that was sent but not answered yet
type pendingCall struct {
	id        uint64
	procedure string
	start     time.Time
	result    chan callResult // buffered, exactly one result is ever delivered
}

// pendingTable correlates responses with the calls waiting for them.
// LoadAndDelete is the only way to take an entry out of the table, so a response,
// a timeout and the shutdown of the link can race for an entry and exactly one wins.
type pendingTable struct {
	calls *xsync.MapOf[uint64, *pendingCall]
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		calls: xsync.NewMapOf[uint64, *pendingCall](),
	}
}

// register adds a call for id
func (p *pendingTable) register(id uint64, procedure string) *pendingCall {
	call := &pendingCall{
		id:        id,
		procedure: procedure,
		start:     time.Now(),
		result:    make(chan callResult, 1),
	}
	p.calls.Store(id, call)
	metrics.AddPending(1)
	return call
}

// resolve delivers a response to the call waiting for it.
// Returns false if no call is waiting for msg.ID.
func (p *pendingTable) resolve(msg common.Message) bool {
	call, ok := p.calls.LoadAndDelete(msg.ID)
	if !ok {
		return false
	}
	metrics.AddPending(-1)
	metrics.ObserveCall(call.start)

	if msg.IsError() {
		metrics.RemoteErrors.Inc()
		call.result <- callResult{err: &common.RemoteProcedureError{
			Procedure:   call.procedure,
			ID:          msg.ID,
			Description: msg.Selector,
		}}
		return true
	}

	call.result <- callResult{value: msg.Payload}
	return true
}

// withdraw removes the call for id. Returns false if it was resolved in the meantime.
func (p *pendingTable) withdraw(id uint64) bool {
	if _, ok := p.calls.LoadAndDelete(id); ok {
		metrics.AddPending(-1)
		return true
	}
	return false
}

// failAll delivers err to every waiting call and returns how many there were
func (p *pendingTable) failAll(err error) int {
	failed := 0
	p.calls.Range(func(id uint64, _ *pendingCall) bool {
		if call, ok := p.calls.LoadAndDelete(id); ok {
			metrics.AddPending(-1)
			call.result <- callResult{err: err}
			failed++
		}
		return true
	})
	return failed
}

// len returns the number of waiting calls
func (p *pendingTable) len() int {
	return p.calls.Size()
}
