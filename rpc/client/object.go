package client

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// ICaller issues calls to the peer, it is implemented by *link.Link
type ICaller interface {
	// Call invokes procedure and blocks until the peer answered
	Call(ctx context.Context, procedure string, args ...any) (any, error)

	// Send invokes procedure without waiting for the answer
	Send(ctx context.Context, procedure string, args ...any) error
}

// RemoteHandle names an instance that lives on the peer.
// It is returned by the peer's constructor and means nothing on this side.
type RemoteHandle uint64

// constructorPlaceholder takes the place of the handle in constructor calls
const constructorPlaceholder = RemoteHandle(0)

// ProcedureName returns the procedure a method of class is bound to on the peer
func ProcedureName(class, method string) string {
	return common.ProcedureName(class, method)
}

// --------------------------------------------------------------------------
// Remote Class
// --------------------------------------------------------------------------

// RemoteClass addresses a class on the peer by name. Any method name is accepted,
// the peer decides whether a matching procedure is bound.
type RemoteClass struct {
	caller ICaller
	name   string
}

// NewRemoteClass creates a proxy for the peer-side class name
//
// Usage:
//
//	adder := client.NewRemoteClass(l, "Adder")
//	obj, err := adder.New(ctx)
//	if err != nil {
//		return err
//	}
//	sum, err := obj.Invoke(ctx, "add", 12, 34)
func NewRemoteClass(caller ICaller, name string) *RemoteClass {
	return &RemoteClass{caller: caller, name: name}
}

// Name returns the class name
func (c *RemoteClass) Name() string {
	return c.name
}

// New constructs an instance on the peer. The constructor receives the placeholder
// handle 0 followed by args and must return the handle of the new instance.
func (c *RemoteClass) New(ctx context.Context, args ...any) (*RemoteObject, error) {
	procedure := common.ConstructorName(c.name)

	result, err := c.caller.Call(ctx, procedure, prepend(constructorPlaceholder, args)...)
	if err != nil {
		return nil, err
	}

	handle, err := common.ToUint64(result)
	if err != nil {
		return nil, fmt.Errorf("constructor %s returned no handle: %w", procedure, err)
	}

	Logger.Debugf("Created remote %s instance %d", c.name, handle)
	return c.Attach(RemoteHandle(handle)), nil
}

// Attach returns a proxy for an instance that was created earlier
func (c *RemoteClass) Attach(handle RemoteHandle) *RemoteObject {
	return &RemoteObject{class: c, handle: handle}
}

// Invoke calls a class level method, no handle is passed
func (c *RemoteClass) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	return c.caller.Call(ctx, ProcedureName(c.name, method), args...)
}

// --------------------------------------------------------------------------
// Remote Object
// --------------------------------------------------------------------------

// RemoteObject is a proxy for one peer-side instance.
// The handle is never released, the protocol has no destructor.
type RemoteObject struct {
	class  *RemoteClass
	handle RemoteHandle
}

// Handle returns the handle of the instance
func (o *RemoteObject) Handle() RemoteHandle {
	return o.handle
}

// Class returns the class the instance belongs to
func (o *RemoteObject) Class() *RemoteClass {
	return o.class
}

// Invoke calls method on the instance and returns its result
func (o *RemoteObject) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	return o.class.caller.Call(ctx, ProcedureName(o.class.name, method), prepend(o.handle, args)...)
}

// Send calls method on the instance without waiting for the result
func (o *RemoteObject) Send(ctx context.Context, method string, args ...any) error {
	return o.class.caller.Send(ctx, ProcedureName(o.class.name, method), prepend(o.handle, args)...)
}

// String returns e.g. "Adder#42"
func (o *RemoteObject) String() string {
	return fmt.Sprintf("%s#%d", o.class.name, o.handle)
}

// prepend returns a new argument list starting with the handle
func prepend(handle RemoteHandle, args []any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, uint64(handle))
	return append(out, args...)
}
