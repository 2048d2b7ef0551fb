package server

import (
	"fmt"
	"sync/atomic"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// ObjectTable hands out integer handles for instances created by remote constructors.
// Handles start at 1, 0 is the placeholder a controller sends to a constructor.
// Instances are never released, there is no destructor in the protocol.
type ObjectTable[T any] struct {
	objects *xsync.MapOf[uint64, T]
	next    atomic.Uint64
}

// NewObjectTable creates an empty table
func NewObjectTable[T any]() *ObjectTable[T] {
	return &ObjectTable[T]{
		objects: xsync.NewMapOf[uint64, T](),
	}
}

// Add stores obj and returns its new handle
func (t *ObjectTable[T]) Add(obj T) uint64 {
	handle := t.next.Add(1)
	t.objects.Store(handle, obj)
	return handle
}

// Get returns the instance for handle
func (t *ObjectTable[T]) Get(handle uint64) (T, bool) {
	return t.objects.Load(handle)
}

// Len returns the number of instances
func (t *ObjectTable[T]) Len() int {
	return t.objects.Size()
}

// Receiver resolves the instance a method call refers to, the handle is the first argument
func (t *ObjectTable[T]) Receiver(args []any) (T, []any, error) {
	var zero T
	handle, err := common.ArgUint64(args, 0)
	if err != nil {
		return zero, nil, fmt.Errorf("instance handle: %w", err)
	}
	obj, ok := t.Get(handle)
	if !ok {
		return zero, nil, fmt.Errorf("%w: no instance with handle %d", common.ErrInvalidArguments, handle)
	}
	return obj, args[1:], nil
}
