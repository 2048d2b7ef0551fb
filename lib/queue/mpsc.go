package queue

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node represents a single element in the queue
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// MPSC is an unbounded multi-producer single-consumer queue.
// Producers append to a linked list with atomic operations, a background goroutine
// hands the items to the consumer through the channel returned by Recv.
type MPSC[T any] struct {
	head     atomic.Pointer[node[T]]
	tail     atomic.Pointer[node[T]]
	out      chan T
	consumer sync.WaitGroup
	closed   atomic.Bool
	pending  atomic.Int64

	// Condition variable to park the background goroutine while the list is empty
	mu   sync.Mutex
	cond *sync.Cond
}

// NewMPSC creates a new queue and starts its delivery goroutine
func NewMPSC[T any]() *MPSC[T] {
	// Create a sentinel node (dummy node at the beginning)
	sentinel := &node[T]{}

	q := &MPSC[T]{
		out: make(chan T),
	}
	q.cond = sync.NewCond(&q.mu)

	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	q.consumer.Add(1)
	go q.deliver()

	return q
}

// Push appends value to the queue. It never blocks.
// Returns false if the queue is closed, the value is then not delivered.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// Values pushed by one goroutine are delivered in the order they were pushed.
func (q *MPSC[T]) Push(value T) bool {
	if q.closed.Load() {
		return false
	}

	newNode := &node[T]{value: value}
	var backoff uint8 = 0

	for {
		tailNode := q.tail.Load()

		next := tailNode.next.Load()
		if next == nil {
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// another producer may already have moved the tail, that is fine
				q.tail.CompareAndSwap(tailNode, newNode)
				q.pending.Add(1)

				// signal under the lock, otherwise the wakeup can get lost between
				// the emptiness check of deliver and its call to Wait
				q.mu.Lock()
				q.cond.Signal()
				q.mu.Unlock()
				return true
			}
		} else {
			// help a producer that appended but did not move the tail yet
			q.tail.CompareAndSwap(tailNode, next)
		}

		// spin first, then yield the processor under contention
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// deliver moves items from the linked list to the output channel
func (q *MPSC[T]) deliver() {
	defer q.consumer.Done()
	defer close(q.out)

	var zero T
	for {
		hasItems := false

		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}
			hasItems = true

			value := next.value
			q.head.Store(next)
			q.out <- value
			q.pending.Add(-1)

			// release the reference, next is the new sentinel
			next.value = zero
		}

		if !hasItems && q.closed.Load() {
			return
		}

		if !hasItems {
			q.mu.Lock()
			if q.head.Load().next.Load() == nil && !q.closed.Load() {
				q.cond.Wait()
			}
			q.mu.Unlock()
		}
	}
}

// Recv returns the channel the consumer reads from.
// The channel is closed once the queue is closed and all items are delivered.
func (q *MPSC[T]) Recv() <-chan T {
	return q.out
}

// Close closes the queue, preventing further pushes.
// Items already in the queue will still be delivered to the consumer.
func (q *MPSC[T]) Close() {
	q.closed.Store(true)

	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
}

// IsClosed returns true if the queue is closed
func (q *MPSC[T]) IsClosed() bool {
	return q.closed.Load()
}

// Len returns the number of items pushed but not yet received by the consumer
func (q *MPSC[T]) Len() int {
	return int(q.pending.Load())
}
