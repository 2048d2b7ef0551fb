// Package queue provides a lock-free Multi-Producer Single-Consumer (MPSC) queue.
// A link uses it as its outbound frame queue: any goroutine may enqueue a frame,
// a single writer goroutine drains the queue to the transport.
//
// Features and Guarantees:
//
//   - Lock-Free writes: producers only use atomic operations on the linked list
//   - Unbounded Size: Push never blocks, which lets the dispatch loop answer requests
//     while the writer is stuck on a slow transport
//   - Per-Producer FIFO: items pushed by one goroutine are received in push order.
//     Items of different producers are ordered by whoever completed Push first.
//   - Single Consumer: items are received through the channel returned by Recv()
//   - Graceful Close: Close() rejects new items but delivers the queued ones, then closes
//     the receive channel
package queue
