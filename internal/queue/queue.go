// Package queue provides the FIFO buffers used by the frame parser (for
// frames sliced out of a single chunk) and the Link Layer (for writes
// deferred behind an in-flight pending write).
package queue

// Queue defines the interface for a generic FIFO buffer.
type Queue interface {
	// Enqueue adds an item to the tail of the queue.
	Enqueue(any)
	// Dequeue removes and returns the item at the head of the queue.
	Dequeue() any
	// Peek returns the item at the head of the queue without removing it.
	Peek() any
	// Reset to an empty queue
	Reset()
	// IsEmpty returns true if the queue is empty, false otherwise.
	IsEmpty() bool
	// Length returns the number of items in the queue.
	Length() int
}
