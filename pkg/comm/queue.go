// Package comm provides the byte transport under the line protocol:
// bounded receive queues, link framing/flushing, and port opening.
package comm

import (
	"sync"

	"github.com/golang/glog"
)

// ByteQueue is a bounded single-producer/single-consumer byte ring. The
// producer is the link's receive goroutine; the consumer is the control
// loop, which drains without blocking. The accumulator is the only data
// shared between the two contexts, so it is guarded by a mutex.
type ByteQueue struct {
	mu      sync.Mutex
	buf     []byte
	head    int
	size    int
	dropped int
}

// NewByteQueue creates a queue with the given capacity.
func NewByteQueue(capacity int) *ByteQueue {
	return &ByteQueue{buf: make([]byte, capacity)}
}

// Write implements io.Writer for the producer side. Bytes that do not
// fit are dropped (newest first) rather than blocking the receiver; the
// drop is counted and logged.
func (q *ByteQueue) Write(p []byte) (int, error) {
	q.mu.Lock()
	free := len(q.buf) - q.size
	n := len(p)
	if n > free {
		q.dropped += n - free
		n = free
	}
	for i := 0; i < n; i++ {
		q.buf[(q.head+q.size)%len(q.buf)] = p[i]
		q.size++
	}
	dropped := q.dropped
	q.mu.Unlock()
	if n < len(p) {
		glog.Warningf("byte queue overflow, %d bytes dropped total", dropped)
	}
	return len(p), nil
}

// Drain copies up to len(dst) buffered bytes out and returns the count.
// Never blocks waiting for more input.
func (q *ByteQueue) Drain(dst []byte) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.size
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
		q.size--
	}
	return n
}

// Len is the number of buffered bytes.
func (q *ByteQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Dropped is the total number of bytes lost to overflow.
func (q *ByteQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
