package mqtt

import (
	"io"
	"sync"
)

// Topic names under the queue prefix. The controller consumes cmd and
// produces msg; host tooling uses the opposite pair.
const (
	TopicCmd = "cmd"
	TopicMsg = "msg"
)

// LineReadWriter adapts a topic pair to io.ReadWriter so a protocol
// link can run over MQTT unchanged. Read yields subscribed payloads
// byte-for-byte with a newline guaranteed after each payload.
type LineReadWriter struct {
	queue *Queue
	sub   string
	pub   string

	mu      sync.Mutex
	rxCh    chan []byte
	pending []byte
	closed  bool
}

// NewLineReadWriter creates the adapter and subscribes sub.
func NewLineReadWriter(q *Queue, sub, pub string) (*LineReadWriter, error) {
	rw := &LineReadWriter{
		queue: q,
		sub:   sub,
		pub:   pub,
		rxCh:  make(chan []byte, 16),
	}
	if err := q.Sub(sub, rw.handle); err != nil {
		return nil, err
	}
	return rw, nil
}

// ForController subscribes cmd and publishes msg.
func ForController(q *Queue) (*LineReadWriter, error) {
	return NewLineReadWriter(q, TopicCmd, TopicMsg)
}

// ForHost subscribes msg and publishes cmd.
func ForHost(q *Queue) (*LineReadWriter, error) {
	return NewLineReadWriter(q, TopicMsg, TopicCmd)
}

func (rw *LineReadWriter) handle(_ string, payload []byte) {
	data := make([]byte, 0, len(payload)+1)
	data = append(data, payload...)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.closed {
		return
	}
	select {
	case rw.rxCh <- data:
	default:
		// Bounded like the serial receive queue: overflow drops.
	}
}

// Read implements io.Reader. Blocks until a payload arrives; intended
// to run inside a link receiver goroutine.
func (rw *LineReadWriter) Read(p []byte) (int, error) {
	if len(rw.pending) == 0 {
		data, ok := <-rw.rxCh
		if !ok {
			return 0, io.EOF
		}
		rw.pending = data
	}
	n := copy(p, rw.pending)
	rw.pending = rw.pending[n:]
	return n, nil
}

// Write implements io.Writer by publishing the payload.
func (rw *LineReadWriter) Write(p []byte) (int, error) {
	if err := rw.queue.Pub(rw.pub, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close stops delivery. Pending payloads already read are kept.
func (rw *LineReadWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if !rw.closed {
		rw.closed = true
		close(rw.rxCh)
	}
	return nil
}
