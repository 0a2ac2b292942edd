package comm

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/tactilab/braille.go/pkg/framework"
	"github.com/tactilab/braille.go/pkg/lineproto"
)

const rxQueueSize = 4096

// Link is one serial link: a bounded receive queue filled by a
// background receiver, a line framer drained by the control loop, and
// an ordered outbound line queue flushed once per iteration. Ordering
// holds per link only; independent links may interleave.
type Link struct {
	name   string
	rx     *ByteQueue
	framer lineproto.Framer
	w      io.Writer
	out    []string

	drainBuf []byte
}

// NewLink creates a Link writing outbound lines to w.
func NewLink(name string, w io.Writer) *Link {
	return &Link{
		name:     name,
		rx:       NewByteQueue(rxQueueSize),
		w:        w,
		drainBuf: make([]byte, 256),
	}
}

// Name implements framework.Named.
func (l *Link) Name() string { return l.name }

// Receiver returns the background runnable feeding the receive queue
// from r. It stops when the context is canceled or the reader fails.
func (l *Link) Receiver(r io.Reader) fx.Runnable {
	return fx.NamedRun(l.name+"-rx", &receiver{reader: r, queue: l.rx})
}

// Feed pushes bytes into the receive queue in-process, bypassing the
// background receiver. Used by local transports and tests.
func (l *Link) Feed(p []byte) {
	l.rx.Write(p)
}

// Poll drains buffered receive bytes and returns the lines completed by
// them. Bounded by what is already buffered; never blocks.
func (l *Link) Poll() []string {
	var lines []string
	for {
		n := l.rx.Drain(l.drainBuf)
		if n == 0 {
			return lines
		}
		lines = append(lines, l.framer.Push(l.drainBuf[:n])...)
	}
}

// Send queues one outbound line. The newline is appended at flush time.
func (l *Link) Send(line string) {
	l.out = append(l.out, line)
}

// PendingOut is the number of queued unflushed lines.
func (l *Link) PendingOut() int { return len(l.out) }

// Flush writes all queued lines in order.
func (l *Link) Flush() error {
	for i, line := range l.out {
		if _, err := io.WriteString(l.w, line+"\n"); err != nil {
			// Keep unwritten lines queued for the next flush.
			l.out = append(l.out[:0], l.out[i:]...)
			return err
		}
		glog.V(3).Infof("link[%s] sent %q", l.name, line)
	}
	l.out = l.out[:0]
	return nil
}

type receiver struct {
	reader io.Reader
	queue  *ByteQueue
}

// Run implements Runnable.
func (r *receiver) Run(ctx context.Context) error {
	read := func() error {
		buf := make([]byte, 64)
		for {
			n, err := r.reader.Read(buf)
			if n > 0 {
				r.queue.Write(buf[:n])
			}
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
	}
	if closer, ok := r.reader.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, read)
	}
	return fx.RunWithContext(ctx, read)
}
