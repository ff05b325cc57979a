package algo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClosed is returned by a Transport after Close.
var ErrClosed = errors.New("algo: transport closed")

// maxLineSize bounds a single host message. Late-game frames with many
// units run to a few hundred kilobytes.
const maxLineSize = 8 << 20

// Transport carries newline-delimited messages between the algo and the host.
type Transport interface {
	// ReadLine blocks until a full message arrives, ctx is cancelled, or the
	// stream ends with io.EOF.
	ReadLine(ctx context.Context) ([]byte, error)
	WriteLine(line []byte) error
	Close() error
}

type readResult struct {
	line []byte
	err  error
}

// StdioTransport speaks to the host over a pair of pipes, which is how the
// Terminal host launches algos.
type StdioTransport struct {
	w      io.Writer
	lines  chan readResult
	mu     sync.Mutex
	closed bool
}

// NewStdioTransport starts reading r in the background.
func NewStdioTransport(r io.Reader, w io.Writer) *StdioTransport {
	t := &StdioTransport{
		w:     w,
		lines: make(chan readResult, 16),
	}
	go t.readLoop(r)
	return t
}

func (t *StdioTransport) readLoop(r io.Reader) {
	defer close(t.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		line := append([]byte(nil), scanner.Bytes()...)
		t.lines <- readResult{line: line}
	}
	if err := scanner.Err(); err != nil {
		t.lines <- readResult{err: fmt.Errorf("scanner: %w", err)}
		return
	}
	t.lines <- readResult{err: io.EOF}
}

// ReadLine returns the next message from the host.
func (t *StdioTransport) ReadLine(ctx context.Context) ([]byte, error) {
	return receive(ctx, t.lines)
}

func receive(ctx context.Context, lines <-chan readResult) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-lines:
		if !ok {
			return nil, io.EOF
		}
		return r.line, r.err
	}
}

// WriteLine writes one message followed by a newline. os.Stdout is
// unbuffered, so the host sees the line as soon as this returns.
func (t *StdioTransport) WriteLine(line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(append(buf, line...), '\n')
	_, err := t.w.Write(buf)
	return err
}

// Close stops further writes. The reader goroutine exits when the host
// closes its end.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
