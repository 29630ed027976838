package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps generated source fragments verbatim, one per emitted type.
type RawLogger interface {
	Log(module, name string, fragment []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If w is nil, the logger is a no-op.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a header line followed by the fragment, each line prefixed with
// "| " so dumps stay readable when interleaved with other output.
func (r *rawLogger) Log(module, name string, fragment []byte) {
	if r.w == nil || len(fragment) == 0 {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s/%s: %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		module,
		name,
		len(fragment))
	for _, line := range bytes.Split(bytes.TrimRight(fragment, "\n"), []byte("\n")) {
		buf.WriteString("| ")
		buf.Write(line)
		buf.WriteByte('\n')
	}

	r.mu.Lock()
	_, _ = r.w.Write(buf.Bytes())
	r.mu.Unlock()
}
