package batch

import (
	"fmt"
	"io"
	"sync"
)

// SyncWriter serializes writes from concurrent workers so progress lines
// never interleave.
type SyncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewSyncWriter wraps w.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{writer: w}
}

func (sw *SyncWriter) Write(data []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	n, err := sw.writer.Write(data)
	if err != nil {
		return n, fmt.Errorf("sync write: %w", err)
	}
	return n, nil
}
