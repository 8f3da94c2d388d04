package fetcher

import (
	"fmt"
	"io"
	"sync"
)

// NewConsoleProgress returns a ProgressFunc rendering a single status line.
// Batches report concurrently, so writes are serialized here.
func NewConsoleProgress(w io.Writer) ProgressFunc {
	var mu sync.Mutex

	return func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(w, "\rFetching pool metadata... %d/%d", completed, total)

		if completed >= total {
			fmt.Fprintln(w)
		}
	}
}
