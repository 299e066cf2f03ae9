package http

import (
	"io"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// progressReader reports the cumulative byte count after every read.
type progressReader struct {
	reader     io.Reader
	loaded     int64
	total      int64
	onProgress robolt.ProgressFunc
}

func newProgressReader(reader io.Reader, total int64, onProgress robolt.ProgressFunc) *progressReader {
	return &progressReader{
		reader:     reader,
		total:      total,
		onProgress: onProgress,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		event := robolt.ProgressEvent{Loaded: r.loaded, Total: r.total}
		r.onProgress(event.Percent(), event)
	}

	return n, err
}
