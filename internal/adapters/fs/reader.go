// Package fs implements the file-system adapters: the resilient file
// reader and the reference locator.
package fs

import (
	"io"
	"os"
	"time"

	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
)

const (
	// DefaultRetryAttempts is the read attempt bound.
	DefaultRetryAttempts = 10

	// DefaultRetryDelay is the fixed delay between read attempts.
	DefaultRetryDelay = time.Second
)

var _ ports.FileReader = (*Reader)(nil)

// Reader implements ports.FileReader with bounded retry. Build pipelines
// may hand us a dependency while another process is still flushing it;
// that is a recoverable race, so we block and retry instead of failing
// immediately. This is the only place in the system that performs
// blocking waits.
type Reader struct {
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithRetry overrides the attempt bound and inter-attempt delay.
func WithRetry(attempts int, delay time.Duration) ReaderOption {
	return func(r *Reader) {
		r.attempts = attempts
		r.delay = delay
	}
}

// WithSleep overrides the sleep function. Tests use this to avoid real
// wall-clock waits.
func WithSleep(sleep func(time.Duration)) ReaderOption {
	return func(r *Reader) {
		r.sleep = sleep
	}
}

// NewReader creates a Reader with the default retry budget.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{
		attempts: DefaultRetryAttempts,
		delay:    DefaultRetryDelay,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads the file at path into memory. On failure it retries up to
// the attempt bound with a fixed delay, then propagates the last failure.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			r.sleep(r.delay)
		}
		data, err := readShared(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, zerr.With(
		zerr.With(
			zerr.Wrap(lastErr, domain.ErrReadFailed.Error()),
			"path", path,
		),
		"attempts", r.attempts,
	)
}

// readShared performs one full-file read. The file is opened read-only so a
// concurrent writer holding a non-exclusive lock does not block us. A read
// that produces fewer bytes than the stat length means the file was still
// being written and counts as a failure.
func readShared(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the build host's reference list
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) < info.Size() {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrShortRead, "path", path), "read", len(data)), "size", info.Size())
	}
	return data, nil
}
