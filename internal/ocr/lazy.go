package ocr

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
)

// ErrClosed is returned by a Lazy closed before it was ever built.
var ErrClosed = errors.New("recognizer closed")

// Lazy builds its Recognizer on first use and reuses it for the lifetime of
// the process. A failed build is remembered and returned on every call.
type Lazy struct {
	build func() (Recognizer, error)

	once sync.Once
	r    Recognizer
	err  error
}

// NewLazy returns a Lazy that calls build at most once.
func NewLazy(build func() (Recognizer, error)) *Lazy {
	return &Lazy{build: build}
}

// Get returns the memoized Recognizer, building it if needed.
func (l *Lazy) Get() (Recognizer, error) {
	l.once.Do(func() {
		l.r, l.err = l.build()
	})
	return l.r, l.err
}

// Recognize delegates to the memoized Recognizer.
func (l *Lazy) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	r, err := l.Get()
	if err != nil {
		return nil, err
	}
	return r.Recognize(ctx, img)
}

// Close closes the built Recognizer if it holds resources. A Lazy that was
// never used is not built; it fails with ErrClosed from then on.
func (l *Lazy) Close() error {
	l.once.Do(func() { l.err = ErrClosed })
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
