// Package decode provides audio file decoders behind a common streaming
// interface. Decoders are registered by file extension; Open picks the
// right one for a path.
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Stream is a decoded PCM stream. ReadSamples fills dst with interleaved
// float32 samples in [-1, 1] and returns the number of values written.
// io.EOF with n == 0 marks the end of the stream.
type Stream interface {
	SampleRate() int
	Channels() int
	ReadSamples(dst []float32) (n int, err error)
	Close() error
}

// Decoder constructs a Stream from a reader.
type Decoder interface {
	Decode(r io.Reader) (Stream, error)
}

var (
	registryMu sync.Mutex
	registry   = map[string]Decoder{}
)

// Register associates a decoder with a file extension (without dot).
func Register(ext string, d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(ext)] = d
}

// Lookup returns the decoder registered for the extension, if any.
func Lookup(ext string) (Decoder, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	d, ok := registry[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return d, ok
}

// Formats returns the registered extensions in sorted order.
func Formats() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]string, 0, len(registry))
	for ext := range registry {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Open opens path and decodes it with the decoder matching its extension.
// The returned Stream owns the file handle and closes it with Close.
func Open(path string) (Stream, error) {
	dec, ok := Lookup(filepath.Ext(path))
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, filepath.Ext(path), strings.Join(Formats(), ", "))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	s, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &fileStream{Stream: s, f: f}, nil
}

// fileStream closes the underlying file together with the stream.
type fileStream struct {
	Stream
	f *os.File
}

func (s *fileStream) Close() error {
	err := s.Stream.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
