package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

func init() {
	Register("mp3", MP3Decoder{})
}

// MP3Decoder decodes MPEG-1 Layer III files via go-mp3. The decoder
// always produces 16-bit little-endian stereo at the file's sample rate.
type MP3Decoder struct{}

func (MP3Decoder) Decode(r io.Reader) (Stream, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	return &mp3Stream{d: d}, nil
}

type mp3Stream struct {
	d   *mp3.Decoder
	buf []byte
}

func (s *mp3Stream) SampleRate() int { return s.d.SampleRate() }
func (s *mp3Stream) Channels() int   { return 2 }
func (s *mp3Stream) Close() error    { return nil }

func (s *mp3Stream) ReadSamples(dst []float32) (int, error) {
	if len(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	n, err := io.ReadFull(s.d, s.buf[:len(dst)*2])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("mp3 read: %w", err)
	}
	samples := n / 2
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i : 2*i+2]))
		dst[i] = float32(v) / 32768.0
	}
	if samples == 0 {
		return 0, io.EOF
	}
	return samples, nil
}
