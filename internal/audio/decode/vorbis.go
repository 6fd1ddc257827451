package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

func init() {
	Register("ogg", VorbisDecoder{})
	Register("oga", VorbisDecoder{})
}

// VorbisDecoder decodes Ogg Vorbis files via jfreymuth/oggvorbis.
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.Reader) (Stream, error) {
	or, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis decode: %w", err)
	}
	return &vorbisStream{r: or}, nil
}

type vorbisStream struct {
	r *oggvorbis.Reader
}

func (s *vorbisStream) SampleRate() int { return s.r.SampleRate() }
func (s *vorbisStream) Channels() int   { return s.r.Channels() }
func (s *vorbisStream) Close() error    { return nil }

func (s *vorbisStream) ReadSamples(dst []float32) (int, error) {
	n, err := s.r.Read(dst)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("vorbis read: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
