package audio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"

	"github.com/argile-city/vj/internal/audio/decode"
	"github.com/argile-city/vj/pkg/models"
)

// FileSource decodes an audio file and plays it back through a PortAudio
// output stream while posting a copy of every block for analysis. The
// blocking Write on the output stream paces decoding to real time.
type FileSource struct {
	path        string
	blockSize   int
	deviceIndex int
	forceRate   int

	sampleRate int
	channels   int
	dec        decode.Stream
	stream     *portaudio.Stream
	out        chan models.Block
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// NewFileSource creates a playback source for path. deviceIndex < 0
// selects the default output device; sampleRate 0 plays at the file's
// native rate.
func NewFileSource(path string, blockSize, deviceIndex, sampleRate int) *FileSource {
	return &FileSource{
		path:        path,
		blockSize:   blockSize,
		deviceIndex: deviceIndex,
		forceRate:   sampleRate,
		out:         make(chan models.Block, blockQueueSize),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// SampleRate returns the effective playback rate. Valid after Start.
func (f *FileSource) SampleRate() int { return f.sampleRate }

// Start decodes the file header, opens the output stream, and begins
// playback. The returned channel closes when the file ends or playback
// is stopped.
func (f *FileSource) Start(ctx context.Context) (<-chan models.Block, error) {
	dec, err := decode.Open(f.path)
	if err != nil {
		return nil, err
	}
	f.dec = dec
	f.channels = dec.Channels()
	f.sampleRate = f.forceRate
	if f.sampleRate == 0 {
		f.sampleRate = dec.SampleRate()
	}

	if err := portaudio.Initialize(); err != nil {
		dec.Close()
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	dev, err := deviceByIndex(f.deviceIndex, portaudio.DefaultOutputDevice)
	if err != nil {
		dec.Close()
		portaudio.Terminate()
		return nil, err
	}
	if dev.MaxOutputChannels < f.channels {
		dec.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("device %q has %d output channels, file needs %d",
			dev.Name, dev.MaxOutputChannels, f.channels)
	}

	playBuf := make([]float32, f.blockSize*f.channels)
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: f.channels,
			Latency:  dev.DefaultHighOutputLatency,
		},
		SampleRate:      float64(f.sampleRate),
		FramesPerBuffer: f.blockSize,
	}
	stream, err := portaudio.OpenStream(params, playBuf)
	if err != nil {
		dec.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		dec.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start output stream: %w", err)
	}
	f.stream = stream

	log.Info().
		Str("source", f.path).
		Str("device", dev.Name).
		Int("sample_rate", f.sampleRate).
		Int("channels", f.channels).
		Int("block_size", f.blockSize).
		Msg("Playing audio file")

	go f.playLoop(ctx, playBuf)
	return f.out, nil
}

func (f *FileSource) playLoop(ctx context.Context, playBuf []float32) {
	defer close(f.out)
	defer close(f.done)

	stop := context.AfterFunc(ctx, func() { f.stream.Abort() })
	defer stop()

	framer := NewFramer(f.blockSize * f.channels)
	readBuf := make([]float32, f.blockSize*f.channels)

	play := func(chunk []float32) {
		copy(playBuf, chunk)
		if err := f.stream.Write(); err != nil {
			select {
			case <-ctx.Done():
			case <-f.quit:
			default:
				log.Warn().Err(err).Msg("output stream write failed")
			}
		}
		samples := make([]float32, len(chunk))
		copy(samples, chunk)
		trySend(f.out, models.Block{
			Samples:    samples,
			Channels:   f.channels,
			SampleRate: f.sampleRate,
		})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.quit:
			return
		default:
		}
		n, err := f.dec.ReadSamples(readBuf)
		if n > 0 {
			framer.Push(readBuf[:n], play)
		}
		if err == io.EOF {
			framer.Flush(play)
			log.Info().Str("source", f.path).Msg("Playback finished")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("source", f.path).Msg("decode failed")
			return
		}
	}
}

// Stop aborts playback and releases the stream and decoder. Safe to call
// more than once and after the channel has closed.
func (f *FileSource) Stop() error {
	var err error
	f.stopOnce.Do(func() {
		if f.stream == nil {
			return
		}
		close(f.quit)
		f.stream.Abort()
		<-f.done
		err = f.stream.Close()
		if cerr := f.dec.Close(); err == nil {
			err = cerr
		}
		portaudio.Terminate()
	})
	return err
}
