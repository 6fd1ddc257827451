package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"

	"github.com/argile-city/vj/pkg/models"
)

// MicSource captures mono audio from a live input device. Each block
// holds exactly blockSize samples read from a blocking PortAudio stream.
type MicSource struct {
	blockSize   int
	deviceIndex int
	forceRate   int

	sampleRate int
	stream     *portaudio.Stream
	out        chan models.Block
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// NewMicSource creates a live capture source. deviceIndex < 0 selects
// the default input device; sampleRate 0 uses the device-native rate.
func NewMicSource(blockSize, deviceIndex, sampleRate int) *MicSource {
	return &MicSource{
		blockSize:   blockSize,
		deviceIndex: deviceIndex,
		forceRate:   sampleRate,
		out:         make(chan models.Block, blockQueueSize),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// SampleRate returns the effective capture rate. Valid after Start.
func (m *MicSource) SampleRate() int { return m.sampleRate }

// Start opens the input stream and begins pushing blocks. The returned
// channel closes when capture stops.
func (m *MicSource) Start(ctx context.Context) (<-chan models.Block, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	dev, err := deviceByIndex(m.deviceIndex, portaudio.DefaultInputDevice)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if dev.MaxInputChannels < 1 {
		portaudio.Terminate()
		return nil, fmt.Errorf("device %q has no input channels", dev.Name)
	}

	m.sampleRate = m.forceRate
	if m.sampleRate == 0 {
		m.sampleRate = int(dev.DefaultSampleRate)
	}

	in := make([]float32, m.blockSize)
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultHighInputLatency,
		},
		SampleRate:      float64(m.sampleRate),
		FramesPerBuffer: m.blockSize,
	}
	stream, err := portaudio.OpenStream(params, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}
	m.stream = stream

	log.Info().
		Str("device", dev.Name).
		Int("sample_rate", m.sampleRate).
		Int("block_size", m.blockSize).
		Msg("Capturing live audio")

	go m.captureLoop(ctx, in)
	return m.out, nil
}

func (m *MicSource) captureLoop(ctx context.Context, in []float32) {
	defer close(m.out)
	defer close(m.done)

	// Unblock the pending Read when the context is canceled.
	stop := context.AfterFunc(ctx, func() { m.stream.Abort() })
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.quit:
			return
		default:
		}
		if err := m.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				log.Warn().Msg("input overflow, skipping block")
				continue
			}
			select {
			case <-ctx.Done():
			case <-m.quit:
			default:
				log.Error().Err(err).Msg("input stream read failed")
			}
			return
		}
		samples := make([]float32, len(in))
		copy(samples, in)
		trySend(m.out, models.Block{
			Samples:    samples,
			Channels:   1,
			SampleRate: m.sampleRate,
		})
	}
}

// Stop aborts capture and releases the stream. Safe to call more than
// once and after the channel has closed.
func (m *MicSource) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		if m.stream == nil {
			return
		}
		close(m.quit)
		m.stream.Abort()
		<-m.done
		err = m.stream.Close()
		portaudio.Terminate()
	})
	return err
}
