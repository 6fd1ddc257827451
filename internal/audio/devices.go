package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/argile-city/vj/pkg/models"
)

// ListDevices enumerates the audio devices PortAudio can see, with their
// PortAudio indices and channel counts.
func ListDevices() ([]models.Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to query audio devices: %w", err)
	}

	devices := make([]models.Device, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, models.Device{
			Index:             i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices, nil
}

// deviceByIndex resolves a device index from --device, falling back to
// the given default when index is negative.
func deviceByIndex(index int, fallback func() (*portaudio.DeviceInfo, error)) (*portaudio.DeviceInfo, error) {
	if index < 0 {
		return fallback()
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to query audio devices: %w", err)
	}
	if index >= len(infos) {
		return nil, fmt.Errorf("audio device index %d out of range (have %d devices)", index, len(infos))
	}
	return infos[index], nil
}
