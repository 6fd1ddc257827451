package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/argile-city/vj/internal/audio"
	"github.com/argile-city/vj/internal/config"
	"github.com/argile-city/vj/internal/pipeline"
	"github.com/argile-city/vj/internal/render"
	"github.com/argile-city/vj/internal/session"
)

func init() {
	// SDL event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := pflag.NewFlagSet("vj", pflag.ExitOnError)
	source := flags.String("source", "", "audio file to play and visualize")
	mic := flags.Bool("mic", false, "visualize live microphone input")
	blockSize := flags.Int("blocksize", 1024, "FFT block size in samples")
	sampleRate := flags.Int("samplerate", 0, "force sample rate (0 = device/file native)")
	device := flags.Int("device", -1, "PortAudio device index (see --list-devices)")
	listDevices := flags.Bool("list-devices", false, "list audio devices and exit")
	record := flags.String("record", "", "write a session summary JSON to this path on exit")
	configFile := flags.String("config", "", "config file path (default: ./vj.yaml if present)")
	flags.Parse(os.Args[1:])

	if *listDevices {
		if err := printDevices(); err != nil {
			fmt.Fprintln(os.Stderr, "Unable to list audio devices via PortAudio:", err)
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "On Linux install the system libraries and retry:")
			fmt.Fprintln(os.Stderr, "  Debian/Ubuntu: sudo apt install libportaudio2 portaudio19-dev")
			fmt.Fprintln(os.Stderr, "  Fedora: sudo dnf install portaudio portaudio-devel")
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Flags override config file and environment values.
	if flags.Changed("blocksize") {
		cfg.Audio.BlockSize = *blockSize
	}
	if flags.Changed("samplerate") {
		cfg.Audio.SampleRate = *sampleRate
	}
	if flags.Changed("device") {
		cfg.Audio.Device = *device
	}
	if flags.Changed("record") {
		cfg.Record.Path = *record
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *source != "" && *mic {
		log.Fatal().Msg("--source and --mic are mutually exclusive")
	}
	if *source == "" && !*mic {
		log.Fatal().Msg("one of --source or --mic is required")
	}

	var src audio.Source
	name := *source
	if *mic {
		name = "mic"
		src = audio.NewMicSource(cfg.Audio.BlockSize, cfg.Audio.Device, cfg.Audio.SampleRate)
	} else {
		src = audio.NewFileSource(*source, cfg.Audio.BlockSize, cfg.Audio.Device, cfg.Audio.SampleRate)
	}

	var rec session.Recorder
	if cfg.Record.Path != "" {
		rec = session.NewFileRecorder(cfg.Record.Path)
	}

	win := render.NewWindow("VJ Visualizer - "+name, cfg.Video, cfg.Visual)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(src, win, rec, name, cfg.Audio.BlockSize, cfg.Record.Peaks)
	if err := runner.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Visualizer failed")
	}
	log.Info().Msg("Visualizer exited")
}

// printDevices lists every PortAudio device with its index and channel
// counts, matching what --device accepts.
func printDevices() error {
	devices, err := audio.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("%d: %s  in=%d out=%d  default_rate=%.0f\n",
			d.Index, d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return nil
}
