// Package render draws the radial spectrum visualization in an SDL2
// window at a fixed frame rate.
package render

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/argile-city/vj/internal/config"
	"github.com/argile-city/vj/pkg/models"
)

// glitchThreshold is the RMS level above which the glitch effect kicks in.
const glitchThreshold = 0.25

// Window owns the SDL window and render loop. Run must be called from
// the main goroutine.
type Window struct {
	title  string
	video  config.VideoConfig
	visual config.VisualConfig
	rng    *rand.Rand
}

// NewWindow creates a window definition; SDL resources are created and
// released inside Run.
func NewWindow(title string, video config.VideoConfig, visual config.VisualConfig) *Window {
	return &Window{
		title:  title,
		video:  video,
		visual: visual,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run opens the window and renders spectrum snapshots until the user
// quits (window close, q, or Escape) or the context is canceled.
func (w *Window) Run(ctx context.Context, snapshot func() models.Spectrum) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	defer sdl.Quit()

	win, err := sdl.CreateWindow(w.title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		w.video.Width, w.video.Height, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Destroy()

	ren, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer ren.Destroy()

	log.Info().
		Int32("width", w.video.Width).
		Int32("height", w.video.Height).
		Int("fps", w.video.FPS).
		Msg("Render loop started")

	frame := time.Second / time.Duration(w.video.FPS)
	for {
		start := time.Now()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN &&
					(e.Keysym.Sym == sdl.K_q || e.Keysym.Sym == sdl.K_ESCAPE) {
					return nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := w.draw(ren, snapshot()); err != nil {
			return err
		}
		ren.Present()

		if elapsed := time.Since(start); elapsed < frame {
			sdl.Delay(uint32((frame - elapsed).Milliseconds()))
		}
	}
}

func (w *Window) draw(ren *sdl.Renderer, spec models.Spectrum) error {
	bg := w.visual.Background
	if err := ren.SetDrawColor(bg.R, bg.G, bg.B, 255); err != nil {
		return err
	}
	if err := ren.Clear(); err != nil {
		return err
	}

	cx := w.video.Width / 2
	cy := w.video.Height / 2
	maxRadius := MaxRadius(w.video.Width, w.video.Height)

	// Pulsating center disc driven by RMS.
	pulse := PulseColor(spec.RMS)
	ren.SetDrawColor(pulse.R, pulse.G, pulse.B, 255)
	fillCircle(ren, cx, cy, discRadius)

	// Radial frequency bars, colored by magnitude.
	n := len(spec.Magnitudes)
	for i := 0; i < n; i++ {
		mag := spec.Magnitudes[i]
		inner, outer := BarRadii(mag, maxRadius)
		x1, y1, x2, y2 := BarEndpoints(cx, cy, inner, outer, i, n)
		col := Lerp(w.visual.Secondary, w.visual.Primary, mag)
		ren.SetDrawColor(col.R, col.G, col.B, 255)
		ren.DrawLine(x1, y1, x2, y2)
	}

	if w.visual.Glitch && spec.RMS > glitchThreshold {
		w.drawGlitch(ren)
	}

	// HUD level meter.
	meterSpan := w.video.Width / 4
	ren.SetDrawColor(40, 40, 48, 255)
	ren.FillRect(&sdl.Rect{X: 10, Y: 10, W: meterSpan, H: 8})
	ren.SetDrawColor(200, 200, 200, 255)
	ren.FillRect(&sdl.Rect{X: 10, Y: 10, W: MeterWidth(spec.RMS, meterSpan), H: 8})

	return nil
}

// drawGlitch smears a few horizontal bands of background color across
// the frame on loud blocks.
func (w *Window) drawGlitch(ren *sdl.Renderer) {
	bg := w.visual.Background
	ren.SetDrawColor(bg.R, bg.G, bg.B, 255)
	for i := 0; i < 3; i++ {
		y := w.rng.Int31n(w.video.Height)
		h := 2 + w.rng.Int31n(6)
		x := w.rng.Int31n(w.video.Width/4) - w.video.Width/8
		ren.FillRect(&sdl.Rect{X: x, Y: y, W: w.video.Width, H: h})
	}
}

// fillCircle rasterizes a filled disc with horizontal scanlines; SDL2
// has no circle primitive.
func fillCircle(ren *sdl.Renderer, cx, cy, r int32) {
	for dy := -r; dy <= r; dy++ {
		half := int32(math.Sqrt(float64(r*r - dy*dy)))
		ren.DrawLine(cx-half, cy+dy, cx+half, cy+dy)
	}
}
