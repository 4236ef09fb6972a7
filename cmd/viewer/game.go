package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/system"
	"github.com/milk9111/lockstep/host"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var keyActions = map[ebiten.Key]string{
	ebiten.KeyA:          system.ActionLeft,
	ebiten.KeyArrowLeft:  system.ActionLeft,
	ebiten.KeyD:          system.ActionRight,
	ebiten.KeyArrowRight: system.ActionRight,
	ebiten.KeyW:          system.ActionUp,
	ebiten.KeyArrowUp:    system.ActionUp,
	ebiten.KeyS:          system.ActionDown,
	ebiten.KeyArrowDown:  system.ActionDown,
	ebiten.KeySpace:      system.ActionJump,
	ebiten.KeyJ:          system.ActionFire,
	ebiten.KeyE:          system.ActionUse,
}

// Game drives the world from ebiten's loop. The world's render system hands
// it the draw list; Draw only paints that copy and never touches the
// registry.
type Game struct {
	world  *host.World
	logger zerolog.Logger

	items []system.DrawItem
	view  system.View
	last  time.Time
	stats ecs.UpdateStats

	pixel  *ebiten.Image
	images map[string]*ebiten.Image
	face   ebtext.Face

	paused bool
	quit   bool
	pause  *pauseUI
}

func NewGame(logger zerolog.Logger) *Game {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	g := &Game{
		logger: logger,
		pixel:  pixel,
		images: make(map[string]*ebiten.Image),
		face:   ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pause = newPauseUI(g)
	return g
}

// Render implements system.Renderer.
func (g *Game) Render(items []system.DrawItem, view system.View) {
	g.items = append(g.items[:0], items...)
	g.view = view
}

func (g *Game) Update() error {
	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	dt := now.Sub(g.last)
	g.last = now

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.update()
		if g.quit {
			return ebiten.Termination
		}
		return nil
	}

	for key, action := range keyActions {
		if inpututil.IsKeyJustPressed(key) {
			g.world.Events.Push(ecs.InputEvent{Action: action, Pressed: true})
		}
		if inpututil.IsKeyJustReleased(key) {
			g.world.Events.Push(ecs.InputEvent{Action: action, Pressed: false})
		}
	}
	g.stats = g.world.Frame(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	zoom := g.view.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	for _, item := range g.items {
		img, w, h := g.image(item)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w, h)
		op.GeoM.Translate(-item.Sprite.OriginX, -item.Sprite.OriginY)
		op.GeoM.Scale(item.ScaleX, item.ScaleY)
		op.GeoM.Rotate(item.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate((item.X-g.view.X)*zoom+baseWidth/2, (item.Y-g.view.Y)*zoom+baseHeight/2)
		if img == g.pixel {
			op.ColorScale.ScaleWithColor(parseColor(item.Sprite.Color))
		}
		screen.DrawImage(img, op)

		if item.Label != "" {
			lop := &ebtext.DrawOptions{}
			lop.GeoM.Translate((item.X-g.view.X)*zoom+baseWidth/2, (item.Y-g.view.Y-item.Sprite.OriginY)*zoom+baseHeight/2-14)
			lop.ColorScale.ScaleWithColor(colornames.Lightgray)
			ebtext.Draw(screen, item.Label, g.face, lop)
		}
	}

	hud := fmt.Sprintf("tick %d  steps %d  entities %d  FPS %.1f",
		g.world.Scheduler.Tick(), g.stats.Steps, g.world.Registry.Len(), ebiten.ActualFPS())
	hop := &ebtext.DrawOptions{}
	hop.GeoM.Translate(8, 8)
	hop.ColorScale.ScaleWithColor(colornames.White)
	ebtext.Draw(screen, hud, g.face, hop)

	if g.paused {
		g.pause.draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// image returns what to draw for item and the scale that maps it onto the
// sprite's size. Sprites without a loadable image are drawn as filled
// rectangles.
func (g *Game) image(item system.DrawItem) (*ebiten.Image, float64, float64) {
	s := item.Sprite
	if s.Image != "" {
		img, ok := g.images[s.Image]
		if !ok {
			loaded, _, err := ebitenutil.NewImageFromFile(s.Image)
			if err != nil {
				g.logger.Warn().Err(err).Str("image", s.Image).Msg("sprite image unavailable, drawing a rectangle")
			}
			img = loaded
			g.images[s.Image] = img
		}
		if img != nil {
			b := img.Bounds()
			sx, sy := 1.0, 1.0
			if s.Width > 0 {
				sx = s.Width / float64(b.Dx())
			}
			if s.Height > 0 {
				sy = s.Height / float64(b.Dy())
			}
			return img, sx, sy
		}
	}
	return g.pixel, s.Width, s.Height
}

// parseColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
func parseColor(s string) color.Color {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return colornames.White
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colornames.White
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
