package hexfall

import (
	"fmt"
	"math"
	"strings"

	platformcore "github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

const (
	hudWidth  = 24
	minFieldW = 30
	minFieldH = 14
)

// blockColors maps block types to screen colors.
var blockColors = map[core.BlockType]platformcore.Color{
	core.BlockCentral: platformcore.ColorWhite,
	core.BlockStone:   platformcore.ColorGray,
	core.BlockRed:     platformcore.ColorRed,
	core.BlockGreen:   platformcore.ColorGreen,
	core.BlockBlue:    platformcore.ColorBlue,
	core.BlockYellow:  platformcore.ColorYellow,
	core.BlockPurple:  platformcore.ColorMagenta,
	core.BlockOrange:  platformcore.ColorOrange,
}

// viewport maps world coordinates to screen cells. World y points up.
type viewport struct {
	cx, cy int
	sx, sy float64
}

func (v viewport) project(p core.Vec2) (int, int) {
	return v.cx + int(math.Round(p.X*v.sx)), v.cy - int(math.Round(p.Y*v.sy))
}

// glyph returns the two characters drawn for a block.
func glyph(n *core.Node) string {
	switch {
	case n.Type == core.BlockCentral:
		return "<>"
	case n.Property == core.PropertyChained:
		return "##"
	case n.Property == core.PropertyBomb:
		return "**"
	case n.Property == core.PropertyGlow:
		return "++"
	case n.Attached:
		return "██"
	default:
		return "▓▓"
	}
}

// Render draws the playfield and the HUD.
func (g *Game) Render(dst *platformcore.Screen) {
	w, h := dst.Width(), dst.Height()
	fieldW := w - hudWidth
	if fieldW < minFieldW || h < minFieldH {
		dst.DrawTextCentered(h/2, "Terminal too small", platformcore.ColorRed)
		return
	}
	if g.level == nil {
		dst.DrawTextCentered(h/2-1, "Level failed to start", platformcore.ColorRed)
		if g.err != nil {
			dst.DrawTextCentered(h/2+1, g.err.Error(), platformcore.ColorGray)
		}
		return
	}

	settings := g.level.Settings()
	field := platformcore.NewRect(0, 0, fieldW, h)
	dst.DrawBox(field, platformcore.ColorDim)

	// Fit the spawn ring into the field; cells are about twice as tall as wide.
	reach := settings.SpawnRadius + settings.Geometry.Radius
	sy := float64(h/2-1) / reach
	sx := math.Min(2*sy, float64(fieldW/2-2)/reach)
	cx, cy := field.Center()
	vp := viewport{cx: cx, cy: cy, sx: sx, sy: sy}

	g.drawRing(dst, vp, settings.BoundaryRadius, '·', platformcore.ColorDim)
	g.drawSpawnPoints(dst, vp)

	g.level.Board().Each(func(n *core.Node) {
		x, y := vp.project(n.Pose.Pos)
		dst.DrawTextColored(x-1, y, glyph(n), blockColors[n.Type])
	})

	for _, p := range g.popups {
		x, y := vp.project(p.at)
		dst.DrawTextColored(x-len(p.text)/2, y, p.text, platformcore.ColorHighlight)
	}

	g.drawHUD(dst, fieldW+1)

	switch {
	case g.level.Over():
		g.drawGameOver(dst, field)
	case g.level.Paused():
		dst.DrawTextCentered(1, " PAUSED - press P ", platformcore.ColorYellow)
	}
}

// drawRing draws a dotted circle of world radius r.
func (g *Game) drawRing(dst *platformcore.Screen, vp viewport, r float64, ch rune, c platformcore.Color) {
	steps := int(2 * math.Pi * r * vp.sx)
	for i := 0; i < steps; i += 2 {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := vp.project(core.FromAngle(a).Scale(r))
		if dst.Get(x, y) == ' ' {
			dst.SetColored(x, y, ch, c)
		}
	}
}

// drawSpawnPoints marks every point, with a countdown on busy ones.
func (g *Game) drawSpawnPoints(dst *platformcore.Screen, vp viewport) {
	for _, p := range g.level.Spawner().Points() {
		x, y := vp.project(p.Pos)
		ev, busy := g.countdowns[p.ID]
		if !busy {
			dst.SetColored(x, y, '○', platformcore.ColorDim)
			continue
		}
		secs := int(math.Ceil(ev.Remaining))
		dst.DrawTextColored(x, y, fmt.Sprintf("%d", secs), blockColors[ev.Type])
	}
}

// drawHUD draws the side panel starting at column x.
func (g *Game) drawHUD(dst *platformcore.Screen, x int) {
	st := g.State()
	settings := g.level.Settings()
	row := 1

	line := func(text string, c platformcore.Color) {
		dst.DrawTextColored(x, row, text, c)
		row++
	}

	line(truncate(g.cfg.Title(), hudWidth-1), platformcore.ColorHighlight)
	if g.endless {
		line("endless", platformcore.ColorGray)
	}
	row++
	line(fmt.Sprintf("Score  %d", st.Score), platformcore.ColorWhite)
	line("Stars  "+starString(st.Stars), platformcore.ColorYellow)
	line(fmt.Sprintf("Next   %d", nextThreshold(settings.Stars, st.Score)), platformcore.ColorGray)
	row++
	line(fmt.Sprintf("Mult   x%d", st.Multiplier), platformcore.ColorCyan)
	line(bar(g.fraction, hudWidth-4), platformcore.ColorCyan)
	row++
	line("Time   "+g.timeLeft(), platformcore.ColorWhite)
	line(fmt.Sprintf("Blocks %d", g.level.Board().AttachedCount()), platformcore.ColorWhite)
	line(fmt.Sprintf("Speed  %.1f", g.level.Spawner().Speed()), platformcore.ColorGray)
	line(fmt.Sprintf("Wave   %.1fs", g.level.Spawner().Interval()), platformcore.ColorGray)

	if g.lastMatch.Matched() {
		row++
		line(fmt.Sprintf("Last   %d+%d", len(g.lastMatch.Destroyed), len(g.lastMatch.Floating)), platformcore.ColorGreen)
	}

	row = dst.Height() - 4
	line("A/D ←/→  rotate", platformcore.ColorDim)
	line("P pause  R restart", platformcore.ColorDim)
	line("Q quit", platformcore.ColorDim)
}

// drawGameOver draws the result box over the field.
func (g *Game) drawGameOver(dst *platformcore.Screen, field platformcore.Rect) {
	cx, cy := field.Center()
	box := platformcore.NewRect(cx-14, cy-4, 28, 9)
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, platformcore.ColorHighlight)

	st := g.State()
	center := func(y int, text string, c platformcore.Color) {
		dst.DrawTextColored(cx-len([]rune(text))/2, y, text, c)
	}
	center(box.Y+1, "GAME OVER", platformcore.ColorRed)
	center(box.Y+3, st.Reason, platformcore.ColorGray)
	center(box.Y+4, fmt.Sprintf("Score %d", st.Score), platformcore.ColorWhite)
	center(box.Y+5, starString(st.Stars), platformcore.ColorYellow)
	center(box.Y+7, "R restart  Q quit", platformcore.ColorDim)
}

func starString(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

// nextThreshold returns the next star threshold above score, or the top one.
func nextThreshold(stars [3]int, score int) int {
	for _, t := range stars {
		if score < t {
			return t
		}
	}
	return stars[2]
}

func bar(fraction float64, width int) string {
	filled := int(math.Round(platformcore.ClampF(fraction, 0, 1) * float64(width)))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
