package bomber

import (
	"fmt"
	"time"

	platformcore "github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

// glyph is the two-column look of a map cell.
type glyph struct {
	text  string
	color platformcore.Color
}

var tileGlyphs = map[core.TileKind]glyph{
	core.TileEmpty:          {"  ", platformcore.ColorDefault},
	core.TileIndestructible: {"██", platformcore.ColorGray},
	core.TileDestructible:   {"▒▒", platformcore.ColorBrown},
	core.TileKey:            {"k ", platformcore.ColorBrightYellow},
	core.TileBonusBombInc:   {"B+", platformcore.ColorBrightGreen},
	core.TileBonusBombDec:   {"B-", platformcore.ColorRed},
	core.TileBonusRangeInc:  {"R+", platformcore.ColorBrightGreen},
	core.TileBonusRangeDec:  {"R-", platformcore.ColorRed},
	core.TileBonusLife:      {"<3", platformcore.ColorBrightMagenta},
}

var (
	doorLocked = glyph{"[]", platformcore.ColorYellow}
	doorOpen   = glyph{"[ ", platformcore.ColorBrightCyan}
	bombGlyph  = glyph{"()", platformcore.ColorOrange}
	fireGlyph  = glyph{"**", platformcore.ColorBrightRed}
)

var facingRunes = map[core.Direction]rune{
	core.North: '^',
	core.South: 'v',
	core.East:  '>',
	core.West:  '<',
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	if g.loadErr != nil {
		g.renderOverlay(dst, "Cannot start Bomber", g.loadErr.Error(), "Press R to retry, Q to quit")
		return
	}
	if g.session == nil {
		return
	}

	g.renderHUD(dst)

	if g.tooSmall {
		m := g.session.Map()
		g.renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need %dx%d", m.Width()*g.cellW, m.Height()+g.hudHeight+1), "Resize to continue")
		return
	}

	g.renderMap(dst)
	g.renderBombs(dst)
	g.renderPlayer(dst)

	s := g.session
	switch {
	case s.LevelCleared():
		g.renderOverlay(dst, fmt.Sprintf("Level %d cleared!", s.Level()+1), s.Map().Name())
	case s.Over() && s.Mode() == core.ModeWon:
		g.renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", s.Score()), "Press R to play again")
	case s.Over():
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d", s.Score()), "Press R to restart")
	case s.Mode() == core.ModePaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the status line and its separator.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	s := g.session
	p := s.Player()
	m := s.Map()

	door := "open"
	if m.DoorLocked() {
		door = fmt.Sprintf("keys %d/%d", p.Keys(), m.RequiredKeys())
	}
	hud := fmt.Sprintf(" Bomber | Level %d/%d %s | Lives %d | Bombs %d/%d | Range %d | Door %s | Score %d",
		s.Level()+1, s.LevelCount(), m.Name(), p.Lives(), p.BombsAvailable(), p.BombCapacity(),
		p.BlastRange(), door, s.Score())
	dst.DrawText(0, 0, hud)

	dst.DrawHLine(0, 1, dst.Width(), '─')
	if g.noticeTicks > 0 && g.notice != "" {
		dst.DrawTextColored(2, 1, " "+g.notice+" ", platformcore.ColorBrightCyan)
	}
}

func (g *Game) cell(dst *platformcore.Screen, pos core.Position, gl glyph) {
	x := g.mapOffsetX + pos.X*g.cellW
	y := g.mapOffsetY + pos.Y
	dst.DrawTextColored(x, y, gl.text, gl.color)
}

// renderMap draws walls, pickups and the door.
func (g *Game) renderMap(dst *platformcore.Screen) {
	m := g.session.Map()
	for y, row := range m.Tiles() {
		for x, k := range row {
			pos := core.Position{X: x, Y: y}
			if k == core.TileDoor {
				if m.DoorLocked() {
					g.cell(dst, pos, doorLocked)
				} else {
					g.cell(dst, pos, doorOpen)
				}
				continue
			}
			g.cell(dst, pos, tileGlyphs[k])
		}
	}
}

// renderBombs draws armed bombs and live explosions. Bombs blink faster
// as the fuse runs out.
func (g *Game) renderBombs(dst *platformcore.Screen) {
	for _, b := range g.session.Bombs() {
		switch b.State {
		case core.BombArmed:
			gl := bombGlyph
			if blink(g.tick, b.Fuse) {
				gl.color = platformcore.ColorBrightRed
			}
			g.cell(dst, b.Pos, gl)
		case core.BombExploding:
			for _, pos := range b.Footprint {
				g.cell(dst, pos, fireGlyph)
			}
		}
	}
}

func blink(tick uint64, left time.Duration) bool {
	period := uint64(16)
	if left < time.Second {
		period = 4
	}
	return tick%period < period/2
}

// renderPlayer draws the player with a facing marker.
func (g *Game) renderPlayer(dst *platformcore.Screen) {
	p := g.session.Player()
	gl := glyph{text: "@" + string(facingRunes[p.Facing()]), color: platformcore.ColorBrightWhite}
	g.cell(dst, p.Position(), gl)
}

// renderOverlay draws a centered box with up to three lines.
func (g *Game) renderOverlay(dst *platformcore.Screen, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	box := dst.Bounds().Centered(width+4, len(lines)+4)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	for i, l := range lines {
		x := box.X + (box.W-len([]rune(l)))/2
		dst.DrawText(x, box.Y+2+i, l)
	}
}
