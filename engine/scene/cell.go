package scene

import (
	"math/rand"

	"github.com/Carmen-Shannon/herogrid/engine/theme"
	"github.com/chewxy/math32"
)

const (
	// gridSize is the number of cells along each axis of the grid.
	gridSize = 5

	// gridSpacing is the world-unit distance between neighboring cell centers.
	gridSpacing = 1.2

	// clockStep is the amount the scene clock advances each frame.
	clockStep = 0.02

	// growthStep is the per-frame progress increment while a cell grows in.
	growthStep = 0.03

	// collapseStep is the per-frame progress increment while a cell collapses.
	collapseStep = 0.02

	// highlightPeriod is the length of each cell's highlight cycle in clock
	// units. A cell flashes while its cycle value is below highlightWindow,
	// and a collapse episode may trigger inside (collapseTriggerMin,
	// collapseTriggerMax).
	highlightPeriod    = 18.0
	highlightWindow    = 0.5
	collapseTriggerMin = 0.3
	collapseTriggerMax = 0.35

	// expandHeight is how far past its wave target a cell stretches during an
	// expand episode before retracting.
	expandHeight = 5.0
)

// cellMode is the tag of a cell's animation state. Exactly one mode is active
// at any time; the mode-specific fields of cell are only meaningful while
// their mode is active.
type cellMode int

const (
	// modeDormant: created but not yet spawned; invisible until the clock
	// passes the cell's spawn delay.
	modeDormant cellMode = iota

	// modeGrowing: scaling in from zero height toward the wave target.
	modeGrowing

	// modeIdle: following the wave motion, eligible for hover, highlight, and
	// collapse triggers.
	modeIdle

	// modeCollapsing: playing a shrink or expand-then-retract episode.
	modeCollapsing

	// modeHidden: invisible, waiting out a randomized interval before
	// growing back in.
	modeHidden
)

// collapseStyle selects which collapse episode a cell plays next.
type collapseStyle int

const (
	collapseShrink collapseStyle = iota
	collapseExpand
)

// cell is one animated cube of the grid. All mutation happens on the frame
// goroutine via step; the scene's lock covers concurrent reads.
type cell struct {
	gridX, gridZ int
	posX, posZ   float32

	// Fixed at creation, never mutated.
	spawnDelay    float32
	highlightTime float32

	mode cellMode

	// progress drives the growing mode and both collapse sub-modes; it is
	// reset to 0 on every mode transition that uses it.
	progress   float32
	style      collapseStyle
	dir        float32 // +1 expands up, -1 expands down
	retracting bool

	// hiddenSince/hiddenWait bound the hidden interval; hiddenWait is
	// re-randomized every episode.
	hiddenSince float32
	hiddenWait  float32

	hovered bool
	visible bool

	// Frame outputs consumed by instance building.
	scaleY  float32
	offsetY float32
	opacity float32
	fill    [3]float32
	wire    [3]float32
}

// newCell creates the cell at grid coordinates (gx, gz), centered so the full
// grid straddles the world origin. Cells start dormant and invisible; the
// spawn delay staggers the initial reveal.
func newCell(gx, gz int, rng *rand.Rand) *cell {
	c := &cell{
		gridX:         gx,
		gridZ:         gz,
		posX:          (float32(gx) - float32(gridSize-1)/2) * gridSpacing,
		posZ:          (float32(gz) - float32(gridSize-1)/2) * gridSpacing,
		spawnDelay:    rng.Float32() * 3,
		highlightTime: rng.Float32() * highlightPeriod,
	}
	c.randomizeEpisode(rng)
	return c
}

// randomizeEpisode picks the collapse style and expand direction used the
// next time this cell collapses.
func (c *cell) randomizeEpisode(rng *rand.Rand) {
	if rng.Intn(2) == 0 {
		c.style = collapseShrink
	} else {
		c.style = collapseExpand
	}
	c.dir = 1
	if rng.Intn(2) == 0 {
		c.dir = -1
	}
}

// waveTarget is the idle "wave" height for this cell at the given clock
// value: three amplitude-weighted sines of the clock and the cell's grid
// coordinates, averaged and mapped into [0.5, 1.5]ish around 1.
func (c *cell) waveTarget(time float32) float32 {
	x := float32(c.gridX)
	z := float32(c.gridZ)
	height := (math32.Sin(time*2+x) +
		math32.Sin(time*3+z)*0.5 +
		math32.Sin(time*4+x+z)*0.3) / 3
	return 1 + height*0.5
}

// enterHidden transitions the cell into the hidden mode at the given clock
// value and re-randomizes the parameters of its next episode.
func (c *cell) enterHidden(time float32, rng *rand.Rand) {
	c.mode = modeHidden
	c.visible = false
	c.hiddenSince = time
	c.hiddenWait = 2 + rng.Float32()*2
	c.retracting = false
	c.randomizeEpisode(rng)
}

// step advances the cell one frame. hoverActive reports whether any cell in
// the grid is currently hovered; it suppresses the highlight flash grid-wide.
func (c *cell) step(time float32, hoverActive bool, rng *rand.Rand, pal theme.Palette) {
	switch c.mode {
	case modeDormant:
		if time < c.spawnDelay {
			return
		}
		c.mode = modeGrowing
		c.progress = 0
		c.visible = true
	case modeHidden:
		if time-c.hiddenSince < c.hiddenWait {
			return
		}
		c.mode = modeGrowing
		c.progress = 0
		c.visible = true
	}

	target := c.waveTarget(time)

	if c.mode == modeGrowing {
		c.progress += growthStep
		if c.progress >= 1 {
			c.progress = 1
			c.mode = modeIdle
		}
		c.scaleY = target * c.progress
		c.offsetY = 0
		c.opacity = 0
		c.fill = pal.Fill
		c.wire = pal.Wireframe
		return
	}

	cycle := math32.Mod(time+c.highlightTime, highlightPeriod)
	highlighted := !hoverActive && cycle < highlightWindow

	if c.mode == modeCollapsing {
		c.progress += collapseStep

		switch c.style {
		case collapseShrink:
			c.scaleY = target * (1 - c.progress)
			c.offsetY = 0
			if c.progress >= 1 {
				c.scaleY = 0
				c.enterHidden(time, rng)
			}
		case collapseExpand:
			if !c.retracting {
				// Stretch from the wave target toward target+expandHeight
				// over the first half of the episode, growing away from
				// center in the chosen direction.
				c.scaleY = target + (c.progress/0.5)*expandHeight
				c.offsetY = c.dir * (c.scaleY - target) / 2
				if c.progress >= 0.5 {
					c.retracting = true
					c.progress = 0
				}
			} else {
				c.scaleY = (target + expandHeight) * (1 - c.progress)
				c.offsetY = c.dir * (expandHeight / 2) * (1 - c.progress)
				if c.progress >= 1 {
					c.scaleY = 0
					c.offsetY = 0
					c.enterHidden(time, rng)
				}
			}
		}

		c.opacity = 0.3
		c.fill = pal.Highlight
		c.wire = pal.Wireframe
		return
	}

	// Idle: follow the wave and maybe start a collapse episode.
	c.scaleY = target
	c.offsetY = 0

	if highlighted && cycle > collapseTriggerMin && cycle < collapseTriggerMax {
		c.mode = modeCollapsing
		c.progress = 0
	}

	switch {
	case c.hovered:
		c.opacity = 1
		c.fill = pal.FillHover
		c.wire = pal.WireframeHover
	case highlighted:
		c.opacity = 0.3
		c.fill = pal.Highlight
		c.wire = pal.Wireframe
	default:
		c.opacity = 0
		c.fill = pal.Fill
		c.wire = pal.Wireframe
	}
}

// collapsing reports whether the cell is mid-collapse. Collapsing cells
// ignore hover changes in both directions.
func (c *cell) collapsing() bool {
	return c.mode == modeCollapsing
}

// bounds returns the cell's world-space axis-aligned bounding box as a
// center and half-extents, matching the cube's current transform.
func (c *cell) bounds() (center, halfExtents [3]float32) {
	center = [3]float32{c.posX, c.offsetY, c.posZ}
	halfExtents = [3]float32{0.5, c.scaleY / 2, 0.5}
	return center, halfExtents
}
