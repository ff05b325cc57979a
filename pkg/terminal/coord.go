package terminal

import (
	"fmt"
	"math"
)

// Arena dimensions. The board is a diamond inscribed in a 28x28 square; the
// bottom half (y < HalfArena) belongs to the local player.
const (
	ArenaSize = 28
	HalfArena = ArenaSize / 2
)

// Coord is a board cell as [x, y]. It marshals to the same two-element JSON
// array the host uses.
type Coord [2]int

// XY builds a Coord.
func XY(x, y int) Coord { return Coord{x, y} }

func (c Coord) X() int { return c[0] }
func (c Coord) Y() int { return c[1] }

func (c Coord) String() string { return fmt.Sprintf("[%d, %d]", c[0], c[1]) }

// Offset returns c shifted by (dx, dy).
func (c Coord) Offset(dx, dy int) Coord { return Coord{c[0] + dx, c[1] + dy} }

// Mirror reflects c across the vertical centre line of the arena.
func (c Coord) Mirror() Coord { return Coord{ArenaSize - 1 - c[0], c[1]} }

// Distance is the Euclidean distance between two cells.
func (c Coord) Distance(o Coord) float64 {
	dx := float64(c[0] - o[0])
	dy := float64(c[1] - o[1])
	return math.Sqrt(dx*dx + dy*dy)
}

// InArenaBounds reports whether c lies inside the diamond.
func InArenaBounds(c Coord) bool {
	x, y := c[0], c[1]
	if y < 0 || y >= ArenaSize {
		return false
	}
	var rowSize int
	if y < HalfArena {
		rowSize = y*2 + 2
	} else {
		rowSize = (ArenaSize-1-y)*2 + 2
	}
	startX := HalfArena - rowSize/2
	endX := startX + rowSize - 1
	return x >= startX && x <= endX
}

// LocationsInRange returns every in-bounds cell whose distance from c is
// within radius. The 0.51 slack matches how the host rounds ranges.
func LocationsInRange(c Coord, radius float64) []Coord {
	if radius < 0 {
		return nil
	}
	r := int(radius + 0.51)
	var out []Coord
	for x := c[0] - r; x <= c[0]+r; x++ {
		for y := c[1] - r; y <= c[1]+r; y++ {
			loc := Coord{x, y}
			if InArenaBounds(loc) && c.Distance(loc) < radius+0.51 {
				out = append(out, loc)
			}
		}
	}
	return out
}
