package terminal

// Edge names one of the four diagonal sides of the arena.
type Edge int

const (
	TopRight Edge = iota
	TopLeft
	BottomLeft
	BottomRight
)

func (e Edge) String() string {
	switch e {
	case TopRight:
		return "top_right"
	case TopLeft:
		return "top_left"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return "unknown"
}

var edges = buildEdges()

func buildEdges() [4][]Coord {
	var e [4][]Coord
	for n := 0; n < HalfArena; n++ {
		e[TopRight] = append(e[TopRight], Coord{HalfArena + n, ArenaSize - 1 - n})
		e[TopLeft] = append(e[TopLeft], Coord{HalfArena - 1 - n, ArenaSize - 1 - n})
		e[BottomLeft] = append(e[BottomLeft], Coord{HalfArena - 1 - n, n})
		e[BottomRight] = append(e[BottomRight], Coord{HalfArena + n, n})
	}
	return e
}

// EdgeLocations returns the cells along one edge, ordered from the centre
// line outwards.
func EdgeLocations(e Edge) []Coord {
	if e < TopRight || e > BottomRight {
		return nil
	}
	return append([]Coord(nil), edges[e]...)
}

// OnEdge reports whether c lies on edge e.
func OnEdge(c Coord, e Edge) bool {
	if e < TopRight || e > BottomRight {
		return false
	}
	for _, loc := range edges[e] {
		if loc == c {
			return true
		}
	}
	return false
}

// TargetEdge returns the edge a mobile unit starting at c walks towards:
// the one diagonally opposite its starting quadrant.
func TargetEdge(c Coord) Edge {
	left := c.X() < HalfArena
	bottom := c.Y() < HalfArena
	switch {
	case left && bottom:
		return TopRight
	case left && !bottom:
		return BottomRight
	case !left && bottom:
		return TopLeft
	default:
		return BottomLeft
	}
}

// GameMap holds the units on every cell of the arena.
type GameMap struct {
	cfg   *Config
	cells [ArenaSize][ArenaSize][]*Unit
}

// NewGameMap returns an empty board.
func NewGameMap(cfg *Config) *GameMap {
	return &GameMap{cfg: cfg}
}

// At returns the units on a cell. Out-of-bounds cells hold nothing.
func (m *GameMap) At(c Coord) []*Unit {
	if !InArenaBounds(c) {
		return nil
	}
	return m.cells[c.X()][c.Y()]
}

// StationaryAt returns the structure on a cell, or nil.
func (m *GameMap) StationaryAt(c Coord) *Unit {
	for _, u := range m.At(c) {
		if u.Stationary() {
			return u
		}
	}
	return nil
}

// AddUnit places a unit. A structure replaces whatever was on the cell;
// mobile units stack. A negative health means full health.
func (m *GameMap) AddUnit(t UnitType, c Coord, p Player, health float64) *Unit {
	if !InArenaBounds(c) || t < Wall || t > Interceptor {
		return nil
	}
	u := newUnit(m.cfg, t, p, c, health)
	if u.Stationary() {
		m.cells[c.X()][c.Y()] = []*Unit{u}
	} else {
		m.cells[c.X()][c.Y()] = append(m.cells[c.X()][c.Y()], u)
	}
	return u
}

// RemoveUnits clears a cell.
func (m *GameMap) RemoveUnits(c Coord) {
	if InArenaBounds(c) {
		m.cells[c.X()][c.Y()] = nil
	}
}

// StationaryUnits returns every structure on the board in column-major order.
func (m *GameMap) StationaryUnits() []*Unit {
	var out []*Unit
	for x := 0; x < ArenaSize; x++ {
		for y := 0; y < ArenaSize; y++ {
			for _, u := range m.cells[x][y] {
				if u.Stationary() {
					out = append(out, u)
				}
			}
		}
	}
	return out
}
