package terminal

import "math"

type moveDirection int

const (
	moveNone moveDirection = iota
	moveHorizontal
	moveVertical
)

type pathNode struct {
	visitedIdealness bool
	visitedValidate  bool
	blocked          bool
	pathLength       int
}

// pathFinder reproduces the host's unit pathing: find the most ideal
// reachable cell, flood path lengths back from it, then walk downhill from
// the start preferring to alternate direction and to head towards the
// target edge.
type pathFinder struct {
	nodes [ArenaSize][ArenaSize]pathNode
}

func newPathFinder(m *GameMap) *pathFinder {
	pf := &pathFinder{}
	for x := 0; x < ArenaSize; x++ {
		for y := 0; y < ArenaSize; y++ {
			pf.nodes[x][y].pathLength = -1
			if m.StationaryAt(Coord{x, y}) != nil {
				pf.nodes[x][y].blocked = true
			}
		}
	}
	return pf
}

func (pf *pathFinder) node(c Coord) *pathNode { return &pf.nodes[c.X()][c.Y()] }

func (pf *pathFinder) open(c Coord) bool {
	return InArenaBounds(c) && !pf.node(c).blocked
}

func neighbors(c Coord) [4]Coord {
	return [4]Coord{c.Offset(0, 1), c.Offset(0, -1), c.Offset(1, 0), c.Offset(-1, 0)}
}

func (pf *pathFinder) navigate(start Coord, endPoints []Coord) []Coord {
	if len(endPoints) == 0 {
		return nil
	}
	ideal := pf.idealnessSearch(start, endPoints)
	pf.validate(ideal, endPoints)
	return pf.walk(start, endPoints)
}

func (pf *pathFinder) idealnessSearch(start Coord, endPoints []Coord) Coord {
	queue := []Coord{start}
	best := idealness(start, endPoints)
	pf.node(start).visitedIdealness = true
	mostIdeal := start

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbors(cur) {
			if !pf.open(n) {
				continue
			}
			if v := idealness(n, endPoints); v > best {
				best = v
				mostIdeal = n
			}
			if nd := pf.node(n); !nd.visitedIdealness {
				nd.visitedIdealness = true
				queue = append(queue, n)
			}
		}
	}
	return mostIdeal
}

// edgeDirection is the (x, y) sign of travel towards the target edge.
func edgeDirection(endPoints []Coord) (dx, dy int) {
	p := endPoints[0]
	dx, dy = 1, 1
	if p.X() < HalfArena {
		dx = -1
	}
	if p.Y() < HalfArena {
		dy = -1
	}
	return dx, dy
}

func idealness(c Coord, endPoints []Coord) int {
	for _, e := range endPoints {
		if e == c {
			return math.MaxInt
		}
	}
	dx, dy := edgeDirection(endPoints)
	v := 0
	if dy == 1 {
		v += ArenaSize * c.Y()
	} else {
		v += ArenaSize * (ArenaSize - 1 - c.Y())
	}
	if dx == 1 {
		v += c.X()
	} else {
		v += ArenaSize - 1 - c.X()
	}
	return v
}

func (pf *pathFinder) validate(ideal Coord, endPoints []Coord) {
	var queue []Coord
	seed := []Coord{ideal}
	for _, e := range endPoints {
		if e == ideal {
			seed = endPoints
			break
		}
	}
	for _, c := range seed {
		nd := pf.node(c)
		nd.pathLength = 0
		nd.visitedValidate = true
		queue = append(queue, c)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curNode := pf.node(cur)
		for _, n := range neighbors(cur) {
			if !pf.open(n) {
				continue
			}
			nd := pf.node(n)
			if !nd.visitedValidate && !curNode.blocked {
				nd.pathLength = curNode.pathLength + 1
				nd.visitedValidate = true
				queue = append(queue, n)
			}
		}
	}
}

func (pf *pathFinder) walk(start Coord, endPoints []Coord) []Coord {
	path := []Coord{start}
	cur := start
	dir := moveNone
	for pf.node(cur).pathLength > 0 {
		next := pf.chooseNextMove(cur, dir, endPoints)
		if next == cur {
			break
		}
		if cur.X() == next.X() {
			dir = moveVertical
		} else {
			dir = moveHorizontal
		}
		path = append(path, next)
		cur = next
	}
	return path
}

func (pf *pathFinder) chooseNextMove(cur Coord, prev moveDirection, endPoints []Coord) Coord {
	best := cur
	bestLength := pf.node(cur).pathLength
	for _, n := range neighbors(cur) {
		if !pf.open(n) {
			continue
		}
		length := pf.node(n).pathLength
		if length < 0 || length > bestLength {
			continue
		}
		if length == bestLength && !betterDirection(cur, n, best, prev, endPoints) {
			continue
		}
		best = n
		bestLength = length
	}
	return best
}

func betterDirection(prevTile, newTile, prevBest Coord, prev moveDirection, endPoints []Coord) bool {
	if prev == moveHorizontal && newTile.X() != prevBest.X() {
		return prevTile.Y() != newTile.Y()
	}
	if prev == moveVertical && newTile.Y() != prevBest.Y() {
		return prevTile.X() != newTile.X()
	}
	if prev == moveNone {
		return prevTile.Y() != newTile.Y()
	}

	dx, dy := edgeDirection(endPoints)
	if newTile.Y() == prevBest.Y() {
		return (dx == 1 && newTile.X() > prevBest.X()) || (dx == -1 && newTile.X() < prevBest.X())
	}
	if newTile.X() == prevBest.X() {
		return (dy == 1 && newTile.Y() > prevBest.Y()) || (dy == -1 && newTile.Y() < prevBest.Y())
	}
	return true
}
