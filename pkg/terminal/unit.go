package terminal

// Player identifies a side of the board.
type Player int

const (
	Self     Player = iota // always owns the bottom half
	Opponent
)

func (p Player) String() string {
	if p == Self {
		return "self"
	}
	return "opponent"
}

// Resource identifies one of the two spendable budgets.
type Resource int

const (
	SP Resource = iota // structure points, spent on structures and upgrades
	MP                 // mobile points, spent on mobile units
)

func (r Resource) String() string {
	if r == SP {
		return "SP"
	}
	return "MP"
}

// Cost is a price in both resources, indexed by Resource.
type Cost [2]float64

// UnitType is a unit kind. The numeric value is the unit's index in the
// game config's unitInformation list and in the p1Units/p2Units arrays.
type UnitType int

const (
	Wall UnitType = iota
	Support
	Turret
	Scout
	Demolisher
	Interceptor
	Remove  // wire-only: removal request
	Upgrade // wire-only: upgrade request
)

const unitTypeCount = 8

var unitTypeNames = [unitTypeCount]string{
	"wall", "support", "turret", "scout", "demolisher", "interceptor", "remove", "upgrade",
}

func (u UnitType) String() string {
	if u < 0 || int(u) >= unitTypeCount {
		return "unknown"
	}
	return unitTypeNames[u]
}

// Stationary reports whether u is a structure that occupies one cell.
func (u UnitType) Stationary() bool {
	return u == Wall || u == Support || u == Turret
}

// Mobile reports whether u is a unit that walks a path.
func (u UnitType) Mobile() bool {
	return u == Scout || u == Demolisher || u == Interceptor
}

// UnitTypes returns the six placeable unit kinds in config order.
func UnitTypes() []UnitType {
	return []UnitType{Wall, Support, Turret, Scout, Demolisher, Interceptor}
}

// ParseUnitType maps a unit name ("wall", "turret", ...) to its UnitType.
func ParseUnitType(name string) (UnitType, bool) {
	for i, n := range unitTypeNames[:Remove] {
		if n == name {
			return UnitType(i), true
		}
	}
	return 0, false
}

// Unit is a single unit on the board.
type Unit struct {
	Type           UnitType
	Player         Player
	Location       Coord
	Health         float64
	MaxHealth      float64
	Upgraded       bool
	PendingRemoval bool
	Stats          UnitStats
}

func newUnit(cfg *Config, t UnitType, p Player, loc Coord, health float64) *Unit {
	stats := cfg.Stats(t)
	u := &Unit{
		Type:      t,
		Player:    p,
		Location:  loc,
		MaxHealth: stats.StartHealth,
		Stats:     stats,
	}
	if health < 0 {
		u.Health = stats.StartHealth
	} else {
		u.Health = health
	}
	return u
}

// Stationary reports whether the unit is a structure.
func (u *Unit) Stationary() bool { return u.Type.Stationary() }

// HealthRatio returns health / max health, or 1 when max health is unknown.
func (u *Unit) HealthRatio() float64 {
	if u.MaxHealth <= 0 {
		return 1
	}
	return u.Health / u.MaxHealth
}

// upgrade applies the config's upgrade overrides. A local upgrade raises
// health by the max health gained, so a full structure stays full; a frame
// already reports the post-upgrade health.
func (u *Unit) upgrade(cfg *Config, local bool) {
	if u.Upgraded {
		return
	}
	prevMax := u.MaxHealth
	u.Stats = cfg.UpgradedStats(u.Type)
	u.MaxHealth = u.Stats.StartHealth
	if local && u.MaxHealth > prevMax {
		u.Health += u.MaxHealth - prevMax
	}
	u.Upgraded = true
}
