package terminal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownUnit is returned when a shorthand does not name a configured unit.
var ErrUnknownUnit = errors.New("terminal: unknown unit")

// UnitStats holds the per-kind numbers from the game config.
type UnitStats struct {
	Shorthand     string  `json:"shorthand"`
	Category      int     `json:"unitCategory"`
	CostSP        float64 `json:"cost1"`
	CostMP        float64 `json:"cost2"`
	StartHealth   float64 `json:"startHealth"`
	AttackRange   float64 `json:"attackRange"`
	DamageWalker  float64 `json:"attackDamageWalker"`
	DamageTower   float64 `json:"attackDamageTower"`
	ShieldPerUnit float64 `json:"shieldPerUnit"`
	ShieldRange   float64 `json:"shieldRange"`
	Speed         float64 `json:"speed"`

	upgrade *statsOverride
}

// statsOverride carries the optional "upgrade" block. Absent fields keep the
// base value, so every field is a pointer.
type statsOverride struct {
	CostSP        *float64 `json:"cost1"`
	CostMP        *float64 `json:"cost2"`
	StartHealth   *float64 `json:"startHealth"`
	AttackRange   *float64 `json:"attackRange"`
	DamageWalker  *float64 `json:"attackDamageWalker"`
	DamageTower   *float64 `json:"attackDamageTower"`
	ShieldPerUnit *float64 `json:"shieldPerUnit"`
	ShieldRange   *float64 `json:"shieldRange"`
	Speed         *float64 `json:"speed"`
}

// Upgradeable reports whether the config defines an upgrade for this kind.
func (s UnitStats) Upgradeable() bool { return s.upgrade != nil }

// Cost returns the base price of the unit.
func (s UnitStats) Cost() Cost { return Cost{s.CostSP, s.CostMP} }

func (s UnitStats) upgraded() UnitStats {
	o := s.upgrade
	if o == nil {
		return s
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.CostSP, o.CostSP)
	set(&s.CostMP, o.CostMP)
	set(&s.StartHealth, o.StartHealth)
	set(&s.AttackRange, o.AttackRange)
	set(&s.DamageWalker, o.DamageWalker)
	set(&s.DamageTower, o.DamageTower)
	set(&s.ShieldPerUnit, o.ShieldPerUnit)
	set(&s.ShieldRange, o.ShieldRange)
	set(&s.Speed, o.Speed)
	return s
}

// Config is the parsed game config sent by the host before the first turn.
// It replaces the starter kit's global unit shorthands.
type Config struct {
	units       [unitTypeCount]UnitStats
	byShorthand map[string]UnitType
	raw         json.RawMessage
}

type rawUnitInfo struct {
	UnitStats
	Upgrade *statsOverride `json:"upgrade"`
}

// ParseConfig decodes the host's config message.
func ParseConfig(data []byte) (*Config, error) {
	var doc struct {
		UnitInformation []rawUnitInfo `json:"unitInformation"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(doc.UnitInformation) < int(Remove) {
		return nil, fmt.Errorf("config lists %d unit types, need at least %d", len(doc.UnitInformation), Remove)
	}

	cfg := &Config{
		byShorthand: make(map[string]UnitType, unitTypeCount),
		raw:         append(json.RawMessage(nil), data...),
	}
	for i := 0; i < unitTypeCount; i++ {
		var stats UnitStats
		if i < len(doc.UnitInformation) {
			info := doc.UnitInformation[i]
			stats = info.UnitStats
			stats.upgrade = info.Upgrade
		}
		if stats.Shorthand == "" {
			switch UnitType(i) {
			case Remove:
				stats.Shorthand = "RM"
			case Upgrade:
				stats.Shorthand = "UP"
			default:
				return nil, fmt.Errorf("unit %s has no shorthand", UnitType(i))
			}
		}
		cfg.units[i] = stats
		cfg.byShorthand[stats.Shorthand] = UnitType(i)
	}
	return cfg, nil
}

// Raw returns the config message exactly as received.
func (c *Config) Raw() json.RawMessage { return c.raw }

// Stats returns the base stats of a unit kind.
func (c *Config) Stats(t UnitType) UnitStats {
	if t < 0 || int(t) >= unitTypeCount {
		return UnitStats{}
	}
	return c.units[t]
}

// UpgradedStats returns the stats of a unit kind after its upgrade.
func (c *Config) UpgradedStats(t UnitType) UnitStats {
	return c.Stats(t).upgraded()
}

// Shorthand returns the wire name of a unit kind.
func (c *Config) Shorthand(t UnitType) string {
	return c.Stats(t).Shorthand
}

// TypeOf resolves a wire shorthand.
func (c *Config) TypeOf(shorthand string) (UnitType, error) {
	t, ok := c.byShorthand[shorthand]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, shorthand)
	}
	return t, nil
}

// MaxAttackRange is the largest attack range any unit can reach, upgraded
// or not. Attacker lookups search this radius.
func (c *Config) MaxAttackRange() float64 {
	var best float64
	for _, t := range UnitTypes() {
		if r := c.Stats(t).AttackRange; r > best {
			best = r
		}
		if r := c.UpgradedStats(t).AttackRange; r > best {
			best = r
		}
	}
	return best
}
