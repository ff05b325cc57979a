package bot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/breachline/pkg/terminal"
)

type coords = []terminal.Coord

// Layout holds the board coordinates every posture works from. The funnel
// channel is stored once, for the right-hand variant; the left variant is
// its mirror image.
type Layout struct {
	Starter    StarterLayout    `yaml:"starter"`
	Funnel     FunnelLayout     `yaml:"funnel"`
	Demolisher DemolisherLayout `yaml:"demolisher"`
	// PruneWatch lists the structures checked for low health every turn.
	PruneWatch coords `yaml:"prune_watch"`
}

// StarterLayout is the opening perimeter.
type StarterLayout struct {
	Walls          coords `yaml:"walls"`
	Turrets        coords `yaml:"turrets"`
	AnchorUpgrades coords `yaml:"anchor_upgrades"`
	FlexUpgrades   coords `yaml:"flex_upgrades"`
	RemoveTurrets  coords `yaml:"remove_turrets"`
	RemoveWalls    coords `yaml:"remove_walls"`
}

// FunnelLayout is the permanent skeleton plus the canonical channel.
type FunnelLayout struct {
	SkeletonWalls   coords `yaml:"skeleton_walls"`
	SkeletonTurrets coords `yaml:"skeleton_turrets"`
	// Lanes are the launch cells compared by path risk. Picking the first
	// lane selects the canonical (right) channel, the second its mirror.
	Lanes   [2]terminal.Coord `yaml:"lanes"`
	Channel FunnelSide        `yaml:"channel"`
}

// FunnelSide is one handed variant of the funnel channel.
type FunnelSide struct {
	Walls           coords      `yaml:"walls"`
	Turrets         coords      `yaml:"turrets"`
	GapPatch        coords      `yaml:"gap_patch"`
	StarterSupports coords      `yaml:"starter_supports"`
	Upgrades        coords      `yaml:"upgrades"`
	Supports        coords      `yaml:"supports"`
	Squad           SquadPoints `yaml:"squad"`
}

// Mirror reflects every coordinate of the side across the centre line.
func (s FunnelSide) Mirror() FunnelSide {
	return FunnelSide{
		Walls:           mirrorAll(s.Walls),
		Turrets:         mirrorAll(s.Turrets),
		GapPatch:        mirrorAll(s.GapPatch),
		StarterSupports: mirrorAll(s.StarterSupports),
		Upgrades:        mirrorAll(s.Upgrades),
		Supports:        mirrorAll(s.Supports),
		Squad: SquadPoints{
			Forward:   s.Squad.Forward.Mirror(),
			Primary:   s.Squad.Primary.Mirror(),
			Secondary: s.Squad.Secondary.Mirror(),
		},
	}
}

func mirrorAll(cs coords) coords {
	if cs == nil {
		return nil
	}
	out := make(coords, len(cs))
	for i, c := range cs {
		out[i] = c.Mirror()
	}
	return out
}

// DemolisherLayout is the long-range demolisher line.
type DemolisherLayout struct {
	Line   coords         `yaml:"line"`
	Launch terminal.Coord `yaml:"launch"`
	Count  int            `yaml:"count"`
}

// DefaultLayout returns the stock coordinates.
func DefaultLayout() *Layout {
	skeletonWalls := coords{
		{2, 13}, {3, 13}, {24, 13}, {25, 13},
		{10, 7}, {11, 7}, {12, 7}, {13, 7}, {14, 7}, {15, 7}, {16, 7}, {17, 7},
	}
	skeletonTurrets := coords{{3, 12}, {24, 12}}

	var line coords
	for x := 1; x <= 24; x++ {
		line = append(line, terminal.XY(x, 12))
	}

	return &Layout{
		Starter: StarterLayout{
			Walls:          coords{{0, 13}, {1, 13}, {2, 13}, {3, 13}, {24, 13}, {25, 13}, {26, 13}, {27, 13}},
			Turrets:        coords{{3, 12}, {24, 12}, {5, 11}, {9, 11}, {13, 11}, {17, 11}, {21, 11}},
			AnchorUpgrades: coords{{3, 12}, {24, 12}, {2, 13}, {3, 13}, {24, 13}, {25, 13}},
			FlexUpgrades:   coords{{5, 11}, {21, 11}, {9, 11}, {17, 11}, {13, 11}},
			RemoveTurrets:  coords{{5, 11}, {9, 11}, {13, 11}, {17, 11}, {21, 11}},
			RemoveWalls:    coords{{0, 13}, {1, 13}, {26, 13}, {27, 13}},
		},
		Funnel: FunnelLayout{
			SkeletonWalls:   skeletonWalls,
			SkeletonTurrets: skeletonTurrets,
			Lanes:           [2]terminal.Coord{{13, 0}, {14, 0}},
			Channel: FunnelSide{
				Walls: coords{
					{0, 13}, {1, 13}, {22, 13}, {23, 13}, {3, 10}, {19, 10}, {20, 10}, {21, 10}, {22, 10},
					{4, 9}, {5, 8}, {18, 8}, {19, 8}, {6, 7}, {7, 7}, {8, 7}, {9, 7},
				},
				Turrets: coords{
					{1, 12}, {2, 12}, {22, 12}, {23, 12}, {2, 11}, {23, 11}, {19, 9}, {20, 9}, {7, 6}, {16, 6}, {17, 6},
				},
				GapPatch:        coords{{27, 13}, {26, 13}},
				StarterSupports: coords{{12, 3}, {11, 4}},
				Upgrades:        coords{{25, 13}, {0, 13}, {1, 13}, {24, 13}, {23, 12}, {3, 12}, {22, 12}},
				Supports: coords{
					{13, 2}, {10, 5}, {16, 4}, {15, 3}, {14, 5}, {15, 5}, {16, 5}, {17, 5}, {13, 4}, {14, 4}, {15, 4},
				},
				Squad: SquadPoints{
					Forward:   terminal.XY(26, 12),
					Primary:   terminal.XY(13, 0),
					Secondary: terminal.XY(11, 2),
				},
			},
		},
		Demolisher: DemolisherLayout{
			Line:   line,
			Launch: terminal.XY(2, 11),
			Count:  6,
		},
		PruneWatch: append(append(coords{}, skeletonWalls...), skeletonTurrets...),
	}
}

// LoadLayout reads a YAML layout. Sections missing from the file keep their
// default coordinates.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a YAML layout over the defaults.
func ParseLayout(data []byte) (*Layout, error) {
	l := DefaultLayout()
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate rejects layouts the plans cannot run.
func (l *Layout) Validate() error {
	if l.Funnel.Lanes[0] == l.Funnel.Lanes[1] {
		return fmt.Errorf("layout: funnel lanes must differ, both are %v", l.Funnel.Lanes[0])
	}
	if l.Demolisher.Count < 0 {
		return fmt.Errorf("layout: demolisher count %d is negative", l.Demolisher.Count)
	}
	return nil
}
