// Package level holds the native side of the engine's level world: the
// level metadata, the player with the level return stack, the HUD, and
// the bindable sprites level scripts can talk to.
package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kumoworks/kumo/internal/core"
	"github.com/kumoworks/kumo/internal/event"
)

// Level is the native model of one loaded level. Scripts see it through
// the read-only Level singleton; they cannot mutate these fields.
type Level struct {
	event.Table

	Name          string
	Author        string
	Description   string
	Difficulty    int // 0 = undefined, 1 = very easy, 100 = effectively uncompletable
	EngineVersion int
	Filename      string
	MusicFilename string
	NextLevel     string
	Script        string

	// Boundaries has X and Y at zero; the height is usually negative
	// because world coordinates grow upward (see core.Rect).
	Boundaries core.Rect

	// StartPosition is where the player enters the level from the world
	// map or level menu, not via a sublevel entry.
	StartPosition core.Point

	// FixedHorizontalVelocity is nonzero only in auto-scrolling levels.
	FixedHorizontalVelocity float64

	SecretAreas []*SecretArea
	Beetles     []*Beetle
}

type yamlRect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type yamlPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlSprite struct {
	Type           string   `yaml:"type"`
	UID            int      `yaml:"uid"`
	Rect           yamlRect `yaml:"rect,omitempty"`
	Color          string   `yaml:"color,omitempty"`
	RestLivingTime float64  `yaml:"rest_living_time,omitempty"`
}

type yamlLevel struct {
	Name                    string       `yaml:"name"`
	Author                  string       `yaml:"author,omitempty"`
	Description             string       `yaml:"description,omitempty"`
	Difficulty              int          `yaml:"difficulty,omitempty"`
	EngineVersion           int          `yaml:"engine_version"`
	Music                   string       `yaml:"music,omitempty"`
	NextLevel               string       `yaml:"next_level,omitempty"`
	Boundaries              yamlRect     `yaml:"boundaries"`
	StartPosition           yamlPoint    `yaml:"start_position"`
	FixedHorizontalVelocity float64      `yaml:"fixed_horizontal_velocity,omitempty"`
	Sprites                 []yamlSprite `yaml:"sprites,omitempty"`
	Script                  string       `yaml:"script,omitempty"`
}

// LoadFile reads a level definition from a YAML file.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: reading %s: %w", path, err)
	}
	lv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: parsing %s: %w", path, err)
	}
	lv.Filename = path
	return lv, nil
}

// Parse decodes a level definition from YAML bytes.
func Parse(data []byte) (*Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.Name == "" {
		return nil, fmt.Errorf("level has no name")
	}

	lv := &Level{
		Name:                    yl.Name,
		Author:                  yl.Author,
		Description:             yl.Description,
		Difficulty:              yl.Difficulty,
		EngineVersion:           yl.EngineVersion,
		MusicFilename:           yl.Music,
		NextLevel:               yl.NextLevel,
		Script:                  yl.Script,
		Boundaries:              core.NewRect(yl.Boundaries.X, yl.Boundaries.Y, yl.Boundaries.W, yl.Boundaries.H),
		StartPosition:           core.Point{X: yl.StartPosition.X, Y: yl.StartPosition.Y},
		FixedHorizontalVelocity: yl.FixedHorizontalVelocity,
	}

	for _, s := range yl.Sprites {
		switch s.Type {
		case "secret_area":
			lv.SecretAreas = append(lv.SecretAreas, &SecretArea{
				UID:  s.UID,
				Rect: core.NewRect(s.Rect.X, s.Rect.Y, s.Rect.W, s.Rect.H),
			})
		case "beetle":
			color := s.Color
			if color == "" {
				color = "blue"
			}
			lv.Beetles = append(lv.Beetles, &Beetle{
				UID:            s.UID,
				Color:          color,
				RestLivingTime: s.RestLivingTime,
			})
		default:
			return nil, fmt.Errorf("unknown sprite type %q (uid %d)", s.Type, s.UID)
		}
	}

	return lv, nil
}

// SpriteByUID finds a bindable sprite by its level-editor UID. The second
// return value names the sprite's script class.
func (l *Level) SpriteByUID(uid int) (any, string) {
	for _, s := range l.SecretAreas {
		if s.UID == uid {
			return s, "SecretArea"
		}
	}
	for _, b := range l.Beetles {
		if b.UID == uid {
			return b, "Beetle"
		}
	}
	return nil, ""
}

// Sprites returns every bindable sprite in the level, used by teardown to
// invalidate handles and clear event tables.
func (l *Level) Sprites() []event.Source {
	out := make([]event.Source, 0, len(l.SecretAreas)+len(l.Beetles))
	for _, s := range l.SecretAreas {
		out = append(out, s)
	}
	for _, b := range l.Beetles {
		out = append(out, b)
	}
	return out
}
