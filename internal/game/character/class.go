package character

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Class defines a character class kit loaded from YAML.
type Class struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// HitPointsPerLevel is the flat HP granted per level before the
	// Constitution modifier.
	HitPointsPerLevel int `yaml:"hit_points_per_level"`
	// KeyAbility names the ability boosted at creation: one of strength,
	// dexterity, constitution, intelligence, wisdom, charisma.
	KeyAbility string `yaml:"key_ability"`
	// AttackBonus is the kit's flat to-hit bonus.
	AttackBonus int `yaml:"attack_bonus"`
	// Damage is the kit's damage dice expression, e.g. "1d8+3".
	Damage string `yaml:"damage"`
	// ArmorClass is the kit's AC.
	ArmorClass int `yaml:"armor_class"`
}

var validAbilities = map[string]bool{
	"strength": true, "dexterity": true, "constitution": true,
	"intelligence": true, "wisdom": true, "charisma": true,
}

// Validate checks that the class satisfies basic invariants, including that
// the damage expression parses.
func (c *Class) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("class: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("class %q: name must not be empty", c.ID)
	}
	if c.HitPointsPerLevel < 1 {
		return fmt.Errorf("class %q: hit_points_per_level must be >= 1", c.ID)
	}
	if !validAbilities[c.KeyAbility] {
		return fmt.Errorf("class %q: key_ability %q is not an ability", c.ID, c.KeyAbility)
	}
	if c.ArmorClass < 1 {
		return fmt.Errorf("class %q: armor_class must be >= 1", c.ID)
	}
	if _, err := dice.Parse(c.Damage); err != nil {
		return fmt.Errorf("class %q: %w", c.ID, err)
	}
	return nil
}

// LoadClasses reads all *.yaml files in dir and returns the parsed classes
// keyed by class ID.
//
// Precondition: dir must be a readable directory.
func LoadClasses(dir string) (map[string]*Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading class dir %q: %w", dir, err)
	}

	classes := make(map[string]*Class)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := classes[c.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate class id %q", path, c.ID)
		}
		classes[c.ID] = &c
	}
	return classes, nil
}
