package adversary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Template defines a reusable adversary archetype loaded from YAML.
type Template struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Type is the capability-table tag, e.g. "weak-fast" or "brute".
	Type string `yaml:"type"`
	// MaxHP is the hit-point pool each spawned instance starts with.
	MaxHP int `yaml:"max_hp"`
	AC    int `yaml:"ac"`
	// InitiativeModifier is added to the spawn-time initiative roll.
	InitiativeModifier int `yaml:"initiative_modifier"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1, and
// AC >= 1; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("adversary template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("adversary template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("adversary template %q: max_hp must be >= 1", t.ID)
	}
	if t.AC < 1 {
		return fmt.Errorf("adversary template %q: ac must be >= 1", t.ID)
	}
	return nil
}

// Instance pairs a spawned combatant with its capability tag. The tag lives
// here rather than on the core Combatant so the scheduler stays ignorant of
// adversary capabilities.
type Instance struct {
	Combatant *combat.Combatant
	Type      Type
}

// Profile returns the capability row for this instance's type.
func (i Instance) Profile() Profile {
	return Stats(i.Type)
}

// Spawn materializes one live combatant from the template: a fresh uuid, a
// rolled initiative (d20 + the template's modifier), full HP, and adversary
// allegiance.
//
// Precondition: t must Validate; src must be non-nil.
func (t *Template) Spawn(src dice.Source) Instance {
	return Instance{
		Combatant: &combat.Combatant{
			ID:         uuid.NewString(),
			Name:       t.Name,
			Initiative: rules.ResolveInitiative(src, t.InitiativeModifier),
			CurrentHP:  t.MaxHP,
			MaxHP:      t.MaxHP,
			AC:         t.AC,
			Allegiance: combat.AllegianceAdversary,
		},
		Type: ParseType(t.Type),
	}
}

// LoadTemplateFromBytes parses a single adversary template from raw YAML.
//
// Postcondition: Returns a validated *Template or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing adversary template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed
// templates keyed by template ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading adversary dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}
