package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NpcAttributes holds base stats for an NPC type.
type NpcAttributes struct {
	MaxHP          int     `yaml:"max_hp"`
	MoveSpeed      float64 `yaml:"move_speed"`      // units per second
	AttackDamage   int     `yaml:"attack_damage"`
	AttackInterval float64 `yaml:"attack_interval"` // seconds
	AttackRange    float64 `yaml:"attack_range"`
	SearchRange    float64 `yaml:"search_range"`
}

// DefaultNpcAttributes mirrors the stats an NPC gets when its type has no entry.
func DefaultNpcAttributes() NpcAttributes {
	return NpcAttributes{
		MaxHP:          30,
		MoveSpeed:      3.5,
		AttackDamage:   10,
		AttackInterval: 1.0,
		AttackRange:    1.2,
		SearchRange:    10.0,
	}
}

// NpcTemplate binds an NPC type to its prefab and attributes.
type NpcTemplate struct {
	NpcID      int           `yaml:"npc_id"`
	Name       string        `yaml:"name"`
	Prefab     string        `yaml:"prefab"`
	Attributes NpcAttributes `yaml:"attributes"`
}

// NpcTable holds all NPC templates indexed by NpcID.
type NpcTable struct {
	templates map[int]*NpcTemplate
}

// LoadNpcTable loads NPC templates from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	return ParseNpcTable(raw)
}

// ParseNpcTable decodes NPC templates from YAML bytes. Attribute fields left
// out of an entry keep their defaults.
func ParseNpcTable(raw []byte) (*NpcTable, error) {
	// Decode entry by entry over defaults so partial attribute blocks work.
	var f struct {
		Npcs []yaml.Node `yaml:"npcs"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}
	t := &NpcTable{templates: make(map[int]*NpcTemplate, len(f.Npcs))}
	for i := range f.Npcs {
		tmpl := &NpcTemplate{Attributes: DefaultNpcAttributes()}
		if err := f.Npcs[i].Decode(tmpl); err != nil {
			return nil, fmt.Errorf("parse npc_list entry %d: %w", i, err)
		}
		t.templates[tmpl.NpcID] = tmpl
	}
	return t, nil
}

// Get returns an NPC template by ID, or nil if not found.
func (t *NpcTable) Get(npcID int) *NpcTemplate {
	return t.templates[npcID]
}

// Count returns the number of loaded templates.
func (t *NpcTable) Count() int {
	return len(t.templates)
}
