package data

import (
	"fmt"
	"os"

	"github.com/mpsoul/arena/internal/geom"
	"gopkg.in/yaml.v3"
)

// WaveDirective schedules Count NPCs of NpcID at second Time.
// A zero Position means "not set": the spawn point index is used instead.
type WaveDirective struct {
	Time            int       `yaml:"time"`
	NpcID           int       `yaml:"npc_id"`
	Count           int       `yaml:"count"`
	SpawnPointIndex int       `yaml:"spawn_point"`
	Position        geom.Vec3 `yaml:"position"`
}

// StageInfo is the immutable per-stage snapshot consumed by the room.
type StageInfo struct {
	StageID     int             `yaml:"stage_id"`
	Name        string          `yaml:"name"`
	Duration    int             `yaml:"duration"` // seconds
	SpawnPoints []geom.Vec3     `yaml:"spawn_points"`
	Waves       []WaveDirective `yaml:"waves"`
}

type stageListFile struct {
	Stages []StageInfo `yaml:"stages"`
}

// StageTable holds all stages indexed by StageID.
type StageTable struct {
	stages map[int]*StageInfo
}

// LoadStageTable loads stage definitions from a YAML file.
func LoadStageTable(path string) (*StageTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage_list: %w", err)
	}
	return ParseStageTable(raw)
}

// ParseStageTable decodes stage definitions from YAML bytes.
func ParseStageTable(raw []byte) (*StageTable, error) {
	var f stageListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse stage_list: %w", err)
	}
	t := &StageTable{stages: make(map[int]*StageInfo, len(f.Stages))}
	for i := range f.Stages {
		s := &f.Stages[i]
		if s.Duration < 0 {
			s.Duration = 0
		}
		if _, dup := t.stages[s.StageID]; dup {
			return nil, fmt.Errorf("parse stage_list: duplicate stage_id %d", s.StageID)
		}
		t.stages[s.StageID] = s
	}
	return t, nil
}

// Get returns a stage by ID, or nil if not found.
func (t *StageTable) Get(stageID int) *StageInfo {
	return t.stages[stageID]
}

// Count returns the number of loaded stages.
func (t *StageTable) Count() int {
	return len(t.stages)
}
