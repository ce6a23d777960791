package spawn

import (
	"slices"

	"github.com/mpsoul/arena/internal/data"
)

// Timeline maps an integer second to the wave directives scheduled for it.
// Built once from a stage snapshot and never mutated afterwards; rebuilding
// from the same stage yields an identical table.
type Timeline struct {
	buckets map[int][]data.WaveDirective
	seconds []int
	npcIDs  []int
}

// BuildTimeline groups stage waves by second. Directive order inside a
// bucket follows source order; negative counts are clamped to zero.
func BuildTimeline(stage *data.StageInfo) *Timeline {
	t := &Timeline{buckets: make(map[int][]data.WaveDirective)}
	if stage == nil {
		return t
	}
	seen := make(map[int]struct{})
	for _, w := range stage.Waves {
		if w.Count < 0 {
			w.Count = 0
		}
		if _, ok := t.buckets[w.Time]; !ok {
			t.seconds = append(t.seconds, w.Time)
		}
		t.buckets[w.Time] = append(t.buckets[w.Time], w)
		if _, ok := seen[w.NpcID]; !ok {
			seen[w.NpcID] = struct{}{}
			t.npcIDs = append(t.npcIDs, w.NpcID)
		}
	}
	slices.Sort(t.seconds)
	return t
}

// Bucket returns the directives scheduled at second s, or nil.
func (t *Timeline) Bucket(s int) []data.WaveDirective {
	return t.buckets[s]
}

// Seconds returns the scheduled seconds in ascending order.
func (t *Timeline) Seconds() []int {
	return slices.Clone(t.seconds)
}

// NpcIDs returns each distinct npc id in first-seen order.
func (t *Timeline) NpcIDs() []int {
	return slices.Clone(t.npcIDs)
}

// Len returns the number of distinct scheduled seconds.
func (t *Timeline) Len() int { return len(t.seconds) }

// Equal reports whether two timelines schedule the same directives.
func (t *Timeline) Equal(o *Timeline) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.seconds, o.seconds) {
		return false
	}
	for _, s := range t.seconds {
		if !slices.Equal(t.buckets[s], o.buckets[s]) {
			return false
		}
	}
	return true
}
