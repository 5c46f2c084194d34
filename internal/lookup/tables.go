package lookup

import (
	"fmt"
	"maps"
)

type SkillOrder struct {
	Auto  int
	Skill int
	Burst int
}

// CharacterEntry is a character row of a table bundle. Keys are either a
// character id or "{id}-{skillDepotId}" for characters with several depots.
type CharacterEntry struct {
	Key        string `json:"key,omitempty"`
	SkillOrder []int  `json:"skillOrder"`
}

// Bundle is the on-disk form of the lookup tables.
type Bundle struct {
	Names      map[string]string         `json:"names"`
	Characters map[string]CharacterEntry `json:"characters"`
	Slots      map[string]string         `json:"slots,omitempty"`
	Stats      map[string]string         `json:"stats,omitempty"`
}

// Tables is the immutable lookup service. It is safe for concurrent reads.
type Tables struct {
	names  map[string]string
	slots  map[string]string
	stats  map[string]string
	skills map[string]SkillOrder
}

// New builds Tables from a bundle. Built-in slot and stat keys are used unless
// the bundle overrides them, and character keys are served by Name as well.
func New(b *Bundle) (*Tables, error) {
	t := &Tables{
		names:  make(map[string]string, len(b.Names)+len(b.Characters)),
		slots:  maps.Clone(DefaultSlots),
		stats:  maps.Clone(DefaultStats),
		skills: make(map[string]SkillOrder, len(b.Characters)),
	}
	maps.Copy(t.names, b.Names)
	maps.Copy(t.slots, b.Slots)
	maps.Copy(t.stats, b.Stats)

	for id, entry := range b.Characters {
		if entry.Key != "" {
			t.names[id] = entry.Key
		}
		if len(entry.SkillOrder) == 0 {
			continue
		}
		if len(entry.SkillOrder) != 3 {
			return nil, fmt.Errorf("character %s: skill order has %d entries, expected 3", id, len(entry.SkillOrder))
		}
		t.skills[id] = SkillOrder{Auto: entry.SkillOrder[0], Skill: entry.SkillOrder[1], Burst: entry.SkillOrder[2]}
	}
	return t, nil
}

func (t *Tables) Name(id string) (string, bool) {
	v, ok := t.names[id]
	return v, ok
}

func (t *Tables) Slot(equipType string) (string, bool) {
	v, ok := t.slots[equipType]
	return v, ok
}

func (t *Tables) Stat(propID string) (string, bool) {
	v, ok := t.stats[propID]
	return v, ok
}

func (t *Tables) SkillOrder(key string) (SkillOrder, bool) {
	v, ok := t.skills[key]
	return v, ok
}

func (t *Tables) Len() (names, characters int) {
	return len(t.names), len(t.skills)
}
