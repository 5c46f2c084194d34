package translate

import (
	"errors"
	"fmt"
	"strconv"

	"goodsync/internal/enka"
	"goodsync/internal/good"
	"goodsync/internal/lookup"
)

// affixOffset maps a weapon item id onto the key of its own refinement affix.
const affixOffset = 100000

// ErrStaleTables is wrapped by every lookup miss that aborts a cycle.
var ErrStaleTables = errors.New("lookup tables are stale")

// Tables is the read-only lookup capability used by the Translator.
type Tables interface {
	Name(id string) (string, bool)
	Slot(equipType string) (string, bool)
	Stat(propID string) (string, bool)
	SkillOrder(key string) (lookup.SkillOrder, bool)
}

type LookupError struct {
	Table string
	Key   string
	Owner string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %q (character %s) failed: %v", e.Table, e.Key, e.Owner, ErrStaleTables)
}

func (e *LookupError) Unwrap() error {
	return ErrStaleTables
}

type SkipKind string

const (
	SkipCharacter SkipKind = "character"
	SkipArtifact  SkipKind = "artifact"
	SkipWeapon    SkipKind = "weapon"
)

// Skip records an entity left out of the batch because its name is unknown.
type Skip struct {
	Kind  SkipKind `json:"kind"`
	ID    string   `json:"id"`
	Owner string   `json:"owner"`
}

// Placeholder is the text reported in place of an unresolved name.
func (s Skip) Placeholder() string {
	return fmt.Sprintf("unknown %s %s", s.Kind, s.ID)
}

// Progress lists what was resolved for one character, in document order.
type Progress struct {
	Character string
	Artifacts []string
	Weapon    string
}

func (p Progress) String() string {
	s := "Found character " + p.Character + ":"
	for _, a := range p.Artifacts {
		s += " " + a + ","
	}
	if p.Weapon != "" {
		s += " " + p.Weapon + "."
	}
	return s
}

type Batch struct {
	good.Batch
	Skipped  []Skip
	Progress []Progress
}

type Translator struct {
	tables Tables
}

func NewTranslator(tables Tables) *Translator {
	return &Translator{tables: tables}
}

// Translate maps a decoded profile onto GOOD entities. Unknown names are
// skipped and reported; slot, stat and skill order misses return a
// *LookupError.
func (t *Translator) Translate(p *enka.Profile) (*Batch, error) {
	b := &Batch{}
	for _, rec := range p.Characters {
		if err := t.character(b, rec); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (t *Translator) character(b *Batch, rec enka.CharacterRecord) error {
	id := strconv.Itoa(rec.ID)
	progress := Progress{}

	key, known := t.tables.Name(id)
	if known {
		c, err := t.buildCharacter(key, rec)
		if err != nil {
			return err
		}
		b.Characters = append(b.Characters, c)
		progress.Character = key
	} else {
		skip := Skip{Kind: SkipCharacter, ID: id}
		b.Skipped = append(b.Skipped, skip)
		progress.Character = skip.Placeholder()
	}

	for _, item := range rec.Equipment {
		switch item.Kind {
		case enka.KindArtifact:
			name, err := t.artifact(b, key, id, item.Artifact)
			if err != nil {
				return err
			}
			progress.Artifacts = append(progress.Artifacts, name)
		case enka.KindWeapon:
			progress.Weapon = t.weapon(b, key, id, item.Weapon)
		}
	}

	b.Progress = append(b.Progress, progress)
	return nil
}

func (t *Translator) buildCharacter(key string, rec enka.CharacterRecord) (good.Character, error) {
	id := strconv.Itoa(rec.ID)
	skillKey := id
	if lookup.MultiDepotCharacters[id] {
		skillKey = id + "-" + strconv.Itoa(rec.SkillDepotID)
	}
	order, ok := t.tables.SkillOrder(skillKey)
	if !ok {
		return good.Character{}, &LookupError{Table: "skill order", Key: skillKey, Owner: key}
	}

	return good.Character{
		Key:           key,
		Level:         rec.Level,
		Constellation: rec.Constellation,
		Ascension:     rec.Ascension,
		Talent: good.Talent{
			Auto:  talentLevel(rec.SkillLevels, order.Auto),
			Skill: talentLevel(rec.SkillLevels, order.Skill),
			Burst: talentLevel(rec.SkillLevels, order.Burst),
		},
	}, nil
}

func talentLevel(levels map[string]int, skillID int) int {
	if lvl, ok := levels[strconv.Itoa(skillID)]; ok {
		return lvl
	}
	return 1
}

// artifact returns the resolved set key or a placeholder when the set is unknown.
func (t *Translator) artifact(b *Batch, location, ownerID string, a *enka.Artifact) (string, error) {
	owner := ownerLabel(location, ownerID)
	setKey, ok := t.tables.Name(a.SetNameID)
	if !ok {
		skip := Skip{Kind: SkipArtifact, ID: a.SetNameID, Owner: owner}
		b.Skipped = append(b.Skipped, skip)
		return skip.Placeholder(), nil
	}

	slot, ok := t.tables.Slot(a.EquipType)
	if !ok {
		return "", &LookupError{Table: "slot", Key: a.EquipType, Owner: owner}
	}
	mainStat, ok := t.tables.Stat(a.MainStat.PropID)
	if !ok {
		return "", &LookupError{Table: "stat", Key: a.MainStat.PropID, Owner: owner}
	}

	art := good.Artifact{
		SetKey:      setKey,
		SlotKey:     slot,
		Level:       a.Level - 1,
		Rarity:      a.Rarity,
		MainStatKey: mainStat,
		Location:    location,
		Substats:    make([]good.Substat, 0, len(a.Substats)),
	}
	for _, s := range a.Substats {
		statKey, ok := t.tables.Stat(s.PropID)
		if !ok {
			return "", &LookupError{Table: "stat", Key: s.PropID, Owner: owner}
		}
		value, err := good.ParseDecimal(s.Value.String())
		if err != nil {
			return "", fmt.Errorf("substat %s of %s: %w", s.PropID, owner, err)
		}
		art.Substats = append(art.Substats, good.Substat{Key: statKey, Value: value})
	}

	b.Artifacts = append(b.Artifacts, art)
	return setKey, nil
}

// weapon returns the resolved weapon key or a placeholder when the name is unknown.
func (t *Translator) weapon(b *Batch, location, ownerID string, w *enka.Weapon) string {
	key, ok := t.tables.Name(w.NameID)
	if !ok {
		skip := Skip{Kind: SkipWeapon, ID: w.NameID, Owner: ownerLabel(location, ownerID)}
		b.Skipped = append(b.Skipped, skip)
		return skip.Placeholder()
	}

	b.Weapons = append(b.Weapons, good.Weapon{
		Key:        key,
		Level:      w.Level,
		Ascension:  w.Promotion,
		Refinement: w.Affixes[strconv.Itoa(w.ItemID+affixOffset)] + 1,
		Location:   location,
	})
	return key
}

func ownerLabel(key, id string) string {
	if key != "" {
		return key
	}
	return id
}
