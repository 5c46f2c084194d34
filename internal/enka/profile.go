package enka

import json "github.com/goccy/go-json"

// Prop ids used in an avatar's propMap.
const (
	PropLevel     = "4001"
	PropAscension = "1002"
)

// Profile is the decoded form of an Enka profile document.
type Profile struct {
	Nickname   string
	UID        string
	TTL        int
	Characters []CharacterRecord
}

type CharacterRecord struct {
	ID            int
	SkillDepotID  int
	Level         int
	Ascension     int
	Constellation int
	// SkillLevels is keyed by skill id as found in the document.
	SkillLevels map[string]int
	Equipment   []EquippedItem
}

type ItemKind int

const (
	KindArtifact ItemKind = iota
	KindWeapon
)

func (k ItemKind) String() string {
	if k == KindWeapon {
		return "weapon"
	}
	return "artifact"
}

// EquippedItem holds exactly one of Artifact or Weapon, as named by Kind.
type EquippedItem struct {
	Kind     ItemKind
	Artifact *Artifact
	Weapon   *Weapon
}

type Stat struct {
	PropID string
	Value  json.Number
}

type Artifact struct {
	Level     int
	Rarity    int
	MainStat  Stat
	Substats  []Stat
	SetNameID string
	EquipType string
}

type Weapon struct {
	ItemID    int
	Level     int
	Promotion int
	Rarity    int
	Affixes   map[string]int
	NameID    string
}
