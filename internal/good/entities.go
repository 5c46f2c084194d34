package good

import "strings"

type Talent struct {
	Auto  int `json:"auto"`
	Skill int `json:"skill"`
	Burst int `json:"burst"`
}

// Character is identified by all of its fields: a re-synced character with any
// changed value is a different entry.
type Character struct {
	Key           string `json:"key"`
	Level         int    `json:"level"`
	Constellation int    `json:"constellation"`
	Ascension     int    `json:"ascension"`
	Talent        Talent `json:"talent"`
}

func (c Character) Identity() Character {
	return c
}

type Substat struct {
	Key   string  `json:"key"`
	Value Decimal `json:"value"`
}

type Artifact struct {
	SetKey      string    `json:"setKey"`
	SlotKey     string    `json:"slotKey"`
	Level       int       `json:"level"`
	Rarity      int       `json:"rarity"`
	MainStatKey string    `json:"mainStatKey"`
	Location    string    `json:"location"`
	Substats    []Substat `json:"substats"`
}

// ArtifactKey is the identity of an artifact. Location is not part of it, so
// an artifact moved to another character keeps its identity.
type ArtifactKey struct {
	SetKey      string
	SlotKey     string
	Level       int
	Rarity      int
	MainStatKey string
	Substats    string
}

func (a Artifact) Identity() ArtifactKey {
	var sb strings.Builder
	for i, s := range a.Substats {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(s.Key)
		sb.WriteByte('=')
		sb.WriteString(s.Value.String())
	}
	return ArtifactKey{
		SetKey:      a.SetKey,
		SlotKey:     a.SlotKey,
		Level:       a.Level,
		Rarity:      a.Rarity,
		MainStatKey: a.MainStatKey,
		Substats:    sb.String(),
	}
}

type Weapon struct {
	Key        string `json:"key"`
	Level      int    `json:"level"`
	Ascension  int    `json:"ascension"`
	Refinement int    `json:"refinement"`
	Location   string `json:"location"`
}

// WeaponKey is the identity of a weapon, location excluded.
type WeaponKey struct {
	Key        string
	Level      int
	Ascension  int
	Refinement int
}

func (w Weapon) Identity() WeaponKey {
	return WeaponKey{
		Key:        w.Key,
		Level:      w.Level,
		Ascension:  w.Ascension,
		Refinement: w.Refinement,
	}
}
