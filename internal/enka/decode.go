package enka

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// DecodeError reports a profile document that lacks a field required to build
// the profile. It aborts the whole cycle.
type DecodeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode profile"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// textHash accepts text map hashes sent either as strings or as numbers.
type textHash string

func (h *textHash) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	*h = textHash(s)
	return nil
}

type rawProfile struct {
	PlayerInfo *struct {
		Nickname string `json:"nickname"`
	} `json:"playerInfo"`
	AvatarInfoList []rawAvatar `json:"avatarInfoList"`
	TTL            int         `json:"ttl"`
	UID            textHash    `json:"uid"`
}

type rawProp struct {
	Val *string `json:"val"`
}

type rawAvatar struct {
	AvatarID      *int               `json:"avatarId"`
	TalentIDList  []int              `json:"talentIdList"`
	PropMap       map[string]rawProp `json:"propMap"`
	SkillDepotID  int                `json:"skillDepotId"`
	SkillLevelMap map[string]int     `json:"skillLevelMap"`
	EquipList     []rawEquip         `json:"equipList"`
}

type rawEquip struct {
	ItemID    *int          `json:"itemId"`
	Reliquary *rawReliquary `json:"reliquary"`
	Weapon    *rawWeapon    `json:"weapon"`
	Flat      *rawFlat      `json:"flat"`
}

type rawReliquary struct {
	Level *int `json:"level"`
}

type rawWeapon struct {
	Level        *int           `json:"level"`
	PromoteLevel *int           `json:"promoteLevel"`
	AffixMap     map[string]int `json:"affixMap"`
}

type rawStat struct {
	MainPropID   string      `json:"mainPropId"`
	AppendPropID string      `json:"appendPropId"`
	StatValue    json.Number `json:"statValue"`
}

type rawFlat struct {
	NameTextMapHash    textHash  `json:"nameTextMapHash"`
	SetNameTextMapHash textHash  `json:"setNameTextMapHash"`
	RankLevel          int       `json:"rankLevel"`
	EquipType          string    `json:"equipType"`
	ReliquaryMainstat  *rawStat  `json:"reliquaryMainstat"`
	ReliquarySubstats  []rawStat `json:"reliquarySubstats"`
}

// Decode parses a profile document.
func Decode(data []byte) (*Profile, error) {
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: "malformed document", Err: err}
	}
	if raw.PlayerInfo == nil {
		return nil, &DecodeError{Path: "playerInfo", Reason: "missing"}
	}

	p := &Profile{
		Nickname:   raw.PlayerInfo.Nickname,
		UID:        string(raw.UID),
		TTL:        raw.TTL,
		Characters: make([]CharacterRecord, 0, len(raw.AvatarInfoList)),
	}
	for i, a := range raw.AvatarInfoList {
		c, err := decodeAvatar(fmt.Sprintf("avatarInfoList[%d]", i), a)
		if err != nil {
			return nil, err
		}
		p.Characters = append(p.Characters, c)
	}
	return p, nil
}

func decodeAvatar(path string, a rawAvatar) (CharacterRecord, error) {
	if a.AvatarID == nil {
		return CharacterRecord{}, &DecodeError{Path: path + ".avatarId", Reason: "missing"}
	}

	level, err := propValue(path, a.PropMap, PropLevel, 1)
	if err != nil {
		return CharacterRecord{}, err
	}
	ascension, err := propValue(path, a.PropMap, PropAscension, 0)
	if err != nil {
		return CharacterRecord{}, err
	}

	c := CharacterRecord{
		ID:            *a.AvatarID,
		SkillDepotID:  a.SkillDepotID,
		Level:         level,
		Ascension:     ascension,
		Constellation: len(a.TalentIDList),
		SkillLevels:   a.SkillLevelMap,
		Equipment:     make([]EquippedItem, 0, len(a.EquipList)),
	}
	if c.SkillLevels == nil {
		c.SkillLevels = map[string]int{}
	}

	for i, e := range a.EquipList {
		item, err := decodeEquip(fmt.Sprintf("%s.equipList[%d]", path, i), e)
		if err != nil {
			return CharacterRecord{}, err
		}
		c.Equipment = append(c.Equipment, item)
	}
	return c, nil
}

// propValue reads a numeric prop that Enka sends as a nullable string.
func propValue(path string, props map[string]rawProp, id string, fallback int) (int, error) {
	prop, ok := props[id]
	if !ok || prop.Val == nil {
		return fallback, nil
	}
	v, err := strconv.Atoi(*prop.Val)
	if err != nil {
		return 0, &DecodeError{Path: path + ".propMap." + id + ".val", Reason: "not an integer", Err: err}
	}
	return v, nil
}

// decodeEquip tells artifacts and weapons apart by the presence of the
// reliquary or weapon object; a document carrying both or neither is rejected.
func decodeEquip(path string, e rawEquip) (EquippedItem, error) {
	switch {
	case e.Reliquary != nil && e.Weapon != nil:
		return EquippedItem{}, &DecodeError{Path: path, Reason: "ambiguous item: both reliquary and weapon present"}
	case e.Reliquary != nil:
		a, err := decodeArtifact(path, e)
		if err != nil {
			return EquippedItem{}, err
		}
		return EquippedItem{Kind: KindArtifact, Artifact: a}, nil
	case e.Weapon != nil:
		w, err := decodeWeapon(path, e)
		if err != nil {
			return EquippedItem{}, err
		}
		return EquippedItem{Kind: KindWeapon, Weapon: w}, nil
	default:
		return EquippedItem{}, &DecodeError{Path: path, Reason: "unknown item: neither reliquary nor weapon present"}
	}
}

func decodeArtifact(path string, e rawEquip) (*Artifact, error) {
	if e.Flat == nil {
		return nil, &DecodeError{Path: path + ".flat", Reason: "missing"}
	}
	if e.Reliquary.Level == nil {
		return nil, &DecodeError{Path: path + ".reliquary.level", Reason: "missing"}
	}
	if e.Flat.EquipType == "" {
		return nil, &DecodeError{Path: path + ".flat.equipType", Reason: "missing"}
	}
	ms := e.Flat.ReliquaryMainstat
	if ms == nil || ms.MainPropID == "" {
		return nil, &DecodeError{Path: path + ".flat.reliquaryMainstat", Reason: "missing"}
	}

	a := &Artifact{
		Level:     *e.Reliquary.Level,
		Rarity:    e.Flat.RankLevel,
		MainStat:  Stat{PropID: ms.MainPropID, Value: ms.StatValue},
		Substats:  make([]Stat, 0, len(e.Flat.ReliquarySubstats)),
		SetNameID: string(e.Flat.SetNameTextMapHash),
		EquipType: e.Flat.EquipType,
	}
	for i, s := range e.Flat.ReliquarySubstats {
		if s.AppendPropID == "" {
			return nil, &DecodeError{Path: fmt.Sprintf("%s.flat.reliquarySubstats[%d].appendPropId", path, i), Reason: "missing"}
		}
		a.Substats = append(a.Substats, Stat{PropID: s.AppendPropID, Value: s.StatValue})
	}
	return a, nil
}

func decodeWeapon(path string, e rawEquip) (*Weapon, error) {
	if e.Flat == nil {
		return nil, &DecodeError{Path: path + ".flat", Reason: "missing"}
	}
	if e.ItemID == nil {
		return nil, &DecodeError{Path: path + ".itemId", Reason: "missing"}
	}
	if e.Weapon.Level == nil {
		return nil, &DecodeError{Path: path + ".weapon.level", Reason: "missing"}
	}

	w := &Weapon{
		ItemID:  *e.ItemID,
		Level:   *e.Weapon.Level,
		Rarity:  e.Flat.RankLevel,
		Affixes: e.Weapon.AffixMap,
		NameID:  string(e.Flat.NameTextMapHash),
	}
	if e.Weapon.PromoteLevel != nil {
		w.Promotion = *e.Weapon.PromoteLevel
	}
	return w, nil
}
