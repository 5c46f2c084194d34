package lookup

import (
	"fmt"
	"strings"
	"unicode"

	json "github.com/goccy/go-json"
)

// MultiDepotCharacters have one skill order per skill depot; their talents are
// looked up with "{id}-{skillDepotId}".
var MultiDepotCharacters = map[string]bool{
	"10000005": true,
	"10000007": true,
}

const travelerKey = "Traveler"

// UpstreamCharacter is an entry of the Enka characters.json store.
type UpstreamCharacter struct {
	NameTextMapHash json.Number `json:"NameTextMapHash"`
	SkillOrder      []int       `json:"SkillOrder"`
}

// Build generates a bundle from the Enka loc.json and characters.json stores
// using the texts of lang.
func Build(loc map[string]map[string]string, characters map[string]UpstreamCharacter, lang string) (*Bundle, error) {
	texts, ok := loc[lang]
	if !ok {
		return nil, fmt.Errorf("language %q not found in locale data", lang)
	}

	b := &Bundle{
		Names:      make(map[string]string, len(texts)),
		Characters: make(map[string]CharacterEntry, len(characters)),
	}
	for hash, text := range texts {
		if key := GoodKey(text); key != "" {
			b.Names[hash] = key
		}
	}

	for id, c := range characters {
		entry := CharacterEntry{SkillOrder: c.SkillOrder}
		base, _, _ := strings.Cut(id, "-")
		switch {
		case MultiDepotCharacters[base]:
			entry.Key = travelerKey
		case c.NameTextMapHash != "":
			name, ok := b.Names[c.NameTextMapHash.String()]
			if !ok {
				return nil, fmt.Errorf("character %s: name hash %s not found in locale data", id, c.NameTextMapHash)
			}
			entry.Key = name
		}
		b.Characters[id] = entry

		// Name lookups use the bare id, so every form needs a keyed base row.
		if base != id && MultiDepotCharacters[base] {
			if _, ok := b.Characters[base]; !ok {
				b.Characters[base] = CharacterEntry{Key: travelerKey}
			}
		}
	}
	return b, nil
}

// GoodKey converts a display name into a GOOD key: apostrophes are dropped,
// every word is capitalised and everything that is not a letter or digit is
// removed ("Wolf's Gravestone" -> "WolfsGravestone").
func GoodKey(text string) string {
	var sb strings.Builder
	upper := true
	for _, r := range text {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			sb.WriteRune(r)
		default:
			upper = true
		}
	}
	return sb.String()
}
