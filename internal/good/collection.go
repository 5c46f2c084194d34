package good

const (
	Format  = "GOOD"
	Version = 2
)

type State int

const (
	Empty State = iota
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// Collection is a GOOD document. Sets are serialized as JSON arrays.
type Collection struct {
	Format     string                     `json:"format"`
	Version    int                        `json:"version"`
	Source     string                     `json:"source"`
	Characters Set[Character, Character]  `json:"characters"`
	Artifacts  Set[ArtifactKey, Artifact] `json:"artifacts"`
	Weapons    Set[WeaponKey, Weapon]     `json:"weapons"`
}

func NewCollection(source string) *Collection {
	return &Collection{
		Format:  Format,
		Version: Version,
		Source:  source,
	}
}

func (c *Collection) State() State {
	if c.Characters.Len() == 0 && c.Artifacts.Len() == 0 && c.Weapons.Len() == 0 {
		return Empty
	}
	return Populated
}

// Batch is the set of entities produced by a single fetch.
type Batch struct {
	Characters []Character
	Artifacts  []Artifact
	Weapons    []Weapon
}

type MergeStats struct {
	Inserted int `json:"inserted"`
	Replaced int `json:"replaced"`
	// Moved counts replaced entries whose location changed.
	Moved int `json:"moved"`
}

type MergeReport struct {
	Characters MergeStats `json:"characters"`
	Artifacts  MergeStats `json:"artifacts"`
	Weapons    MergeStats `json:"weapons"`
}

// Merge inserts every entity of b, replacing entries with an equal identity key.
// Nothing is ever removed from the collection.
func (c *Collection) Merge(b Batch) MergeReport {
	var r MergeReport
	for _, ch := range b.Characters {
		r.Characters.count(c.Characters.Replace(ch))
	}
	for _, a := range b.Artifacts {
		old, ok := c.Artifacts.Get(a.Identity())
		r.Artifacts.count(c.Artifacts.Replace(a))
		if ok && old.Location != a.Location {
			r.Artifacts.Moved++
		}
	}
	for _, w := range b.Weapons {
		old, ok := c.Weapons.Get(w.Identity())
		r.Weapons.count(c.Weapons.Replace(w))
		if ok && old.Location != w.Location {
			r.Weapons.Moved++
		}
	}
	return r
}

func (m *MergeStats) count(replaced bool) {
	if replaced {
		m.Replaced++
	} else {
		m.Inserted++
	}
}
