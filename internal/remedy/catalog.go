package remedy

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Pose is a catalog entry for one yoga pose.
type Pose struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name" json:"name"`
	Image       string   `yaml:"image" json:"image"`
	Video       string   `yaml:"video" json:"video"`
	Duration    string   `yaml:"duration" json:"duration"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	Benefits    []string `yaml:"benefits" json:"benefits"`
	Steps       []string `yaml:"steps" json:"steps"`
	Precautions string   `yaml:"precautions" json:"precautions"`
}

// Medicine is a catalog entry for one medicine or herb.
type Medicine struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name" json:"name"`
	GenericName string   `yaml:"generic_name" json:"generic_name"`
	Image       string   `yaml:"image" json:"image"`
	Type        string   `yaml:"type" json:"type"`
	Dosage      string   `yaml:"dosage" json:"dosage"`
	MaxDaily    string   `yaml:"max_daily" json:"max_daily"`
	Uses        []string `yaml:"uses" json:"uses"`
	SideEffects []string `yaml:"side_effects" json:"side_effects"`
	Precautions []string `yaml:"precautions" json:"precautions"`
}

// Catalog is the read-only pose and medicine reference. Safe for
// concurrent use once loaded.
type Catalog struct {
	poses     []Pose
	medicines []Medicine
	poseIndex map[string]int
	medIndex  map[string]int
}

// LoadCatalog parses the embedded catalog files.
func LoadCatalog() (*Catalog, error) {
	var posesDoc struct {
		Poses []Pose `yaml:"poses"`
	}
	if err := decodeData("data/poses.yaml", &posesDoc); err != nil {
		return nil, err
	}

	var medsDoc struct {
		Medicines []Medicine `yaml:"medicines"`
	}
	if err := decodeData("data/medicines.yaml", &medsDoc); err != nil {
		return nil, err
	}

	c := &Catalog{
		poses:     posesDoc.Poses,
		medicines: medsDoc.Medicines,
		poseIndex: make(map[string]int),
		medIndex:  make(map[string]int),
	}

	for i, p := range c.poses {
		if p.Key == "" {
			return nil, fmt.Errorf("pose %d: missing key", i)
		}
		c.poseIndex[foldKey(p.Key)] = i
		if alias := parenthetical(p.Name); alias != "" {
			if _, taken := c.poseIndex[foldKey(alias)]; !taken {
				c.poseIndex[foldKey(alias)] = i
			}
		}
	}
	for i, m := range c.medicines {
		if m.Key == "" {
			return nil, fmt.Errorf("medicine %d: missing key", i)
		}
		c.medIndex[foldKey(m.Key)] = i
		if m.Name != "" {
			c.medIndex[foldKey(m.Name)] = i
		}
	}

	return c, nil
}

func decodeData(path string, v any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Poses returns every pose in catalog order.
func (c *Catalog) Poses() []Pose {
	out := make([]Pose, len(c.poses))
	copy(out, c.poses)
	return out
}

// Pose looks a pose up by key or by its English name, ignoring case, so
// both "Balasana" and "Child's Pose" resolve.
func (c *Catalog) Pose(name string) (Pose, bool) {
	i, ok := c.poseIndex[foldKey(name)]
	if !ok {
		return Pose{}, false
	}
	return c.poses[i], true
}

// PosesFor resolves each name, skipping those without a catalog entry.
func (c *Catalog) PosesFor(names []string) []Pose {
	var out []Pose
	for _, n := range names {
		if p, ok := c.Pose(n); ok {
			out = append(out, p)
		}
	}
	return out
}

// Medicine looks a medicine up by key or display name, ignoring case.
func (c *Catalog) Medicine(name string) (Medicine, bool) {
	i, ok := c.medIndex[foldKey(name)]
	if !ok {
		return Medicine{}, false
	}
	return c.medicines[i], true
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parenthetical returns the text inside the trailing parentheses of name,
// e.g. "Cat-Cow Pose" for "Marjaryasana-Bitilasana (Cat-Cow Pose)".
func parenthetical(name string) string {
	open := strings.LastIndex(name, "(")
	end := strings.LastIndex(name, ")")
	if open < 0 || end <= open {
		return ""
	}
	return strings.TrimSpace(name[open+1 : end])
}
