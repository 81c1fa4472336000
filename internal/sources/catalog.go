package sources

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog lists the company boards a user can pick from.
type Catalog struct {
	Boards Boards `yaml:"boards"`
}

// DefaultCatalog returns public Greenhouse boards known to work.
func DefaultCatalog() Catalog {
	return Catalog{
		Boards: Boards{
			Greenhouse: []string{"stripe", "airbnb", "openai"},
			Lever:      []string{},
		},
	}
}

// LoadCatalog overlays the catalog file at path on top of the defaults.
// Non-empty provider lists in the file replace the defaults. A missing
// file is not an error.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cat, nil
		}
		return cat, err
	}

	var file Catalog
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cat, err
	}

	if len(file.Boards.Greenhouse) > 0 {
		cat.Boards.Greenhouse = file.Boards.Greenhouse
	}
	if len(file.Boards.Lever) > 0 {
		cat.Boards.Lever = file.Boards.Lever
	}
	cat.Boards = cat.Boards.Normalized()

	return cat, nil
}

// Options lists every board as "<provider>:<token>".
func (c Catalog) Options() []string {
	out := make([]string, 0, c.Boards.Len())
	for _, t := range c.Boards.Greenhouse {
		out = append(out, boardSource(SourceGreenhouse, t))
	}
	for _, t := range c.Boards.Lever {
		out = append(out, boardSource(SourceLever, t))
	}
	return out
}

// Add splits "<provider>:<token>" and adds it to b.
// Tokens without a provider are treated as Greenhouse boards.
func (b *Boards) Add(option string) bool {
	provider, token, ok := strings.Cut(option, ":")
	if !ok {
		provider, token = SourceGreenhouse, option
	}
	switch provider {
	case SourceGreenhouse:
		b.Greenhouse = append(b.Greenhouse, token)
	case SourceLever:
		b.Lever = append(b.Lever, token)
	default:
		return false
	}
	*b = b.Normalized()
	return true
}

// Remove drops "<provider>:<token>" from b.
func (b *Boards) Remove(option string) {
	provider, token, ok := strings.Cut(option, ":")
	if !ok {
		provider, token = SourceGreenhouse, option
	}
	drop := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, t := range list {
			if t != token {
				out = append(out, t)
			}
		}
		return out
	}
	switch provider {
	case SourceGreenhouse:
		b.Greenhouse = drop(b.Greenhouse)
	case SourceLever:
		b.Lever = drop(b.Lever)
	}
}

// Has reports whether "<provider>:<token>" is selected.
func (b Boards) Has(option string) bool {
	for _, o := range (Catalog{Boards: b}).Options() {
		if o == option {
			return true
		}
	}
	return false
}
