package harness

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pelletier/go-toml/v2"

	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

//go:embed languages.toml
var languageTable []byte

type languageSpec struct {
	Name      string `toml:"name"`
	Display   string `toml:"display"`
	BackendID int    `toml:"backend_id"`
	Starter   string `toml:"starter"`
}

type languageFile struct {
	Languages []languageSpec `toml:"language"`
}

type profileBuilder func(spec languageSpec) (LanguageProfile, error)

var builders = map[string]profileBuilder{
	"javascript": newJavaScript,
	"python":     newPython,
	"java":       newJava,
	"cpp":        newCpp,
}

// Registry is the immutable set of supported languages.
type Registry struct {
	byID   map[int]LanguageProfile
	byName map[string]LanguageProfile
	all    []LanguageProfile
}

// NewRegistry builds the registry from the embedded language table.
func NewRegistry() (*Registry, error) {
	return LoadRegistry(languageTable)
}

// LoadRegistry builds a registry from a TOML language table.
func LoadRegistry(data []byte) (*Registry, error) {
	var file languageFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse language table: %w", err)
	}

	r := &Registry{
		byID:   make(map[int]LanguageProfile, len(file.Languages)),
		byName: make(map[string]LanguageProfile, len(file.Languages)),
	}
	for _, spec := range file.Languages {
		spec.Name = strings.ToLower(strings.TrimSpace(spec.Name))
		build, ok := builders[spec.Name]
		if !ok {
			return nil, fmt.Errorf("language %q: %w", spec.Name, errs.UnsupportedLanguage)
		}
		if _, dup := r.byID[spec.BackendID]; dup {
			return nil, fmt.Errorf("duplicate backend id %d", spec.BackendID)
		}
		lang, err := build(spec)
		if err != nil {
			return nil, err
		}
		r.byID[spec.BackendID] = lang
		r.byName[spec.Name] = lang
		r.all = append(r.all, lang)
	}
	sort.Slice(r.all, func(i, j int) bool { return r.all[i].LanguageID() < r.all[j].LanguageID() })
	return r, nil
}

func (r *Registry) ByID(id int) (LanguageProfile, bool) {
	lang, ok := r.byID[id]
	return lang, ok
}

func (r *Registry) ByName(name string) (LanguageProfile, bool) {
	lang, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// Languages lists the profiles ordered by backend id.
func (r *Registry) Languages() []LanguageProfile {
	out := make([]LanguageProfile, len(r.all))
	copy(out, r.all)
	return out
}

// FunctionNameFromTitle derives an entry point name from a question title:
// "1. Merge Sorted Array" becomes "mergesortedarray".
func FunctionNameFromTitle(title string) string {
	name := strings.ReplaceAll(slug.Make(title), "-", "")
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return domain.DefaultFunctionName
	}
	return name
}
