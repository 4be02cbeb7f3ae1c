package relation

import (
	"os"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Table maps cleaned phrases to canonical codes.
type Table map[string]string

// tableFile is the YAML layout of a synonym table:
//
//	name: disease
//	synonyms:
//	  TREATS: [treat, therapy for, used for]
type tableFile struct {
	Name     string              `yaml:"name"`
	Synonyms map[string][]string `yaml:"synonyms"`
}

// NewTable builds a table from code -> phrases. Phrases are cleaned and codes uppercased.
func NewTable(synonyms map[string][]string) Table {
	t := make(Table)
	codes := make([]string, 0, len(synonyms))
	for code := range synonyms {
		codes = append(codes, code)
	}
	// deterministic winner when two codes claim the same phrase
	sort.Strings(codes)
	for _, code := range codes {
		canonical := strings.ToUpper(strings.TrimSpace(code))
		for _, phrase := range synonyms[code] {
			if p := Clean(phrase); p != "" {
				t[p] = canonical
			}
		}
	}
	return t
}

// Merge returns a new table; later tables win on conflicting phrases.
func Merge(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		for phrase, code := range t {
			out[phrase] = code
		}
	}
	return out
}

func (t Table) Codes() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, code := range t {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// withSelfCodes makes every canonical code map to itself, so normalizing a code is a no-op.
func (t Table) withSelfCodes() Table {
	out := Merge(t)
	for _, code := range t.Codes() {
		if p := Clean(code); p != "" {
			out[p] = code
		}
	}
	return out
}

func LoadTableFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read relation table", goerr.V("file", path))
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse relation table", goerr.V("file", path))
	}
	if len(f.Synonyms) == 0 {
		return nil, goerr.New("relation table has no synonyms", goerr.V("file", path), goerr.V("name", f.Name))
	}
	return NewTable(f.Synonyms), nil
}

// Build merges the named built-in tables and then the YAML files, in order.
func Build(names []string, files []string) (Table, error) {
	var tables []Table
	for _, name := range names {
		t, ok := Builtin(name)
		if !ok {
			return nil, goerr.New("unknown relation table", goerr.V("name", name))
		}
		tables = append(tables, t)
	}
	for _, path := range files {
		t, err := LoadTableFile(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		tables = append(tables, Physiological())
	}
	return Merge(tables...), nil
}
