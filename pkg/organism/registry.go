package organism

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry holds every configured organism. It is read-only after Load.
type Registry struct {
	organisms map[string]*Organism
	keys      []string
}

type registryFile struct {
	Organisms map[string]Config `yaml:"organisms"`
}

// Load reads the organism YAML file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading organism config: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML. Environment variables of the form
// ${VAR} are expanded first.
func Parse(data []byte) (*Registry, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing organism config: %w", err)
	}
	if len(file.Organisms) == 0 {
		return nil, fmt.Errorf("no organisms configured")
	}

	r := &Registry{organisms: make(map[string]*Organism, len(file.Organisms))}
	for key, c := range file.Organisms {
		o, err := New(key, c)
		if err != nil {
			return nil, err
		}
		r.organisms[key] = o
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r, nil
}

func (r *Registry) Get(key string) (*Organism, error) {
	o, ok := r.organisms[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return o, nil
}

// Keys returns the organism keys, sorted.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}
