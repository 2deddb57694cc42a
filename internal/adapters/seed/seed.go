// Package seed loads the fixed directory of known schools.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/simonev/internal/domain/model"
)

//go:embed schools.yaml
var builtin []byte

type directory struct {
	Schools []entry `yaml:"schools"`
}

type entry struct {
	NPSN     string `yaml:"npsn"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Status   string `yaml:"status"`
	Province string `yaml:"province"`
}

// Default returns the built-in directory.
func Default() ([]model.School, error) {
	return Parse(builtin)
}

// Load reads a YAML directory from path, or the built-in one when path is empty.
func Load(path string) ([]model.School, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed directory: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML directory. Every school starts with zero counters.
func Parse(data []byte) ([]model.School, error) {
	var d directory
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}

	seen := make(map[string]struct{}, len(d.Schools))
	out := make([]model.School, 0, len(d.Schools))
	for i, e := range d.Schools {
		npsn := strings.TrimSpace(e.NPSN)
		if npsn == "" {
			return nil, fmt.Errorf("%w: schools[%d]: npsn is required", ErrInvalidDirectory, i)
		}
		if _, dup := seen[npsn]; dup {
			return nil, fmt.Errorf("%w: duplicate npsn %s", ErrInvalidDirectory, npsn)
		}
		seen[npsn] = struct{}{}
		cat, err := model.ParseCategory(e.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: schools[%d]: %w", ErrInvalidDirectory, i, err)
		}
		out = append(out, model.School{
			ID:                   npsn,
			NPSN:                 npsn,
			Name:                 strings.TrimSpace(e.Name),
			Type:                 cat,
			Status:               e.Status,
			Province:             e.Province,
			ParticipatedEventIDs: []string{},
		})
	}
	return out, nil
}
