package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"migration/internal/engine"
	errs "migration/internal/errors"
)

// DefaultDifficulties mirrors the three levels offered by the desktop client.
var DefaultDifficulties = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

type difficultyFile struct {
	Difficulties map[string]int `yaml:"difficulties"`
}

// LoadDifficultyPresets reads a yaml file of the form
//
//	difficulties:
//	  easy: 1
//	  brutal: 7
//
// on top of DefaultDifficulties. An empty path returns the defaults.
func LoadDifficultyPresets(path string) (map[string]int, error) {
	presets := make(map[string]int, len(DefaultDifficulties))
	for k, v := range DefaultDifficulties {
		presets[k] = v
	}
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f difficultyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, depth := range f.Difficulties {
		if depth < 1 || depth > engine.MaxDepth {
			return nil, fmt.Errorf("preset %q: %w", name, errs.ErrInvalidDifficulty)
		}
		presets[strings.ToLower(name)] = depth
	}
	return presets, nil
}

// ResolveDifficulty turns a preset name or an integer in 1..engine.MaxDepth
// into a search depth.
func ResolveDifficulty(presets map[string]int, value string) (int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	depth, ok := presets[value]
	if !ok {
		var err error
		if depth, err = strconv.Atoi(value); err != nil {
			return 0, fmt.Errorf("%q: %w", value, errs.ErrInvalidDifficulty)
		}
	}
	if depth < 1 || depth > engine.MaxDepth {
		return 0, fmt.Errorf("%q: %w", value, errs.ErrInvalidDifficulty)
	}
	return depth, nil
}
