package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/entrhq/crucible/pkg/engine"
)

// LoadRecipeLibrary reads a recipe library JSON file into an engine.Library.
// The file maps comma-separated ingredient pairs to result names:
//
//	{
//	  "Water,Fire": "Steam",
//	  "Earth,Water": "Mud"
//	}
//
// Keys are unordered: "Fire,Water" and "Water,Fire" name the same recipe.
// Entries are loaded in sorted key order so the resulting library is
// independent of JSON map iteration.
func LoadRecipeLibrary(path string) (*engine.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe library: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recipe library: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	recipes := make([]engine.Recipe, 0, len(keys))
	for _, key := range keys {
		first, second, ok := strings.Cut(key, ",")
		if !ok {
			return nil, fmt.Errorf("invalid recipe key %q: want \"ingredient,ingredient\"", key)
		}
		recipes = append(recipes, engine.Recipe{
			First:  strings.TrimSpace(first),
			Second: strings.TrimSpace(second),
			Result: strings.TrimSpace(raw[key]),
		})
	}
	return engine.NewLibrary(recipes), nil
}

// GoalsFor converts the configured goals into engine goals, preserving the
// declared priority order.
func (c *Config) GoalsFor() []engine.Goal {
	goals := make([]engine.Goal, 0, len(c.Goals))
	for _, g := range c.Goals {
		goals = append(goals, engine.Goal{Name: g.Name, Category: g.Category})
	}
	return goals
}
