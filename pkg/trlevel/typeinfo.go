package trlevel

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Item categories used by classification.
const (
	CategoryPickup = "Pickup"
	CategoryAI     = "AI"
)

//go:embed typeinfo.yaml
var defaultTypeInfo []byte

// TypeInfo names an object type.
type TypeInfo struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

// HasCategory reports whether the type carries category.
func (t TypeInfo) HasCategory(category string) bool {
	return slices.Contains(t.Categories, category)
}

// TypeInfoLookup resolves object type ids to names per game.
type TypeInfoLookup struct {
	games map[string]map[uint32]TypeInfo
}

// ParseTypeInfo parses a type table keyed by game ("tr1" to "tr5") then by
// type id.
func ParseTypeInfo(data []byte) (*TypeInfoLookup, error) {
	var games map[string]map[uint32]TypeInfo
	if err := yaml.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parsing type info: %w", err)
	}
	return &TypeInfoLookup{games: games}, nil
}

var loadDefaultTypeInfo = sync.OnceValue(func() *TypeInfoLookup {
	t, err := ParseTypeInfo(defaultTypeInfo)
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTypeInfo returns the built-in type table.
func DefaultTypeInfo() *TypeInfoLookup { return loadDefaultTypeInfo() }

// Lookup returns the entry for typeID. Unknown types are named by number.
func (t *TypeInfoLookup) Lookup(v LevelVersion, typeID uint32) TypeInfo {
	if t != nil {
		if info, ok := t.games[v.GameKey()][typeID]; ok {
			return info
		}
	}
	return TypeInfo{Name: fmt.Sprintf("%d", typeID)}
}

// Name returns the type name for typeID.
func (t *TypeInfoLookup) Name(v LevelVersion, typeID uint32) string {
	return t.Lookup(v, typeID).Name
}

// IsPickup reports whether typeID is classified as a pickup.
func (t *TypeInfoLookup) IsPickup(v LevelVersion, typeID uint32) bool {
	return t.Lookup(v, typeID).HasCategory(CategoryPickup)
}
