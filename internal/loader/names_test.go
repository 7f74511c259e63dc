package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/trlevel/pkg/trlevel"
)

func TestNameLookup_Strings(t *testing.T) {
	strings := "LVL_CAVES=Caves\r\nLVL_CITYOFVILCABAMBA=Cit\xe9 of Vilcabamba\r\nLVL_BROKEN=no end"
	files := map[string][]byte{
		filepath.Join("game", "DATA", "..", "TEXT", "EN", "STRINGS.TXT"): []byte(strings),
	}
	n := &NameLookup{
		Hashes: map[string]string{"abc": "From hash"},
		ReadFile: func(path string) ([]byte, error) {
			if data, ok := files[path]; ok {
				return data, nil
			}
			return nil, os.ErrNotExist
		},
	}

	remastered := trlevel.Format{Version: trlevel.Tomb1, Platform: trlevel.PC, Remastered: true}
	original := trlevel.Format{Version: trlevel.Tomb1, Platform: trlevel.PC}

	tests := []struct {
		name   string
		format trlevel.Format
		path   string
		hash   string
		want   string
	}{
		{"strings entry", remastered, "game/DATA/CAVES.PHD", "", "Caves"},
		{"underscores removed", remastered, "game/DATA/CITY_OF_VILCABAMBA.PHD", "", "Cité of Vilcabamba"},
		{"missing carriage return", remastered, "game/DATA/BROKEN.PHD", "abc", "From hash"},
		{"not remastered", original, "game/DATA/CAVES.PHD", "abc", "From hash"},
		{"file name", original, "game/DATA/CAVES.PHD", "zzz", "CAVES.PHD"},
		{"no strings file", remastered, "other/DATA/CAVES.PHD", "", "CAVES.PHD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.lookupFormat(tt.format, tt.path, tt.hash); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNameLookup_Nil(t *testing.T) {
	var n *NameLookup
	if got := n.Lookup(nil, "/levels/LEVEL2.PHD", ""); got != "LEVEL2.PHD" {
		t.Errorf("expected file name, got %q", got)
	}
}

func TestLoadNameLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashes.yaml")
	if err := os.WriteFile(path, []byte("deadbeef: Lost Valley\ncafe: Tomb of Qualopec\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	n, err := LoadNameLookup(path)
	if err != nil {
		t.Fatalf("LoadNameLookup failed: %v", err)
	}
	if n.Hashes["cafe"] != "Tomb of Qualopec" || len(n.Hashes) != 2 {
		t.Errorf("unexpected table %v", n.Hashes)
	}

	if _, err := ParseHashTable([]byte("- not\n- a map\n")); err == nil {
		t.Error("expected error for a list")
	}
}
