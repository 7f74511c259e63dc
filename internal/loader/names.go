package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/trlevel/pkg/encoding"
	"github.com/Faultbox/trlevel/pkg/trlevel"
)

// NameLookup resolves the display name of a level. Remastered PC levels
// take their name from the game's STRINGS.TXT, other levels are matched by
// content hash, and everything else falls back to the file name.
type NameLookup struct {
	// Hashes maps content hashes to level names.
	Hashes map[string]string
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// ParseHashTable decodes a YAML mapping of content hash to level name.
func ParseHashTable(data []byte) (map[string]string, error) {
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "parsing level hash table")
	}
	return table, nil
}

// LoadNameLookup reads a hash table from path.
func LoadNameLookup(path string) (*NameLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	table, err := ParseHashTable(data)
	if err != nil {
		return nil, err
	}
	return &NameLookup{Hashes: table}, nil
}

// Lookup returns the name for level, which was loaded from path and hashes
// to hash. A nil lookup only uses the file name.
func (n *NameLookup) Lookup(level *trlevel.Level, path, hash string) string {
	var f trlevel.Format
	if level != nil {
		f = level.Format()
	}
	return n.lookupFormat(f, path, hash)
}

func (n *NameLookup) lookupFormat(f trlevel.Format, path, hash string) string {
	if n == nil {
		return filepath.Base(path)
	}
	if f.Platform == trlevel.PC && f.Remastered {
		if name, ok := n.fromStrings(path); ok {
			return name
		}
	}
	if name, ok := n.Hashes[hash]; ok {
		return name
	}
	return filepath.Base(path)
}

// fromStrings reads TEXT/EN/STRINGS.TXT beside the level's directory and
// takes the value of LVL_<stem>=, where stem is the file name without
// extension or underscores.
func (n *NameLookup) fromStrings(path string) (string, bool) {
	read := n.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(filepath.Join(filepath.Dir(path), "..", "TEXT", "EN", "STRINGS.TXT"))
	if err != nil {
		return "", false
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	key := []byte("LVL_" + strings.ReplaceAll(stem, "_", "") + "=")

	start := bytes.Index(data, key)
	if start < 0 {
		return "", false
	}
	value := data[start+len(key):]
	end := bytes.IndexByte(value, '\r')
	if end < 0 {
		return "", false
	}
	return encoding.Windows1252ToUTF8(value[:end]), true
}
