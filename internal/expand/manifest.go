package expand

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ManifestFile is the conventional project manifest filename.
const ManifestFile = "package.json"

// Manifest is the project manifest's scripts map, preserving on-disk
// insertion order (needed by wildcardSort = package) alongside fast name
// lookup (needed by C4's availability probe).
type Manifest struct {
	names  []string
	lookup map[string]string
}

// ReadManifest reads ManifestFile under dir and extracts its "scripts"
// object. A missing file, unreadable file, or a "scripts" field that isn't a
// JSON object all degrade to a nil Manifest — callers treat that as "no
// scripts available" per §4.3/§4.4, never as a fatal error.
func ReadManifest(dir string) *Manifest {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil
	}
	return parseManifest(data)
}

func parseManifest(data []byte) *Manifest {
	root := gjson.ParseBytes(data)
	scripts := root.Get("scripts")
	if !scripts.Exists() || !scripts.IsObject() {
		return nil
	}

	m := &Manifest{lookup: make(map[string]string)}
	scripts.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		m.names = append(m.names, name)
		m.lookup[name] = value.String()
		return true
	})
	if len(m.names) == 0 {
		return nil
	}
	return m
}

// Has reports whether name exists in the manifest's scripts map.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.lookup[name]
	return ok
}

// Names returns script names in manifest insertion order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
