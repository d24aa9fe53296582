// Package loader reads scenario content into immutable Defs. Scenarios may be
// written as JSON (checked against a JSON Schema), YAML, or the Lua DSL; all
// three go through the same decode and validation path.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/types"
	"gopkg.in/yaml.v3"
)

// Scenario file extensions, in lookup order.
var extensions = []string{".json", ".yaml", ".yml", ".lua"}

// luaEntry is the file a Lua scenario directory starts from.
const luaEntry = "scenario.lua"

// Load reads a scenario from a file or a directory of Lua files on disk.
// The scenario id is the file or directory name without its extension.
func Load(p string) (*state.Defs, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", p, err)
	}
	p = filepath.Clean(p)
	dir, name := filepath.Dir(p), filepath.Base(p)
	if info.IsDir() {
		return loadLuaDir(os.DirFS(p), ".", name)
	}
	return LoadFile(os.DirFS(dir), name)
}

// LoadFile reads a single scenario file from fsys.
func LoadFile(fsys fs.FS, name string) (*state.Defs, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", name, err)
	}
	ext := strings.ToLower(path.Ext(name))
	id := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return Parse(id, ext, data)
}

// Parse decodes scenario content of the given format (".json", ".yaml",
// ".yml" or ".lua") and validates it.
func Parse(id, ext string, data []byte) (*state.Defs, error) {
	var doc []byte
	switch ext {
	case ".json":
		doc = data
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s YAML: %w", id, err)
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("converting %s YAML: %w", id, err)
		}
		doc = b
	case ".lua":
		b, err := runLua(map[string][]byte{id + ".lua": data}, []string{id + ".lua"})
		if err != nil {
			return nil, err
		}
		doc = b
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}
	return decode(id, doc)
}

// loadLuaDir runs every .lua file in dir, scenario.lua first.
func loadLuaDir(fsys fs.FS, dir, id string) (*state.Defs, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", id, err)
	}

	sources := map[string][]byte{}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lua") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		sources[e.Name()] = data
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", id)
	}

	doc, err := runLua(sources, sortedLuaFiles(names))
	if err != nil {
		return nil, err
	}
	return decode(id, doc)
}

// decode checks a JSON document against the scenario schema, decodes it and
// runs semantic validation.
func decode(id string, doc []byte) (*state.Defs, error) {
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", id, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling scenario schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("scenario %s does not match schema: %w", id, err)
	}

	var sc types.Scenario
	dec := json.NewDecoder(bytes.NewReader(doc))
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	sc.ID = id

	if err := validate(&sc); err != nil {
		return nil, err
	}
	return state.NewDefs(sc), nil
}

// Info describes a scenario found by List.
type Info struct {
	ID   string
	Name string
	Path string
	Dir  bool // a directory of Lua files
}

// List finds the scenarios at the top level of fsys: scenario files and
// directories holding a scenario.lua. Sorted by id.
func List(fsys fs.FS) ([]Info, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	seen := map[string]bool{}
	var out []Info
	for _, e := range entries {
		name := e.Name()
		var id string
		if e.IsDir() {
			if _, err := fs.Stat(fsys, path.Join(name, luaEntry)); err != nil {
				continue
			}
			id = name
		} else {
			ext := strings.ToLower(path.Ext(name))
			if !knownExt(ext) {
				continue
			}
			id = strings.TrimSuffix(name, path.Ext(name))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Info{ID: id, Name: DisplayName(id), Path: name, Dir: e.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadScenario loads the scenario with the given id from fsys.
func LoadScenario(fsys fs.FS, id string) (*state.Defs, error) {
	list, err := List(fsys)
	if err != nil {
		return nil, err
	}
	for _, info := range list {
		if info.ID != id {
			continue
		}
		if info.Dir {
			return loadLuaDir(fsys, info.Path, id)
		}
		return LoadFile(fsys, info.Path)
	}
	ids := make([]string, len(list))
	for i, info := range list {
		ids[i] = info.ID
	}
	return nil, fmt.Errorf("scenario %q not found (available: %s)", id, strings.Join(ids, ", "))
}

// DisplayName turns a scenario id into a title: central_highlands → Central Highlands.
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func knownExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
