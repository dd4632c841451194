package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File names recognised inside the content tree
const (
	ModuleFile    = "module.json"
	UnitFile      = "unit.json"
	ExercisesFile = "exercises.json"
)

// Load reads the whole content tree rooted at dir.
func Load(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	lib := &Library{dir: dir, languages: make(map[string]*language)}
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		code := entry.Name()
		lang, err := loadLanguage(filepath.Join(dir, code), code)
		if err != nil {
			return nil, err
		}
		lib.languages[code] = lang
	}
	return lib, nil
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func loadLanguage(dir, code string) (*language, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read language dir %s: %w", dir, err)
	}

	lang := &language{byID: make(map[string]int)}
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		moduleDir := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(moduleDir, ModuleFile)); errors.Is(err, os.ErrNotExist) {
			continue
		}
		module, err := loadModule(moduleDir, entry.Name(), code)
		if err != nil {
			return nil, err
		}
		lang.modules = append(lang.modules, *module)
	}

	sort.SliceStable(lang.modules, func(i, j int) bool {
		a, b := lang.modules[i], lang.modules[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	for i, m := range lang.modules {
		if _, dup := lang.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %q in %s", m.ID, dir)
		}
		lang.byID[m.ID] = i
	}
	return lang, nil
}

func loadModule(dir, dirName, code string) (*Module, error) {
	var meta ModuleMeta
	if err := readJSON(filepath.Join(dir, ModuleFile), &meta); err != nil {
		return nil, err
	}
	if meta.ID == "" {
		meta.ID = dirName
	}
	meta.Language = code

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read module dir %s: %w", dir, err)
	}

	module := &Module{ModuleMeta: meta}
	seen := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		unitDir := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(unitDir, UnitFile)); errors.Is(err, os.ErrNotExist) {
			continue
		}
		unit, err := loadUnit(unitDir, entry.Name(), meta.ID)
		if err != nil {
			return nil, err
		}
		if seen[unit.ID] {
			return nil, fmt.Errorf("duplicate unit id %q in %s", unit.ID, dir)
		}
		seen[unit.ID] = true
		module.Units = append(module.Units, *unit)
	}

	sort.SliceStable(module.Units, func(i, j int) bool {
		a, b := module.Units[i], module.Units[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return module, nil
}

func loadUnit(dir, dirName, moduleID string) (*Unit, error) {
	var uc UnitContent
	if err := readJSON(filepath.Join(dir, UnitFile), &uc); err != nil {
		return nil, err
	}
	if uc.ID == "" {
		uc.ID = dirName
	}
	uc.ModuleID = moduleID

	unit := &Unit{UnitContent: uc, Exercises: []Exercise{}}

	path := filepath.Join(dir, ExercisesFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return unit, nil
	}
	var exercises []Exercise
	if err := readJSON(path, &exercises); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(exercises))
	for i := range exercises {
		e := &exercises[i]
		if e.ID == "" {
			return nil, fmt.Errorf("%s: exercise #%d has no id", path, i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%s: duplicate exercise id %q", path, e.ID)
		}
		seen[e.ID] = true
		e.UnitID = uc.ID
		if e.Topic == "" {
			e.Topic = uc.Topic
		}
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].Order != exercises[j].Order {
			return exercises[i].Order < exercises[j].Order
		}
		return exercises[i].ID < exercises[j].ID
	})
	unit.Exercises = exercises
	return unit, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
