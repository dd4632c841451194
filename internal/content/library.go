// Package content provides read-only access to the static course material.
//
// Courses are stored as JSON files in a directory tree, one directory per
// target language:
//
//	<dir>/<language>/<module>/module.json
//	<dir>/<language>/<module>/<unit>/unit.json
//	<dir>/<language>/<module>/<unit>/exercises.json
//
// A Library is immutable once loaded. Store holds the current Library and can
// swap it when the files change on disk.
package content

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	ErrLanguageNotFound = errors.New("language not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Library is an in-memory index of the content tree.
type Library struct {
	dir       string
	languages map[string]*language
}

type language struct {
	modules []Module
	byID    map[string]int
}

func (l *language) module(id string) (*Module, bool) {
	i, ok := l.byID[id]
	if !ok {
		return nil, false
	}
	return &l.modules[i], true
}

// Dir returns the directory the library was loaded from.
func (lib *Library) Dir() string {
	return lib.dir
}

// Languages returns the available target languages in sorted order.
func (lib *Library) Languages() []string {
	langs := make([]string, 0, len(lib.languages))
	for code := range lib.languages {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

func (lib *Library) HasLanguage(lang string) bool {
	_, ok := lib.languages[lang]
	return ok
}

func (lib *Library) language(lang string) (*language, error) {
	l, ok := lib.languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, lang)
	}
	return l, nil
}

// Modules returns the module metadata of a language in display order.
func (lib *Library) Modules(lang string) ([]ModuleMeta, error) {
	l, err := lib.language(lang)
	if err != nil {
		return nil, err
	}
	metas := make([]ModuleMeta, len(l.modules))
	for i, m := range l.modules {
		metas[i] = m.ModuleMeta
		metas[i].Topics = slices.Clone(m.Topics)
	}
	return metas, nil
}

// Module returns a copy of a module including its units and exercises.
func (lib *Library) Module(lang, moduleID string) (*Module, error) {
	l, err := lib.language(lang)
	if err != nil {
		return nil, err
	}
	m, ok := l.module(moduleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrModuleNotFound, lang, moduleID)
	}
	out := cloneModule(*m)
	return &out, nil
}

func (lib *Library) unit(lang, moduleID, unitID string) (*Unit, error) {
	l, err := lib.language(lang)
	if err != nil {
		return nil, err
	}
	m, ok := l.module(moduleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrModuleNotFound, lang, moduleID)
	}
	for i := range m.Units {
		if m.Units[i].ID == unitID {
			return &m.Units[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s/%s", ErrUnitNotFound, lang, moduleID, unitID)
}

// Unit returns a copy of a unit including its exercises.
func (lib *Library) Unit(lang, moduleID, unitID string) (*Unit, error) {
	u, err := lib.unit(lang, moduleID, unitID)
	if err != nil {
		return nil, err
	}
	out := cloneUnit(*u)
	return &out, nil
}

// Exercises returns the exercises of a unit in display order.
func (lib *Library) Exercises(lang, moduleID, unitID string) ([]Exercise, error) {
	u, err := lib.unit(lang, moduleID, unitID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(u.Exercises), nil
}

// Exercise looks up a single exercise.
func (lib *Library) Exercise(lang, moduleID, unitID, exerciseID string) (*Exercise, error) {
	u, err := lib.unit(lang, moduleID, unitID)
	if err != nil {
		return nil, err
	}
	for _, e := range u.Exercises {
		if e.ID == exerciseID {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s/%s/%s", ErrExerciseNotFound, lang, moduleID, unitID, exerciseID)
}

// Topics returns the sorted set of exercise topics of a language.
func (lib *Library) Topics(lang string) []string {
	l, ok := lib.languages[lang]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var topics []string
	for _, m := range l.modules {
		for _, u := range m.Units {
			for _, e := range u.Exercises {
				if e.Topic != "" && !seen[e.Topic] {
					seen[e.Topic] = true
					topics = append(topics, e.Topic)
				}
			}
		}
	}
	sort.Strings(topics)
	return topics
}

func (lib *Library) Stats() Stats {
	stats := Stats{Languages: len(lib.languages)}
	for _, l := range lib.languages {
		stats.Modules += len(l.modules)
		for _, m := range l.modules {
			stats.Units += len(m.Units)
			for _, u := range m.Units {
				stats.Exercises += len(u.Exercises)
			}
		}
	}
	return stats
}
