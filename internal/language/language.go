// Package language describes the languages codescan can analyze.
package language

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language is a source language with its known versions, oldest first.
type Language struct {
	Name           string
	DisplayName    string
	Extensions     []string
	Versions       []string
	DefaultVersion string
}

// Version is a concrete language version selected for a run.
type Version struct {
	Language *Language
	Version  string
}

// String renders the version the way it is reported, e.g. "Java 1.5".
func (v Version) String() string {
	return v.Language.DisplayName + " " + v.Version
}

// AtLeast reports whether v is the same as or newer than version.
// Unknown versions compare as older than every known one.
func (v Version) AtLeast(version string) bool {
	return v.Language.index(v.Version) >= v.Language.index(version)
}

var registry = []*Language{
	{
		Name:           "java",
		DisplayName:    "Java",
		Extensions:     []string{".java"},
		Versions:       []string{"1.3", "1.4", "1.5", "1.6", "1.7", "1.8"},
		DefaultVersion: "1.8",
	},
	{
		Name:           "ecmascript",
		DisplayName:    "Ecmascript",
		Extensions:     []string{".js"},
		Versions:       []string{"3", "5"},
		DefaultVersion: "3",
	},
	{
		Name:           "xml",
		DisplayName:    "XML",
		Extensions:     []string{".xml"},
		Versions:       []string{"1.0"},
		DefaultVersion: "1.0",
	},
}

// Default is the language a bare -version applies to.
const Default = "java"

// All returns every registered language.
func All() []*Language {
	return registry
}

// Names returns the names of every registered language.
func Names() []string {
	names := make([]string, 0, len(All()))
	for _, lang := range All() {
		names = append(names, lang.Name)
	}
	return names
}

// Find looks a language up by name, case-insensitively.
func Find(name string) (*Language, bool) {
	for _, lang := range registry {
		if strings.EqualFold(lang.Name, name) {
			return lang, true
		}
	}
	return nil, false
}

// ForFile returns the language a file belongs to by extension.
func ForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, lang := range registry {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang, true
			}
		}
	}
	return nil, false
}

// Resolve picks the version for a language. An empty version selects the default.
func Resolve(name, version string) (Version, error) {
	if name == "" {
		name = Default
	}
	lang, ok := Find(name)
	if !ok {
		return Version{}, fmt.Errorf("unknown language %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	if version == "" {
		return lang.Default(), nil
	}
	if lang.index(version) < 0 {
		return Version{}, fmt.Errorf("unsupported version %q for language %s (supported: %s)",
			version, lang.Name, strings.Join(lang.Versions, ", "))
	}
	return Version{Language: lang, Version: version}, nil
}

// Default returns the default version of l.
func (l *Language) Default() Version {
	return Version{Language: l, Version: l.DefaultVersion}
}

func (l *Language) index(version string) int {
	for i, v := range l.Versions {
		if v == version {
			return i
		}
	}
	return -1
}
