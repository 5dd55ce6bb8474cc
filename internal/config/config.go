// Package config manages the persisted settings document with validation,
// one-way v1→v2 migration, and dotted-path access.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Akaiko1/rapid-culler/internal/action"
)

// DefaultFileName is the settings file written next to the binary when no
// explicit path is given.
const DefaultFileName = "culler_settings.json"

var buttonKeys = []string{"left_click", "right_click"}
var wheelKeys = []string{"wheel_up", "wheel_down"}

// Defaults returns a fresh copy of the default v2 settings document.
func Defaults() map[string]any {
	return map[string]any{
		"src":  "",
		"keep": "",
		"button_mappings": map[string]any{
			"left_click":  "keep",
			"right_click": "reject",
		},
		"wheel_mappings": map[string]any{
			"wheel_up":   "previous",
			"wheel_down": "next",
		},
		"options": map[string]any{
			"recursive_loading": false,
		},
	}
}

// Store loads, validates, migrates, and persists the settings document.
// The in-memory document is only ever mutated from the UI thread.
type Store struct {
	path string
	doc  map[string]any
}

// NewStore creates a Store backed by the given file path, loading the
// current document immediately. An empty path uses DefaultFileName.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	s := &Store{path: path}
	s.doc = s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Document returns the current in-memory settings document.
func (s *Store) Document() map[string]any {
	return s.doc
}

// Load reads the persisted document. A missing file yields defaults; an
// unreadable or schema-invalid file is logged and left in place, and
// defaults are returned. A valid v1 document is migrated to v2 and the
// migrated form persisted immediately.
func (s *Store) Load() map[string]any {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read settings file %q: %v, using defaults", s.path, err)
		}
		return Defaults()
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Warning: settings file %q is not valid JSON: %v, using defaults", s.path, err)
		return Defaults()
	}

	if ok, reason := Validate(doc); !ok {
		log.Printf("Warning: invalid settings schema: %s, using defaults", reason)
		return Defaults()
	}

	return s.migrate(doc)
}

// migrate upgrades a v1 document to the v2 schema, persisting the result.
// v2 documents pass through unchanged.
func (s *Store) migrate(doc map[string]any) map[string]any {
	if _, ok := doc["button_mappings"]; ok {
		return doc
	}

	log.Println("Migrating settings from v1 to v2 format...")
	migrated := Defaults()
	migrated["src"] = stringValue(doc["src"])
	migrated["keep"] = stringValue(doc["keep"])

	if err := s.Save(migrated); err != nil {
		log.Printf("Warning: failed to persist migrated settings: %v", err)
	}
	return migrated
}

// Validate checks a document against the settings schema. A v1 document is
// reported valid so migration can pick it up. The reason string names the
// first violation found.
func Validate(doc map[string]any) (bool, string) {
	if doc == nil {
		return false, "settings must be a JSON object"
	}

	_, hasSrc := doc["src"]
	_, hasKeep := doc["keep"]
	_, hasButtons := doc["button_mappings"]
	if hasSrc && hasKeep && !hasButtons {
		return true, "" // v1 shape, valid for migration
	}

	for _, key := range []string{"src", "keep", "button_mappings", "wheel_mappings", "options"} {
		if _, ok := doc[key]; !ok {
			return false, fmt.Sprintf("missing required key: %s", key)
		}
	}

	if ok, reason := validateMappings(doc["button_mappings"], "button_mappings", buttonKeys); !ok {
		return false, reason
	}
	if ok, reason := validateMappings(doc["wheel_mappings"], "wheel_mappings", wheelKeys); !ok {
		return false, reason
	}

	options, ok := doc["options"].(map[string]any)
	if !ok {
		return false, "options must be an object"
	}
	recursive, ok := options["recursive_loading"]
	if !ok {
		return false, "missing option: recursive_loading"
	}
	if _, ok := recursive.(bool); !ok {
		return false, "recursive_loading must be a boolean"
	}

	return true, ""
}

func validateMappings(value any, section string, keys []string) (bool, string) {
	mappings, ok := value.(map[string]any)
	if !ok {
		return false, fmt.Sprintf("%s must be an object", section)
	}
	for _, key := range keys {
		raw, ok := mappings[key]
		if !ok {
			return false, fmt.Sprintf("missing mapping: %s.%s", section, key)
		}
		name, ok := raw.(string)
		if !ok || !action.Valid(name) {
			return false, fmt.Sprintf("invalid action %q for %s", raw, key)
		}
	}
	return true, ""
}

// Warning returns a human-readable note for documents that validate but are
// likely misconfigured, or "" when there is nothing to flag. Currently the
// only check is a binding set that can never sort an image.
func Warning(doc map[string]any) string {
	for _, section := range []string{"button_mappings", "wheel_mappings"} {
		mappings, ok := doc[section].(map[string]any)
		if !ok {
			continue
		}
		for _, raw := range mappings {
			if name, ok := raw.(string); ok && (name == "keep" || name == "reject") {
				return ""
			}
		}
	}
	return "No buttons or wheel actions mapped to Keep or Reject.\nYou won't be able to sort images!"
}

// Save validates and persists the document, refusing to write an invalid
// one so the on-disk file always matches the schema. On success the
// in-memory document is replaced.
func (s *Store) Save(doc map[string]any) error {
	if ok, reason := Validate(doc); !ok {
		return fmt.Errorf("cannot save invalid settings: %s", reason)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file %q: %w", s.path, err)
	}

	s.doc = doc
	return nil
}

// Get looks up a dotted path (e.g. "button_mappings.left_click") in the
// document, returning def on any missing segment or type mismatch.
func (s *Store) Get(path string, def any) any {
	var current any = s.doc
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return def
		}
		current, ok = node[key]
		if !ok {
			return def
		}
	}
	return current
}

// GetString is Get with a string assertion.
func (s *Store) GetString(path, def string) string {
	if v, ok := s.Get(path, def).(string); ok {
		return v
	}
	return def
}

// GetBool is Get with a bool assertion.
func (s *Store) GetBool(path string, def bool) bool {
	if v, ok := s.Get(path, def).(bool); ok {
		return v
	}
	return def
}

// Set writes a value at a dotted path in the live document.
func (s *Store) Set(path string, value any) {
	SetPath(s.doc, path, value)
}

// SetPath writes a value at a dotted path in doc, creating intermediate
// objects as needed. Intermediate segments holding non-objects are replaced.
func SetPath(doc map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	node := doc
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[key] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// Clone deep-copies a settings document so dialogs can edit a scratch copy
// without touching the live one.
func Clone(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		if child, ok := value.(map[string]any); ok {
			out[key] = Clone(child)
			continue
		}
		out[key] = value
	}
	return out
}

func stringValue(v any) string {
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}
