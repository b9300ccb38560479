package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store reads and mutates the YAML config file. It is the write side of the
// configuration: Load layers the file under environment variables, Store
// rewrites the file for `config set`/`config unset` and the rollup registry.
type Store struct {
	path string
}

// Sentinel errors for rollup operations.
var (
	ErrRollupNotFound = errors.New("rollup not found")
	ErrRollupExists   = errors.New("rollup already exists")
)

// NewStore creates a store for the config file at path. An empty path uses
// the default location.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Path returns the config file path the store operates on.
func (s *Store) Path() string {
	return s.path
}

// Set writes a value under a dotted key (e.g. "server.port") to the file.
func (s *Store) Set(key string, value any) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	node := doc
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	return s.save(doc)
}

// Unset removes a dotted key from the file. Missing keys are not an error.
func (s *Store) Unset(key string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	node := doc
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return nil
		}
		node = child
	}
	delete(node, parts[len(parts)-1])

	return s.save(doc)
}

// Rollups returns the rollup registry from the file. The result is a copy.
func (s *Store) Rollups() (map[string]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	rollups := map[string]string{}
	raw, ok := doc["rollups"].(map[string]any)
	if !ok {
		return rollups, nil
	}
	for name, path := range raw {
		if p, ok := path.(string); ok {
			rollups[name] = p
		}
	}
	return rollups, nil
}

// RollupPath returns the directory path for a named rollup.
func (s *Store) RollupPath(name string) (string, error) {
	rollups, err := s.Rollups()
	if err != nil {
		return "", err
	}
	path, ok := rollups[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRollupNotFound, name)
	}
	return path, nil
}

// AddRollup registers a rollup after validating its name and path.
// The path must exist, be a directory, and not be claimed by another rollup.
func (s *Store) AddRollup(name, path string) error {
	if err := ValidateRollupName(name); err != nil {
		return err
	}

	resolved, err := validateRollupPath(path)
	if err != nil {
		return err
	}

	rollups, err := s.Rollups()
	if err != nil {
		return err
	}
	if existing, ok := rollups[name]; ok {
		return fmt.Errorf("%w: %s (path %s)", ErrRollupExists, name, existing)
	}
	for other, p := range rollups {
		if p == resolved {
			return fmt.Errorf("path %q is already used by rollup %q", resolved, other)
		}
	}

	rollups[name] = resolved
	return s.Set("rollups", rollups)
}

// RemoveRollup deletes a rollup from the registry.
func (s *Store) RemoveRollup(name string) error {
	rollups, err := s.Rollups()
	if err != nil {
		return err
	}
	if _, ok := rollups[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRollupNotFound, name)
	}
	delete(rollups, name)
	return s.Set("rollups", rollups)
}

// validateRollupPath resolves and checks a rollup directory path.
func validateRollupPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("rollup path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}

	return abs, nil
}

func (s *Store) load() (map[string]any, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return doc, nil
}

func (s *Store) save(doc map[string]any) error {
	content, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
