// Package catalog loads externally authored ruleset content (entities,
// status templates, interactions, and the skill-opposition schema) from YAML
// directories into read-only registries consumed by the engine.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/interaction"
	"github.com/dmeverett/arbiter/internal/game/oppose"
)

// Content channel layout beneath the content directory.
const (
	entitiesDir     = "entities"
	statusesDir     = "statuses"
	interactionsDir = "interactions"
	oppositionFile  = "opposition.yaml"
)

// Catalog is the immutable content registry built once at load time. It
// implements effect.TemplateSource.
type Catalog struct {
	entities     map[string]*entity.Entity
	statuses     map[string]*entity.Entity
	interactions map[string]*interaction.Interaction
	table        *oppose.Table
}

// Load reads every content channel beneath dir. Absent channels load empty;
// unparseable files are errors — authored content is validated up front, not
// at resolution time.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a fully cross-referenced Catalog or a non-nil
// error.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}

	c := &Catalog{
		entities:     make(map[string]*entity.Entity),
		statuses:     make(map[string]*entity.Entity),
		interactions: make(map[string]*interaction.Interaction),
	}

	if err := loadChannel(filepath.Join(dir, entitiesDir), logger, func(data []byte, path string) error {
		ent, err := decodeEntity(data)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		c.entities[ent.Name] = ent
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadChannel(filepath.Join(dir, statusesDir), logger, func(data []byte, path string) error {
		st, err := decodeEntity(data)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		c.statuses[st.Name] = st
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadChannel(filepath.Join(dir, interactionsDir), logger, func(data []byte, path string) error {
		itx, sourceName, err := decodeInteraction(data)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if sourceName != "" {
			src, ok := c.entities[sourceName]
			if !ok {
				return fmt.Errorf("parsing %q: source entity %q is not in the catalog", path, sourceName)
			}
			itx.Source = src
		}
		c.interactions[itx.Name] = itx
		return nil
	}); err != nil {
		return nil, err
	}

	table, err := loadOpposition(filepath.Join(dir, oppositionFile), logger)
	if err != nil {
		return nil, err
	}
	c.table = table

	logger.Info("catalog loaded",
		zap.String("dir", dir),
		zap.Int("entities", len(c.entities)),
		zap.Int("statuses", len(c.statuses)),
		zap.Int("interactions", len(c.interactions)),
	)
	return c, nil
}

// loadChannel reads every *.yaml file in dir and hands its bytes to decode.
// An absent directory is an empty channel, not an error. Interaction
// loading depends on entities being loaded first, so files are visited in
// sorted order for determinism.
func loadChannel(dir string, logger *zap.Logger, decode func(data []byte, path string) error) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("content channel absent", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := decode(data, path); err != nil {
			return err
		}
	}
	return nil
}

// yamlOppositionFile is the authored, defender-side schema: each defending
// skill lists the attacking skills it opposes.
type yamlOppositionFile struct {
	Oppositions map[string]yamlOpposition `yaml:"oppositions"`
}

type yamlOpposition struct {
	Opposes []string `yaml:"opposes"`
}

func loadOpposition(path string, logger *zap.Logger) (*oppose.Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("opposition schema absent; all opposed tests fall back",
			zap.String("path", path))
		return oppose.NewTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var file yamlOppositionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	schema := make(map[string][]string, len(file.Oppositions))
	for defender, o := range file.Oppositions {
		schema[defender] = o.Opposes
	}
	return oppose.NewTable(schema), nil
}

// Entity returns the loaded entity with the given name.
func (c *Catalog) Entity(name string) (*entity.Entity, bool) {
	e, ok := c.entities[name]
	return e, ok
}

// StatusTemplate returns the status template with the given name. Templates
// are shared and read-only; injection clones them.
func (c *Catalog) StatusTemplate(name string) (*entity.Entity, bool) {
	s, ok := c.statuses[name]
	return s, ok
}

// Interaction returns the loaded interaction with the given name.
func (c *Catalog) Interaction(name string) (*interaction.Interaction, bool) {
	i, ok := c.interactions[name]
	return i, ok
}

// Opposition returns the immutable skill-opposition table.
func (c *Catalog) Opposition() *oppose.Table {
	return c.table
}

// EntityNames returns the sorted names of all loaded entities.
func (c *Catalog) EntityNames() []string { return sortedKeys(c.entities) }

// StatusNames returns the sorted names of all loaded status templates.
func (c *Catalog) StatusNames() []string { return sortedKeys(c.statuses) }

// InteractionNames returns the sorted names of all loaded interactions.
func (c *Catalog) InteractionNames() []string {
	names := make([]string, 0, len(c.interactions))
	for n := range c.interactions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]*entity.Entity) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
