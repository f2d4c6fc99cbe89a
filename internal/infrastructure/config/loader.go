package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

//go:embed defaults
var defaultsFS embed.FS

// Loader loads game configuration from JSON files using the fs.FS interface.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a config loader reading from a filesystem path.
func NewLoader(basePath string) *Loader {
	return &Loader{fsys: os.DirFS(basePath)}
}

// NewFSLoader creates a config loader reading from an fs.FS.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDefaultLoader creates a loader over the embedded default tables, so
// the simulation runs without external config files.
func NewDefaultLoader() *Loader {
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		// embed content is fixed at build time
		panic(err)
	}
	return &Loader{fsys: sub}
}

func (l *Loader) loadJSON(name string, out any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadSim loads sim.json.
func (l *Loader) LoadSim() (*SimConfig, error) {
	var cfg SimConfig
	if err := l.loadJSON("sim.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAnimals loads animals.json.
func (l *Loader) LoadAnimals() (AnimalsConfig, error) {
	var cfg AnimalsConfig
	if err := l.loadJSON("animals.json", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAbilities loads abilities.json.
func (l *Loader) LoadAbilities() (AbilitiesConfig, error) {
	var cfg AbilitiesConfig
	if err := l.loadJSON("abilities.json", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBosses loads bosses.json.
func (l *Loader) LoadBosses() (BossesConfig, error) {
	var cfg BossesConfig
	if err := l.loadJSON("bosses.json", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAll loads every configuration table.
func (l *Loader) LoadAll() (*GameConfig, error) {
	sim, err := l.LoadSim()
	if err != nil {
		return nil, err
	}
	animals, err := l.LoadAnimals()
	if err != nil {
		return nil, err
	}
	abilities, err := l.LoadAbilities()
	if err != nil {
		return nil, err
	}
	bosses, err := l.LoadBosses()
	if err != nil {
		return nil, err
	}
	return &GameConfig{
		Sim:       sim,
		Animals:   animals,
		Abilities: abilities,
		Bosses:    bosses,
	}, nil
}

// Animal looks up a variant by subtype. An unknown subtype is a static
// data bug, reported as an error at spawn time.
func (c *GameConfig) Animal(subtype string) (VariantConfig, error) {
	v, ok := c.Animals[subtype]
	if !ok {
		return VariantConfig{}, fmt.Errorf("unknown animal variant %q", subtype)
	}
	return v, nil
}

// Ability looks up an ability definition by id.
func (c *GameConfig) Ability(id string) (AbilityConfig, error) {
	a, ok := c.Abilities[id]
	if !ok {
		return AbilityConfig{}, fmt.Errorf("unknown ability %q", id)
	}
	return a, nil
}

// Boss looks up a boss definition by type name.
func (c *GameConfig) Boss(bossType string) (BossConfig, error) {
	b, ok := c.Bosses[bossType]
	if !ok {
		return BossConfig{}, fmt.Errorf("unknown boss type %q", bossType)
	}
	return b, nil
}
