package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/registry"
)

// Config holds all runtime configuration for a fuelmigrate run.
type Config struct {
	DSN       string
	FilePath  string
	LogFormat string // "text" or "json"

	// MeterDefault seeds the session meter preference:
	// ask_each_time, always_use_diesel, or always_keep_checklist.
	MeterDefault string
	// RegistryChunkSize bounds each asset-registry page fetched for matching.
	RegistryChunkSize int
	// AutoMap enables unattended mapping of high-confidence names.
	AutoMap bool
	// NonInteractive fails instead of prompting when names or conflicts
	// remain undecided. For scripted runs.
	NonInteractive bool

	// Mappings are scripted decisions applied before any prompting, loaded
	// from the YAML config file.
	Mappings []ScriptedMapping
}

// ScriptedMapping is one pre-decided name resolution from the config file.
type ScriptedMapping struct {
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	AssetID       int64  `yaml:"asset_id,omitempty"`
	ExceptionType string `yaml:"exception_type,omitempty"`
	Description   string `yaml:"description,omitempty"`
	OwnerInfo     string `yaml:"owner_info,omitempty"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	MeterDefault      string            `yaml:"meter_default"`
	RegistryChunkSize int               `yaml:"registry_chunk_size"`
	Mappings          []ScriptedMapping `yaml:"mappings"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Flag values already set take precedence over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.MeterDefault == "" {
		c.MeterDefault = yc.MeterDefault
	}
	if c.RegistryChunkSize == 0 {
		c.RegistryChunkSize = yc.RegistryChunkSize
	}
	c.Mappings = yc.Mappings
	return nil
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if c.MeterDefault == "" {
		c.MeterDefault = string(model.PrefAskEachTime)
	}
	switch model.PreferenceAction(c.MeterDefault) {
	case model.PrefAskEachTime, model.PrefAlwaysUseDiesel, model.PrefAlwaysKeepChecklist:
	default:
		return fmt.Errorf("unknown meter default %q", c.MeterDefault)
	}
	if c.RegistryChunkSize == 0 {
		c.RegistryChunkSize = registry.DefaultChunkSize
	}
	if c.RegistryChunkSize < 0 {
		return fmt.Errorf("registry chunk size must be positive, got %d", c.RegistryChunkSize)
	}
	for i := range c.Mappings {
		if err := c.Mappings[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

// MeterPreference builds the session preference seeded from MeterDefault.
func (c *Config) MeterPreference() *model.MeterPreference {
	p := model.NewMeterPreference()
	if c.MeterDefault != "" {
		p.DefaultAction = model.PreferenceAction(c.MeterDefault)
	}
	return p
}

func (m *ScriptedMapping) validate() error {
	if m.Name == "" {
		return fmt.Errorf("scripted mapping with empty name")
	}
	cat, ok := model.MappingCategoryByName(m.Category)
	if !ok {
		return fmt.Errorf("scripted mapping %q: unknown category %q", m.Name, m.Category)
	}
	if cat == model.CategoryFormal && m.AssetID == 0 {
		return fmt.Errorf("scripted mapping %q: formal mapping needs asset_id", m.Name)
	}
	return nil
}

// Decision converts a scripted mapping into a full decision.
func (m *ScriptedMapping) Decision() *model.AssetMappingDecision {
	cat, _ := model.MappingCategoryByName(m.Category)
	d := &model.AssetMappingDecision{
		OriginalName:         m.Name,
		Category:             cat,
		ExceptionDescription: m.Description,
		OwnerInfo:            m.OwnerInfo,
		Confidence:           1.0,
		Notes:                "scripted",
	}
	if cat == model.CategoryFormal {
		id := m.AssetID
		d.TargetAssetID = &id
	}
	if cat == model.CategoryException {
		if m.ExceptionType == "" {
			d.ExceptionType = model.ExceptionUnknown
		} else {
			d.ExceptionType = model.ExceptionType(m.ExceptionType)
		}
	}
	return d
}
