package resource

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

type Configs []*Config

// Get returns the config of the named resource, or nil.
func (c Configs) Get(resource string) *Config {
	for _, rc := range c {
		if rc.Resource == resource {
			return rc
		}
	}
	return nil
}

// Config describes how rows of one table become documents of one index.
type Config struct {
	Resource   string `yaml:"resource"`
	Table      string `yaml:"table"`
	PrimaryKey string `yaml:"primaryKey"`

	IndexName string `yaml:"indexName"`
	TypeName  string `yaml:"typeName"`
	IDPrefix  string `yaml:"idPrefix"`

	// Default true
	Source *bool `yaml:"source"`

	// Fields restricts the document body. Empty means every column.
	Fields []FieldConfig `yaml:"fields"`

	Settings map[string]any `yaml:"settings"`
	Mapping  map[string]any `yaml:"mapping"`
}

type FieldConfig struct {
	Name string `yaml:"name"`
}

func (c *Config) ApplyDefaults() {
	if c.Table == "" {
		c.Table = c.Resource
	}
	if c.PrimaryKey == "" {
		c.PrimaryKey = "id"
	}
}

func (c Config) GetIndexName() string {
	if c.IndexName != "" {
		return c.IndexName
	}
	return c.Table
}

func (c Config) GetTypeName() string {
	if c.TypeName != "" {
		return c.TypeName
	}
	return c.Table
}

func (c Config) SourceEnabled() bool {
	return c.Source == nil || *c.Source
}

func (c Config) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Load reads resource definitions keyed by resource name and fills defaults.
// The result is ordered by resource name.
func Load(path string) (Configs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Configs, error) {
	var cfg map[string]*Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	resources := make(Configs, 0, len(cfg))
	for name, rc := range cfg {
		if rc == nil {
			rc = &Config{}
		}
		rc.Resource = name
		rc.ApplyDefaults()
		resources = append(resources, rc)
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Resource < resources[j].Resource
	})

	return resources, nil
}
