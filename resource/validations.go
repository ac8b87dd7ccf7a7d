package resource

import (
	"fmt"
	"reflect"
)

func (c Configs) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("at least one resource config required")
	}

	// Verify that every individual config is valid
	for i, rc := range c {
		if err := rc.Validate(); err != nil {
			if rc.Resource != "" {
				return fmt.Errorf("resource %q: %w", rc.Resource, err)
			}
			return fmt.Errorf("resource %d: %w", i, err)
		}
	}

	if err := c.verifySharedIndices(); err != nil {
		return err
	}

	return nil
}

// Resources may share an index, but then they must agree on its mapping.
func (c Configs) verifySharedIndices() error {
	owners := map[string]*Config{}
	for _, rc := range c {
		idx := rc.GetIndexName()
		other, ok := owners[idx]
		if !ok {
			owners[idx] = rc
			continue
		}
		if !reflect.DeepEqual(other.Mapping, rc.Mapping) {
			return fmt.Errorf("resources '%s' and '%s' share index '%s' with different mappings", other.Resource, rc.Resource, idx)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Resource == "" {
		return fmt.Errorf("resource required")
	}

	if c.Table == "" {
		return fmt.Errorf("table required")
	}

	seen := map[string]bool{}
	for i, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: defined more than once", f.Name)
		}
		seen[f.Name] = true
	}

	for name, prop := range c.Mapping {
		if err := validateProperty(prop); err != nil {
			return fmt.Errorf("mapping %q: %w", name, err)
		}
	}

	return nil
}

func (c FieldConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	return nil
}

func validateProperty(prop any) error {
	m, ok := prop.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object, got %T", prop)
	}
	if _, ok := m["type"]; ok {
		return nil
	}
	if _, ok := m["properties"]; ok {
		return nil
	}
	return fmt.Errorf("type or properties required")
}
