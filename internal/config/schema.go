package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const levelSchemaURL = "hexfall://level.schema.json"

var (
	levelSchema     *jsonschema.Schema
	levelSchemaErr  error
	levelSchemaOnce sync.Once
)

// compiledLevelSchema compiles the embedded schema once.
func compiledLevelSchema() (*jsonschema.Schema, error) {
	levelSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(levelSchemaURL, bytes.NewReader(levelSchemaJSON)); err != nil {
			levelSchemaErr = fmt.Errorf("loading level schema: %w", err)
			return
		}
		levelSchema, levelSchemaErr = c.Compile(levelSchemaURL)
	})
	return levelSchema, levelSchemaErr
}

// ValidateLevel checks raw level YAML against the level schema.
func ValidateLevel(data []byte) error {
	schema, err := compiledLevelSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: yaml: %w", ErrInvalidLevel, err)
	}

	// The validator wants JSON values, so round-trip through encoding/json.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return nil
}
