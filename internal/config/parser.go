package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a configuration file from disk, validates it, and returns the resulting model.
// Files ending in .toml are read as TOML, everything else as YAML.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rmenuerrors.NewParseError(path, 0, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(path, data, &cfg)
	} else {
		err = decodeYAML(path, data, &cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault parses path, or returns the defaults when the file does not
// exist and the caller did not ask for it explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return &cfg, nil
		}
	}
	return ParseConfig(path)
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return rmenuerrors.NewParseError(path, extractLine(err), err)
	}
	if root.Kind == 0 {
		return nil
	}

	order, err := yamlPluginOrder(&root)
	if err != nil {
		return err
	}
	if err := root.Decode(cfg); err != nil {
		return rmenuerrors.NewParseError(path, extractLine(err), err)
	}
	cfg.order = order
	return nil
}

// yamlPluginOrder returns the keys of the top-level plugins mapping as written.
func yamlPluginOrder(root *yaml.Node) ([]string, error) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, nil
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "plugins" {
			continue
		}
		plugins := doc.Content[i+1]
		if plugins.Kind != yaml.MappingNode {
			return nil, nil
		}
		seen := make(map[string]int, len(plugins.Content)/2)
		order := make([]string, 0, len(plugins.Content)/2)
		for j := 0; j+1 < len(plugins.Content); j += 2 {
			key := plugins.Content[j]
			if first, dup := seen[key.Value]; dup {
				return nil, rmenuerrors.NewValidationError(
					"plugins."+key.Value,
					fmt.Sprintf("duplicate plugin name (lines %d and %d)", first, key.Line),
					nil,
				)
			}
			seen[key.Value] = key.Line
			order = append(order, key.Value)
		}
		return order, nil
	}
	return nil, nil
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		line := 0
		var perr toml.ParseError
		if errors.As(err, &perr) {
			line = perr.Position.Line
		}
		return rmenuerrors.NewParseError(path, line, err)
	}

	var order []string
	for _, key := range meta.Keys() {
		if len(key) == 2 && key[0] == "plugins" {
			order = append(order, key[1])
		}
	}
	cfg.order = order
	return nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
