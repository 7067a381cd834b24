package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// ToYAML encodes the configuration as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ToYAMLWithHeader encodes the configuration below a comment header. Lines
// of header not already commented are prefixed with "# ".
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	body, err := c.ToYAML()
	if err != nil || header == "" {
		return body, err
	}

	var buf bytes.Buffer
	for line := range strings.Lines(strings.TrimRight(header, "\n") + "\n") {
		if !strings.HasPrefix(line, "#") {
			buf.WriteString("# ")
		}
		buf.WriteString(line)
	}
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}

// FromYAML parses a configuration file. Fields absent from the document keep
// their zero value; merge with defaults separately. Unknown keys are an
// error so that typos do not go unnoticed. An empty document is an empty
// configuration.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Redacted returns a copy safe to print: the token is masked.
func (c *Config) Redacted() *Config {
	clone := c.Clone()
	if clone != nil {
		clone.Token = MaskToken(clone.Token)
	}
	return clone
}
