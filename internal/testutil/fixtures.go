package testutil

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/generator"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// WriteFixture copies a fixture into dir and returns its path.
func WriteFixture(dir, name string) (string, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadConfigFixture writes a TOML fixture to dir and loads it.
func LoadConfigFixture(dir, name string) (config.Config, error) {
	path, err := WriteFixture(dir, name)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// ComposeTemplate returns the parsed compose template fixture.
func ComposeTemplate() (*generator.Template, error) {
	data, err := LoadFixture("compose_template.yml")
	if err != nil {
		return nil, err
	}
	return generator.ParseTemplate("fixtures/compose_template.yml", data)
}
