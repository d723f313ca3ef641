package config

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"cvgen/internal/catalog"
	"cvgen/internal/generation"
)

const (
	DefaultResources     = "resources"
	DefaultOutput        = "generated"
	DefaultBindingModule = "github.com/bytedeco/javacpp-presets/opencv"
	DefaultOutputModule  = "cvgen/ops"
)

// ManifestPackage is the package, under the output module, that holds the manifest.
const ManifestPackage = "operations"

type Config struct {
	// Directory holding the declaration sources.
	Resources string
	// Directory the units are written below.
	Output        string
	BindingModule string
	OutputModule  string
	// Catalog file replacing the built-in catalog, empty for the built-in one.
	Catalog string
	Debug   bool
	Strict  bool
}

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func Default() Config {
	return Config{
		Resources:     DefaultResources,
		Output:        DefaultOutput,
		BindingModule: DefaultBindingModule,
		OutputModule:  DefaultOutputModule,
	}
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// FromEnvironment returns the defaults overridden by the CVGEN_* variables that are set.
func FromEnvironment() Config {
	config := Default()

	if resources := clean("CVGEN_RESOURCES"); resources != "" {
		config.Resources = resources
	}
	if output := clean("CVGEN_OUTPUT"); output != "" {
		config.Output = output
	}
	if module := clean("CVGEN_BINDING_MODULE"); module != "" {
		config.BindingModule = module
	}
	if module := clean("CVGEN_OUTPUT_MODULE"); module != "" {
		config.OutputModule = module
	}
	config.Catalog = clean("CVGEN_CATALOG")

	if debug := clean("CVGEN_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			config.Debug = d
		} else {
			config.Debug = true
		}
	}

	if strict := clean("CVGEN_STRICT"); strict != "" {
		s, err := strconv.ParseBool(strict)
		if err != nil {
			slog.Error("invalid setting, ignoring", "CVGEN_STRICT", strict, "error", err)
		} else {
			config.Strict = s
		}
	}

	return config
}

func (c Config) AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"CVGEN_RESOURCES":      {"CVGEN_RESOURCES", c.Resources, "Directory holding the declaration sources"},
		"CVGEN_OUTPUT":         {"CVGEN_OUTPUT", c.Output, "Directory the generated code is written to"},
		"CVGEN_BINDING_MODULE": {"CVGEN_BINDING_MODULE", c.BindingModule, "Module path of the native binding packages"},
		"CVGEN_OUTPUT_MODULE":  {"CVGEN_OUTPUT_MODULE", c.OutputModule, "Module path of the generated packages"},
		"CVGEN_CATALOG":        {"CVGEN_CATALOG", c.Catalog, "Catalog file replacing the built-in catalog"},
		"CVGEN_DEBUG":          {"CVGEN_DEBUG", c.Debug, "Show additional debug information (e.g. CVGEN_DEBUG=1)"},
		"CVGEN_STRICT":         {"CVGEN_STRICT", c.Strict, "Fail on unmatched entries and ambiguous matches"},
	}
}

// ManifestPath is the import path of the manifest package.
func (c Config) ManifestPath() string {
	return path.Join(c.OutputModule, ManifestPackage)
}

// Collections loads the catalog file, or returns the built-in catalog when none is configured.
func (c Config) Collections() ([]catalog.Collection, error) {
	if c.Catalog == "" {
		return catalog.Builtin(), nil
	}

	file, err := os.Open(c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	return catalog.Load(file)
}

func (c Config) Jobs() ([]generation.Job, error) {
	collections, err := c.Collections()
	if err != nil {
		return nil, err
	}

	return generation.Jobs(collections, c.BindingModule, c.OutputModule), nil
}

// Generator builds the generator of this configuration, reading sources from the resources directory.
func (c Config) Generator() (generation.Generator, error) {
	jobs, err := c.Jobs()
	if err != nil {
		return generation.Generator{}, err
	}

	generator := generation.NewGenerator(os.DirFS(c.Resources), jobs, c.ManifestPath())
	generator.Strict = c.Strict
	return generator, nil
}
