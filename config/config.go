// Package config reads the optional typegen.hcl run configuration.
//
// Every attribute is optional and command-line flags take precedence over
// the file. The environment is exposed to expressions as the "env" map:
//
//	input            = "definitions/*.json"
//	output           = "${env.HOME}/fhir-types"
//	format           = "ts"
//	workers          = 8
//	union            = false
//	check_invariants = true
//	packages         = ["hl7.fhir.r4.core#4.0.1"]
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/gofhir/typegen"
	"github.com/gofhir/typegen/pkg/emitter"
	"github.com/gofhir/typegen/pkg/logger"
)

// DefaultFile is the file name looked up when no path is given.
const DefaultFile = "typegen.hcl"

// File is the decoded configuration. Pointer fields distinguish an absent
// attribute from an explicit false.
type File struct {
	Input           string   `hcl:"input,optional"`
	Output          string   `hcl:"output,optional"`
	Format          string   `hcl:"format,optional"`
	Workers         int      `hcl:"workers,optional"`
	Union           *bool    `hcl:"union,optional"`
	CheckInvariants *bool    `hcl:"check_invariants,optional"`
	Strict          *bool    `hcl:"strict,optional"`
	FHIRVersion     string   `hcl:"fhir_version,optional"`
	Packages        []string `hcl:"packages,optional"`
	LogLevel        string   `hcl:"log_level,optional"`
}

// Load reads and decodes the file at path using the process environment.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return Parse(src, path, environ())
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string, env map[string]string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %s", filename, diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %s", filename, diags.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return &cfg, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			vals[k] = cty.StringVal(v)
		}
		envVal = cty.MapVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func (f *File) validate() error {
	if f.Format != "" {
		if _, err := emitter.ParseFormat(f.Format); err != nil {
			return err
		}
	}
	if f.FHIRVersion != "" {
		if _, err := typegen.ParseFHIRVersion(f.FHIRVersion); err != nil {
			return err
		}
	}
	if f.LogLevel != "" {
		if _, err := logger.ParseLevel(f.LogLevel); err != nil {
			return err
		}
	}
	if f.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", f.Workers)
	}
	return nil
}

// Options converts the file into compiler options. Attributes left out of
// the file produce no option.
func (f *File) Options() []typegen.Option {
	var opts []typegen.Option
	if f.Format != "" {
		format, _ := emitter.ParseFormat(f.Format)
		opts = append(opts, typegen.WithFormat(string(format)))
	}
	if f.Workers > 0 {
		opts = append(opts, typegen.WithWorkerCount(f.Workers))
	}
	if f.Union != nil {
		opts = append(opts, typegen.WithUnion(*f.Union))
	}
	if f.CheckInvariants != nil {
		opts = append(opts, typegen.WithInvariantCheck(*f.CheckInvariants))
	}
	if f.Strict != nil {
		opts = append(opts, typegen.WithStrictMode(*f.Strict))
	}
	if f.FHIRVersion != "" {
		v, _ := typegen.ParseFHIRVersion(f.FHIRVersion)
		opts = append(opts, typegen.WithFHIRVersion(v))
	}
	return opts
}
