// Package main implements the fhir-typegen CLI tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gofhir/typegen"
	"github.com/gofhir/typegen/config"
	"github.com/gofhir/typegen/pkg/emitter"
	"github.com/gofhir/typegen/pkg/loader"
	"github.com/gofhir/typegen/pkg/logger"
	"github.com/gofhir/typegen/pkg/registry"
	"github.com/gofhir/typegen/worker"
)

const (
	version = "0.1.0"
	usage   = `fhir-typegen - FHIR StructureDefinition to type declaration compiler

Usage:
  fhir-typegen -input <glob> -output <dir> [options]

Examples:
  fhir-typegen -input 'definitions/*.json' -output types
  fhir-typegen -input 'profiles/*.json' -output types -format yaml
  fhir-typegen -package core -output types -check-invariants
  fhir-typegen -config typegen.hcl

Options:
`
)

// Exit codes.
const (
	exitOK             = 0
	exitFailed         = 1
	exitInputNotFound  = 2
	exitOutputNotWrite = 3
	exitUsage          = 64
)

// coreAlias in -package selects the core package of -fhir-version.
const coreAlias = "core"

// Config holds CLI configuration.
type Config struct {
	ConfigFile      string
	Input           string
	Output          string
	Format          string
	FHIRVersion     string
	Packages        []string
	PackageFiles    []string
	PackageURLs     []string
	Workers         int
	Union           bool
	CheckInvariants bool
	Strict          bool
	LogLevel        string
	Quiet           bool
	Verbose         bool
	ShowVersion     bool
	Help            bool

	// set records the flags given on the command line.
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(exitOK)
	}
	if err != nil {
		os.Exit(exitUsage)
	}

	if cfg.ShowVersion {
		fmt.Printf("fhir-typegen v%s\n", version)
		os.Exit(exitOK)
	}

	os.Exit(run(ctx, cfg, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("fhir-typegen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var packages, packageFiles, packageURLs string

	fs.StringVar(&cfg.ConfigFile, "config", "", "HCL config file (default "+config.DefaultFile+" if present)")
	fs.StringVar(&cfg.Input, "input", "", "Glob of StructureDefinition or Bundle JSON files")
	fs.StringVar(&cfg.Output, "output", "", "Output directory")
	fs.StringVar(&cfg.Format, "format", "ts", "Output format: ts, json, yaml")
	fs.StringVar(&cfg.FHIRVersion, "fhir-version", "R4", "FHIR release used for '-package core' (R4, R4B, R5)")
	fs.StringVar(&packages, "package", "", "FHIR package(s) from the package cache (e.g., hl7.fhir.us.core#6.1.0, or 'core')")
	fs.StringVar(&packageFiles, "package-file", "", "Local .tgz package file(s) to load (comma-separated)")
	fs.StringVar(&packageURLs, "package-url", "", "Remote .tgz package URL(s) to load (comma-separated)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Number of compile workers (default: number of CPUs)")
	fs.BoolVar(&cfg.Union, "union", false, "Compile polymorphic [x] elements as one union-typed field")
	fs.BoolVar(&cfg.CheckInvariants, "check-invariants", false, "Check that FHIRPath invariants compile")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail the run if any definition fails to compile")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Only show errors and warnings")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show detailed output")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version")
	fs.BoolVar(&cfg.Help, "help", false, "Show help")

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return nil, errors.New("unexpected arguments")
	}

	cfg.Packages = splitList(packages)
	cfg.PackageFiles = splitList(packageFiles)
	cfg.PackageURLs = splitList(packageURLs)

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if cfg.Help {
		fs.Usage()
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeFile fills the load and output settings not given on the command
// line from the config file. Compiler settings go through compilerOptions.
func (c *Config) mergeFile(f *config.File) {
	if !c.set["input"] && f.Input != "" {
		c.Input = f.Input
	}
	if !c.set["output"] && f.Output != "" {
		c.Output = f.Output
	}
	if !c.set["package"] && len(f.Packages) > 0 {
		c.Packages = f.Packages
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
}

// compilerOptions layers the flags given on the command line over the
// config file's options. file may be nil.
func (c *Config) compilerOptions(file *config.File) ([]typegen.Option, error) {
	var opts []typegen.Option
	if file != nil {
		opts = append(opts, file.Options()...)
	}

	if c.set["format"] {
		format, err := emitter.ParseFormat(c.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, typegen.WithFormat(string(format)))
	}
	if c.set["fhir-version"] {
		v, err := typegen.ParseFHIRVersion(c.FHIRVersion)
		if err != nil {
			return nil, err
		}
		opts = append(opts, typegen.WithFHIRVersion(v))
	}
	if c.set["workers"] {
		opts = append(opts, typegen.WithWorkerCount(c.Workers))
	}
	if c.set["union"] {
		opts = append(opts, typegen.WithUnion(c.Union))
	}
	if c.set["check-invariants"] {
		opts = append(opts, typegen.WithInvariantCheck(c.CheckInvariants))
	}
	if c.set["strict"] {
		opts = append(opts, typegen.WithStrictMode(c.Strict))
	}
	return opts, nil
}

// hasSource reports whether anything to load was named.
func (c *Config) hasSource() bool {
	return c.Input != "" || len(c.Packages) > 0 || len(c.PackageFiles) > 0 || len(c.PackageURLs) > 0
}

func (c *Config) logLevel() logger.Level {
	switch {
	case c.Verbose:
		return logger.LevelDebug
	case c.Quiet:
		return logger.LevelWarn
	}
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

func run(ctx context.Context, cfg *Config, stderr io.Writer) int {
	if cfg.Help {
		return exitOK
	}

	var file *config.File
	if cfg.ConfigFile != "" || fileExists(config.DefaultFile) {
		path := cfg.ConfigFile
		if path == "" {
			path = config.DefaultFile
		}
		var err error
		if file, err = config.Load(path); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		cfg.mergeFile(file)
	}

	log := logger.New(stderr, cfg.logLevel())
	logger.SetDefault(log)

	if !cfg.hasSource() || cfg.Output == "" {
		fmt.Fprintln(stderr, "Error: -input (or a package source) and -output are required")
		return exitUsage
	}

	opts, err := cfg.compilerOptions(file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	compiler := typegen.NewCompiler(opts...)
	settings := compiler.Options()

	start := time.Now()
	reg, err := load(cfg, settings.FHIRVersion, log)
	if err != nil {
		log.Error("%v", err)
		return exitCode(err)
	}

	eligible := reg.Eligible()
	log.Info("Loaded %d definitions, %d eligible for compilation", reg.Count(), len(eligible))

	em, err := emitter.New(cfg.Output, emitter.Format(settings.Format))
	if err != nil {
		log.Error("%v", err)
		return exitCode(err)
	}

	bc := worker.NewBatchCompiler(compiler.Compile, settings.WorkerCount)
	bc.SetLogger(log.Named("worker"))
	batch := bc.CompileBatch(ctx, eligible)

	for _, r := range batch.Results {
		for _, p := range r.Problems {
			log.Warn("%s: invariant %s", r.Type, p)
		}
		if !r.OK() {
			if settings.Strict {
				log.Error("%s: %v", r.Type, r.Err)
			} else {
				log.Warn("skipping %s: %v", r.Type, r.Err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		log.Error("interrupted: %v", err)
		return exitFailed
	}
	if settings.Strict && batch.HasErrors() {
		log.Error("%d of %d definitions failed to compile", batch.FailedJobs, batch.TotalJobs)
		return exitFailed
	}

	for _, r := range batch.Succeeded() {
		path, err := em.Emit(r.Root, r.Schemas)
		if err != nil {
			log.Error("%v", err)
			return exitCode(err)
		}
		log.Debug("wrote %s (%d interfaces)", path, r.InterfaceCount())
	}
	if _, err := em.Finish(); err != nil {
		log.Error("%v", err)
		return exitCode(err)
	}

	m := compiler.Metrics()
	log.Info("Compiled %d/%d definitions into %d interfaces in %s (avg %s per definition)",
		len(batch.Succeeded()), batch.TotalJobs, batch.InterfaceCount(),
		time.Since(start).Round(time.Millisecond), m.AverageCompileTime().Round(time.Microsecond))
	if n := batch.ProblemCount(); n > 0 {
		log.Info("%d invariant expressions failed to compile", n)
	}
	return exitOK
}

// load reads every configured source into a registry.
func load(cfg *Config, fhirVersion typegen.FHIRVersion, log *logger.Logger) (*registry.Registry, error) {
	// Packages routinely carry examples and other non-definition JSON;
	// a file named by -input that does not decode is worth a warning.
	l := loader.NewLoader("", loader.WithSkipHook(func(source string, err error) {
		log.Debug("skipped %s: %v", source, err)
	}))
	inputs := loader.NewLoader("", loader.WithSkipHook(func(source string, err error) {
		log.Warn("skipped %s: %v", source, err)
	}))
	reg := registry.New()

	if cfg.Input != "" {
		defs, err := inputs.LoadGlob(cfg.Input)
		if err != nil {
			return nil, err
		}
		reg.Add(defs...)
	}

	for _, spec := range cfg.Packages {
		if spec == coreAlias {
			spec = fhirVersion.CorePackage()
		}
		pkg, err := l.LoadPackage(loader.ParsePackageSpec(spec))
		if err != nil {
			return nil, err
		}
		log.Debug("package %s: %d definitions", spec, len(pkg.Definitions))
		reg.Add(pkg.Definitions...)
	}

	for _, path := range cfg.PackageFiles {
		pkg, err := l.LoadFromTgz(path)
		if err != nil {
			return nil, err
		}
		reg.Add(pkg.Definitions...)
	}

	for _, url := range cfg.PackageURLs {
		pkg, err := l.LoadFromURL(url)
		if err != nil {
			return nil, err
		}
		reg.Add(pkg.Definitions...)
	}

	return reg, nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, loader.ErrInputNotFound):
		return exitInputNotFound
	case errors.Is(err, emitter.ErrOutputNotWritable):
		return exitOutputNotWrite
	default:
		return exitFailed
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
