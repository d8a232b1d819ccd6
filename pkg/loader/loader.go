// Package loader reads FHIR StructureDefinitions from JSON files matched by
// a glob pattern, from the FHIR NPM package cache, local .tgz files, or
// remote URLs.
package loader

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/gofhir/typegen/pkg/registry"
)

// ErrInputNotFound is returned when a source holds nothing to load: a glob
// without matches, or a missing file, package or archive.
var ErrInputNotFound = errors.New("input not found")

// DefaultPackagePath returns the default FHIR package cache path.
func DefaultPackagePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fhir", "packages")
}

// PackageRef represents a reference to a FHIR package.
type PackageRef struct {
	Name    string
	Version string
}

// String returns the package spec in "name#version" format.
func (p PackageRef) String() string {
	return fmt.Sprintf("%s#%s", p.Name, p.Version)
}

// ParsePackageSpec parses "name#version" into a PackageRef.
func ParsePackageSpec(spec string) PackageRef {
	parts := strings.SplitN(spec, "#", 2)
	if len(parts) == 2 {
		return PackageRef{Name: parts[0], Version: parts[1]}
	}
	return PackageRef{Name: spec}
}

// Package represents a loaded FHIR package.
type Package struct {
	Name        string
	Version     string
	Path        string
	FHIRVersion string

	// Definitions holds the package's StructureDefinitions ordered by file name.
	Definitions []*registry.StructureDefinition
}

// PackageManifest represents the package.json of a FHIR NPM package.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	FHIRVersion  string            `json:"fhirVersion,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Loader loads StructureDefinitions. Files that fail to decode are reported
// through the skip hook and otherwise ignored, as FHIR packages routinely
// carry examples and other non-conformance JSON.
type Loader struct {
	basePath string
	onSkip   func(source string, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSkipHook sets a function called for every file that is skipped.
func WithSkipHook(fn func(source string, err error)) LoaderOption {
	return func(l *Loader) {
		l.onSkip = fn
	}
}

// NewLoader creates a new Loader with the given package cache path.
func NewLoader(basePath string, opts ...LoaderOption) *Loader {
	if basePath == "" {
		basePath = DefaultPackagePath()
	}
	l := &Loader{basePath: basePath}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BasePath returns the base path for packages.
func (l *Loader) BasePath() string {
	return l.basePath
}

func (l *Loader) skip(source string, err error) {
	if l.onSkip != nil {
		l.onSkip(source, err)
	}
}

// LoadPackage loads a specific package by name and version from the cache.
func (l *Loader) LoadPackage(ref PackageRef) (*Package, error) {
	pkgDir := filepath.Join(l.basePath, ref.String())

	if _, err := os.Stat(pkgDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("package %s at %s: %w", ref, pkgDir, ErrInputNotFound)
	}

	manifestPath := filepath.Join(pkgDir, "package", "package.json")
	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package manifest: %w", err)
	}

	var manifest PackageManifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse package manifest: %w", err)
	}

	pkg := &Package{
		Name:        ref.Name,
		Version:     ref.Version,
		Path:        pkgDir,
		FHIRVersion: manifest.FHIRVersion,
	}

	packageDir := filepath.Join(pkgDir, "package")
	entries, err := os.ReadDir(packageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	// os.ReadDir returns entries sorted by file name.
	for _, entry := range entries {
		if entry.IsDir() || !isResourceFile(entry.Name()) {
			continue
		}

		filePath := filepath.Join(packageDir, entry.Name())
		data, err := os.ReadFile(filePath)
		if err != nil {
			l.skip(filePath, err)
			continue
		}

		defs, err := Decode(data)
		if err != nil {
			l.skip(filePath, err)
			continue
		}
		pkg.Definitions = append(pkg.Definitions, defs...)
	}

	return pkg, nil
}

// LoadFromTgz loads a FHIR package from a local .tgz file.
func (l *Loader) LoadFromTgz(tgzPath string) (*Package, error) {
	file, err := os.Open(tgzPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", tgzPath, ErrInputNotFound)
		}
		return nil, fmt.Errorf("failed to open tgz file: %w", err)
	}
	defer file.Close()

	return l.loadFromTgzReader(file, tgzPath)
}

// LoadFromURL loads a FHIR package from a remote URL pointing to a .tgz file.
func (l *Loader) LoadFromURL(url string) (*Package, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download package from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrInputNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download package: HTTP %d", resp.StatusCode)
	}

	return l.loadFromTgzReader(resp.Body, url)
}

// loadFromTgzReader loads a package from a gzipped tar reader.
func (l *Loader) loadFromTgzReader(reader io.Reader, source string) (*Package, error) {
	gzReader, err := gzip.NewReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)

	var manifestData []byte
	files := make(map[string][]byte)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar entry: %w", err)
		}

		if header.Typeflag == tar.TypeDir {
			continue
		}

		// Normalize path (remove leading "package/" if present)
		name := strings.TrimPrefix(header.Name, "package/")
		if name != "package.json" && !isResourceFile(name) {
			continue
		}

		data, err := io.ReadAll(tarReader)
		if err != nil {
			l.skip(source+"!"+name, err)
			continue
		}

		if name == "package.json" {
			manifestData = data
			continue
		}
		files[name] = data
	}

	if manifestData == nil {
		return nil, fmt.Errorf("package.json not found in %s", source)
	}

	var manifest PackageManifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse package manifest: %w", err)
	}

	pkg := &Package{
		Name:        manifest.Name,
		Version:     manifest.Version,
		FHIRVersion: manifest.FHIRVersion,
		Path:        source,
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		defs, err := Decode(files[name])
		if err != nil {
			l.skip(source+"!"+name, err)
			continue
		}
		pkg.Definitions = append(pkg.Definitions, defs...)
	}

	return pkg, nil
}

// isResourceFile reports whether a package entry may hold a FHIR resource.
func isResourceFile(name string) bool {
	if !strings.HasSuffix(name, ".json") {
		return false
	}
	base := filepath.Base(name)
	return base != "package.json" && base != ".index.json"
}
