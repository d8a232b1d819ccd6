package typegen

import (
	"fmt"
	"strings"
)

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	_, ok := versionConfigs[v]
	return ok
}

// ParseFHIRVersion accepts a release name ("R4", "r4b") or a full version
// string ("4.0.1").
func ParseFHIRVersion(s string) (FHIRVersion, error) {
	v := FHIRVersion(strings.ToUpper(strings.TrimSpace(s)))
	if v.IsValid() {
		return v, nil
	}
	for name, cfg := range versionConfigs {
		if cfg.FHIRVersionString == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unsupported FHIR version %q", s)
}

// CorePackage returns the "name#version" reference of the core package for
// the release, as found in the FHIR package cache.
func (v FHIRVersion) CorePackage() string {
	cfg, ok := versionConfigs[v]
	if !ok {
		return ""
	}
	return cfg.CorePackageName + "#" + cfg.CorePackageVersion
}

// versionConfig holds version-specific configuration.
type versionConfig struct {
	CorePackageName    string
	CorePackageVersion string

	// FHIRVersionString is the version string used in StructureDefinitions
	FHIRVersionString string
}

var versionConfigs = map[FHIRVersion]versionConfig{
	R4: {
		CorePackageName:    "hl7.fhir.r4.core",
		CorePackageVersion: "4.0.1",
		FHIRVersionString:  "4.0.1",
	},
	R4B: {
		CorePackageName:    "hl7.fhir.r4b.core",
		CorePackageVersion: "4.3.0",
		FHIRVersionString:  "4.3.0",
	},
	R5: {
		CorePackageName:    "hl7.fhir.r5.core",
		CorePackageVersion: "5.0.0",
		FHIRVersionString:  "5.0.0",
	},
}
