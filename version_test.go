package typegen

import (
	"testing"
)

func TestFHIRVersion_IsValid(t *testing.T) {
	tests := []struct {
		version FHIRVersion
		want    bool
	}{
		{R4, true},
		{R4B, true},
		{R5, true},
		{"R3", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.version.IsValid(); got != tt.want {
			t.Errorf("%v.IsValid() = %v; want %v", tt.version, got, tt.want)
		}
	}
}

func TestParseFHIRVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    FHIRVersion
		wantErr bool
	}{
		{"R4", R4, false},
		{"r4b", R4B, false},
		{"4.0.1", R4, false},
		{"5.0.0", R5, false},
		{"STU3", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFHIRVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFHIRVersion(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFHIRVersion(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFHIRVersion_CorePackage(t *testing.T) {
	if got := R4.CorePackage(); got != "hl7.fhir.r4.core#4.0.1" {
		t.Errorf("R4.CorePackage() = %q", got)
	}
	if got := FHIRVersion("R3").CorePackage(); got != "" {
		t.Errorf("unknown version CorePackage() = %q; want empty", got)
	}
}
