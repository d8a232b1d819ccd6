package registry

import "testing"

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		sd   *StructureDefinition
		want bool
	}{
		{"nil", nil, false},
		{"complex type", &StructureDefinition{Kind: KindComplexType, Type: "HumanName"}, true},
		{"complex type profile", &StructureDefinition{Kind: KindComplexType, Type: "Quantity", Derivation: "constraint"}, true},
		{"domain resource", &StructureDefinition{Kind: KindResource, Type: "Patient", BaseDefinition: DomainResourceURL}, true},
		{"resource base", &StructureDefinition{Kind: KindResource, Type: "Resource"}, true},
		{"bundle extends Resource", &StructureDefinition{Kind: KindResource, Type: "Bundle", BaseDefinition: "http://hl7.org/fhir/StructureDefinition/Resource"}, false},
		{"DomainResource itself", &StructureDefinition{Kind: KindResource, Type: "DomainResource", BaseDefinition: "http://hl7.org/fhir/StructureDefinition/Resource"}, false},
		{"resource profile", &StructureDefinition{Kind: KindResource, Type: "Observation", BaseDefinition: "http://hl7.org/fhir/StructureDefinition/Observation"}, false},
		{"primitive", &StructureDefinition{Kind: KindPrimitiveType, Type: "string"}, false},
		{"logical", &StructureDefinition{Kind: KindLogical, Type: "Definition"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.sd); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	patient := &StructureDefinition{Kind: KindResource, Type: "Patient", BaseDefinition: DomainResourceURL}
	str := &StructureDefinition{Kind: KindPrimitiveType, Type: "string"}
	address := &StructureDefinition{Kind: KindComplexType, Type: "Address"}
	resource := &StructureDefinition{Kind: KindResource, Type: "Resource"}

	got := Filter([]*StructureDefinition{patient, str, address, resource})
	want := []*StructureDefinition{patient, address, resource}
	if len(got) != len(want) {
		t.Fatalf("Filter() returned %d definitions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter()[%d] = %s, want %s", i, got[i].Type, want[i].Type)
		}
	}

	if out := Filter(nil); len(out) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", out)
	}
}

func TestRegistryEligible(t *testing.T) {
	r := New()
	r.Add(
		&StructureDefinition{URL: "u1", Kind: KindPrimitiveType, Type: "boolean"},
		&StructureDefinition{URL: "u2", Kind: KindComplexType, Type: "Coding"},
	)
	got := r.Eligible()
	if len(got) != 1 || got[0].Type != "Coding" {
		t.Errorf("Eligible() = %v, want only Coding", got)
	}
}

func TestRegistryEligiblePutsBaseBeforeProfiles(t *testing.T) {
	age := &StructureDefinition{URL: "http://hl7.org/fhir/StructureDefinition/Age", Kind: KindComplexType, Type: "Quantity", Derivation: DerivationConstraint}
	coding := &StructureDefinition{URL: "http://hl7.org/fhir/StructureDefinition/Coding", Kind: KindComplexType, Type: "Coding", Derivation: DerivationSpecialization}
	simple := &StructureDefinition{URL: "http://hl7.org/fhir/StructureDefinition/SimpleQuantity", Kind: KindComplexType, Type: "Quantity", Derivation: DerivationConstraint}
	quantity := &StructureDefinition{URL: "http://hl7.org/fhir/StructureDefinition/Quantity", Kind: KindComplexType, Type: "Quantity", Derivation: DerivationSpecialization}

	r := New()
	r.Add(age, coding, simple, quantity)

	got := r.Eligible()
	want := []*StructureDefinition{quantity, age, coding, simple}
	if len(got) != len(want) {
		t.Fatalf("Eligible() returned %d definitions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Eligible()[%d] = %s, want %s", i, got[i].URL, want[i].URL)
		}
	}
}

func TestRegistryEligibleProfileWithoutBase(t *testing.T) {
	profile := &StructureDefinition{URL: "http://example.org/StructureDefinition/MyQuantity", Kind: KindComplexType, Type: "Quantity", Derivation: DerivationConstraint}

	r := New()
	r.Add(profile)

	got := r.Eligible()
	if len(got) != 1 || got[0] != profile {
		t.Errorf("Eligible() = %v, want only the profile", got)
	}
}
