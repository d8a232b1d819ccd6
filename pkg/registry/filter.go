package registry

// ResourceType is the type name of the abstract Resource base definition.
const ResourceType = "Resource"

// Eligible reports whether a definition is compiled into interfaces.
//
// Complex types are always compiled. Resources are compiled only when they
// specialize DomainResource directly, plus the Resource base itself.
// Primitive types never are: they come from the fixed alias table.
func Eligible(sd *StructureDefinition) bool {
	if sd == nil {
		return false
	}
	switch {
	case sd.Kind == KindComplexType:
		return true
	case sd.Kind == KindResource && sd.BaseDefinition == DomainResourceURL:
		return true
	case sd.Type == ResourceType:
		return true
	}
	return false
}

// Filter returns the eligible definitions, preserving their order.
func Filter(defs []*StructureDefinition) []*StructureDefinition {
	out := make([]*StructureDefinition, 0, len(defs))
	for _, sd := range defs {
		if Eligible(sd) {
			out = append(out, sd)
		}
	}
	return out
}
