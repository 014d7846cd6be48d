package domain

// ModuleVars lists the module record members owned by dedicated setters.
// The generic write path refuses them.
var ModuleVars = []string{
	"Slot",
	"On",
	"Item",
	"Priority",
	"Engineering",
}

// ShipVars lists the structural ship record members. ShipName and ShipIdent
// are deliberately absent: they have setters but may also be written directly.
var ShipVars = []string{
	"Ship",
	"Modules",
}

// ModuleVarIsSpecified returns true if the property is a protected module member
func ModuleVarIsSpecified(key string) bool {
	for _, p := range ModuleVars {
		if p == key {
			return true
		}
	}
	return false
}

// ShipVarIsSpecified returns true if the property is a protected ship member
func ShipVarIsSpecified(key string) bool {
	for _, p := range ShipVars {
		if p == key {
			return true
		}
	}
	return false
}

// CopyValue returns a deep copy of a JSON-like value. Maps and slices are
// copied recursively. Scalars, json.Number included, are returned as is, and
// so is any other type: values stored through the entity write paths are
// normalized with NormalizeValue first.
func CopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	case []int:
		out := make([]int, len(val))
		copy(out, val)
		return out
	case *Blueprint:
		return val.Clone()
	case []Modifier:
		out := make([]Modifier, len(val))
		for i, mod := range val {
			out[i] = mod.Clone()
		}
		return out
	default:
		return v
	}
}

// CopyMap deep-copies a map of JSON-like values, keeping nil as nil
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CopyValue(v)
	}
	return out
}
