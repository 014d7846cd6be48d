package domain

import (
	"encoding/json"
	"fmt"
)

// Modifier overrides one base stat of an engineered module.
//
// Most modifiers are numeric. A few (weapon modes and the like) only carry
// a text value in ValueStr; such a modifier has no numeric Value.
type Modifier struct {
	Label    string
	Value    float64
	ValueStr string
	Extra    map[string]any

	// set for a textual modifier that also carried a Value
	valueSet bool
}

// IsNumeric reports whether the modifier carries a numeric Value
func (m Modifier) IsNumeric() bool {
	return m.ValueStr == "" || m.valueSet
}

// SetValue makes the modifier numeric with the given value
func (m *Modifier) SetValue(v float64) {
	m.Value = v
	m.ValueStr = ""
	m.valueSet = false
}

// Clone returns a deep copy of the modifier
func (m Modifier) Clone() Modifier {
	out := m
	out.Extra = CopyMap(m.Extra)
	return out
}

// MarshalJSON implements json.Marshaler
func (m Modifier) MarshalJSON() ([]byte, error) {
	out := documentOf(m.Extra, 3)
	out["Label"] = m.Label
	if m.IsNumeric() {
		out["Value"] = m.Value
	} else {
		delete(out, "Value")
	}
	if m.ValueStr != "" {
		out["ValueStr"] = m.ValueStr
	} else {
		delete(out, "ValueStr")
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. A modifier needs a Value or
// a ValueStr.
func (m *Modifier) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Modifier
	hasValue := false
	for key, value := range raw {
		var err error
		switch key {
		case "Label":
			err = json.Unmarshal(value, &out.Label)
		case "Value":
			hasValue = true
			err = json.Unmarshal(value, &out.Value)
		case "ValueStr":
			err = json.Unmarshal(value, &out.ValueStr)
		default:
			err = putExtra(&out.Extra, key, value)
		}
		if err != nil {
			return fmt.Errorf("decode modifier member %s: %w", key, err)
		}
	}
	if !hasValue && out.ValueStr == "" {
		return fmt.Errorf("modifier %q has neither Value nor ValueStr", out.Label)
	}
	out.valueSet = hasValue && out.ValueStr != ""

	*m = out
	return nil
}

// Blueprint is the engineering applied to a module. Engineer and
// ExperimentalEffect are optional and only written when set or when the
// decoded document carried them.
type Blueprint struct {
	Engineer           string
	BlueprintName      string
	Level              int
	Quality            float64
	ExperimentalEffect string
	Modifiers          []Modifier
	Extra              map[string]any

	keepEngineer bool
	keepEffect   bool
}

// Clone returns a deep copy of the blueprint
func (b *Blueprint) Clone() *Blueprint {
	if b == nil {
		return nil
	}
	out := *b
	if b.Modifiers != nil {
		out.Modifiers = make([]Modifier, len(b.Modifiers))
		for i, mod := range b.Modifiers {
			out.Modifiers[i] = mod.Clone()
		}
	}
	out.Extra = CopyMap(b.Extra)
	return &out
}

// MarshalJSON writes an empty list instead of null for a blueprint without
// modifiers
func (b Blueprint) MarshalJSON() ([]byte, error) {
	out := documentOf(b.Extra, 6)
	out["BlueprintName"] = b.BlueprintName
	out["Level"] = b.Level
	out["Quality"] = b.Quality
	if b.Engineer != "" || b.keepEngineer {
		out["Engineer"] = b.Engineer
	} else {
		delete(out, "Engineer")
	}
	if b.ExperimentalEffect != "" || b.keepEffect {
		out["ExperimentalEffect"] = b.ExperimentalEffect
	} else {
		delete(out, "ExperimentalEffect")
	}
	if b.Modifiers == nil {
		out["Modifiers"] = []Modifier{}
	} else {
		out["Modifiers"] = b.Modifiers
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Blueprint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Blueprint
	for key, value := range raw {
		var err error
		switch key {
		case "Engineer":
			err = decodeOptionalString(value, &out.Engineer, &out.keepEngineer)
		case "BlueprintName":
			err = json.Unmarshal(value, &out.BlueprintName)
		case "Level":
			err = json.Unmarshal(value, &out.Level)
		case "Quality":
			err = json.Unmarshal(value, &out.Quality)
		case "ExperimentalEffect":
			err = decodeOptionalString(value, &out.ExperimentalEffect, &out.keepEffect)
		case "Modifiers":
			err = json.Unmarshal(value, &out.Modifiers)
		default:
			err = putExtra(&out.Extra, key, value)
		}
		if err != nil {
			return fmt.Errorf("decode blueprint member %s: %w", key, err)
		}
	}

	*b = out
	return nil
}

// FindModifier returns the index of the modifier with the given label, or -1
func (b *Blueprint) FindModifier(label string) int {
	if b == nil {
		return -1
	}
	for i, m := range b.Modifiers {
		if m.Label == label {
			return i
		}
	}
	return -1
}

// ModuleObject is the raw record of one module in a build.
//
// Slot is empty until the module has been placed; Item is empty for a
// placeholder. Members the record does not know about are kept in Extra so
// that documents survive a decode/encode cycle untouched.
type ModuleObject struct {
	Slot        string
	On          bool
	Item        string
	Priority    int
	Engineering *Blueprint
	Extra       map[string]any
}

// Clone returns a deep copy of the module record
func (m ModuleObject) Clone() ModuleObject {
	out := m
	out.Engineering = m.Engineering.Clone()
	out.Extra = CopyMap(m.Extra)
	return out
}

// MarshalJSON implements json.Marshaler
func (m ModuleObject) MarshalJSON() ([]byte, error) {
	out := documentOf(m.Extra, 5)
	out["Slot"] = m.Slot
	out["On"] = m.On
	out["Item"] = m.Item
	out["Priority"] = m.Priority
	if m.Engineering != nil {
		out["Engineering"] = m.Engineering
	} else {
		delete(out, "Engineering")
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *ModuleObject) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out ModuleObject
	for key, value := range raw {
		var err error
		switch key {
		case "Slot":
			err = json.Unmarshal(value, &out.Slot)
		case "On":
			err = json.Unmarshal(value, &out.On)
		case "Item":
			err = json.Unmarshal(value, &out.Item)
		case "Priority":
			err = json.Unmarshal(value, &out.Priority)
		case "Engineering":
			if string(value) == "null" {
				continue
			}
			out.Engineering = &Blueprint{}
			err = json.Unmarshal(value, out.Engineering)
		default:
			err = putExtra(&out.Extra, key, value)
		}
		if err != nil {
			return fmt.Errorf("decode module member %s: %w", key, err)
		}
	}

	*m = out
	return nil
}
