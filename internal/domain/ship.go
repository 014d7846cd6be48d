package domain

import (
	"encoding/json"
	"fmt"
)

// ShipObject is the raw record of a complete build: the hull, its names and
// every module record in document order.
//
// ShipName and ShipIdent are optional. They are written when non-empty or
// when the decoded document carried them.
type ShipObject struct {
	Ship      string
	ShipName  string
	ShipIdent string
	Modules   []ModuleObject
	Extra     map[string]any

	keepName  bool
	keepIdent bool
}

// Clone returns a deep copy of the ship record
func (s ShipObject) Clone() ShipObject {
	out := s
	if s.Modules != nil {
		out.Modules = make([]ModuleObject, len(s.Modules))
		for i, m := range s.Modules {
			out.Modules[i] = m.Clone()
		}
	}
	out.Extra = CopyMap(s.Extra)
	return out
}

// MarshalJSON implements json.Marshaler
func (s ShipObject) MarshalJSON() ([]byte, error) {
	out := documentOf(s.Extra, 4)
	out["Ship"] = s.Ship
	if s.ShipName != "" || s.keepName {
		out["ShipName"] = s.ShipName
	} else {
		delete(out, "ShipName")
	}
	if s.ShipIdent != "" || s.keepIdent {
		out["ShipIdent"] = s.ShipIdent
	} else {
		delete(out, "ShipIdent")
	}
	if s.Modules == nil {
		out["Modules"] = []ModuleObject{}
	} else {
		out["Modules"] = s.Modules
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *ShipObject) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out ShipObject
	for key, value := range raw {
		var err error
		switch key {
		case "Ship":
			err = json.Unmarshal(value, &out.Ship)
		case "ShipName":
			err = decodeOptionalString(value, &out.ShipName, &out.keepName)
		case "ShipIdent":
			err = decodeOptionalString(value, &out.ShipIdent, &out.keepIdent)
		case "Modules":
			err = json.Unmarshal(value, &out.Modules)
		default:
			err = putExtra(&out.Extra, key, value)
		}
		if err != nil {
			return fmt.Errorf("decode ship member %s: %w", key, err)
		}
	}

	*s = out
	return nil
}
