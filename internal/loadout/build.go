package loadout

import (
	"encoding/json"
	"fmt"

	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/domain"
	"github.com/CommanderRoot/ed-forge/internal/schema"
)

// Every input except a live entity is brought to its JSON form and
// validated there, so codes, records and maps pass the same checks as raw
// documents and come out as private copies with JSON-shaped members.

// moduleObjectFrom turns a build-like input into a validated, private copy
// of a module record
func moduleObjectFrom(buildFrom any) (domain.ModuleObject, error) {
	var obj domain.ModuleObject

	switch v := buildFrom.(type) {
	case nil:
		return obj, nil
	case *Module:
		if v == nil {
			return obj, nil
		}
		return v.ToJSON(), nil
	case string:
		data, err := codec.Inflate(v)
		if err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return moduleObjectFrom(data)
	case []byte:
		if err := schema.ValidateModule(v); err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		if err := json.Unmarshal(v, &obj); err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return obj, nil
	case *domain.ModuleObject:
		if v == nil {
			return obj, nil
		}
		return moduleObjectFrom(*v)
	case domain.ModuleObject, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return moduleObjectFrom(data)
	default:
		return obj, fmt.Errorf("%w: cannot build a module from %T", ErrImportExport, buildFrom)
	}
}

// shipObjectFrom turns a build-like input into a validated, private copy of
// a ship record
func shipObjectFrom(buildFrom any) (domain.ShipObject, error) {
	var obj domain.ShipObject

	switch v := buildFrom.(type) {
	case *Ship:
		if v == nil {
			return obj, fmt.Errorf("%w: nil ship", ErrImportExport)
		}
		return v.ToJSON(), nil
	case string:
		data, err := codec.Inflate(v)
		if err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return shipObjectFrom(data)
	case []byte:
		if err := schema.ValidateShip(v); err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		if err := json.Unmarshal(v, &obj); err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return obj, nil
	case *domain.ShipObject:
		if v == nil {
			return obj, fmt.Errorf("%w: nil ship record", ErrImportExport)
		}
		return shipObjectFrom(*v)
	case domain.ShipObject, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return obj, fmt.Errorf("%w: %w", ErrImportExport, err)
		}
		return shipObjectFrom(data)
	default:
		return obj, fmt.Errorf("%w: cannot build a ship from %T", ErrImportExport, buildFrom)
	}
}
