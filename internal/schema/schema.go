// Package schema validates raw build documents before they are wrapped by the
// loadout entities.
//
// The embedded schema is compiled once per process.
//
// Validation runs in two steps:
//
//  1. The document (JSON) is unified with the embedded CUE definition
//     (#Ship or #Module) and checked for concrete, well-typed members.
//  2. Cross-member rules CUE cannot express are checked in Go: modifier
//     labels are unique within a blueprint and no two modules claim the same
//     slot. A modifier must also carry a Value or a ValueStr.
//
// Both steps report *ValidationError values that match ErrInvalidDocument.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

//go:embed build.cue
var schemaBytes []byte

const (
	shipDefinition   = "#Ship"
	moduleDefinition = "#Module"
)

// ValidateShip checks a JSON ship document
func ValidateShip(data []byte) error {
	if err := unify(data, shipDefinition, "ship"); err != nil {
		return err
	}

	var ship domain.ShipObject
	if err := json.Unmarshal(data, &ship); err != nil {
		return &ValidationError{Document: "ship", Message: err.Error()}
	}

	seen := make(map[string]int, len(ship.Modules))
	for i, m := range ship.Modules {
		if err := checkModifiers(m, fmt.Sprintf("Modules[%d].", i), "ship"); err != nil {
			return err
		}
		if m.Slot == "" {
			continue
		}
		if prev, ok := seen[m.Slot]; ok {
			return &ValidationError{
				Document: "ship",
				Path:     fmt.Sprintf("Modules[%d].Slot", i),
				Message:  fmt.Sprintf("slot %q already used by Modules[%d]", m.Slot, prev),
			}
		}
		seen[m.Slot] = i
	}

	return nil
}

// ValidateModule checks a JSON module document
func ValidateModule(data []byte) error {
	if err := unify(data, moduleDefinition, "module"); err != nil {
		return err
	}

	var m domain.ModuleObject
	if err := json.Unmarshal(data, &m); err != nil {
		return &ValidationError{Document: "module", Message: err.Error()}
	}
	return checkModifiers(m, "", "module")
}

// ValidateShipObject marshals a ship record and validates it
func ValidateShipObject(ship domain.ShipObject) error {
	data, err := json.Marshal(ship)
	if err != nil {
		return &ValidationError{Document: "ship", Message: err.Error()}
	}
	return ValidateShip(data)
}

// ValidateModuleObject marshals a module record and validates it
func ValidateModuleObject(m domain.ModuleObject) error {
	data, err := json.Marshal(m)
	if err != nil {
		return &ValidationError{Document: "module", Message: err.Error()}
	}
	return ValidateModule(data)
}

// compiled holds the schema definitions. A cue.Context is not safe for
// concurrent use, so every unification holds mu.
type compiled struct {
	mu   sync.Mutex
	ctx  *cue.Context
	defs map[string]cue.Value
}

var (
	schemaOnce sync.Once
	schemaVal  *compiled
	schemaErr  error
)

// loadSchema compiles the embedded schema on first use
func loadSchema() (*compiled, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		root := ctx.CompileBytes(schemaBytes, cue.Filename("build.cue"))
		if root.Err() != nil {
			schemaErr = fmt.Errorf("internal error: compile schema: %w", root.Err())
			return
		}

		defs := make(map[string]cue.Value, 2)
		for _, name := range []string{shipDefinition, moduleDefinition} {
			def := root.LookupPath(cue.ParsePath(name))
			if def.Err() != nil {
				schemaErr = fmt.Errorf("internal error: schema definition %s not found: %w", name, def.Err())
				return
			}
			defs[name] = def
		}
		schemaVal = &compiled{ctx: ctx, defs: defs}
	})
	return schemaVal, schemaErr
}

// unify validates the document against one schema definition
func unify(data []byte, definition, document string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userValue := s.ctx.CompileBytes(data, cue.Filename(document+".json"))
	if userValue.Err() != nil {
		return fromCUE(userValue.Err(), document)
	}

	unified := s.defs[definition].Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fromCUE(err, document)
	}
	return nil
}

func checkModifiers(m domain.ModuleObject, prefix, document string) error {
	if m.Engineering == nil {
		return nil
	}
	labels := make(map[string]bool, len(m.Engineering.Modifiers))
	for i, mod := range m.Engineering.Modifiers {
		if labels[mod.Label] {
			return &ValidationError{
				Document: document,
				Path:     fmt.Sprintf("%sEngineering.Modifiers[%d].Label", prefix, i),
				Message:  fmt.Sprintf("duplicate modifier %q", mod.Label),
			}
		}
		labels[mod.Label] = true
	}
	return nil
}
