package loadout

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/blake2b"

	"github.com/CommanderRoot/ed-forge/internal/catalog"
	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/domain"
)

// Ship owns a hull record and the modules built from its module records.
// Modules stay in the order they were read in.
type Ship struct {
	object  domain.ShipObject
	modules []*Module
	state   State
	catalog Catalog
	logger  *log.Logger
}

// core item patterns, keyed by the core slot they belong in
var coreItems = []struct {
	slot string
	item *regexp.Regexp
}{
	{"Armour", regexp.MustCompile(`(?i)_armour_`)},
	{"PowerPlant", regexp.MustCompile(`(?i)^int_powerplant_`)},
	{"MainEngines", regexp.MustCompile(`(?i)^int_engine_`)},
	{"FrameShiftDrive", regexp.MustCompile(`(?i)^int_hyperdrive_`)},
	{"LifeSupport", regexp.MustCompile(`(?i)^int_lifesupport_`)},
	{"PowerDistributor", regexp.MustCompile(`(?i)^int_powerdistributor_`)},
	{"Radar", regexp.MustCompile(`(?i)^int_sensors_`)},
	{"FuelTank", regexp.MustCompile(`(?i)^int_fueltank_`)},
}

// NewShip builds a ship from a compact build code, a JSON document
// ([]byte), a domain.ShipObject, a map[string]any or another *Ship.
func NewShip(buildFrom any, opts ...Option) (*Ship, error) {
	o := newOptions(opts)

	obj, err := shipObjectFrom(buildFrom)
	if err != nil {
		return nil, err
	}

	s := &Ship{
		catalog: o.catalog,
		logger:  o.logger,
		modules: make([]*Module, 0, len(obj.Modules)),
	}
	for _, rec := range obj.Modules {
		s.modules = append(s.modules, &Module{
			object:  rec,
			ship:    s,
			catalog: s.catalog,
			logger:  s.logger,
		})
	}
	obj.Modules = nil
	s.object = obj
	s.state = s.defaultState()

	s.logger.Debug("ship built", "ship", obj.Ship, "modules", len(s.modules))
	return s, nil
}

// ShipType returns the hull id
func (s *Ship) ShipType() string {
	return s.object.Ship
}

func (s *Ship) ShipName() string  { return s.object.ShipName }
func (s *Ship) ShipIdent() string { return s.object.ShipIdent }

// SetShipName renames the ship
func (s *Ship) SetShipName(name string) {
	s.object.ShipName = name
}

// SetShipIdent changes the ship's registration
func (s *Ship) SetShipIdent(ident string) {
	s.object.ShipIdent = ident
}

// SetShipType moves the build onto another hull. Every placed module's slot
// must exist on the new hull and every fitted item must fit it there;
// otherwise nothing changes. Runtime state is reset for the new hull.
func (s *Ship) SetShipType(shipType string) error {
	if shipType == "" {
		return fmt.Errorf("%w: empty hull type", ErrIllegalState)
	}
	if shipType == s.object.Ship {
		return nil
	}

	for _, m := range s.modules {
		slot := m.object.Slot
		if slot == "" {
			continue
		}
		if _, ok := s.catalog.SlotSize(shipType, slot); !ok {
			return fmt.Errorf("%w: %s has no slot %s", ErrIllegalState, shipType, slot)
		}
		if m.object.Item != "" && !s.catalog.ItemFitsSlot(m.object.Item, shipType, slot) {
			return fmt.Errorf("%w: %s does not fit %s on %s", ErrIllegalState, m.object.Item, slot, shipType)
		}
	}

	s.logger.Debug("hull changed", "from", s.object.Ship, "to", shipType)
	s.object.Ship = shipType
	s.state = s.defaultState()
	return nil
}

// Modules returns the owned modules in collection order
func (s *Ship) Modules() []*Module {
	out := make([]*Module, len(s.modules))
	copy(out, s.modules)
	return out
}

// Read returns a copy of a record member
func (s *Ship) Read(property string) (any, bool) {
	switch property {
	case "Ship":
		return s.object.Ship, true
	case "ShipName":
		return s.object.ShipName, true
	case "ShipIdent":
		return s.object.ShipIdent, true
	case "Modules":
		return s.ToJSON().Modules, true
	}
	v, ok := s.object.Extra[property]
	return domain.CopyValue(v), ok
}

// Write stores a copy of value under property. The hull and the module
// list are protected.
func (s *Ship) Write(property string, value any) error {
	if domain.ShipVarIsSpecified(property) {
		return fmt.Errorf("%w: ship member %s is protected", ErrIllegalState, property)
	}

	switch property {
	case "ShipName", "ShipIdent":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", ErrIllegalState, property, value)
		}
		if property == "ShipName" {
			s.object.ShipName = str
		} else {
			s.object.ShipIdent = str
		}
		return nil
	}

	v, err := domain.NormalizeValue(value)
	if err != nil {
		return fmt.Errorf("%w: ship member %s: %w", ErrIllegalState, property, err)
	}
	if s.object.Extra == nil {
		s.object.Extra = make(map[string]any)
	}
	s.object.Extra[property] = v
	return nil
}

// GetModule returns the first module, in collection order, placed on a
// matching slot
func (s *Ship) GetModule(slot Slot) *Module {
	for _, m := range s.modules {
		if match, ok := m.IsOnSlot(slot); ok && match {
			return m
		}
	}
	return nil
}

// SetModule updates the module on a matching slot in place, keeping its
// slot. It reports false when no module is on such a slot: slots are never
// created here.
func (s *Ship) SetModule(slot Slot, buildFrom any) (bool, error) {
	m := s.GetModule(slot)
	if m == nil {
		return false, nil
	}
	return s.SetModuleOn(m, buildFrom)
}

// SetModuleOn updates one of the ship's modules in place, keeping its slot.
// It reports false if m is not owned by this ship.
func (s *Ship) SetModuleOn(m *Module, buildFrom any) (bool, error) {
	if !s.owns(m) {
		return false, nil
	}
	if err := m.Update(buildFrom, "Slot"); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Ship) owns(m *Module) bool {
	if m == nil || m.ship != s {
		return false
	}
	for _, own := range s.modules {
		if own == m {
			return true
		}
	}
	return false
}

// GetModules filters the placed modules by slot and, if itemType is not
// nil, by item id. Empty modules are dropped unless includeEmpty is set.
// sorted orders the result by slot name.
func (s *Ship) GetModules(slots Slot, itemType *regexp.Regexp, includeEmpty, sorted bool) []*Module {
	seen := make(map[*Module]bool, len(s.modules))
	var out []*Module
	for _, m := range s.modules {
		if seen[m] {
			continue
		}
		if match, ok := m.IsOnSlot(slots); !ok || !match {
			continue
		}
		if !includeEmpty && m.IsEmpty() {
			continue
		}
		if itemType != nil && !itemType.MatchString(m.object.Item) {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}

	if sorted {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].object.Slot < out[j].object.Slot
		})
	}
	return out
}

func (s *Ship) GetAlloys() *Module           { return s.GetModule(SlotName("Armour")) }
func (s *Ship) GetPowerPlant() *Module       { return s.GetModule(SlotName("PowerPlant")) }
func (s *Ship) GetThrusters() *Module        { return s.GetModule(SlotName("MainEngines")) }
func (s *Ship) GetFSD() *Module              { return s.GetModule(SlotName("FrameShiftDrive")) }
func (s *Ship) GetLifeSupport() *Module      { return s.GetModule(SlotName("LifeSupport")) }
func (s *Ship) GetPowerDistributor() *Module { return s.GetModule(SlotName("PowerDistributor")) }
func (s *Ship) GetSensors() *Module          { return s.GetModule(SlotName("Radar")) }
func (s *Ship) GetCoreFuelTank() *Module     { return s.GetModule(SlotName("FuelTank")) }

// GetCoreModules returns the eight core modules in fixed order. Missing ones
// are nil.
func (s *Ship) GetCoreModules() []*Module {
	out := make([]*Module, len(catalog.CoreSlots))
	for i, name := range catalog.CoreSlots {
		out[i] = s.GetModule(SlotName(name))
	}
	return out
}

// GetInternals returns the internal slot modules followed by the military
// slot modules, each sorted by slot name
func (s *Ship) GetInternals(itemType *regexp.Regexp, includeEmpty bool) []*Module {
	internals := s.GetModules(InternalSlots, itemType, includeEmpty, true)
	military := s.GetModules(MilitarySlots, itemType, includeEmpty, true)
	return append(internals, military...)
}

// GetHardpoints returns the hardpoint modules sorted by slot name
func (s *Ship) GetHardpoints(itemType *regexp.Regexp, includeEmpty bool) []*Module {
	return s.GetModules(HardpointSlots, itemType, includeEmpty, true)
}

// GetUtilities returns the utility mount modules sorted by slot name
func (s *Ship) GetUtilities(itemType *regexp.Regexp, includeEmpty bool) []*Module {
	return s.GetModules(UtilitySlots, itemType, includeEmpty, true)
}

// SetInternal updates the internal or military module on a matching slot
func (s *Ship) SetInternal(slot Slot, buildFrom any) (bool, error) {
	return s.setIn(s.GetInternals(nil, true), slot, buildFrom)
}

// SetInternalAt updates the module at index of GetInternals(nil, true)
func (s *Ship) SetInternalAt(index int, buildFrom any) (bool, error) {
	return s.setAt(s.GetInternals(nil, true), index, buildFrom)
}

// SetHardpoint updates the hardpoint module on a matching slot
func (s *Ship) SetHardpoint(slot Slot, buildFrom any) (bool, error) {
	return s.setIn(s.GetHardpoints(nil, true), slot, buildFrom)
}

// SetHardpointAt updates the module at index of GetHardpoints(nil, true)
func (s *Ship) SetHardpointAt(index int, buildFrom any) (bool, error) {
	return s.setAt(s.GetHardpoints(nil, true), index, buildFrom)
}

// SetUtility updates the utility module on a matching slot
func (s *Ship) SetUtility(slot Slot, buildFrom any) (bool, error) {
	return s.setIn(s.GetUtilities(nil, true), slot, buildFrom)
}

// SetUtilityAt updates the module at index of GetUtilities(nil, true)
func (s *Ship) SetUtilityAt(index int, buildFrom any) (bool, error) {
	return s.setAt(s.GetUtilities(nil, true), index, buildFrom)
}

func (s *Ship) setIn(list []*Module, slot Slot, buildFrom any) (bool, error) {
	for _, m := range list {
		if match, ok := m.IsOnSlot(slot); ok && match {
			return s.SetModuleOn(m, buildFrom)
		}
	}
	return false, nil
}

// setAt resolves index against the same ordered list the read side returns
func (s *Ship) setAt(list []*Module, index int, buildFrom any) (bool, error) {
	if index < 0 || index >= len(list) {
		return false, nil
	}
	return s.SetModule(SlotName(list[index].object.Slot), buildFrom)
}

// SetCoreModule puts a core item into the core slot its item id belongs
// to. It reports false for an item that is not a core item.
func (s *Ship) SetCoreModule(buildFrom any) (bool, error) {
	candidate, err := NewModule(buildFrom, WithCatalog(s.catalog), WithLogger(s.logger))
	if err != nil {
		return false, err
	}

	slot, ok := coreSlotFor(candidate.object.Item)
	if !ok {
		return false, nil
	}
	return s.SetModule(SlotName(slot), candidate)
}

// SetCoreModules calls SetCoreModule for each input and stops at the first
// error
func (s *Ship) SetCoreModules(buildFroms ...any) ([]bool, error) {
	results := make([]bool, 0, len(buildFroms))
	for _, buildFrom := range buildFroms {
		ok, err := s.SetCoreModule(buildFrom)
		if err != nil {
			return results, err
		}
		results = append(results, ok)
	}
	return results, nil
}

func coreSlotFor(item string) (string, bool) {
	if item == "" {
		return "", false
	}
	for _, core := range coreItems {
		if core.item.MatchString(item) {
			return core.slot, true
		}
	}
	return "", false
}

// GetSlotSize returns the size of a slot on this ship's hull
func (s *Ship) GetSlotSize(slot string) (int, bool) {
	return s.catalog.SlotSize(s.object.Ship, slot)
}

// ToJSON returns a copy of the ship record with every module record
func (s *Ship) ToJSON() domain.ShipObject {
	out := s.object.Clone()
	out.Modules = make([]domain.ModuleObject, 0, len(s.modules))
	for _, m := range s.modules {
		out.Modules = append(out.Modules, m.ToJSON())
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (s *Ship) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToJSON())
}

// Compress returns the ship as a compact build code
func (s *Ship) Compress() (string, error) {
	return codec.Compress(s.ToJSON())
}

// Fingerprint returns a BLAKE2b-256 digest of the build. Builds that
// serialize the same have the same fingerprint, whatever their runtime state.
func (s *Ship) Fingerprint() (string, error) {
	data, err := json.Marshal(s.ToJSON())
	if err != nil {
		return "", fmt.Errorf("encode build: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
