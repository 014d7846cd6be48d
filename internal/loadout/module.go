package loadout

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/domain"
)

// Module wraps one module record and guards its protected members.
//
// The record is private to the module: every input is copied on the way in
// and every record handed out is a copy.
type Module struct {
	object  domain.ModuleObject
	ship    *Ship
	catalog Catalog
	logger  *log.Logger
}

// NewModule builds a module from nil (an empty placeholder), another
// *Module, a compact build code, a JSON document ([]byte), a
// domain.ModuleObject or a map[string]any.
func NewModule(buildFrom any, opts ...Option) (*Module, error) {
	o := newOptions(opts)

	obj, err := moduleObjectFrom(buildFrom)
	if err != nil {
		return nil, err
	}

	return &Module{
		object:  obj,
		ship:    o.ship,
		catalog: o.catalog,
		logger:  o.logger,
	}, nil
}

// Update replaces the record with one built from buildFrom and copies the
// members named in keep from the previous record. An assigned slot, or any
// slot of a module owned by a ship, is always kept.
func (m *Module) Update(buildFrom any, keep ...string) error {
	obj, err := moduleObjectFrom(buildFrom)
	if err != nil {
		return err
	}

	prev := m.object
	for _, key := range keep {
		overlay(&obj, prev, key)
	}
	if prev.Slot != "" || m.ship != nil {
		obj.Slot = prev.Slot
	}

	m.object = obj
	m.logger.Debug("module updated", "slot", obj.Slot, "item", obj.Item)
	return nil
}

// overlay copies one member of src into dst
func overlay(dst *domain.ModuleObject, src domain.ModuleObject, key string) {
	switch key {
	case "Slot":
		dst.Slot = src.Slot
	case "On":
		dst.On = src.On
	case "Item":
		dst.Item = src.Item
	case "Priority":
		dst.Priority = src.Priority
	case "Engineering":
		dst.Engineering = src.Engineering.Clone()
	default:
		v, ok := src.Extra[key]
		if !ok {
			delete(dst.Extra, key)
			return
		}
		if dst.Extra == nil {
			dst.Extra = make(map[string]any)
		}
		dst.Extra[key] = domain.CopyValue(v)
	}
}

// Read returns a copy of a record member
func (m *Module) Read(property string) (any, bool) {
	switch property {
	case "Slot":
		return m.object.Slot, true
	case "On":
		return m.object.On, true
	case "Item":
		return m.object.Item, true
	case "Priority":
		return m.object.Priority, true
	case "Engineering":
		if m.object.Engineering == nil {
			return nil, false
		}
		return m.object.Engineering.Clone(), true
	}
	v, ok := m.object.Extra[property]
	return domain.CopyValue(v), ok
}

// Write stores value under property in its JSON form, so numbers read back
// as json.Number and maps as map[string]any. Protected members must be
// changed through their setters, and values JSON cannot hold are refused.
func (m *Module) Write(property string, value any) error {
	if domain.ModuleVarIsSpecified(property) {
		return fmt.Errorf("%w: module member %s is protected", ErrIllegalState, property)
	}
	v, err := domain.NormalizeValue(value)
	if err != nil {
		return fmt.Errorf("%w: module member %s: %w", ErrIllegalState, property, err)
	}
	if m.object.Extra == nil {
		m.object.Extra = make(map[string]any)
	}
	m.object.Extra[property] = v
	return nil
}

// Get returns a stat of the module. With modified set a numeric
// engineering modifier for the stat wins over the item's base value.
func (m *Module) Get(property string, modified bool) (float64, bool) {
	if modified {
		if i := m.object.Engineering.FindModifier(property); i >= 0 {
			if mod := m.object.Engineering.Modifiers[i]; mod.IsNumeric() {
				return mod.Value, true
			}
		}
	}
	if m.object.Item == "" {
		return 0, false
	}
	return m.catalog.ModuleProperty(m.object.Item, property)
}

// Set creates or overwrites the modifier for a stat. The module must carry
// a blueprint.
func (m *Module) Set(property string, value float64) error {
	bp := m.object.Engineering
	if bp == nil {
		return fmt.Errorf("%w: cannot set %s without a blueprint", ErrIllegalState, property)
	}
	if property == "" {
		return fmt.Errorf("%w: modifier label is empty", ErrIllegalState)
	}

	if i := bp.FindModifier(property); i >= 0 {
		bp.Modifiers[i].SetValue(value)
		return nil
	}
	bp.Modifiers = append(bp.Modifiers, domain.Modifier{Label: property, Value: value})
	return nil
}

// ClearModifier removes the modifier for a stat, if any
func (m *Module) ClearModifier(property string) error {
	bp := m.object.Engineering
	if bp == nil {
		return fmt.Errorf("%w: cannot clear %s without a blueprint", ErrIllegalState, property)
	}
	if i := bp.FindModifier(property); i >= 0 {
		bp.Modifiers = append(bp.Modifiers[:i], bp.Modifiers[i+1:]...)
	}
	return nil
}

// Modifiers returns a copy of the engineering modifiers
func (m *Module) Modifiers() []domain.Modifier {
	if m.object.Engineering == nil || m.object.Engineering.Modifiers == nil {
		return nil
	}
	return m.object.Engineering.Clone().Modifiers
}

// IsOnSlot matches the module's slot against a descriptor. ok is false
// while the module has not been placed.
func (m *Module) IsOnSlot(slot Slot) (match, ok bool) {
	if m.object.Slot == "" {
		return false, false
	}
	return slot.Matches(m.object.Slot), true
}

// FitsSlot reports whether the module's item fits slot on a hull type. ok
// is false for an empty module.
func (m *Module) FitsSlot(slot, shipType string) (fits, ok bool) {
	if m.object.Item == "" {
		return false, false
	}
	return m.catalog.ItemFitsSlot(m.object.Item, shipType, slot), true
}

// FitsSlotOn is FitsSlot for the hull of ship. A nil ship means the owning
// ship.
func (m *Module) FitsSlotOn(slot string, ship *Ship) (fits, ok bool) {
	if ship == nil {
		ship = m.ship
	}
	if ship == nil {
		return false, false
	}
	return m.FitsSlot(slot, ship.ShipType())
}

// SetSlot places the module. It fails if the module has no ship, is
// already placed or the slot is taken on the ship. If the item does not fit
// the slot the module is left unplaced without an error.
func (m *Module) SetSlot(slot string) error {
	if m.ship == nil {
		return fmt.Errorf("%w: module has no ship", ErrIllegalState)
	}
	if m.object.Slot != "" {
		return fmt.Errorf("%w: module is already on %s", ErrIllegalState, m.object.Slot)
	}
	if slot == "" {
		return fmt.Errorf("%w: empty slot name", ErrIllegalState)
	}
	if other := m.ship.GetModule(SlotName(slot)); other != nil && other != m {
		return fmt.Errorf("%w: slot %s is taken", ErrIllegalState, slot)
	}

	if m.object.Item != "" {
		if fits, _ := m.FitsSlotOn(slot, m.ship); !fits {
			m.logger.Debug("item does not fit, slot left unassigned",
				"item", m.object.Item, "slot", slot, "ship", m.ship.ShipType())
			return nil
		}
	}

	m.object.Slot = slot
	return nil
}

// SetShip attaches the owning ship. It may only be called once.
func (m *Module) SetShip(ship *Ship) error {
	if m.ship != nil {
		return fmt.Errorf("%w: module already belongs to a ship", ErrIllegalState)
	}
	if ship == nil {
		return fmt.Errorf("%w: nil ship", ErrIllegalState)
	}
	m.ship = ship
	return nil
}

// SetItem swaps the item. A placed module only accepts an item that fits
// its slot. Engineering does not carry over to a different item.
func (m *Module) SetItem(item string) error {
	if item == m.object.Item {
		return nil
	}
	if item != "" && m.object.Slot != "" && m.ship != nil {
		if !m.catalog.ItemFitsSlot(item, m.ship.ShipType(), m.object.Slot) {
			return fmt.Errorf("%w: %s does not fit %s", ErrIllegalState, item, m.object.Slot)
		}
	}
	m.object.Item = item
	m.object.Engineering = nil
	return nil
}

// SetEnabled switches the module on or off
func (m *Module) SetEnabled(on bool) {
	m.object.On = on
}

// SetPowerPriority sets the power group, 0 to 4
func (m *Module) SetPowerPriority(priority int) error {
	if priority < 0 || priority > 4 {
		return fmt.Errorf("%w: power priority %d out of range 0-4", ErrIllegalState, priority)
	}
	m.object.Priority = priority
	return nil
}

// SetBlueprint applies engineering. Modifiers, the experimental effect and
// unknown blueprint members are kept when the blueprint name does not change
// and dropped otherwise.
func (m *Module) SetBlueprint(engineer, name string, level int, quality float64) error {
	if m.object.Item == "" {
		return fmt.Errorf("%w: cannot engineer an empty module", ErrIllegalState)
	}
	if name == "" {
		return fmt.Errorf("%w: blueprint name is empty", ErrIllegalState)
	}
	if level < 1 || level > 5 {
		return fmt.Errorf("%w: blueprint level %d out of range 1-5", ErrIllegalState, level)
	}
	if quality < 0 || quality > 1 {
		return fmt.Errorf("%w: blueprint quality %g out of range 0-1", ErrIllegalState, quality)
	}

	bp := &domain.Blueprint{
		Engineer:      engineer,
		BlueprintName: name,
		Level:         level,
		Quality:       quality,
		Modifiers:     []domain.Modifier{},
	}
	if prev := m.object.Engineering; prev != nil && prev.BlueprintName == name {
		kept := prev.Clone()
		bp.ExperimentalEffect = kept.ExperimentalEffect
		bp.Modifiers = kept.Modifiers
		bp.Extra = kept.Extra
	}
	m.object.Engineering = bp
	return nil
}

// SetExperimentalEffect sets or clears the experimental effect
func (m *Module) SetExperimentalEffect(effect string) error {
	if m.object.Engineering == nil {
		return fmt.Errorf("%w: cannot apply %s without a blueprint", ErrIllegalState, effect)
	}
	m.object.Engineering.ExperimentalEffect = effect
	return nil
}

// ClearBlueprint removes engineering and every modifier
func (m *Module) ClearBlueprint() {
	m.object.Engineering = nil
}

// GetBlueprint returns a copy of the engineering, if any
func (m *Module) GetBlueprint() (domain.Blueprint, bool) {
	if m.object.Engineering == nil {
		return domain.Blueprint{}, false
	}
	return *m.object.Engineering.Clone(), true
}

// IsEmpty reports whether the module holds no item
func (m *Module) IsEmpty() bool {
	return m.object.Item == ""
}

// IsAssigned reports whether the module has been placed
func (m *Module) IsAssigned() bool {
	return m.object.Slot != ""
}

// GetClass returns the item's size class
func (m *Module) GetClass() (int, bool) {
	if m.object.Item == "" {
		return 0, false
	}
	return m.catalog.Class(m.object.Item)
}

// GetRating returns the item's rating letter
func (m *Module) GetRating() (string, bool) {
	if m.object.Item == "" {
		return "", false
	}
	return m.catalog.Rating(m.object.Item)
}

// GetSize returns the size of the slot the module is placed in
func (m *Module) GetSize() (int, bool) {
	if m.object.Slot == "" || m.ship == nil {
		return 0, false
	}
	return m.catalog.SlotSize(m.ship.ShipType(), m.object.Slot)
}

func (m *Module) Slot() string       { return m.object.Slot }
func (m *Module) Item() string       { return m.object.Item }
func (m *Module) IsEnabled() bool    { return m.object.On }
func (m *Module) PowerPriority() int { return m.object.Priority }
func (m *Module) Ship() *Ship        { return m.ship }

// ToJSON returns a copy of the record
func (m *Module) ToJSON() domain.ModuleObject {
	return m.object.Clone()
}

// MarshalJSON implements json.Marshaler
func (m *Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.object)
}

// Compress returns the record as a compact build code
func (m *Module) Compress() (string, error) {
	return codec.Compress(m.object)
}
