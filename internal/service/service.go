package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/domain"
	"github.com/CommanderRoot/ed-forge/internal/loadout"
)

// ErrSlotNotFound is returned when a slot reference matches no module
var ErrSlotNotFound = errors.New("slot not found")

// Category selects one of the ship's ordered module lists
type Category string

const (
	CategoryInternal  Category = "internal"
	CategoryHardpoint Category = "hardpoint"
	CategoryUtility   Category = "utility"
)

// SlotRef addresses a module either by slot name or by its position in a
// category list (as ordered by the ship's getters)
type SlotRef struct {
	Name     string
	Category Category
	Index    int
}

func (r SlotRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%s #%d", r.Category, r.Index)
}

// BlueprintRequest describes engineering to apply to a module
type BlueprintRequest struct {
	Engineer           string
	Name               string
	Level              int
	Quality            float64
	ExperimentalEffect string
	Modifiers          []domain.Modifier
}

// BuildService provides the build workflows
type BuildService struct {
	codecs      *codec.Registry
	catalog     loadout.Catalog
	logger      *log.Logger
	eventBus    *EventBus
	distributor *[3]float64
}

// NewBuildService creates a new build service
func NewBuildService(codecs *codec.Registry, catalog loadout.Catalog, logger *log.Logger, eventBus *EventBus) *BuildService {
	return &BuildService{
		codecs:   codecs,
		catalog:  catalog,
		logger:   logger,
		eventBus: eventBus,
	}
}

// SetDistributor sets the pips every imported ship starts with
func (s *BuildService) SetDistributor(sys, eng, wep float64) {
	s.distributor = &[3]float64{sys, eng, wep}
}

func (s *BuildService) options() []loadout.Option {
	return []loadout.Option{loadout.WithCatalog(s.catalog), loadout.WithLogger(s.logger)}
}

// Import reads a build in the given format
func (s *BuildService) Import(format string, r io.Reader) (*loadout.Ship, error) {
	importer, err := s.codecs.Importer(format)
	if err != nil {
		return nil, err
	}

	obj, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s build: %w", format, err)
	}

	ship, err := loadout.NewShip(*obj, s.options()...)
	if err != nil {
		return nil, err
	}

	if d := s.distributor; d != nil {
		if err := ship.SetPowerDistributor(d[0], d[1], d[2]); err != nil {
			return nil, err
		}
	}

	s.eventBus.Publish(Event{
		Type:    EventBuildImported,
		Payload: map[string]string{"ship": ship.ShipType(), "format": format},
	})

	return ship, nil
}

// Decode builds a ship from a compact build code
func (s *BuildService) Decode(code string) (*loadout.Ship, error) {
	return s.Import(codec.NewCompactCodec().Format(), strings.NewReader(code))
}

// Export writes a ship in the given format
func (s *BuildService) Export(ship *loadout.Ship, format string, w io.Writer) error {
	exporter, err := s.codecs.Exporter(format)
	if err != nil {
		return err
	}

	obj := ship.ToJSON()
	if err := exporter.Export(&obj, w); err != nil {
		return fmt.Errorf("failed to export %s build: %w", format, err)
	}

	s.eventBus.Publish(Event{
		Type:    EventBuildExported,
		Payload: map[string]string{"ship": ship.ShipType(), "format": format},
	})

	return nil
}

// Resolve finds the module a slot reference points at
func (s *BuildService) Resolve(ship *loadout.Ship, ref SlotRef) (*loadout.Module, error) {
	if ref.Name != "" {
		if m := ship.GetModule(loadout.SlotName(ref.Name)); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, ref)
	}

	var list []*loadout.Module
	switch ref.Category {
	case CategoryInternal:
		list = ship.GetInternals(nil, true)
	case CategoryHardpoint:
		list = ship.GetHardpoints(nil, true)
	case CategoryUtility:
		list = ship.GetUtilities(nil, true)
	default:
		return nil, fmt.Errorf("invalid slot category %q", ref.Category)
	}

	if ref.Index < 0 || ref.Index >= len(list) {
		return nil, fmt.Errorf("%w: %s (ship has %d)", ErrSlotNotFound, ref, len(list))
	}
	return list[ref.Index], nil
}

// Fit puts an item into an existing slot. An empty item clears the slot.
// The new record goes through the ship's own write paths: a positional
// reference uses the matching Set*At call, a named one SetModule. Members
// the record carries besides the item survive; engineering does not carry
// over to a different item.
func (s *BuildService) Fit(ship *loadout.Ship, ref SlotRef, item string) (*loadout.Module, error) {
	current, err := s.Resolve(ship, ref)
	if err != nil {
		return nil, err
	}
	slot := current.Slot()

	rec := current.ToJSON()
	if rec.Item != item {
		rec.Item = item
		rec.Engineering = nil
	}
	rec.On = item != ""

	candidate, err := loadout.NewModule(rec, s.options()...)
	if err != nil {
		return nil, err
	}
	if fits, ok := candidate.FitsSlotOn(slot, ship); ok && !fits {
		return nil, fmt.Errorf("%w: %s does not fit %s", loadout.ErrIllegalState, item, slot)
	}

	var done bool
	switch {
	case ref.Name != "":
		done, err = ship.SetModule(loadout.SlotName(slot), candidate)
	case ref.Category == CategoryInternal:
		done, err = ship.SetInternalAt(ref.Index, candidate)
	case ref.Category == CategoryHardpoint:
		done, err = ship.SetHardpointAt(ref.Index, candidate)
	case ref.Category == CategoryUtility:
		done, err = ship.SetUtilityAt(ref.Index, candidate)
	}
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, ref)
	}

	s.logger.Debug("module fitted", "slot", slot, "item", item)
	s.eventBus.Publish(Event{
		Type:    EventModuleFitted,
		Payload: map[string]string{"slot": slot, "item": item},
	})

	return ship.GetModule(loadout.SlotName(slot)), nil
}

// Engineer applies a blueprint and its modifiers to the module on a slot
func (s *BuildService) Engineer(ship *loadout.Ship, ref SlotRef, req BlueprintRequest) (*loadout.Module, error) {
	m, err := s.Resolve(ship, ref)
	if err != nil {
		return nil, err
	}

	if err := m.SetBlueprint(req.Engineer, req.Name, req.Level, req.Quality); err != nil {
		return nil, err
	}
	if req.ExperimentalEffect != "" {
		if err := m.SetExperimentalEffect(req.ExperimentalEffect); err != nil {
			return nil, err
		}
	}
	for _, mod := range req.Modifiers {
		if err := m.Set(mod.Label, mod.Value); err != nil {
			return nil, err
		}
	}

	s.eventBus.Publish(Event{
		Type:    EventModuleEngineered,
		Payload: map[string]string{"slot": m.Slot(), "blueprint": req.Name},
	})

	return m, nil
}

// ParseModifier parses a Label=Value pair
func ParseModifier(s string) (domain.Modifier, error) {
	label, value, ok := strings.Cut(s, "=")
	label = strings.TrimSpace(label)
	if !ok || label == "" {
		return domain.Modifier{}, fmt.Errorf("invalid modifier %q, want Label=Value", s)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return domain.Modifier{}, fmt.Errorf("invalid modifier value in %q: %w", s, err)
	}
	return domain.Modifier{Label: label, Value: v}, nil
}
