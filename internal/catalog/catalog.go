// Package catalog provides the static reference data ed-forge looks up:
// base stats of every item, which slots an item may occupy and the slot
// layout of every hull.
//
// The data ships embedded as YAML. Load merges a user file with the same
// layout on top of it, which is how new items or corrected stats are added
// without a rebuild.
package catalog

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Family is the kind of slot a slot name belongs to
type Family string

const (
	FamilyCore      Family = "core"
	FamilyHardpoint Family = "hardpoint"
	FamilyUtility   Family = "utility"
	FamilyInternal  Family = "internal"
	FamilyMilitary  Family = "military"
	FamilyUnknown   Family = ""
)

// CoreSlots are the fixed core slot names in display order
var CoreSlots = []string{
	"Armour",
	"PowerPlant",
	"MainEngines",
	"FrameShiftDrive",
	"LifeSupport",
	"PowerDistributor",
	"Radar",
	"FuelTank",
}

// Slot name patterns per family
var (
	InternalSlotPattern  = regexp.MustCompile(`(?i)^Slot\d{2}_Size\d+$`)
	MilitarySlotPattern  = regexp.MustCompile(`(?i)^Military\d{2}$`)
	HardpointSlotPattern = regexp.MustCompile(`(?i)^(Small|Medium|Large|Huge)Hardpoint\d+$`)
	UtilitySlotPattern   = regexp.MustCompile(`(?i)^TinyHardpoint\d+$`)
)

var armourPattern = regexp.MustCompile(`^([a-z0-9_]+?)_armour_(grade1|grade2|grade3|mirrored|reactive)$`)

// FamilyOf classifies a slot name
func FamilyOf(slot string) Family {
	for _, core := range CoreSlots {
		if strings.EqualFold(core, slot) {
			return FamilyCore
		}
	}
	switch {
	case InternalSlotPattern.MatchString(slot):
		return FamilyInternal
	case MilitarySlotPattern.MatchString(slot):
		return FamilyMilitary
	case HardpointSlotPattern.MatchString(slot):
		return FamilyHardpoint
	case UtilitySlotPattern.MatchString(slot):
		return FamilyUtility
	}
	return FamilyUnknown
}

// Item is the reference data of one fittable item
type Item struct {
	ID         string             `yaml:"-"`
	Group      string             `yaml:"group"`
	Class      int                `yaml:"class"`
	Rating     string             `yaml:"rating"`
	Mounts     []string           `yaml:"mounts"`
	Properties map[string]float64 `yaml:"properties"`
}

// mountsOn reports whether the item may occupy a slot of the given family
func (it *Item) mountsOn(slot string, family Family) bool {
	for _, m := range it.Mounts {
		if family == FamilyCore {
			if strings.EqualFold(m, slot) {
				return true
			}
			continue
		}
		if strings.EqualFold(m, string(family)) {
			return true
		}
	}
	return false
}

// Hull is the reference data of one ship type
type Hull struct {
	ID         string             `yaml:"-"`
	Name       string             `yaml:"name"`
	Properties map[string]float64 `yaml:"properties"`
	Armour     map[string]float64 `yaml:"armour"`
	Slots      map[string]int     `yaml:"slots"`

	// lower-cased slot name -> canonical slot name
	slotIndex map[string]string
}

// SlotSize returns the size of a slot on this hull
func (h *Hull) SlotSize(slot string) (int, bool) {
	name, ok := h.slotIndex[strings.ToLower(slot)]
	if !ok {
		return 0, false
	}
	return h.Slots[name], true
}

// SlotNames returns every slot on the hull, sorted
func (h *Hull) SlotNames() []string {
	names := make([]string, 0, len(h.Slots))
	for name := range h.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// document is the on-disk layout of catalog files
type document struct {
	ArmourGrades map[string]map[string]float64 `yaml:"armour_grades"`
	Items        map[string]*Item              `yaml:"items"`
	Ships        map[string]*Hull              `yaml:"ships"`
}

// Catalog answers reference data queries. It is read-only once built.
type Catalog struct {
	items  map[string]*Item
	grades map[string]map[string]float64
	ships  map[string]*Hull
}

func newCatalog() *Catalog {
	return &Catalog{
		items:  make(map[string]*Item),
		grades: make(map[string]map[string]float64),
		ships:  make(map[string]*Hull),
	}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// broken, which the package tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := embedded()
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func embedded() (*Catalog, error) {
	c := newCatalog()
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		data, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, err
		}
		if err := c.merge(data); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}
	return c, nil
}

// Parse builds a catalog from a single YAML document, without the embedded data
func Parse(data []byte) (*Catalog, error) {
	c := newCatalog()
	if err := c.merge(data); err != nil {
		return nil, err
	}
	return c, nil
}

// Load returns the embedded catalog with the file at path merged on top
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := embedded()
	if err != nil {
		return nil, err
	}
	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	for grade, props := range doc.ArmourGrades {
		c.grades[strings.ToLower(grade)] = lowerKeys(props)
	}

	for id, it := range doc.Items {
		if it == nil {
			return fmt.Errorf("item %s has no data", id)
		}
		it.ID = strings.ToLower(id)
		it.Properties = lowerKeys(it.Properties)
		c.items[it.ID] = it
	}

	for id, hull := range doc.Ships {
		if hull == nil {
			return fmt.Errorf("ship %s has no data", id)
		}
		hull.ID = strings.ToLower(id)
		hull.Properties = lowerKeys(hull.Properties)
		hull.slotIndex = make(map[string]string, len(hull.Slots))
		for name, size := range hull.Slots {
			if size < 0 {
				return fmt.Errorf("ship %s: slot %s has negative size", id, name)
			}
			hull.slotIndex[strings.ToLower(name)] = name
		}
		c.ships[hull.ID] = hull
	}

	return nil
}

func lowerKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// parseArmour splits "<hull>_armour_<grade>"
func parseArmour(item string) (hull, grade string, ok bool) {
	m := armourPattern.FindStringSubmatch(strings.ToLower(item))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Item returns the reference data of an item
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.items[strings.ToLower(id)]
	return it, ok
}

// Ship returns the reference data of a hull
func (c *Catalog) Ship(id string) (*Hull, bool) {
	h, ok := c.ships[strings.ToLower(id)]
	return h, ok
}

// Ships returns every known hull id, sorted
func (c *Catalog) Ships() []string {
	ids := make([]string, 0, len(c.ships))
	for id := range c.ships {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ModuleProperty returns the base value of a stat for an item
func (c *Catalog) ModuleProperty(item, property string) (float64, bool) {
	property = strings.ToLower(property)

	if hullID, grade, ok := parseArmour(item); ok {
		if property == "mass" {
			hull, ok := c.ships[hullID]
			if !ok {
				return 0, false
			}
			v, ok := hull.Armour[grade]
			return v, ok
		}
		v, ok := c.grades[grade][property]
		return v, ok
	}

	it, ok := c.items[strings.ToLower(item)]
	if !ok {
		return 0, false
	}
	v, ok := it.Properties[property]
	return v, ok
}

// ItemFitsSlot reports whether an item may be placed in a slot of a hull
func (c *Catalog) ItemFitsSlot(item, shipType, slot string) bool {
	hull, ok := c.ships[strings.ToLower(shipType)]
	if !ok {
		return false
	}
	size, ok := hull.SlotSize(slot)
	if !ok {
		return false
	}

	if hullID, grade, ok := parseArmour(item); ok {
		_, known := c.grades[grade]
		return known && hullID == hull.ID && strings.EqualFold(slot, "Armour")
	}

	it, ok := c.items[strings.ToLower(item)]
	if !ok {
		return false
	}
	family := FamilyOf(slot)
	if !it.mountsOn(slot, family) {
		return false
	}
	if family == FamilyUtility {
		return true
	}
	return it.Class <= size
}

// Class returns the size class of an item
func (c *Catalog) Class(item string) (int, bool) {
	if _, _, ok := parseArmour(item); ok {
		return 1, true
	}
	it, ok := c.items[strings.ToLower(item)]
	if !ok {
		return 0, false
	}
	return it.Class, true
}

// Rating returns the rating letter of an item
func (c *Catalog) Rating(item string) (string, bool) {
	if _, _, ok := parseArmour(item); ok {
		return "I", true
	}
	it, ok := c.items[strings.ToLower(item)]
	if !ok {
		return "", false
	}
	return it.Rating, true
}

// SlotSize returns the size of a slot on a hull
func (c *Catalog) SlotSize(shipType, slot string) (int, bool) {
	hull, ok := c.ships[strings.ToLower(shipType)]
	if !ok {
		return 0, false
	}
	return hull.SlotSize(slot)
}
