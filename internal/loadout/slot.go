package loadout

import (
	"regexp"
	"strings"

	"github.com/CommanderRoot/ed-forge/internal/catalog"
)

type slotKind int

const (
	exactSlot slotKind = iota
	patternSlot
	anyOfSlot
)

// Slot describes which slot names a query accepts: one exact name, a
// regular expression or any of several descriptors.
type Slot struct {
	kind    slotKind
	name    string
	pattern *regexp.Regexp
	anyOf   []Slot
}

// SlotName matches exactly one slot name
func SlotName(name string) Slot {
	return Slot{kind: exactSlot, name: name}
}

// SlotPattern matches every slot name the expression finds a match in
func SlotPattern(re *regexp.Regexp) Slot {
	return Slot{kind: patternSlot, pattern: re}
}

// MustPattern compiles expr and panics if it is invalid
func MustPattern(expr string) Slot {
	return SlotPattern(regexp.MustCompile(expr))
}

// AnyOf matches if any of the descriptors matches
func AnyOf(slots ...Slot) Slot {
	return Slot{kind: anyOfSlot, anyOf: append([]Slot(nil), slots...)}
}

// Slot families
var (
	AllSlots       = SlotPattern(regexp.MustCompile(``))
	InternalSlots  = SlotPattern(catalog.InternalSlotPattern)
	MilitarySlots  = SlotPattern(catalog.MilitarySlotPattern)
	HardpointSlots = SlotPattern(catalog.HardpointSlotPattern)
	UtilitySlots   = SlotPattern(catalog.UtilitySlotPattern)
)

// Matches reports whether slot is accepted by the descriptor
func (s Slot) Matches(slot string) bool {
	switch s.kind {
	case exactSlot:
		return s.name == slot
	case patternSlot:
		return s.pattern != nil && s.pattern.MatchString(slot)
	case anyOfSlot:
		for _, sub := range s.anyOf {
			if sub.Matches(slot) {
				return true
			}
		}
	}
	return false
}

// String renders the descriptor for logs
func (s Slot) String() string {
	switch s.kind {
	case patternSlot:
		if s.pattern == nil {
			return "/<nil>/"
		}
		return "/" + s.pattern.String() + "/"
	case anyOfSlot:
		parts := make([]string, len(s.anyOf))
		for i, sub := range s.anyOf {
			parts[i] = sub.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return s.name
}
