package loadout

import (
	"fmt"
	"math"
)

// State is the runtime condition of a ship. It travels with the ship but is
// not part of the build: ToJSON, Compress and Fingerprint ignore it.
type State struct {
	// Power distributor pips, each 0 to 4 in half steps, summing to 6
	Sys float64
	Eng float64
	Wep float64

	// Tons of cargo and fuel aboard
	Cargo float64
	Fuel  float64
}

const totalPips = 6

func (s *Ship) defaultState() State {
	return State{
		Sys:  2,
		Eng:  2,
		Wep:  2,
		Fuel: s.FuelCapacity(),
	}
}

// State returns the runtime state
func (s *Ship) State() State {
	return s.state
}

// SetPowerDistributor sets the distributor pips
func (s *Ship) SetPowerDistributor(sys, eng, wep float64) error {
	for _, pips := range []float64{sys, eng, wep} {
		if pips < 0 || pips > 4 || math.Mod(pips*2, 1) != 0 {
			return fmt.Errorf("%w: pips must be 0 to 4 in half steps, got %g", ErrIllegalState, pips)
		}
	}
	if sys+eng+wep != totalPips {
		return fmt.Errorf("%w: pips must sum to %d, got %g", ErrIllegalState, totalPips, sys+eng+wep)
	}
	s.state.Sys, s.state.Eng, s.state.Wep = sys, eng, wep
	return nil
}

// SetCargo sets the cargo aboard, bounded by the cargo racks fitted
func (s *Ship) SetCargo(tons float64) error {
	if tons < 0 || tons > s.CargoCapacity() {
		return fmt.Errorf("%w: cargo %g outside 0-%g", ErrIllegalState, tons, s.CargoCapacity())
	}
	s.state.Cargo = tons
	return nil
}

// SetFuel sets the fuel aboard, bounded by the tanks fitted
func (s *Ship) SetFuel(tons float64) error {
	if tons < 0 || tons > s.FuelCapacity() {
		return fmt.Errorf("%w: fuel %g outside 0-%g", ErrIllegalState, tons, s.FuelCapacity())
	}
	s.state.Fuel = tons
	return nil
}

// FuelCapacity sums the fuel capacity of every fitted tank
func (s *Ship) FuelCapacity() float64 {
	return s.sum("FuelCapacity")
}

// CargoCapacity sums the capacity of every fitted cargo rack
func (s *Ship) CargoCapacity() float64 {
	return s.sum("CargoCapacity")
}

func (s *Ship) sum(property string) float64 {
	var total float64
	for _, m := range s.modules {
		if m.IsEmpty() {
			continue
		}
		if v, ok := m.Get(property, true); ok {
			total += v
		}
	}
	return total
}
