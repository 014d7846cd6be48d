package loadout

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

// anacondaBuild is an anaconda with its modules deliberately out of slot
// order and a couple of empty placeholders
func anacondaBuild() domain.ShipObject {
	return domain.ShipObject{
		Ship:      "anaconda",
		ShipName:  "Hauler of Doom",
		ShipIdent: "AN-01",
		Modules: []domain.ModuleObject{
			{Slot: "Military01", On: true, Item: "int_hullreinforcement_size5_class2", Priority: 0},
			{Slot: "Armour", On: true, Item: "anaconda_armour_grade1", Priority: 0},
			{Slot: "Slot03_Size6", On: true, Item: "int_cargorack_size6_class1", Priority: 0},
			{Slot: "PowerPlant", On: true, Item: "int_powerplant_size8_class5", Priority: 0, Extra: map[string]any{"Health": json.Number("1")}},
			{Slot: "MainEngines", On: true, Item: "int_engine_size7_class5", Priority: 0},
			{Slot: "FrameShiftDrive", On: true, Item: "int_hyperdrive_size6_class5", Priority: 0},
			{Slot: "LifeSupport", On: true, Item: "int_lifesupport_size5_class2", Priority: 0},
			{Slot: "PowerDistributor", On: true, Item: "int_powerdistributor_size8_class5", Priority: 0},
			{Slot: "Radar", On: true, Item: "int_sensors_size8_class2", Priority: 1},
			{Slot: "FuelTank", On: true, Item: "int_fueltank_size5_class3", Priority: 0},
			{
				Slot:     "HugeHardpoint1",
				On:       true,
				Item:     "hpt_plasmaaccelerator_fixed_huge",
				Priority: 2,
				Engineering: &domain.Blueprint{
					Engineer:      "Zacariah Nemo",
					BlueprintName: "Weapon_Efficient",
					Level:         5,
					Quality:       1,
					Modifiers: []domain.Modifier{
						{Label: "PowerDraw", Value: 1.2},
						{Label: "Damage", Value: 88.1},
					},
				},
			},
			{Slot: "MediumHardpoint1", On: false, Item: "", Priority: 0},
			{Slot: "LargeHardpoint1", On: true, Item: "hpt_beamlaser_turret_large", Priority: 2},
			{Slot: "TinyHardpoint2", On: true, Item: "hpt_shieldbooster_size0_class5", Priority: 0},
			{Slot: "TinyHardpoint1", On: true, Item: "hpt_heatsinklauncher_turret_tiny", Priority: 0},
			{Slot: "Slot10_Size2", On: true, Item: "int_fueltank_size2_class3", Priority: 0},
			{Slot: "Slot02_Size6", On: false, Item: "", Priority: 0},
			{Slot: "Slot01_Size7", On: true, Item: "int_shieldgenerator_size6_class5", Priority: 0},
		},
		Extra: map[string]any{"HullValue": json.Number("146969450")},
	}
}

func newAnaconda(t *testing.T) *Ship {
	t.Helper()
	ship, err := NewShip(anacondaBuild(), quiet())
	require.NoError(t, err)
	return ship
}

func slotsOf(modules []*Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.Slot()
	}
	return out
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
