package loadout

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/domain"
	"github.com/CommanderRoot/ed-forge/internal/schema"
)

func TestShipRoundTrip(t *testing.T) {
	build := anacondaBuild()
	ship := newAnaconda(t)

	assert.Equal(t, build, ship.ToJSON())

	code, err := ship.Compress()
	require.NoError(t, err)
	var decoded domain.ShipObject
	require.NoError(t, codec.Decompress(code, &decoded))
	assert.Equal(t, ship.ToJSON(), decoded)

	inputs := map[string]any{
		"code":   code,
		"record": &build,
		"map":    toMap(t, build),
		"ship":   ship,
	}
	data, err := json.Marshal(ship)
	require.NoError(t, err)
	inputs["json"] = data

	for name, input := range inputs {
		t.Run("from "+name, func(t *testing.T) {
			again, err := NewShip(input, quiet())
			require.NoError(t, err)
			assert.Equal(t, build, again.ToJSON())
		})
	}
}

func TestNewShipErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
		is    error
	}{
		{"missing hull", map[string]any{"Modules": []any{}}, schema.ErrInvalidDocument},
		{"duplicate slot", domain.ShipObject{Ship: "python", Modules: []domain.ModuleObject{{Slot: "Radar"}, {Slot: "Radar"}}}, schema.ErrInvalidDocument},
		{"bad module", []byte(`{"Ship": "python", "Modules": [{"Slot": "Radar", "On": true, "Item": "", "Priority": "high"}]}`), schema.ErrInvalidDocument},
		{"garbage code", "definitely not a build", codec.ErrMalformedCode},
		{"unsupported type", 3.14, ErrImportExport},
		{"nil", nil, ErrImportExport},
		{"nil record", (*domain.ShipObject)(nil), ErrImportExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ship, err := NewShip(tt.input, quiet())
			assert.Nil(t, ship)
			assert.ErrorIs(t, err, ErrImportExport)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestShipIsolation(t *testing.T) {
	build := anacondaBuild()
	ship, err := NewShip(&build, quiet())
	require.NoError(t, err)

	build.Modules[0].Item = "changed"
	build.Extra["HullValue"] = 0.0
	assert.Equal(t, anacondaBuild(), ship.ToJSON())

	out := ship.ToJSON()
	out.Modules[10].Engineering.Modifiers[0].Value = 0
	out.ShipName = "changed"
	assert.Equal(t, anacondaBuild(), ship.ToJSON())

	modules, ok := ship.Read("Modules")
	require.True(t, ok)
	modules.([]domain.ModuleObject)[0].Slot = "changed"
	assert.Equal(t, "Military01", ship.Modules()[0].Slot())

	for _, m := range ship.Modules() {
		assert.Same(t, ship, m.Ship())
	}
}

func TestShipReadWrite(t *testing.T) {
	ship := newAnaconda(t)

	for _, property := range domain.ShipVars {
		t.Run("protected "+property, func(t *testing.T) {
			assert.ErrorIs(t, ship.Write(property, "python"), ErrIllegalState)
		})
	}
	assert.Equal(t, "anaconda", ship.ShipType())

	require.NoError(t, ship.Write("ShipName", "Gravy Train"))
	assert.Equal(t, "Gravy Train", ship.ShipName())
	ship.SetShipName("Hauler")
	v, ok := ship.Read("ShipName")
	require.True(t, ok)
	assert.Equal(t, "Hauler", v)

	require.NoError(t, ship.Write("ShipIdent", "XX-99"))
	ship.SetShipIdent("AN-02")
	assert.Equal(t, "AN-02", ship.ShipIdent())

	assert.ErrorIs(t, ship.Write("ShipName", 7), ErrIllegalState)

	require.NoError(t, ship.Write("Notes", []any{"mining", "trade"}))
	notes, ok := ship.Read("Notes")
	require.True(t, ok)
	assert.Equal(t, []any{"mining", "trade"}, notes)
	assert.Equal(t, []any{"mining", "trade"}, ship.ToJSON().Extra["Notes"])

	hull, ok := ship.Read("Ship")
	require.True(t, ok)
	assert.Equal(t, "anaconda", hull)
}

func TestShipGetModule(t *testing.T) {
	ship := newAnaconda(t)

	assert.Equal(t, "anaconda_armour_grade1", ship.GetModule(SlotName("Armour")).Item())
	assert.Nil(t, ship.GetModule(SlotName("Slot09_Size4")))

	// first in collection order, not slot order
	assert.Equal(t, "Military01", ship.GetModule(AnyOf(InternalSlots, MilitarySlots)).Slot())
	assert.Equal(t, "Slot03_Size6", ship.GetModule(InternalSlots).Slot())
}

func TestShipGetModules(t *testing.T) {
	ship := newAnaconda(t)

	t.Run("unsorted keeps collection order", func(t *testing.T) {
		got := ship.GetModules(InternalSlots, nil, true, false)
		assert.Equal(t, []string{"Slot03_Size6", "Slot10_Size2", "Slot02_Size6", "Slot01_Size7"}, slotsOf(got))
	})

	t.Run("overlapping descriptors do not duplicate", func(t *testing.T) {
		got := ship.GetModules(AnyOf(InternalSlots, MustPattern("Size6$"), SlotName("Slot03_Size6")), nil, false, true)
		assert.Equal(t, []string{"Slot01_Size7", "Slot03_Size6", "Slot10_Size2"}, slotsOf(got))
	})

	t.Run("item type filter", func(t *testing.T) {
		got := ship.GetModules(AllSlots, regexp.MustCompile(`^int_fueltank_`), false, true)
		assert.Equal(t, []string{"FuelTank", "Slot10_Size2"}, slotsOf(got))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, ship.GetModules(SlotName("Nowhere"), nil, true, true))
	})
}

func TestShipCategories(t *testing.T) {
	ship := newAnaconda(t)

	core := ship.GetCoreModules()
	require.Len(t, core, 8)
	assert.Equal(t, []string{
		"Armour", "PowerPlant", "MainEngines", "FrameShiftDrive",
		"LifeSupport", "PowerDistributor", "Radar", "FuelTank",
	}, slotsOf(core))

	assert.Same(t, core[0], ship.GetAlloys())
	assert.Same(t, core[1], ship.GetPowerPlant())
	assert.Same(t, core[2], ship.GetThrusters())
	assert.Same(t, core[3], ship.GetFSD())
	assert.Same(t, core[4], ship.GetLifeSupport())
	assert.Same(t, core[5], ship.GetPowerDistributor())
	assert.Same(t, core[6], ship.GetSensors())
	assert.Same(t, core[7], ship.GetCoreFuelTank())

	t.Run("internals before military, each sorted", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Slot01_Size7", "Slot03_Size6", "Slot10_Size2", "Military01"},
			slotsOf(ship.GetInternals(nil, false)))
		assert.Equal(t,
			[]string{"Slot01_Size7", "Slot02_Size6", "Slot03_Size6", "Slot10_Size2", "Military01"},
			slotsOf(ship.GetInternals(nil, true)))
		assert.Equal(t,
			[]string{"Military01"},
			slotsOf(ship.GetInternals(regexp.MustCompile(`reinforcement`), false)))
	})

	t.Run("hardpoints and utilities", func(t *testing.T) {
		assert.Equal(t, []string{"HugeHardpoint1", "LargeHardpoint1"}, slotsOf(ship.GetHardpoints(nil, false)))
		assert.Equal(t,
			[]string{"HugeHardpoint1", "LargeHardpoint1", "MediumHardpoint1"},
			slotsOf(ship.GetHardpoints(nil, true)))
		assert.Equal(t, []string{"TinyHardpoint1", "TinyHardpoint2"}, slotsOf(ship.GetUtilities(nil, true)))
	})

	t.Run("missing core modules are nil", func(t *testing.T) {
		small, err := NewShip(domain.ShipObject{
			Ship: "sidewinder",
			Modules: []domain.ModuleObject{
				{Slot: "Radar", On: true, Item: "int_sensors_size1_class1"},
			},
		}, quiet())
		require.NoError(t, err)

		core := small.GetCoreModules()
		require.Len(t, core, 8)
		assert.Nil(t, core[0])
		assert.NotNil(t, core[6])
		assert.Nil(t, small.GetPowerPlant())
	})
}

func TestShipSetModule(t *testing.T) {
	ship := newAnaconda(t)
	rack := domain.ModuleObject{Slot: "Radar", On: true, Item: "int_cargorack_size5_class1", Priority: 1}

	ok, err := ship.SetModule(SlotName("Slot02_Size6"), rack)
	require.NoError(t, err)
	assert.True(t, ok)

	m := ship.GetModule(SlotName("Slot02_Size6"))
	require.NotNil(t, m)
	assert.Equal(t, "int_cargorack_size5_class1", m.Item())
	assert.Equal(t, "Radar", ship.GetSensors().Slot())
	assert.Equal(t, "int_sensors_size8_class2", ship.GetSensors().Item())

	t.Run("slots are never created", func(t *testing.T) {
		before := len(ship.Modules())
		ok, err := ship.SetModule(SlotName("Slot05_Size5"), rack)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Len(t, ship.Modules(), before)
	})

	t.Run("invalid input", func(t *testing.T) {
		ok, err := ship.SetModule(SlotName("Slot02_Size6"), map[string]any{"Item": 5})
		assert.ErrorIs(t, err, ErrImportExport)
		assert.False(t, ok)
		assert.Equal(t, "int_cargorack_size5_class1", m.Item())
	})

	t.Run("module of another ship", func(t *testing.T) {
		other := newAnaconda(t)
		ok, err := ship.SetModuleOn(other.GetSensors(), rack)
		require.NoError(t, err)
		assert.False(t, ok)

		stray, err := NewModule(nil, WithShip(ship), quiet())
		require.NoError(t, err)
		ok, err = ship.SetModuleOn(stray, rack)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = ship.SetModuleOn(nil, rack)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("from another module", func(t *testing.T) {
		src := newAnaconda(t).GetModule(SlotName("HugeHardpoint1"))
		ok, err := ship.SetModuleOn(ship.GetModule(SlotName("LargeHardpoint1")), src)
		require.NoError(t, err)
		assert.True(t, ok)

		large := ship.GetModule(SlotName("LargeHardpoint1"))
		assert.Equal(t, "hpt_plasmaaccelerator_fixed_huge", large.Item())
		_, engineered := large.GetBlueprint()
		assert.True(t, engineered)
	})
}

func TestShipPositionalWrites(t *testing.T) {
	ship := newAnaconda(t)
	shield := domain.ModuleObject{On: true, Item: "int_shieldgenerator_size3_class5", Priority: 0}

	internals := ship.GetInternals(nil, true)
	for i := range internals {
		want := internals[i].Slot()

		ok, err := ship.SetInternalAt(i, shield)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "int_shieldgenerator_size3_class5", ship.GetModule(SlotName(want)).Item(), want)
		assert.Equal(t, want, ship.GetInternals(nil, true)[i].Slot())
	}

	ok, err := ship.SetInternalAt(len(internals), shield)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = ship.SetInternalAt(-1, shield)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("hardpoints", func(t *testing.T) {
		gun := domain.ModuleObject{On: true, Item: "hpt_railgun_fixed_medium", Priority: 1}
		ok, err := ship.SetHardpointAt(2, gun)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hpt_railgun_fixed_medium", ship.GetModule(SlotName("MediumHardpoint1")).Item())

		ok, err = ship.SetHardpoint(SlotName("HugeHardpoint1"), gun)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ship.SetHardpoint(SlotName("TinyHardpoint1"), gun)
		require.NoError(t, err)
		assert.False(t, ok, "utility slot is not a hardpoint")
	})

	t.Run("utilities", func(t *testing.T) {
		chaff := domain.ModuleObject{On: true, Item: "hpt_chafflauncher_tiny"}
		ok, err := ship.SetUtilityAt(1, chaff)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hpt_chafflauncher_tiny", ship.GetModule(SlotName("TinyHardpoint2")).Item())

		ok, err = ship.SetUtility(MustPattern("1$"), chaff)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hpt_chafflauncher_tiny", ship.GetModule(SlotName("TinyHardpoint1")).Item())
	})

	t.Run("internal by descriptor", func(t *testing.T) {
		ok, err := ship.SetInternal(MilitarySlots, domain.ModuleObject{Item: "int_modulereinforcement_size2_class2"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "int_modulereinforcement_size2_class2", ship.GetModule(SlotName("Military01")).Item())

		ok, err = ship.SetInternal(SlotName("Radar"), shield)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestShipSetCoreModule(t *testing.T) {
	ship := newAnaconda(t)

	ok, err := ship.SetCoreModule(domain.ModuleObject{On: true, Item: "int_powerplant_size7_class5", Priority: 1})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "int_powerplant_size7_class5", ship.GetPowerPlant().Item())
	assert.Equal(t, "PowerPlant", ship.GetPowerPlant().Slot())

	ok, err = ship.SetCoreModule(domain.ModuleObject{Item: "hpt_pulselaser_fixed_small"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ship.SetCoreModule(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	results, err := ship.SetCoreModules(
		domain.ModuleObject{On: true, Item: "anaconda_armour_reactive"},
		domain.ModuleObject{On: true, Item: "int_cargorack_size2_class1"},
		domain.ModuleObject{On: true, Item: "int_sensors_size6_class2"},
	)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, results)
	assert.Equal(t, "anaconda_armour_reactive", ship.GetAlloys().Item())
	assert.Equal(t, "int_sensors_size6_class2", ship.GetSensors().Item())

	results, err = ship.SetCoreModules(
		domain.ModuleObject{On: true, Item: "int_engine_size6_class5"},
		domain.ModuleObject{Item: "int_engine_size7_class5", Priority: 10},
		domain.ModuleObject{On: true, Item: "int_hyperdrive_size5_class5"},
	)
	assert.ErrorIs(t, err, ErrImportExport)
	assert.Equal(t, []bool{true}, results)
	assert.Equal(t, "int_hyperdrive_size6_class5", ship.GetFSD().Item())
}

func TestShipState(t *testing.T) {
	ship := newAnaconda(t)

	state := ship.State()
	assert.Equal(t, 2.0, state.Sys)
	assert.Equal(t, 2.0, state.Eng)
	assert.Equal(t, 2.0, state.Wep)
	assert.Equal(t, 0.0, state.Cargo)
	assert.Equal(t, 36.0, state.Fuel)
	assert.Equal(t, 36.0, ship.FuelCapacity())
	assert.Equal(t, 64.0, ship.CargoCapacity())

	require.NoError(t, ship.SetPowerDistributor(4, 2, 0))
	require.NoError(t, ship.SetPowerDistributor(0.5, 1.5, 4))
	assert.ErrorIs(t, ship.SetPowerDistributor(4, 4, 0), ErrIllegalState)
	assert.ErrorIs(t, ship.SetPowerDistributor(1.25, 2.75, 2), ErrIllegalState)
	assert.ErrorIs(t, ship.SetPowerDistributor(-1, 3, 4), ErrIllegalState)
	assert.ErrorIs(t, ship.SetPowerDistributor(5, 1, 0), ErrIllegalState)
	assert.Equal(t, 0.5, ship.State().Sys)

	require.NoError(t, ship.SetFuel(10))
	assert.ErrorIs(t, ship.SetFuel(36.5), ErrIllegalState)
	assert.ErrorIs(t, ship.SetFuel(-1), ErrIllegalState)

	require.NoError(t, ship.SetCargo(64))
	assert.ErrorIs(t, ship.SetCargo(65), ErrIllegalState)
	assert.Equal(t, 64.0, ship.State().Cargo)
	assert.Equal(t, 10.0, ship.State().Fuel)

	size, ok := ship.GetSlotSize("HugeHardpoint1")
	require.True(t, ok)
	assert.Equal(t, 4, size)
	_, ok = ship.GetSlotSize("Military02")
	assert.False(t, ok)
}

func TestShipFingerprint(t *testing.T) {
	a := newAnaconda(t)
	b := newAnaconda(t)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	require.NoError(t, b.SetFuel(1))
	fb, _ = b.Fingerprint()
	assert.Equal(t, fa, fb, "runtime state is not part of the build")

	b.SetShipName("Other")
	fb, _ = b.Fingerprint()
	assert.NotEqual(t, fa, fb)
}

// journalLoadout carries members the records do not model: journal ids,
// localised names, a textual modifier, an integer beyond 2^53 and no names
const journalLoadout = `{
	"Ship": "python", "ShipID": 9007199254740993, "HullValue": 55171380, "Rebuy": 2758569,
	"Modules": [
		{"Slot": "MediumHardpoint1", "Item": "hpt_pulselaser_gimbal_medium", "On": true, "Priority": 0, "Health": 0.97,
		 "Engineering": {"Engineer": "Broo Tarquin", "EngineerID": 300030, "BlueprintID": 128673244,
			"BlueprintName": "Weapon_Overcharged", "Level": 3, "Quality": 0.5,
			"ExperimentalEffect": "special_auto_loader", "ExperimentalEffect_Localised": "Auto Loader",
			"Modifiers": [
				{"Label": "Damage", "Value": 3.1, "OriginalValue": 2.68, "LessIsGood": 0},
				{"Label": "WeaponMode", "ValueStr": "Burst", "ValueStr_Localised": "Burst"}
			]}},
		{"Slot": "Radar", "Item": "int_sensors_size6_class2", "On": true, "Priority": 1,
		 "Engineering": {"BlueprintName": "Sensor_LongRange", "Level": 1, "Quality": 0, "Modifiers": []}},
		{"Slot": "Slot01_Size6", "Item": "", "On": false, "Priority": 0}
	]
}`

func TestShipDocumentRoundTrip(t *testing.T) {
	ship, err := NewShip([]byte(journalLoadout), quiet())
	require.NoError(t, err)

	data, err := ship.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, journalLoadout, string(data))
	assert.Contains(t, string(data), `"ShipID":9007199254740993`)

	code, err := ship.Compress()
	require.NoError(t, err)
	inflated, err := codec.Inflate(code)
	require.NoError(t, err)
	assert.JSONEq(t, journalLoadout, string(inflated))

	inputs := map[string]any{
		"code":   code,
		"record": ship.ToJSON(),
		"ship":   ship,
	}
	for name, input := range inputs {
		t.Run("from "+name, func(t *testing.T) {
			again, err := NewShip(input, quiet())
			require.NoError(t, err)

			out, err := again.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, journalLoadout, string(out))
			assert.Contains(t, string(out), `"ShipID":9007199254740993`)
		})
	}

	t.Run("textual modifier stays textual", func(t *testing.T) {
		weapon := ship.GetModule(SlotName("MediumHardpoint1"))
		_, ok := weapon.Get("WeaponMode", true)
		assert.False(t, ok)
	})
}

func TestShipSetShipType(t *testing.T) {
	build := func(t *testing.T) *Ship {
		t.Helper()
		ship, err := NewShip(domain.ShipObject{
			Ship: "sidewinder",
			Modules: []domain.ModuleObject{
				{Slot: "PowerPlant", On: true, Item: "int_powerplant_size2_class1", Priority: 0},
				{Slot: "SmallHardpoint1", On: true, Item: "hpt_pulselaser_fixed_small", Priority: 0},
				{Slot: "Radar", On: false, Item: "", Priority: 0},
			},
		}, quiet())
		require.NoError(t, err)
		return ship
	}

	t.Run("moves to a hull with the same slots", func(t *testing.T) {
		ship := build(t)
		require.NoError(t, ship.SetShipType("cobramkiii"))
		assert.Equal(t, "cobramkiii", ship.ShipType())
		assert.Equal(t, "cobramkiii", ship.ToJSON().Ship)
	})

	t.Run("refuses a hull without a placed slot", func(t *testing.T) {
		ship := build(t)
		err := ship.SetShipType("python")
		assert.ErrorIs(t, err, ErrIllegalState)
		assert.Equal(t, "sidewinder", ship.ShipType())
	})

	t.Run("refuses an empty hull type", func(t *testing.T) {
		ship := build(t)
		assert.ErrorIs(t, ship.SetShipType(""), ErrIllegalState)
	})

	t.Run("refuses items that do not fit", func(t *testing.T) {
		ship := newAnaconda(t)
		assert.ErrorIs(t, ship.SetShipType("python"), ErrIllegalState)
		assert.Equal(t, "anaconda", ship.ShipType())
	})
}
