package schema

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

const validShip = `{
	"Ship": "sidewinder",
	"ShipName": "Starter",
	"ShipIdent": "SW-01",
	"HullValue": 32000,
	"Modules": [
		{"Slot": "PowerPlant", "On": true, "Item": "int_powerplant_size2_class1", "Priority": 1},
		{"Slot": "Slot01_Size2", "On": true, "Item": "", "Priority": 0},
		{"Slot": "SmallHardpoint1", "On": true, "Item": "hpt_pulselaser_fixed_small", "Priority": 2,
		 "Engineering": {"Engineer": "Broo Tarquin", "BlueprintName": "Weapon_Overcharged", "Level": 3, "Quality": 0.5,
		   "Modifiers": [{"Label": "Damage", "Value": 3.1}]}}
	]
}`

func TestValidateShip(t *testing.T) {
	t.Run("accepts a well-formed ship", func(t *testing.T) {
		require.NoError(t, ValidateShip([]byte(validShip)))
	})

	t.Run("accepts a ship without names", func(t *testing.T) {
		require.NoError(t, ValidateShip([]byte(`{"Ship": "python", "Modules": []}`)))
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"missing hull", `{"Modules": []}`},
		{"empty hull", `{"Ship": "", "Modules": []}`},
		{"missing modules", `{"Ship": "python"}`},
		{"module without priority", `{"Ship": "python", "Modules": [{"Slot": "Radar", "On": true, "Item": ""}]}`},
		{"module without item", `{"Ship": "python", "Modules": [{"Slot": "Radar", "On": true, "Priority": 0}]}`},
		{"module without slot", `{"Ship": "python", "Modules": [{"On": true, "Item": "", "Priority": 0}]}`},
		{"priority out of range", `{"Ship": "python", "Modules": [{"Slot": "Radar", "On": true, "Item": "", "Priority": 9}]}`},
		{"wrongly typed on", `{"Ship": "python", "Modules": [{"Slot": "Radar", "On": "yes", "Item": "", "Priority": 0}]}`},
		{"not an object", `[1, 2]`},
		{"not json", `{"Ship": `},
		{"duplicate slot", `{"Ship": "python", "Modules": [
			{"Slot": "Radar", "On": true, "Item": "", "Priority": 0},
			{"Slot": "Radar", "On": true, "Item": "", "Priority": 0}]}`},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			err := ValidateShip([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidateModule(t *testing.T) {
	t.Run("accepts an empty placeholder", func(t *testing.T) {
		require.NoError(t, ValidateModule([]byte(`{"Slot": "", "On": false, "Item": "", "Priority": 0}`)))
	})

	t.Run("keeps unknown members", func(t *testing.T) {
		require.NoError(t, ValidateModule([]byte(`{"Slot": "", "On": true, "Item": "x", "Priority": 0, "AmmoInClip": 12}`)))
	})

	t.Run("accepts textual modifiers", func(t *testing.T) {
		require.NoError(t, ValidateModule([]byte(`{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0,
			"Modifiers": [{"Label": "WeaponMode", "ValueStr": "Burst", "ValueStr_Localised": "Burst"}]}}`)))
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"blueprint level too high", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 6, "Quality": 0, "Modifiers": []}}`},
		{"blueprint quality above one", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 1.5, "Modifiers": []}}`},
		{"blueprint without name", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"Level": 1, "Quality": 0, "Modifiers": []}}`},
		{"modifier without label", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0, "Modifiers": [{"Value": 1}]}}`},
		{"blueprint without modifiers", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0}}`},
		{"modifier without value", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0, "Modifiers": [{"Label": "Mass"}]}}`},
		{"textual modifier with a number", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0, "Modifiers": [{"Label": "WeaponMode", "ValueStr": 3}]}}`},
		{"duplicate modifier label", `{"Slot": "", "On": true, "Item": "x", "Priority": 0,
			"Engineering": {"BlueprintName": "B", "Level": 1, "Quality": 0,
			"Modifiers": [{"Label": "Mass", "Value": 1}, {"Label": "Mass", "Value": 2}]}}`},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			err := ValidateModule([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidateObjects(t *testing.T) {
	t.Run("module record round trip validates", func(t *testing.T) {
		m := domain.ModuleObject{
			Item:     "int_sensors_size3_class2",
			Priority: 2,
			Engineering: &domain.Blueprint{
				BlueprintName: "Sensor_LongRange",
				Level:         2,
				Quality:       1,
			},
		}
		require.NoError(t, ValidateModuleObject(m))
	})

	t.Run("duplicate modifiers in ship record are reported with a path", func(t *testing.T) {
		ship := domain.ShipObject{
			Ship: "python",
			Modules: []domain.ModuleObject{{
				Slot: "Radar",
				Engineering: &domain.Blueprint{
					BlueprintName: "Sensor_LongRange",
					Level:         1,
					Modifiers:     []domain.Modifier{{Label: "Mass", Value: 1}, {Label: "Mass", Value: 2}},
				},
			}},
		}

		err := ValidateShipObject(ship)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Modules[0].Engineering.Modifiers[1].Label", verr.Path)
	})
}

func TestLoadSchema(t *testing.T) {
	t.Run("compiles once", func(t *testing.T) {
		first, err := loadSchema()
		require.NoError(t, err)
		second, err := loadSchema()
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("validates from many goroutines", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = ValidateShip([]byte(validShip))
			}()
		}
		wg.Wait()
		for _, err := range errs {
			assert.NoError(t, err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "Modules[3].Priority", formatPath([]string{"#Ship", "Modules", "3", "Priority"}))
	assert.Equal(t, "Slot", formatPath([]string{"Slot"}))
	assert.Equal(t, "", formatPath(nil))
}
