package main

import (
	"github.com/spf13/cobra"
)

var (
	fitFrom   string
	fitFormat string
	fitItem   string
	fitSlot   slotFlags
)

var fitCmd = &cobra.Command{
	Use:   "fit <code|file>",
	Short: "Put an item into a slot",
	Long: `Fit an item into an existing slot of a build and print the new build.

The slot is addressed by name or by its position in the internal, hardpoint
or utility list as printed by "edforge show". An empty --item clears it.

Examples:
  edforge fit eNqrVgp... --hardpoint 0 --item hpt_multicannon_gimbal_small
  edforge fit build.json --slot Slot03_Size6 --item int_cargorack_size6_class1
  edforge fit build.json --internal 2 --item ""`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitFrom, "from", "", "Input format (code, json, yaml, journal)")
	fitCmd.Flags().StringVar(&fitFormat, "format", "code", "Output format (code, json, yaml, journal)")
	fitCmd.Flags().StringVar(&fitItem, "item", "", "Item id to fit")
	_ = fitCmd.MarkFlagRequired("item")
	fitSlot.register(fitCmd)
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	ref, err := fitSlot.ref(cmd)
	if err != nil {
		return err
	}

	ship, err := loadShip(cmd.InOrStdin(), args[0], fitFrom)
	if err != nil {
		return err
	}

	m, err := app.builds.Fit(ship, ref, fitItem)
	if err != nil {
		return err
	}
	app.logger.Info("module fitted", "slot", m.Slot(), "item", m.Item())

	return writeShip(cmd.OutOrStdout(), ship, fitFormat)
}
