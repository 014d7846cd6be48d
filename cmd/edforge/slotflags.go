package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CommanderRoot/ed-forge/internal/service"
)

// slotFlags are the mutually exclusive ways a command can address a slot
type slotFlags struct {
	slot      string
	internal  int
	hardpoint int
	utility   int
}

func (f *slotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.slot, "slot", "", "Slot name (e.g. MediumHardpoint1, Slot03_Size6)")
	cmd.Flags().IntVar(&f.internal, "internal", 0, "Index into the internal compartments")
	cmd.Flags().IntVar(&f.hardpoint, "hardpoint", 0, "Index into the hardpoints")
	cmd.Flags().IntVar(&f.utility, "utility", 0, "Index into the utility mounts")
	cmd.MarkFlagsMutuallyExclusive("slot", "internal", "hardpoint", "utility")
}

// ref builds the slot reference from whichever flag was set
func (f *slotFlags) ref(cmd *cobra.Command) (service.SlotRef, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("slot"):
		if f.slot == "" {
			return service.SlotRef{}, errors.New("--slot must not be empty")
		}
		return service.SlotRef{Name: f.slot}, nil
	case flags.Changed("internal"):
		return service.SlotRef{Category: service.CategoryInternal, Index: f.internal}, nil
	case flags.Changed("hardpoint"):
		return service.SlotRef{Category: service.CategoryHardpoint, Index: f.hardpoint}, nil
	case flags.Changed("utility"):
		return service.SlotRef{Category: service.CategoryUtility, Index: f.utility}, nil
	}
	return service.SlotRef{}, fmt.Errorf("one of --slot, --internal, --hardpoint or --utility is required")
}
