package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/CommanderRoot/ed-forge/internal/loadout"
)

var showFrom string

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
)

var showCmd = &cobra.Command{
	Use:   "show <code|file>",
	Short: "Summarize a build",
	Long: `Print the hull, fingerprint and every fitted module of a build.

Examples:
  edforge show eNqrVgpJzs8tKM...     # From a build code
  edforge show anaconda.yaml         # From a build file
  edforge show --from journal Journal.2026-10-01T101010.01.log`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFrom, "from", "", "Input format (code, json, yaml, journal)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ship, err := loadShip(cmd.InOrStdin(), args[0], showFrom)
	if err != nil {
		return err
	}

	fingerprint, err := ship.Fingerprint()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	hullName := ship.ShipType()
	if hull, ok := app.catalog.Ship(ship.ShipType()); ok && hull.Name != "" {
		hullName = hull.Name
	}

	title := hullName
	if name := ship.ShipName(); name != "" {
		title = fmt.Sprintf("%s %q", title, name)
	}
	if ident := ship.ShipIdent(); ident != "" {
		title = fmt.Sprintf("%s [%s]", title, ident)
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintf(out, "Fingerprint: %s\n", fingerprint)

	st := ship.State()
	fmt.Fprintf(out, "Distributor: SYS %g ENG %g WEP %g\n", st.Sys, st.Eng, st.Wep)
	fmt.Fprintf(out, "Fuel: %g/%g t  Cargo: %g/%g t\n", st.Fuel, ship.FuelCapacity(), st.Cargo, ship.CargoCapacity())

	sections := []struct {
		title   string
		modules []*loadout.Module
	}{
		{"Core", ship.GetCoreModules()},
		{"Hardpoints", ship.GetHardpoints(nil, true)},
		{"Utilities", ship.GetUtilities(nil, true)},
		{"Internals", ship.GetInternals(nil, true)},
	}
	for _, s := range sections {
		fmt.Fprintln(out, sectionStyle.Render(s.title))
		if err := writeModules(out, s.modules); err != nil {
			return err
		}
	}
	return nil
}

func writeModules(out io.Writer, modules []*loadout.Module) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tSIZE\tITEM\tCLASS\tPRIORITY\tON\tENGINEERING")

	for _, m := range modules {
		if m == nil {
			continue
		}

		size := "-"
		if n, ok := m.GetSize(); ok {
			size = strconv.Itoa(n)
		}

		item, class := "-", "-"
		if !m.IsEmpty() {
			item = m.Item()
			c, cok := m.GetClass()
			r, rok := m.GetRating()
			if cok && rok {
				class = fmt.Sprintf("%d%s", c, r)
			}
		}

		engineering := "-"
		if bp, ok := m.GetBlueprint(); ok {
			engineering = fmt.Sprintf("%s G%d", bp.BlueprintName, bp.Level)
			if bp.ExperimentalEffect != "" {
				engineering += " + " + bp.ExperimentalEffect
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\t%s\n",
			m.Slot(), size, item, class, m.PowerPriority()+1, m.IsEnabled(), engineering)
	}

	return w.Flush()
}
