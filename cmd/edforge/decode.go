package main

import (
	"github.com/spf13/cobra"
)

var decodeFormat string

var decodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Print a build code as a document",
	Long: `Decode a compact build code and print the build.

Examples:
  edforge decode eNqrVgpJzs8tKM...          # Print as JSON (default)
  edforge decode --format yaml eNqrVgp...   # Print as YAML
  pbpaste | edforge decode -                # Read the code from stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "", "Output format (json, yaml, journal; default from config)")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	ship, err := loadShip(cmd.InOrStdin(), args[0], "code")
	if err != nil {
		return err
	}
	return writeShip(cmd.OutOrStdout(), ship, decodeFormat)
}
