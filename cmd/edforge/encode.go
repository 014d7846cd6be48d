package main

import (
	"github.com/spf13/cobra"
)

var encodeFrom string

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print the build code of a build file",
	Long: `Read a JSON, YAML or journal build file and print its compact code.

The format is taken from the file extension (.json, .yaml, .yml, .log)
unless --from is given. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeFrom, "from", "", "Input format (json, yaml, journal)")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	from := encodeFrom
	if from == "" && args[0] == "-" {
		from = "json"
	}
	ship, err := loadShip(cmd.InOrStdin(), args[0], from)
	if err != nil {
		return err
	}
	return writeShip(cmd.OutOrStdout(), ship, "code")
}
