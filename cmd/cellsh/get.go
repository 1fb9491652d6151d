package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cellgraph/spreadsheet/internal/position"
)

var getCmd = &cobra.Command{
	Use:   "get <script> <address>",
	Short: "Print a single cell's value and stored text",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := loadScript(args[0])
	if err != nil {
		return err
	}
	pos, err := position.FromString(args[1])
	if err != nil {
		return err
	}
	c, err := s.GetCell(pos)
	if err != nil {
		return err
	}
	if c == nil {
		fmt.Printf("%s: (empty)\n", pos)
		return nil
	}
	fmt.Printf("%s: %s\n", pos, renderValue(s.GetValue(pos)))
	fmt.Printf("  text: %q\n", c.GetText())
	return nil
}

func init() {
	rootCmd.AddCommand(getCmd)
}
