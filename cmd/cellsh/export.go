package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/cellgraph/spreadsheet/internal/exportxlsx"
)

var exportCmd = &cobra.Command{
	Use:   "export <script> <output.xlsx>",
	Short: "Replay a script and export the grid to an xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := loadScript(args[0])
	if err != nil {
		return err
	}
	if err := exportxlsx.Write(s, args[1]); err != nil {
		log.Printf("export to %s failed: %v", args[1], err)
		return err
	}
	log.Printf("wrote %s (sheet %s)", args[1], s.ID())
	fmt.Printf("wrote %s (sheet %s)\n", args[1], s.ID())
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
