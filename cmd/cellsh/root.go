package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cellsh",
	Short: "Replay and inspect spreadsheet edit scripts",
	Long: `cellsh replays a script of cell edits against the evaluation core
and reports the resulting grid.

A script is a text file with one edit per line:

  A1: 1
  B1: =A1+1
  C1: 'literal text

Lines starting with '#' are comments; an address with no ':' clears
that cell.`,
}
