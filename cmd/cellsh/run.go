package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Replay a script and print the resulting grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadScript(args[0])
	if err != nil {
		return err
	}
	fmt.Print(renderTable(s))
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
