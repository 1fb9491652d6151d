// Command cellsh is a small outer shell around the evaluation core:
// it replays an edit script into a Sheet and either prints the result
// as a styled table or exports it to an xlsx workbook. Not part of
// spec.md's core; a concrete home for the CLI surface SPEC_FULL.md §2
// calls for, in the idiom of the pack's cobra-based command trees.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
