// ccrun runs Claude Code reliably from automation, headless under a
// pseudo-terminal or interactively inside tmux.
package main

import (
	"os"

	"github.com/zonghui1968/clawd-skills/internal/cmd"
)

// main delegates all command parsing and execution to cmd.Execute() and
// exits with its return code.
func main() {
	os.Exit(cmd.Execute())
}
