// Command slidecraft turns a topic into a styled slide deck from the
// terminal, and serves the same pipeline as an MCP tool server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
