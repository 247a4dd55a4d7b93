// Command goxor encrypts and decrypts files in bulk with a repeating-key XOR stream.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goxor/internal/commands"
	"github.com/idelchi/goxor/internal/config"
)

// Is set during compilation.
var version = "unknown - unofficial build"

func main() {
	cfg := &config.Config{}

	switch err := commands.NewRootCommand(cfg, version).Execute(); {
	case errors.Is(err, cobraext.ErrExitGracefully):
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		os.Exit(1)
	}
}
