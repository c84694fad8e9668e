// Command cathbad validates, encodes, fingerprints and submits Druid
// native queries.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/cathbad/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures; anything else is a flag or
		// usage error that cobra did not print.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
