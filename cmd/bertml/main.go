// Command bertml runs wasip1 guests against the bertml host module and
// offers a local chat loop over the conversation pipeline.
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero/sys"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			os.Exit(int(exit.ExitCode()))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
