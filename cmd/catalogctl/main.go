// Command catalogctl runs catalog-wide maintenance: reclassification, price
// cleanup and spreadsheet imports. Every command is a dry run unless --apply
// is given.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
