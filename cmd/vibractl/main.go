// Command vibractl decodes vibration telemetry arrays and resolves spectrum
// queries against a snapshot or badger store.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
