// Command shadowdiff calculates the mutations between shadow tree snapshots,
// described by YAML fixture files.
//
// Usage:
//
//	shadowdiff diff OLD NEW [--mode classic] [--output yaml] [--verify]
//	shadowdiff tree FILE
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
