// Package main implements cirf-score, a command line tool that lists the
// assessment catalogue and scores answer files without a database.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/domain/scoring/catalog"
)

func main() {
	registry, err := catalog.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cirf-score: failed to load catalogue: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand(scoring.NewService(registry)).Execute(); err != nil {
		os.Exit(1)
	}
}
