// Package main is the entry point for pgedge-salesdash.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-salesdash/internal/cli"

	// Register dataset sources
	_ "github.com/pgEdge/pgedge-salesdash/internal/sources/csvfile"
	_ "github.com/pgEdge/pgedge-salesdash/internal/sources/mysql"
	_ "github.com/pgEdge/pgedge-salesdash/internal/sources/postgres"
	_ "github.com/pgEdge/pgedge-salesdash/internal/sources/xlsx"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
