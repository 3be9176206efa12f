// Package main is the entry point for the mcpgw aggregating gateway CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentmesh/mcpgw/cmd/mcpgw/app"
	"github.com/agentmesh/mcpgw/pkg/gwerrors"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, gwerrors.ErrConfigInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
