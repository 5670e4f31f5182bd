package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/clipkeep/clipkeep/internal/cli"
)

func main() {
	// Parse command-line arguments
	var args cli.Args
	parser := arg.MustParse(&args)

	// Create the CLI instance (resolves config, installs the logger)
	cliHandler, err := cli.New(&args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Execute the command; a bare invocation lists the history
	if err := cliHandler.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// If a subcommand was given, remind the user of its usage
		if args.Watch != nil || args.List != nil || args.Restore != nil ||
			args.Clear != nil || args.Config != nil {
			fmt.Fprintln(os.Stderr)
			parser.WriteUsage(os.Stderr)
		}
		os.Exit(1)
	}
}
