package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/bmicount/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Cobra argument and flag errors
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitCommandError
	}
	if !exitErr.Reported() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
	}
	return exitErr.Code
}
