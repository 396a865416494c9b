package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/svelte-tools/svelte-check-go/cmd"
)

func main() {
	err := cmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, cmd.ErrFindings):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "svelte-check: %v\n", err)
		os.Exit(2)
	}
}
