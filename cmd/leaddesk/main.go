package main

import (
	"fmt"
	"os"

	"github.com/aryan0dhankhar/leaddesk/internal/validation"
)

func main() {
	c := &cli{}
	if err := c.execute(newRootCmdWith(c)); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	if verr, ok := validation.As(err); ok {
		fmt.Fprintln(os.Stderr, "✗ Please fix the following:")
		for _, f := range verr.Fields() {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "✗ %v\n", err)
}
