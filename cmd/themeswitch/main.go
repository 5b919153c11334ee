// Package main is the entry point for the themeswitch application.
package main

import (
	"os"

	"github.com/themeswitch/themeswitch/cmd/themeswitch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
