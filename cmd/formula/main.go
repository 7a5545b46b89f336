package main

import (
	"os"

	"github.com/soraformula/soraformula/cmd/formula/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
