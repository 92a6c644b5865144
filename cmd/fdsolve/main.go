package main

import (
	"fmt"
	"os"

	"github.com/CarolineSabourin-Jean/projet-upir/cmd/fdsolve/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fdsolve: %v\n", err)
		os.Exit(1)
	}
}
