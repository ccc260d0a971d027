package main

import (
	"github.com/latticebft/lattice/cmd"
)

func main() {
	cmd.Execute()
}
