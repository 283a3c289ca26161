package main

import (
	"os"

	"github.com/hashicorp-forge/scribd-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
