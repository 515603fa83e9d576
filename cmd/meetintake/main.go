package main

import (
	_ "time/tzdata"

	"github.com/example/meeting-intake/internal/interfaces/cli"
)

func main() {
	cli.Execute()
}
