package main

import (
	"os"

	"github.com/yutokawamata/TextStimulationApp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
