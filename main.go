package main

import (
	"os"

	"github.com/EthanGF7/SkillsTracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
