package main

import (
	"os"

	"github.com/LetsJonnTV/CodeAnalytics/cmd/codeanalytics/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
