package main

import (
	"os"

	"github.com/gitauditor/scan-action/cmd/gitauditor-scan/cmd"
	"github.com/gitauditor/scan-action/pkg/version"
)

// Version is set by build flags.
var Version = "dev"

func main() {
	version.SetFallback(Version)
	os.Exit(cmd.Execute())
}
