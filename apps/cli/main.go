package main

import (
	"os"

	"github.com/abdul-hamid-achik/suitekit/apps/cli/cmd"
	"github.com/abdul-hamid-achik/suitekit/apps/cli/suites"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(cmd.Execute(version, buildTime, suites.Register))
}
