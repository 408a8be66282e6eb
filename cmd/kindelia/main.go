package main

import (
	"os"

	"github.com/steinerkelvin/Kindelia/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
