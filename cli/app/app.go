package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/suigo-dev/suigo/cli/codec"
	"github.com/suigo-dev/suigo/cli/tx"
	"github.com/suigo-dev/suigo/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "suigo\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a suigo instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "suigo"
	ctl.Version = config.Version
	ctl.Usage = "Sui transaction building and BCS toolkit"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, tx.NewCommands()...)
	ctl.Commands = append(ctl.Commands, codec.NewCommands()...)
	return ctl
}
