package commands

import (
	"fmt"

	"git.home.luguber.info/inful/featuredocs/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	path := root.ConfigPath()
	_, _ = fmt.Fprintf(global.Stdout, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		_, _ = fmt.Fprintln(global.Stdout, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(global.Stdout, "initialized successfully")
	return nil
}
