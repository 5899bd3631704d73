package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `short:"v" help:"Print version."`

	Fetch   FetchCmd   `cmd:"" default:"withargs" help:"Fetch URLs listed in a file."`
	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
