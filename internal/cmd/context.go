package cmd

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/hesamz3090/fetcher/internal/config"
	"github.com/hesamz3090/fetcher/internal/ui"
)

type Context struct {
	Out       io.Writer
	Err       io.Writer
	UI        *ui.UI
	Config    config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Verbose   bool
	Version   string
	ColorMode ui.ColorMode
}
