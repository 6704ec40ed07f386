// Package cli implements the fossrepo command-line interface.
//
// Commands resolve artifacts, version ranges, descriptors and dependency
// graphs through the fallback repository system, inspect the depmap remap
// table, manage the document cache and serve the HTTP API.
//
// # Configuration
//
// Settings are loaded once per invocation from --config or the default
// search path, then overridden by FOSSREPO_ environment variables.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, as does the
// debug setting. Loggers are passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/fossrepo/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/pkg/config"
)

// prepare loads the configuration, settles the log level and attaches the
// logger to the command context. It runs before every subcommand.
func (c *CLI) prepare(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFs(c.Fs, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := LogInfo
	if c.verbose || cfg.Debug {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if level == LogDebug {
		registerDebugHooks(c.Logger)
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
