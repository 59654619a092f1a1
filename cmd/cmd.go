// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func timeRangeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "time-range",
		Aliases: []string{"t"},
		Usage:   "Lookback window: short_term, medium_term, or long_term",
		Value:   "medium_term",
	}
}

// setupCommand initializes configuration and the credential database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file, database, and migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles the Spotify session lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify in the browser",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
			{
				Name:   "refresh",
				Usage:  "Force a token refresh",
				Action: r.AuthRefresh,
			},
			{
				Name:   "logout",
				Usage:  "Clear all stored credentials",
				Action: r.AuthLogout,
			},
		},
	}
}

// wrappedCommand fetches and exports listening recaps
func wrappedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "wrapped",
		Usage: "Build your listening recap",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a recap snapshot and print it",
				Flags: []cli.Flag{
					timeRangeFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.WrappedFetch,
			},
			{
				Name:  "export",
				Usage: "Export a recap snapshot to a file",
				Flags: []cli.Flag{
					timeRangeFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: text, markdown, csv, or json",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to the snapshot ID)",
					},
				},
				Action: r.WrappedExport,
			},
		},
	}
}

// tuiCommand launches the interactive dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui"},
		Usage:   "Open the interactive dashboard",
		Action:  r.TUI,
	}
}
