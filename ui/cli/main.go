// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/opsboard/opsboard/buildvars"
	"github.com/spf13/cobra"
)

const modulePath = "github.com/opsboard/opsboard"

// Execute builds the root command and runs it.
func Execute() error {
	root, a := newRootCmd()
	defer a.close()
	return root.Execute()
}

// NewRootCmd returns a fresh root command. Tests use it to get isolated
// command trees.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "opsboard",
		Short: "Opsboard tracks incidents, tickets and datasets for an operations team.",
		Long: `Opsboard keeps incidents, tickets and datasets in a single database
and provisions the users allowed to work with them.

Settings are read from opsboard.yaml, OPSBOARD_* environment variables
and the flags below, later sources winning.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.close()
			return nil
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./opsboard.yaml or the user config dir)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./opsboard.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `Message language ("en", "de")`)
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging, including SQL activity")

	cmd.AddCommand(
		newUserCmd(a),
		newRecordCmd(a, incidentsView(a)),
		newRecordCmd(a, ticketsView(a)),
		newRecordCmd(a, datasetsView(a)),
		newBackupCmd(a),
		newRestoreCmd(a),
		newTransferCmd(a),
		newMaintenanceCmd(a),
		newVersionCmd(),
	)
	return cmd, a
}

// skipSetup reports whether cmd runs without configuration or a database.
func skipSetup(cmd *cobra.Command) bool {
	if cmd.HasParent() && cmd.Parent().Name() == "completion" {
		return true
	}
	switch cmd.Name() {
	case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", v)
			_, _ = fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				_, _ = fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date. Link-time values win; otherwise the runtime build info is used. A nil
// info reads the build info of the running binary.
func resolveBuildVersion(info *debug.BuildInfo) (version, commit, date string) {
	version = buildvars.VersionOrDefault("dev")
	commit = buildvars.GitCommit
	if commit == "" {
		commit = "dev"
	}
	date = buildvars.BuildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info == nil {
		return version, commit, date
	}

	if version == "dev" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		} else {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					version = dep.Version
					break
				}
			}
		}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if s.Value != "" && commit == "dev" {
				commit = s.Value
			}
		case "vcs.time":
			if s.Value != "" && date == "" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}
