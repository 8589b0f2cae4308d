// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/opsboard/opsboard/internal/i18n"
	"github.com/opsboard/opsboard/internal/users"
	"github.com/opsboard/opsboard/util/slicest"
	"github.com/spf13/cobra"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register, authenticate and administer users",
	}
	cmd.AddCommand(
		newUserRegisterCmd(a),
		newUserLoginCmd(a),
		newUserListCmd(a),
		newUserSetRoleCmd(a),
		newUserRemoveCmd(a),
		newUserPasswdCmd(a),
		newUserMigrateCmd(a),
	)
	return cmd
}

func newUserRegisterCmd(a *app) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new user",
		Long: `Registers a user with the configured hash scheme. The secret is read
from the terminal without echo and must be entered twice, or as one line
from piped stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readNewSecret(cmd, args[0])
			if err != nil {
				return err
			}
			defer secret.Zero()
			u, err := a.users.Register(a.ctx(cmd), args[0], secret, role)
			if errors.Is(err, users.ErrUserExists) {
				return errors.New(i18n.T("user.exists", args[0]))
			}
			if err != nil {
				return err
			}
			say(cmd.OutOrStdout(), i18n.T("user.registered", u.Name, u.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", `Role of the new user (default "user")`)
	return cmd
}

func newUserLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Check a user's secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd, args[0])
			if err != nil {
				return err
			}
			defer secret.Zero()
			u, err := a.users.Authenticate(a.ctx(cmd), args[0], secret)
			if err != nil {
				return err
			}
			if u == nil {
				return errors.New(i18n.T("user.login_failed"))
			}
			say(cmd.OutOrStdout(), i18n.T("user.login_ok", u.Name, u.Role))
			return nil
		},
	}
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.users.ListAll(a.ctx(cmd))
			if err != nil {
				return err
			}
			if len(all) == 0 {
				say(cmd.OutOrStdout(), i18n.T("user.none"))
				return nil
			}
			rows := make([][]string, 0, len(all))
			for _, u := range all {
				rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Name, u.Role})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "ROLE"}, rows)
			return nil
		},
	}
}

func newUserSetRoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <name> <role>",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.users.SetRole(a.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			if n == 0 {
				return errors.New(i18n.T("user.not_found", args[0]))
			}
			say(cmd.OutOrStdout(), i18n.T("user.role_set", args[0], args[1]))
			return nil
		},
	}
}

func newUserRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.users.Remove(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				say(cmd.OutOrStdout(), i18n.T("user.not_found", args[0]))
				return nil
			}
			say(cmd.OutOrStdout(), i18n.T("user.removed", args[0]))
			return nil
		},
	}
}

func newUserPasswdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <name>",
		Short: "Replace a user's secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readNewSecret(cmd, args[0])
			if err != nil {
				return err
			}
			defer secret.Zero()
			n, err := a.users.Rehash(a.ctx(cmd), args[0], secret)
			if err != nil {
				return err
			}
			if n == 0 {
				return errors.New(i18n.T("user.not_found", args[0]))
			}
			say(cmd.OutOrStdout(), i18n.T("user.secret_updated", args[0]))
			return nil
		},
	}
}

func newUserMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <file>",
		Short: "Import users from a name,secret[,role] file",
		Long: `Imports one user per line from a comma-separated file. A leading
"name" header is skipped. Secrets that already are bcrypt hashes are stored
as-is; plain secrets are hashed. Users that already exist are left alone, so
the import can be repeated safely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.migrator.MigrateFile(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			say(out, i18n.T("user.migrated", rep.Inserted, rep.Duplicates, rep.Malformed))
			if len(rep.MalformedLines) > 0 {
				lines := slicest.Map(rep.MalformedLines, strconv.Itoa)
				say(out, i18n.T("user.malformed_lines", strings.Join(lines, ", ")))
			}
			return nil
		},
	}
}
