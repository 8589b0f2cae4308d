// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opsboard/opsboard/internal/i18n"
	"github.com/opsboard/opsboard/internal/security"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// terminalFd returns the descriptor of stdin when it is a terminal.
func terminalFd(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

// readSecret prompts for the secret of name. A terminal on stdin is read
// without echo; anything else is read as one line.
func readSecret(cmd *cobra.Command, name string) (security.Secret, error) {
	if fd, ok := terminalFd(cmd); ok {
		return promptSecret(cmd, fd, i18n.T("user.prompt_secret", name))
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return security.FromString(strings.TrimRight(line, "\r\n")), nil
}

// readNewSecret is readSecret for secrets about to be stored. On a terminal
// the secret is asked for twice and both entries must match.
func readNewSecret(cmd *cobra.Command, name string) (security.Secret, error) {
	secret, err := readSecret(cmd, name)
	if err != nil {
		return nil, err
	}
	fd, ok := terminalFd(cmd)
	if !ok {
		return secret, nil
	}
	confirm, err := promptSecret(cmd, fd, i18n.T("user.prompt_confirm", name))
	if err != nil {
		secret.Zero()
		return nil, err
	}
	defer confirm.Zero()
	if subtle.ConstantTimeCompare(secret, confirm) != 1 {
		secret.Zero()
		return nil, errors.New(i18n.T("user.secret_mismatch"))
	}
	return secret, nil
}

func promptSecret(cmd *cobra.Command, fd int, prompt string) (security.Secret, error) {
	errOut := cmd.ErrOrStderr()
	_, _ = fmt.Fprint(errOut, prompt)
	b, err := readPassword(fd)
	_, _ = fmt.Fprintln(errOut)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return security.Secret(b), nil
}
