package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/ayurcare/internal/account"
	"github.com/hyperengineering/ayurcare/internal/mail"
)

var userPasswordStdin bool

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user account",
	Long:  "Create a user account. The password is read from the first line of stdin when --password-stdin is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserCreate,
}

func init() {
	userCmd.PersistentFlags().StringVar(&dbPathOverride, "db", "",
		"Database path (overrides config and AYURCARE_DB_PATH)")
	userCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	userCreateCmd.Flags().BoolVar(&userPasswordStdin, "password-stdin", false,
		"Read the password from stdin")

	userCmd.AddCommand(userCreateCmd)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	if !userPasswordStdin {
		return fmt.Errorf("--password-stdin is required")
	}
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	// Account creation never mails, so a log sender is enough.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	accounts := account.NewService(db, db, mail.NewLogSender(logger), logger)

	u, err := accounts.Register(context.Background(), args[0], password)
	if err != nil {
		if account.IsOutcome(err) {
			return errors.New(account.Message(err))
		}
		return fmt.Errorf("create user: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), u)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id: %s)\n", u.Email, u.ID)
	return nil
}
