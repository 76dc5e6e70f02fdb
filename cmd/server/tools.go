package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"kuku/internal/config"
	"kuku/internal/infrastructure/mysql"
	"kuku/internal/infrastructure/sqlite"
)

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Print a bcrypt hash for ADMIN_PASSWORD_HASH.

The password is read from the first argument, or from stdin when omitted:
  kuku hash-password 's3cret'
  echo 's3cret' | kuku hash-password`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			cost, _ := cmd.Flags().GetInt("cost")
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.Flags().Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL for the selected database driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, _ := cmd.Flags().GetString("driver")
			switch driver {
			case config.DriverMySQL:
				fmt.Fprint(cmd.OutOrStdout(), mysql.Schema)
			case config.DriverSQLite:
				fmt.Fprint(cmd.OutOrStdout(), sqlite.Schema)
			default:
				return fmt.Errorf("unsupported database driver %q", driver)
			}
			return nil
		},
	}

	cmd.Flags().String("driver", config.DriverMySQL, "database driver (mysql or sqlite3)")

	return cmd
}
