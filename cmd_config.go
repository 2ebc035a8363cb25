package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	credentialsx "github.com/tanpawarit/Chative-Customer-Service/pkg/credentials"
	"golang.org/x/term"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the GitHub token stored in the OS keychain",
		Long: `The GitHub token is read from GITHUB_TOKEN (or LLM_GITHUB_TOKEN) first and
falls back to the OS keychain.`,
	}
	cmd.AddCommand(configSetTokenCmd())
	cmd.AddCommand(configClearTokenCmd())
	return cmd
}

func configSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token",
		Short: "Store the GitHub Models token in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "GitHub token: ")
			token, err := readSecret()
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("token is empty")
			}
			if err := credentialsx.Set(credentialsx.KeyGitHubToken, token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored in OS keychain.")
			return nil
		},
	}
}

func configClearTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-token",
		Short: "Remove the stored GitHub token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentialsx.Delete(credentialsx.KeyGitHubToken); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed from OS keychain.")
			return nil
		},
	}
}

func readSecret() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}
