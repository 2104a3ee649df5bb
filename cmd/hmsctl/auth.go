package main

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hotelops/hms-console/internal/core/forms"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for this API",
		Long: `Log in with a username and password. Without --password the password is
read from the first line of standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := readLine(cmd)
				if err != nil {
					return err
				}
				password = line
			}
			creds, err := forms.Login(url.Values{"username": {username}, "password": {password}})
			if err != nil {
				return explain(err)
			}
			if err := a.auth.Login(cmd.Context(), creds.Username, creds.Password); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if confirm == "" {
				confirm = password
			}
			reg, err := forms.Signup(url.Values{
				"username":        {username},
				"password":        {password},
				"confirmPassword": {confirm},
			})
			if err != nil {
				return explain(err)
			}
			if err := a.auth.RegisterConfirmed(cmd.Context(), reg.Username, reg.Password, reg.ConfirmPassword); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s created. Log in with: hmsctl login -u %s\n", reg.Username, reg.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.auth.CurrentState()
			if !st.IsAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.Username)
			return nil
		},
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
