package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagUsername string
	flagPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return authenticate(cmd, func(ctx context.Context, username, password string) (string, error) {
			c, _, err := newClient()
			if err != nil {
				return "", err
			}
			return c.Register(ctx, username, password)
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Print a fresh token, to be exported as RELAY_TOKEN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return authenticate(cmd, func(ctx context.Context, username, password string) (string, error) {
			c, _, err := newClient()
			if err != nil {
				return "", err
			}
			return c.Login(ctx, username, password)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVarP(&flagUsername, "username", "u", "", "account name")
		cmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password")
		_ = cmd.MarkFlagRequired("username")
		_ = cmd.MarkFlagRequired("password")
	}
}

func authenticate(cmd *cobra.Command, call func(ctx context.Context, username, password string) (string, error)) error {
	token, err := call(cmd.Context(), flagUsername, flagPassword)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
