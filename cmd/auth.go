package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/dataapi"
)

// authCmd signs in and prints the session
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and print the session",
	Args:  cobra.NoArgs,
	RunE:  runAuth,
}

// tokenCmd exchanges the session for a fresh access token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign in and request a fresh access token",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(authCmd, tokenCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	if err := authenticate(cmd.Context()); err != nil {
		return err
	}

	s := client.Session()
	return printResult(cmd.OutOrStdout(), dataapi.Result{
		"accessToken": s.AccessToken,
		"expiresIn":   s.ExpiresIn,
		"remember":    s.Remember,
		"sessionId":   s.SessionID,
	})
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := authenticate(ctx); err != nil {
		return err
	}

	res, err := client.GetToken(ctx)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}
