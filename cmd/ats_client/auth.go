package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/validation"
	"github.com/jonathan/resume-analyzer/internal/workflow"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the session token",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE:  runWhoami,
}

var (
	authEmail           string
	authPassword        string
	authConfirmPassword string
)

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		cmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password")
	}
	signupCmd.Flags().StringVar(&authConfirmPassword, "confirm-password", "", "Repeat the password")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if err := refuseIfLoggedIn(); err != nil {
		return err
	}
	req := &types.LoginRequest{Email: authEmail, Password: authPassword}
	if err := validation.Login(req); err != nil {
		return err
	}

	sess, err := app.client.Login(context.Background(), req)
	if err != nil {
		return errors.New(workflow.UserMessage(err))
	}
	return saveSession(cmd, sess, "Logged in")
}

func runSignup(cmd *cobra.Command, _ []string) error {
	if err := refuseIfLoggedIn(); err != nil {
		return err
	}
	req := &types.SignupRequest{Email: authEmail, Password: authPassword, ConfirmPassword: authConfirmPassword}
	if err := validation.Signup(req); err != nil {
		return err
	}

	sess, err := app.client.Signup(context.Background(), req)
	if err != nil {
		return errors.New(workflow.UserMessage(err))
	}
	return saveSession(cmd, sess, "Account created")
}

// refuseIfLoggedIn keeps login and signup from replacing a stored session.
func refuseIfLoggedIn() error {
	sess, err := app.store.Load()
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		return nil
	}
	if subject := sess.Subject(); subject != "" {
		return fmt.Errorf("already logged in as %s, run logout first", subject)
	}
	return errors.New("already logged in, run logout first")
}

func saveSession(cmd *cobra.Command, sess session.Session, verb string) error {
	if err := app.store.Save(sess); err != nil {
		return err
	}
	if subject := sess.Subject(); subject != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s as %s\n", verb, subject)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", verb)
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := app.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	subject := sess.Subject()
	if subject == "" {
		subject = "(unknown)"
	}
	fmt.Fprintf(out, "Logged in as %s\n", subject)
	if exp, ok := sess.ExpiresAt(); ok {
		state := "valid"
		if sess.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(out, "Token expires %s (%s)\n", exp.Format(time.RFC3339), state)
	}
	fmt.Fprintf(out, "Session file: %s\n", app.store.Path())
	return nil
}
