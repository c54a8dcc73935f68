package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/M00N7682/pptpro/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the pptpro backend",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

// cmdContext returns a context cancelled by Ctrl+C. Callers defer stop to
// release the signal handler.
func cmdContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, err := promptLine("Email")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	ctx, stop := cmdContext()
	defer stop()
	resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %s", api.ErrorDetail(err))
	}
	if err := sessions.SetAuth(resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}
	logger.Info("Logged in", zap.String("email", email))
	if resp.User != nil {
		fmt.Printf("Welcome back, %s\n", resp.User.Name)
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, err := promptLine("Name")
	if err != nil {
		return err
	}
	email, err := promptLine("Email")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ctx, stop := cmdContext()
	defer stop()
	resp, err := client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %s", api.ErrorDetail(err))
	}
	if err := sessions.SetAuth(resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}
	fmt.Printf("Account created for %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if !sessions.IsAuthenticated() {
		fmt.Println("Not logged in")
		return nil
	}
	ctx, stop := cmdContext()
	defer stop()
	// best effort: the local session is cleared even when the backend call
	// fails
	if err := client.Logout(ctx); err != nil {
		logger.Warn("Server-side logout failed", zap.Error(err))
	}
	if err := sessions.ClearAuth(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if err := guard.Require("whoami"); err != nil {
		return err
	}
	ctx, stop := cmdContext()
	defer stop()
	user, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch identity: %s", api.ErrorDetail(err))
	}
	_ = sessions.UpdateUser(user)
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}
