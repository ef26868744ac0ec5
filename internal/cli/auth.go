package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the task server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the task server",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the task server",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear stored credentials",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
}

func promptLine(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func promptPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	username := promptLine("Username: ")
	password := promptPassword("Password: ")

	fmt.Println("Logging in...")
	if err := app.guard.Login(context.Background(), username, password); err != nil {
		return fmt.Errorf("login failed: %s", api.Message(err))
	}

	fmt.Println("✓ Logged in successfully!")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	username := promptLine("Username: ")
	email := promptLine("Email: ")
	password := promptPassword("Password: ")
	confirm := promptPassword("Confirm Password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("Creating account...")
	if err := app.guard.Register(context.Background(), username, email, password); err != nil {
		return fmt.Errorf("registration failed: %s", api.Message(err))
	}

	fmt.Println("✓ Account created and logged in!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if app.guard.Current().Status != session.StatusAuthenticated {
		fmt.Println("Not logged in.")
		return nil
	}

	app.guard.Logout()
	fmt.Println("✓ Logged out successfully.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	fmt.Printf("Server:  %s\n", app.cfg.ServerURL)

	current := app.guard.Current()
	if current.Status == session.StatusAuthenticated {
		fmt.Printf("User:    %s <%s>\n", current.User.Username, current.User.Email)
		fmt.Println("Status:  ✓ Logged in")
	} else {
		fmt.Println("Status:  Not logged in")
	}
	return nil
}
