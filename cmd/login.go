package cmd

import (
	"context"
	"fmt"

	"websession/pkg/utils"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in once and report the session state",
	Long: `Perform the login flow against the configured application and print
which cookies the server set. Cookie values are never printed.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sess, logger, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	utils.Info.Printf("Target: %s%s\n", cfg.Target.BaseURL, cfg.Target.LoginPath)
	utils.Info.Printf("User: %s\n", cfg.Target.Username)

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	if err := sess.Login(ctx); err != nil {
		utils.Error.Printf("Login failed: %v\n", err)
		return err
	}

	utils.Success.Println("Logged in")
	utils.PrintSection("Cookies")
	for _, name := range sess.Jar().Names() {
		fmt.Println("  " + name)
	}
	return nil
}
