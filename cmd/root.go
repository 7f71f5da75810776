package cmd

import (
	"fmt"
	"os"

	"websession/pkg/client"
	"websession/pkg/session"
	"websession/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	envFiles  []string
	debugMode bool
	version   = "1.0.0"

	baseURL       string
	loginPath     string
	username      string
	sessionCookie string
	csrfField     string
	strict        bool
	insecure      bool
	proxyList     []string
)

var rootCmd = &cobra.Command{
	Use:   "websession",
	Short: "Authenticated HTTP session client",
	Long: `websession logs into a form-based web application and issues requests
as the logged-in user, logging in again whenever the session cookie expires.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.PrintBanner(version)
		utils.InitLogger(debugMode)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	bindRootFlags(rootCmd)
}

// bindRootFlags registers the persistent flags shared by every subcommand.
func bindRootFlags(c *cobra.Command) {
	pf := c.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML)")
	pf.StringSliceVar(&envFiles, "env-file", nil, ".env files to load before reading WEBSESSION_* variables")
	pf.BoolVar(&debugMode, "debug", false, "Enable debug output")

	pf.StringVar(&baseURL, "base-url", "", "Application base URL, e.g. https://app.example.com")
	pf.StringVar(&loginPath, "login-path", "", "Login form path (default /accounts/login/)")
	pf.StringVarP(&username, "username", "u", "", "Login username (password comes from config or WEBSESSION_PASSWORD)")
	pf.StringVar(&sessionCookie, "session-cookie", "", "Name of the session cookie (default sessionid)")
	pf.StringVar(&csrfField, "csrf-field", "", "Name of the CSRF form field (default csrfmiddlewaretoken)")
	pf.BoolVar(&strict, "strict", false, "Fail on a missing CSRF token, rejected login or malformed cookie")
	pf.BoolVarP(&insecure, "insecure", "k", false, "Skip TLS verification")
	pf.StringSliceVar(&proxyList, "proxy", nil, "Proxy URLs to rotate through")
}

// loadConfig resolves configuration in order defaults, YAML, env, flags.
func loadConfig(cmd *cobra.Command) (*utils.Config, error) {
	cfg, err := utils.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := utils.LoadEnvFiles(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Target.BaseURL = baseURL
	}
	if flags.Changed("login-path") {
		cfg.Target.LoginPath = loginPath
	}
	if flags.Changed("username") {
		cfg.Target.Username = username
	}
	if flags.Changed("session-cookie") {
		cfg.Target.SessionCookie = sessionCookie
	}
	if flags.Changed("csrf-field") {
		cfg.Target.CSRFField = csrfField
	}
	if flags.Changed("strict") {
		cfg.Target.Strict = strict
	}
	if flags.Changed("insecure") {
		cfg.Client.VerifyTLS = !insecure
	}
	if flags.Changed("proxy") {
		cfg.Client.Proxies = proxyList
	}
	return cfg, nil
}

// newSession wires the transport, logger and session client for cfg.
func newSession(cfg *utils.Config) (*session.Client, *zap.Logger, error) {
	logger := utils.NewLogger(cfg.Logging, debugMode)

	sc, err := client.NewSmartClient(cfg.ClientConfig(), client.WithLogger(logger.Named("client")))
	if err != nil {
		return nil, logger, err
	}
	if sc.Proxies().IsEnabled() {
		utils.Info.Printf("Using %d proxies\n", sc.Proxies().Count())
	}

	sess, err := session.New(cfg.SessionConfig(), sc, session.WithLogger(logger.Named("session")))
	if err != nil {
		return nil, logger, err
	}
	return sess, logger, nil
}
