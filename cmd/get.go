package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"websession/pkg/reporter"
	"websession/pkg/runner"
	"websession/pkg/utils"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [paths...]",
	Short: "Request paths as the logged-in user",
	Long: `Request one or more paths relative to the base URL. The first request
logs in; later requests reuse the session until its cookie expires.

  websession get --base-url https://app.example.com -u alice /dashboard/ /reports/
  websession get -f paths.txt -t 8 -o report.json`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringP("file", "f", "", "File with one path per line")
	getCmd.Flags().StringP("method", "X", "GET", "HTTP method")
	getCmd.Flags().StringArrayP("header", "H", nil, "Custom headers (e.g. -H 'Accept: application/json')")
	getCmd.Flags().StringP("data", "d", "", "Request body")
	getCmd.Flags().IntP("threads", "t", 0, "Number of concurrent workers (default from config)")
	getCmd.Flags().StringP("output", "o", "", "Output report file")
	getCmd.Flags().String("format", "", "Report format: json, markdown")
	getCmd.Flags().Bool("show-body", false, "Print response bodies")
}

func runGet(cmd *cobra.Command, args []string) error {
	pathFile, _ := cmd.Flags().GetString("file")
	method, _ := cmd.Flags().GetString("method")
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	body, _ := cmd.Flags().GetString("data")
	showBody, _ := cmd.Flags().GetBool("show-body")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threads") {
		cfg.Runner.Threads, _ = cmd.Flags().GetInt("threads")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}

	paths := append([]string{}, args...)
	if pathFile != "" {
		fromFile, err := utils.LoadPathList(pathFile)
		if err != nil {
			return fmt.Errorf("load paths: %w", err)
		}
		paths = append(paths, fromFile...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths given")
	}

	headers, err := utils.ParseHeaders(rawHeaders)
	if err != nil {
		return err
	}
	method = strings.ToUpper(method)

	sess, logger, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	utils.Info.Printf("Target: %s\n", cfg.Target.BaseURL)
	utils.Info.Printf("Paths: %d | Threads: %d | Method: %s\n", len(paths), cfg.Runner.Threads, method)

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	engine := runner.NewEngine(ctx, sess, cfg.Runner.Threads, logger.Named("runner"))
	engine.Start()

	progressBar, _ := pterm.DefaultProgressbar.
		WithTotal(len(paths)).
		WithTitle("Requesting").
		WithShowElapsedTime(true).
		WithShowCount(true).
		Start()

	go func() {
		for _, p := range paths {
			if !engine.Submit(runner.NewJob(p, method, headers, body)) {
				break
			}
		}
		engine.CloseQueue()
		engine.WaitAndClose()
	}()

	rep := reporter.NewReporter(cfg.Output.Format, cfg.Target.BaseURL)
	for result := range engine.Results {
		progressBar.Increment()
		rep.AddResult(result)
		if showBody && result.Error == nil {
			utils.PrintStatus(result.Job.Method, result.Job.Path, result.StatusCode)
			fmt.Println(result.Body)
		}
	}
	progressBar.Stop()

	engine.Stats.SetLogins(sess.Logins())
	engine.Stats.Print()
	rep.PrintSummary()

	if cfg.Output.File != "" {
		if err := rep.GenerateReport(cfg.Output.File, sess.Logins()); err != nil {
			utils.Error.Printf("Failed to save report: %v\n", err)
		} else {
			utils.Success.Printf("Report saved to %s\n", cfg.Output.File)
		}
	}

	utils.Info.Println(engine.Stats.PrintSummary())
	if failed := engine.Stats.GetFailedCount(); failed > 0 {
		return fmt.Errorf("%d requests failed", failed)
	}
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			utils.Warning.Println("\nInterrupt received, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
