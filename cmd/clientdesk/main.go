// clientdesk — advisory client portal.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/clientdesk/api"
	"github.com/seenimoa/clientdesk/internal/config"
	"github.com/seenimoa/clientdesk/internal/datasource"
	"github.com/seenimoa/clientdesk/internal/logging"
	"github.com/seenimoa/clientdesk/internal/portfolio"
	"github.com/seenimoa/clientdesk/internal/report"
	"github.com/seenimoa/clientdesk/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger
var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clientdesk",
	Short: "clientdesk — advisory client portal",
	Long: `clientdesk serves the advisor-facing client portal: a login gate,
the client directory, client details, and each client's portfolio with
daily performance joined to client sentiment, risk history and
satisfaction. The same views are available from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger = logging.New(cfg.Logging, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(runScriptCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}

// newSource builds the backend client from the loaded config.
func newSource() *datasource.HTTPSource {
	return datasource.NewHTTPSource(cfg.Backend.BaseURL,
		datasource.WithTimeout(cfg.Backend.Timeout()),
		datasource.WithRateLimit(cfg.Backend.RateLimit),
		datasource.WithToken(cfg.Backend.Token),
		datasource.WithLogger(logger.With().Str("component", "datasource").Logger()),
	)
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip config loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clientdesk %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("degrade") {
			cfg.Portfolio.DegradeOnError, _ = cmd.Flags().GetBool("degrade")
		}
		noLive, _ := cmd.Flags().GetBool("no-live")

		srv, err := api.NewServer(cfg,
			api.WithLogger(logger),
			api.WithVersion(version),
			api.WithLiveUpdates(!noLive),
		)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(cfg.Server.Addr())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	serveCmd.Flags().Bool("degrade", false, "render the sections that loaded when a secondary fetch fails")
	serveCmd.Flags().Bool("no-live", false, "do not open the WebSocket feed on portfolio pages")
}

// --- Clients Command ---

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		clients, err := newSource().Clients(ctx)
		if err != nil {
			return fmt.Errorf("fetching clients: %w", err)
		}
		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		fmt.Printf("%-8s %-28s %-5s %s\n", "ID", "Name", "Age", "Risk Tolerance")
		fmt.Println(strings.Repeat("─", 60))
		for _, c := range clients {
			fmt.Printf("%-8s %-28s %-5s %s\n", c.ClientID, c.Name, c.Age.Display(), c.RiskTolerance)
		}
		return nil
	},
}

// --- Client Command ---

var clientCmd = &cobra.Command{
	Use:   "client [id]",
	Short: "Show one client's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		c, err := newSource().Client(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching client %s: %w", args[0], err)
		}
		if c == nil {
			return fmt.Errorf("client %s not found", args[0])
		}

		fmt.Printf("  %s\n", c.Name)
		fmt.Printf("    Age:             %s\n", c.Age.Display())
		fmt.Printf("    Risk Tolerance:  %s\n", c.RiskTolerance)
		fmt.Printf("    Investment Goal: %s\n", c.InvestmentGoal)
		fmt.Printf("    Email:           %s\n", c.Email)
		fmt.Printf("    Phone:           %s\n", c.Phone)
		fmt.Printf("    Account Status:  %s\n", c.AccountStatus)
		return nil
	},
}

// --- Portfolio Command ---

var portfolioCmd = &cobra.Command{
	Use:   "portfolio [client-id]",
	Short: "Render a client's portfolio view",
	Long: `Fetch the portfolio, risk history, sentiments and satisfaction for a
client and render the combined view.

Examples:
  clientdesk portfolio 7
  clientdesk portfolio 7 --format json
  clientdesk portfolio 7 --format pdf --output reports/client-7.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		degrade, _ := cmd.Flags().GetBool("degrade")

		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		policy := portfolio.PolicyStrict
		if degrade || cfg.Portfolio.DegradeOnError {
			policy = portfolio.PolicyDegrade
		}

		ctx, cancel := commandContext()
		defer cancel()

		loader := portfolio.NewLoader(newSource(), policy, logger.With().Str("component", "portfolio").Logger())
		v, err := loader.View(ctx, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, portfolio.FailureMessage)
			return err
		}

		rcfg := report.DefaultConfig()
		out, err := report.Generate(&v, format, rcfg)
		if err != nil {
			return err
		}

		if format == report.FormatPDF {
			if output == "" {
				output = filepath.Join("reports", fmt.Sprintf("portfolio-%s.pdf", id))
			}
			pctx, pcancel := context.WithTimeout(ctx, 2*time.Minute)
			defer pcancel()
			written, err := report.ExportPDF(pctx, out, output)
			if err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", written)
			return nil
		}

		if output == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to %s\n", output)
		return nil
	},
}

func init() {
	portfolioCmd.Flags().StringP("format", "f", "text", "output format: text, html, json, pdf")
	portfolioCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	portfolioCmd.Flags().Bool("degrade", false, "render the sections that loaded when a secondary fetch fails")
}

// --- Run Script Command ---

var runScriptCmd = &cobra.Command{
	Use:   "run-script",
	Short: "Trigger the backend analysis script and print its output",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		out, err := newSource().RunScript(ctx)
		if err != nil {
			return fmt.Errorf("running script: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}

// --- Config Command ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFilePath()
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveToFile(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and backend reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  clientdesk — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time:          %s\n", utils.FormatDateTime(time.Now()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Backend:       %s\n", cfg.Backend.BaseURL)
		timeout := "none"
		if d := cfg.Backend.Timeout(); d > 0 {
			timeout = d.String()
		}
		fmt.Printf("    Timeout:       %s\n", timeout)
		fmt.Printf("    Rate Limit:    %d req/s\n", cfg.Backend.RateLimit)
		fmt.Printf("    Web Server:    %s\n", cfg.Server.Addr())
		fmt.Printf("    Degrade:       %t\n", cfg.Portfolio.DegradeOnError)
		fmt.Println()

		fmt.Println("  Secrets:")
		for _, k := range config.CheckSecrets(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		backend := "✅ reachable"
		if clients, err := newSource().Clients(ctx); err != nil {
			backend = "❌ " + err.Error()
		} else {
			backend += fmt.Sprintf(" (%d clients)", len(clients))
		}
		fmt.Printf("  Backend:       %s\n", backend)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
