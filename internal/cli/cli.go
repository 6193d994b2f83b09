package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/grimpo6/helloasso-certificates/internal/collector"
	"github.com/grimpo6/helloasso-certificates/internal/config"
	"github.com/grimpo6/helloasso-certificates/internal/extractor"
	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
	"github.com/grimpo6/helloasso-certificates/internal/logger"
	"github.com/grimpo6/helloasso-certificates/internal/selector"
	"github.com/grimpo6/helloasso-certificates/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitInterrupted = 130
)

var (
	flagConfig       string
	flagEnvFile      string
	flagClientID     string
	flagClientSecret string
	flagCookie       string
	flagOrganization string
	flagFormType     string
	flagForm         string
	flagMinDate      string
	flagOutputDir    string
	flagTimeout      time.Duration
	flagDryRun       bool
	flagVerbose      bool
	flagLogLevel     string
	flagLogFormat    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificates",
		Short: "Download medical certificates and waivers from HelloAsso registrations",
		Long: `Download the medical certificates and liability waivers uploaded by the
persons registered through a HelloAsso form.

Files are written to <output-dir>/<form-slug>/<Lastname>_<Firstname>-<kind>.<ext>
where kind is "certificat" or "attestation".

Credentials are read from the config file, a .env file, the environment
(HELLOASSO_CLIENT_ID, HELLOASSO_CLIENT_SECRET, HELLOASSO_TM5_COOKIE) or flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDownload,
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Path to a .env file (ignored if absent)")
	cmd.Flags().StringVar(&flagClientID, "client-id", "", "API client id (or env: "+config.EnvClientID+")")
	cmd.Flags().StringVar(&flagClientSecret, "client-secret", "", "API client secret (or env: "+config.EnvClientSecret+")")
	cmd.Flags().StringVar(&flagCookie, "cookie", "", "tm5-HelloAsso session cookie (or env: "+config.EnvSessionCookie+")")
	cmd.Flags().StringVar(&flagOrganization, "organization", config.DefaultOrganization, "Organization slug")
	cmd.Flags().StringVar(&flagFormType, "form-type", config.DefaultFormType, "Form type used in the orders path")
	cmd.Flags().StringVar(&flagForm, "form", "", "Form slug to process (skips the interactive selection)")
	cmd.Flags().StringVar(&flagMinDate, "min-date", "", "Only keep registrations on or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", config.DefaultOutputDir, "Directory receiving one sub-directory per form")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "HTTP timeout per request")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List the files that would be downloaded without downloading them")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&flagLogFormat, "log-format", "json", "Log format: json or console")

	return cmd
}

// runDownload is the main command logic
func runDownload(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := setupLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	httpClient := helloasso.NewHTTPClient(cfg.Timeout)

	token, err := helloasso.NewAuthenticator(cfg, httpClient).Token(ctx)
	if err != nil {
		return err
	}
	logger.Debug("Authenticated", logger.Fields{"organization": cfg.Organization})

	client := helloasso.NewClient(cfg, token, httpClient)

	forms, err := client.ListForms(ctx)
	if err != nil {
		return err
	}

	form, err := chooseForm(cmd, forms)
	if err != nil {
		return err
	}
	logger.Info("Form selected", logger.Fields{"form": form.Slug, "title": form.Title})

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	collected, err := collector.New(client, cfg.MinDate, out).Collect(ctx, form.Slug)
	if err != nil {
		return err
	}

	ex := extractor.New(client,
		helloasso.NewDownloader(cfg.Credentials.SessionCookie, httpClient),
		store,
		extractor.WithDryRun(flagDryRun),
		extractor.WithProgress(out),
	)
	extracted, err := ex.Extract(ctx, form.Slug, collected.IDs)
	if err != nil {
		return err
	}

	summary := &Summary{
		Form:      form,
		OutputDir: store.Path(form.Slug, ""),
		Collected: collected,
		Extracted: extracted,
		DryRun:    flagDryRun,
	}
	if err := WriteSummary(out, summary); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		if err := WriteMetrics(out, logger.GetMetricsSnapshot()); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return nil
}

func setupLogging(w io.Writer) error {
	level, err := logger.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}

	format, err := logger.ParseFormat(flagLogFormat)
	if err != nil {
		return err
	}

	logger.SetDefault(logger.NewWithFormat(level, format, w))
	return nil
}

// buildConfig loads the configuration and applies the flags set on the command line
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig, flagEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("client-id") {
		cfg.Credentials.ClientID = flagClientID
	}
	if flags.Changed("client-secret") {
		cfg.Credentials.ClientSecret = flagClientSecret
	}
	if flags.Changed("cookie") {
		cfg.Credentials.SessionCookie = flagCookie
	}
	if flags.Changed("organization") {
		cfg.Organization = flagOrganization
	}
	if flags.Changed("form-type") {
		cfg.FormType = flagFormType
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("min-date") {
		if err := cfg.SetMinDate(flagMinDate); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// chooseForm resolves --form or asks the operator
func chooseForm(cmd *cobra.Command, forms []helloasso.Form) (helloasso.Form, error) {
	if flagForm != "" {
		return selector.BySlug(forms, flagForm)
	}

	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	var prompter selector.Prompter
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		prompter = selector.NewSurveyPrompter(survey.WithStdio(f, os.Stdout, os.Stderr))
	} else {
		prompter = selector.NewLinePrompter(in, out)
	}

	return selector.Select(forms, prompter, out)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the root command and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, terminal.InterruptErr) || errors.Is(err, context.Canceled):
		logger.Warn("Run interrupted", nil)
		fmt.Fprintln(stderr, "Interrupted")
		return ExitInterrupted
	default:
		logger.Error("Run failed", nil, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}
