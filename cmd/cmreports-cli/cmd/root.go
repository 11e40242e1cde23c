package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"cmreports/internal/components/chrono"
	"cmreports/internal/components/telemetry"
	"cmreports/internal/config"
	"cmreports/internal/reports"
	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/internal/service"
	"cmreports/pkg/serviceutil"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var (
	serverUrl  string
	configPath string
	verbose    bool
	format     string
	dumpDir    string
)

// handler is resolved before every command, either a connect client of a
// running cmreports-server or a local session against CM.
var handler service.ReportServiceHandler

// newHandler is replaced in tests.
var newHandler = func(ctx context.Context) (service.ReportServiceHandler, error) {
	if serverUrl != "" {
		return service.NewReportServiceClient(
			http.DefaultClient,
			serverUrl,
			connect.WithInterceptors(
				serviceutil.ProvideAccessTokenInterceptor(os.Getenv("CMREPORTS_ACCESS_TOKEN")),
			),
		), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if dumpDir != "" {
		cfg.Site.DumpDir = dumpDir
	}
	client, err := cargamaquina.NewClient(cfg.Site, telemetry.SlogAPI{})
	if err != nil {
		return nil, err
	}
	err = client.Login(ctx, cfg.Credentials.Username, cfg.Credentials.Password)
	if err != nil {
		return nil, err
	}
	clock, err := chrono.NewStandardImpl()
	if err != nil {
		return nil, err
	}
	svc := service.NewService(
		client,
		service.WithChrono(clock),
		service.WithWindow(cfg.Window),
		service.WithStandaloneTimeout(cfg.StandaloneTimeout()),
	)
	return service.NewConnectController(svc), nil
}

var rootCmd = &cobra.Command{
	Use:           "cmreports-cli",
	Short:         "cmreports-cli prints the CM sales, production and materials reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		var err error
		handler, err = newHandler(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverUrl, "server", os.Getenv("CMREPORTS_SERVER_URL"), "Base url of a cmreports-server, scrapes CM directly when empty.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the json5 config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
	rootCmd.PersistentFlags().StringVar(&format, "format", string(reports.FormatTable), "Output format: table, csv or json.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump", "", "Directory that receives a text dump of every CM request and response.")
}

// addDateFlags registers --from and --to on cmd, both YYYY-MM-DD.
func addDateFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "Start date (YYYY-MM-DD), defaults to 15 days ago.")
	cmd.Flags().StringVar(to, "to", "", "End date (YYYY-MM-DD), defaults to 90 days from today.")
}

func output(cmd *cobra.Command, value any, t reports.Tabular) error {
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	f, err := reports.ParseFormat(format)
	if err != nil {
		return err
	}
	reports.Render(cmd.OutOrStdout(), f, t)
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
