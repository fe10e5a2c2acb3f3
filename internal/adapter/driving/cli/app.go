package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/diillson/bcra-dashboard-go/internal/application/usecase"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/diillson/bcra-dashboard-go/pkg/version"
	"github.com/spf13/cobra"
)

const (
	defaultDays        = 90
	defaultConcurrency = 4
	defaultReportName  = "bcra_dashboard"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "bcra-dashboard",
		Short:         "BCRA economic indicators dashboard CLI",
		Version:       formattedVersion,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "BCRA Dashboard version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", "", "Path to a .env file (default: .env when present)")
	flags.IntSliceP("variables", "v", nil, "BCRA variable ids to fetch (comma-separated, default: reservas, tipo de cambio, tasas, base monetaria)")
	flags.IntP("days", "t", defaultDays, "Query window in days ending today")
	flags.Int("concurrency", defaultConcurrency, "Number of variables fetched at once")
	flags.Bool("dedupe", true, "Keep only the last observation for repeated dates")
	flags.String("base-url", "", "Base URL of the BCRA statistics API")
	flags.Bool("insecure", true, "Skip TLS certificate verification (the BCRA chain is often incomplete)")
	flags.Int("timeout", 0, "HTTP timeout in seconds (default: 30)")
	flags.String("user-agent", "", "User-Agent header sent to the API")
	flags.StringP("report-name", "n", defaultReportName, "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, xlsx, pdf, sqlite")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("data-dir", "", "Directory for the per-variable CSV files (default: <dir>/data)")
	flags.Bool("timestamp", false, "Append a timestamp to exported file names")
	flags.Bool("trend", false, "Display the latest values of each variable as bars")
	flags.String("publish-bucket", "", "S3 bucket to upload the exported files to")
	flags.String("publish-prefix", "", "Key prefix for uploaded files")
	flags.String("publish-region", "", "AWS region of the publish bucket")
	flags.String("publish-profile", "", "AWS profile used to publish")

	variablesCmd := &cobra.Command{
		Use:   "variables",
		Short: "List the variables published by the BCRA statistics API",
		Args:  cobra.NoArgs,
		RunE:  app.runVariables,
	}
	variablesCmd.Flags().Int("limit", 0, "Show at most this many variables (0 shows all)")

	seriesCmd := &cobra.Command{
		Use:   "series <id>",
		Short: "Fetch a single variable, show its latest values and write its CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runSeries,
	}

	rootCmd.AddCommand(variablesCmd, seriesCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	f := cmd.Flags()
	configFile, _ := f.GetString("config-file")
	ids, _ := f.GetIntSlice("variables")
	days, _ := f.GetInt("days")
	concurrency, _ := f.GetInt("concurrency")
	dedupe, _ := f.GetBool("dedupe")
	baseURL, _ := f.GetString("base-url")
	insecure, _ := f.GetBool("insecure")
	timeout, _ := f.GetInt("timeout")
	userAgent, _ := f.GetString("user-agent")
	reportName, _ := f.GetString("report-name")
	reportType, _ := f.GetStringSlice("report-type")
	dir, _ := f.GetString("dir")
	dataDir, _ := f.GetString("data-dir")
	timestamp, _ := f.GetBool("timestamp")
	trend, _ := f.GetBool("trend")
	bucket, _ := f.GetString("publish-bucket")
	prefix, _ := f.GetString("publish-prefix")
	region, _ := f.GetString("publish-region")
	profile, _ := f.GetString("publish-profile")

	if days < 0 {
		return nil, fmt.Errorf("--days must not be negative, got %d", days)
	}

	variables := make([]entity.Indicator, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("invalid variable id %d", id)
		}
		variables = append(variables, entity.Indicator{ID: id})
	}

	args := &types.CLIArgs{
		ConfigFile:         configFile,
		BaseURL:            baseURL,
		InsecureSkipVerify: insecure,
		TimeoutSeconds:     timeout,
		UserAgent:          userAgent,
		Days:               days,
		Concurrency:        concurrency,
		DedupeDates:        dedupe,
		Variables:          variables,
		ReportName:         reportName,
		ReportType:         reportType,
		Dir:                dir,
		DataDir:            dataDir,
		TimestampFiles:     timestamp,
		Trend:              trend,
		Publish: types.PublishConfig{
			Bucket:  bucket,
			Prefix:  prefix,
			Region:  region,
			Profile: profile,
		},
	}

	return args, nil
}

// resolveArgs aplica arquivo de configuração e ambiente sobre as flags.
// Precedência: padrões < arquivo < ambiente < flags informadas.
func (app *CLIApp) resolveArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	args, err := app.parseArgs(cmd)
	if err != nil {
		return nil, err
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	fileCfg, envCfg, err := app.dashboardUseCase.LoadConfig(args.ConfigFile, envFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	mergeConfig(args, fileCfg, changed)
	mergeConfig(args, envCfg, changed)

	return finalizeArgs(args)
}

// mergeConfig copia os valores definidos em cfg para args, exceto os de flags informadas.
func mergeConfig(args *types.CLIArgs, cfg *types.Config, changed func(string) bool) {
	if cfg == nil {
		return
	}

	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setInt := func(flag string, dst *int, v int) {
		if v > 0 && !changed(flag) {
			*dst = v
		}
	}

	setString("base-url", &args.BaseURL, cfg.BaseURL)
	setString("user-agent", &args.UserAgent, cfg.UserAgent)
	setString("report-name", &args.ReportName, cfg.ReportName)
	setString("dir", &args.Dir, cfg.Dir)
	setString("data-dir", &args.DataDir, cfg.DataDir)
	setString("publish-bucket", &args.Publish.Bucket, cfg.Publish.Bucket)
	setString("publish-prefix", &args.Publish.Prefix, cfg.Publish.Prefix)
	setString("publish-region", &args.Publish.Region, cfg.Publish.Region)
	setString("publish-profile", &args.Publish.Profile, cfg.Publish.Profile)

	setInt("timeout", &args.TimeoutSeconds, cfg.TimeoutSeconds)
	setInt("days", &args.Days, cfg.Days)
	setInt("concurrency", &args.Concurrency, cfg.Concurrency)

	if cfg.InsecureSkipVerify != nil && !changed("insecure") {
		args.InsecureSkipVerify = *cfg.InsecureSkipVerify
	}
	if cfg.DedupeDates != nil && !changed("dedupe") {
		args.DedupeDates = *cfg.DedupeDates
	}
	if cfg.TimestampFiles && !changed("timestamp") {
		args.TimestampFiles = true
	}
	if cfg.Trend && !changed("trend") {
		args.Trend = true
	}
	if len(cfg.ReportType) > 0 && !changed("report-type") {
		args.ReportType = cfg.ReportType
	}
	if len(cfg.Variables) > 0 && !changed("variables") {
		args.Variables = cfg.Variables
	}
}

// finalizeArgs preenche os padrões que dependem do resultado da mesclagem.
func finalizeArgs(args *types.CLIArgs) (*types.CLIArgs, error) {
	if len(args.Variables) == 0 {
		args.Variables = entity.DefaultIndicators()
	} else {
		args.Variables = completeIndicators(args.Variables)
	}

	// Set default directory to current working directory if not specified
	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		args.Dir = cwd
	} else {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	if args.DataDir != "" {
		absDir, err := filepath.Abs(args.DataDir)
		if err != nil {
			return nil, err
		}
		args.DataDir = absDir
	}

	return args, nil
}

// completeIndicators fills name, unit and file of well-known variables given only by id.
func completeIndicators(indicators []entity.Indicator) []entity.Indicator {
	known := map[int]entity.Indicator{}
	for _, ind := range entity.DefaultIndicators() {
		known[ind.ID] = ind
	}

	out := make([]entity.Indicator, 0, len(indicators))
	for _, ind := range indicators {
		def, ok := known[ind.ID]
		if ok {
			if ind.Name == "" {
				ind.Name = def.Name
			}
			if ind.Unit == "" {
				ind.Unit = def.Unit
			}
			if ind.File == "" {
				ind.File = def.File
			}
		}
		out = append(out, ind)
	}
	return out
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go checkLatestVersion(app.version)

	cliArgs, err := app.resolveArgs(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.dashboardUseCase.RunDashboard(ctx, cliArgs)
}

func (app *CLIApp) runVariables(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.resolveArgs(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.dashboardUseCase.RunVariables(ctx, cliArgs, limit)
}

func (app *CLIApp) runSeries(cmd *cobra.Command, posArgs []string) error {
	id, err := strconv.Atoi(posArgs[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid variable id %q", posArgs[0])
	}

	cliArgs, err := app.resolveArgs(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.dashboardUseCase.RunSeries(ctx, cliArgs, id)
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}
