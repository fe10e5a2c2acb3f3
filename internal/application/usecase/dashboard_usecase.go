package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

const (
	reportInputName = "report"
	trendPoints     = 12
	previewRows     = 10
)

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	newStatsRepo  repository.StatsRepositoryFactory
	newExportRepo repository.ExportRepositoryFactory
	configRepo    repository.ConfigRepository
	publishRepo   repository.PublishRepository
	console       types.ConsoleInterface
	now           func() time.Time
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	newStatsRepo repository.StatsRepositoryFactory,
	newExportRepo repository.ExportRepositoryFactory,
	configRepo repository.ConfigRepository,
	publishRepo repository.PublishRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		newStatsRepo:  newStatsRepo,
		newExportRepo: newExportRepo,
		configRepo:    configRepo,
		publishRepo:   publishRepo,
		console:       console,
		now:           time.Now,
	}
}

// LoadConfig carrega o arquivo de configuração e as variáveis de ambiente.
// O arquivo é opcional; envFile vazio usa ".env" quando existir.
func (uc *DashboardUseCase) LoadConfig(configFile, envFile string) (*types.Config, *types.Config, error) {
	var fileCfg *types.Config
	if configFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, nil, err
		}
		fileCfg = cfg
	}

	envCfg, err := uc.configRepo.LoadEnvironment(envFile)
	if err != nil {
		return nil, nil, err
	}
	return fileCfg, envCfg, nil
}

// RunDashboard executa a funcionalidade principal do dashboard.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	if len(args.Variables) == 0 {
		return types.ErrNoVariables
	}

	window, err := entity.NewQueryWindow(uc.now(), args.Days)
	if err != nil {
		return err
	}

	statsRepo, err := uc.newStatsRepo(args)
	if err != nil {
		return err
	}
	defer statsRepo.Close()

	indicators := uc.resolveIndicators(ctx, statsRepo, args.Variables)
	uc.console.LogInfo("Fetching %d variables from %s", len(indicators), window)

	seriesUseCase := NewSeriesUseCase(statsRepo, uc.console, SeriesOptions{
		Concurrency: args.Concurrency,
		Dedupe:      args.DedupeDates,
	})
	results := seriesUseCase.FetchMany(ctx, entity.IndicatorIDs(indicators), window)

	data := uc.collect(indicators, results)
	uc.console.Print(uc.summaryTable(indicators, results).Render())

	if args.Trend {
		for _, item := range data {
			uc.console.DisplaySeriesBars(item.Indicator.Name, trendSeries(item.Series, trendPoints))
		}
	}

	if len(data) == 0 {
		uc.console.LogWarning("No data retrieved for any variable, report not generated")
		return nil
	}

	exportRepo := uc.newExportRepo(args.TimestampFiles)
	report := BuildReport(data, window, uc.now())
	written := []string{}

	reportPath, err := exportRepo.ExportReportInput(report, reportInputName, args.Dir)
	if err != nil {
		uc.console.LogError("Failed to export report input: %s", err)
	} else {
		uc.console.LogSuccess("Successfully exported report input: %s", reportPath)
		written = append(written, reportPath)
	}

	paths, err := uc.exportReports(ctx, exportRepo, data, window, args)
	written = append(written, paths...)
	if err != nil {
		uc.console.LogError("Some exports failed: %s", err)
	}

	uc.publish(ctx, args.Publish, written)
	return nil
}

// RunVariables lista as variáveis publicadas pela API.
func (uc *DashboardUseCase) RunVariables(ctx context.Context, args *types.CLIArgs, limit int) error {
	statsRepo, err := uc.newStatsRepo(args)
	if err != nil {
		return err
	}
	defer statsRepo.Close()

	status := uc.console.Status("Fetching variable list...")
	variables, err := statsRepo.ListVariables(ctx)
	status.Stop()
	if err != nil {
		return fmt.Errorf("listing variables: %w", err)
	}

	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Short Name")
	table.AddColumn("Description")
	table.AddColumn("Unit")

	for i, v := range variables {
		if limit > 0 && i >= limit {
			break
		}
		table.AddRow(v.ID, v.ShortName, v.Description, v.Unit)
	}

	uc.console.Print(table.Render())
	uc.console.LogInfo("%d variables available", len(variables))
	return nil
}

// RunSeries busca uma única variável, mostra as últimas observações e grava o CSV.
func (uc *DashboardUseCase) RunSeries(ctx context.Context, args *types.CLIArgs, id int) error {
	window, err := entity.NewQueryWindow(uc.now(), args.Days)
	if err != nil {
		return err
	}

	statsRepo, err := uc.newStatsRepo(args)
	if err != nil {
		return err
	}
	defer statsRepo.Close()

	indicator := uc.resolveIndicators(ctx, statsRepo, []entity.Indicator{indicatorFor(args.Variables, id)})[0]

	status := uc.console.Status(fmt.Sprintf("Fetching %s...", indicator.Name))
	series, err := statsRepo.GetSeries(ctx, id, window)
	status.Stop()
	if err != nil {
		return fmt.Errorf("fetching variable %d: %w", id, err)
	}
	if args.DedupeDates {
		series = series.Deduplicate()
	}

	if series.IsEmpty() {
		uc.console.LogWarning("No data for %s between %s", indicator.Name, window)
		return nil
	}

	table := uc.console.CreateTable()
	table.AddColumn("fecha")
	table.AddColumn("valor")
	start := series.Len() - previewRows
	if start < 0 {
		start = 0
	}
	for _, obs := range series.Observations[start:] {
		table.AddRow(obs.Date.String(), FormatValue(obs.Value, indicator.Unit))
	}
	uc.console.Println(pterm.FgCyan.Sprintf("%s (%s)", indicator.Name, indicator.Unit))
	uc.console.Print(table.Render())

	if args.Trend {
		uc.console.DisplaySeriesBars(indicator.Name, trendSeries(series, trendPoints))
	}

	csvPath, err := uc.newExportRepo(args.TimestampFiles).ExportSeriesToCSV(series, indicator.File, dataDir(args))
	if err != nil {
		return fmt.Errorf("exporting variable %d: %w", id, err)
	}
	uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
	return nil
}

// resolveIndicators completa nome e unidade das variáveis sem rótulo usando a metodologia.
func (uc *DashboardUseCase) resolveIndicators(ctx context.Context, statsRepo repository.StatsRepository, indicators []entity.Indicator) []entity.Indicator {
	out := make([]entity.Indicator, 0, len(indicators))
	for _, ind := range indicators {
		if ind.File == "" {
			ind.File = fmt.Sprintf("variable_%d", ind.ID)
		}
		if ind.Name != "" {
			out = append(out, ind)
			continue
		}

		v, err := statsRepo.GetVariable(ctx, ind.ID)
		if err != nil {
			uc.console.LogWarning("Could not resolve metadata for variable %d: %s", ind.ID, err)
			ind.Name = fmt.Sprintf("Variable %d", ind.ID)
			out = append(out, ind)
			continue
		}
		ind.Name = v.Description
		if v.ShortName != "" {
			ind.Name = v.ShortName
		}
		if ind.Unit == "" {
			ind.Unit = v.Unit
		}
		out = append(out, ind)
	}
	return out
}

// collect keeps the non-empty successful series in configuration order.
func (uc *DashboardUseCase) collect(indicators []entity.Indicator, results entity.ResultMap) []entity.IndicatorSeries {
	data := []entity.IndicatorSeries{}
	seen := map[int]bool{}
	for _, ind := range indicators {
		if seen[ind.ID] {
			continue
		}
		seen[ind.ID] = true

		res, ok := results[ind.ID]
		if !ok || !res.OK() {
			continue
		}
		if res.Series.IsEmpty() {
			uc.console.LogWarning("No data for %s (variable %d)", ind.Name, ind.ID)
			continue
		}
		data = append(data, entity.IndicatorSeries{Indicator: ind, Series: res.Series})
	}
	return data
}

func (uc *DashboardUseCase) summaryTable(indicators []entity.Indicator, results entity.ResultMap) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Variable")
	table.AddColumn("Unit")
	table.AddColumn("Observations")
	table.AddColumn("Last Date")
	table.AddColumn("Last Value")
	table.AddColumn("Status")

	seen := map[int]bool{}
	for _, ind := range indicators {
		if seen[ind.ID] {
			continue
		}
		seen[ind.ID] = true

		res := results[ind.ID]
		status := pterm.FgGreen.Sprint("OK")
		lastDate := "-"
		switch {
		case !res.OK():
			status = pterm.FgRed.Sprintf("Error: %s", errorKind(res.Err))
		case res.Series.IsEmpty():
			status = pterm.FgYellow.Sprint("No data")
		default:
			lastDate = res.Series.Observations[res.Series.Len()-1].Date.String()
		}

		table.AddRow(
			ind.ID,
			pterm.FgMagenta.Sprint(ind.Name),
			ind.Unit,
			res.Series.Len(),
			lastDate,
			FormatValue(res.Series.Latest(), ind.Unit),
			status,
		)
	}
	return table
}

// exportReports grava os formatos pedidos. Uma falha não impede os demais formatos.
func (uc *DashboardUseCase) exportReports(
	ctx context.Context,
	exportRepo repository.ExportRepository,
	data []entity.IndicatorSeries,
	window entity.QueryWindow,
	args *types.CLIArgs,
) ([]string, error) {
	var written []string
	var errs []error

	record := func(kind, path string, err error) {
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", kind, err)
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			return
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", kind, path)
		written = append(written, path)
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			for _, item := range data {
				path, err := exportRepo.ExportSeriesToCSV(item.Series, item.Indicator.File, dataDir(args))
				record("CSV", path, err)
			}
		case "json":
			path, err := exportRepo.ExportToJSON(data, args.ReportName, args.Dir)
			record("JSON", path, err)
		case "xlsx":
			path, err := exportRepo.ExportToXLSX(data, args.ReportName, args.Dir)
			record("XLSX", path, err)
		case "pdf":
			path, err := exportRepo.ExportToPDF(data, window, args.ReportName, args.Dir)
			record("PDF", path, err)
		case "sqlite":
			path, err := exportRepo.ExportToSQLite(ctx, data, args.ReportName, args.Dir)
			record("SQLite", path, err)
		default:
			err := fmt.Errorf("%w: %q", types.ErrUnsupportedReportType, reportType)
			uc.console.LogError("%s", err)
			errs = append(errs, err)
		}
	}

	return written, errors.Join(errs...)
}

func (uc *DashboardUseCase) publish(ctx context.Context, target types.PublishConfig, paths []string) {
	if target.Bucket == "" || uc.publishRepo == nil || len(paths) == 0 {
		return
	}

	status := uc.console.Status(fmt.Sprintf("Publishing %d files to s3://%s...", len(paths), target.Bucket))
	uris, err := uc.publishRepo.Publish(ctx, target, paths)
	status.Stop()

	for _, uri := range uris {
		uc.console.LogSuccess("Published %s", uri)
	}
	if err != nil {
		uc.console.LogError("Failed to publish exports: %s", err)
	}
}

func indicatorFor(configured []entity.Indicator, id int) entity.Indicator {
	for _, ind := range configured {
		if ind.ID == id {
			return ind
		}
	}
	for _, ind := range entity.DefaultIndicators() {
		if ind.ID == id {
			return ind
		}
	}
	return entity.Indicator{ID: id}
}

func dataDir(args *types.CLIArgs) string {
	if args.DataDir != "" {
		return args.DataDir
	}
	return filepath.Join(args.Dir, "data")
}

// trendSeries returns the last n non-null points of s for the bar display.
func trendSeries(s entity.TimeSeries, n int) []types.SeriesPoint {
	points := []types.SeriesPoint{}
	for _, obs := range s.Observations {
		if !obs.Value.Valid {
			continue
		}
		points = append(points, types.SeriesPoint{
			Label: obs.Date.String(),
			Value: obs.Value.Decimal.InexactFloat64(),
		})
	}
	if len(points) > n {
		points = points[len(points)-n:]
	}
	return points
}
