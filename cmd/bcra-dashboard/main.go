package main

import (
	"fmt"
	"os"

	"github.com/diillson/bcra-dashboard-go/internal/adapter/driven/bcra"
	"github.com/diillson/bcra-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/bcra-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/bcra-dashboard-go/internal/adapter/driven/publish"
	"github.com/diillson/bcra-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/bcra-dashboard-go/internal/application/usecase"
	"github.com/diillson/bcra-dashboard-go/pkg/console"
	"github.com/diillson/bcra-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	configRepo := config.NewConfigRepository()
	publishRepo := publish.NewS3Publisher()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	dashboardUseCase := usecase.NewDashboardUseCase(
		bcra.NewStatsRepositoryFromArgs,
		export.NewExportRepository,
		configRepo,
		publishRepo,
		consoleImpl,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetDashboardUseCase(dashboardUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
