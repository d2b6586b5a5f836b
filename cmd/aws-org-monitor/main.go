package main

import (
	"fmt"
	"os"

	"github.com/diillson/aws-org-monitor-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-org-monitor-go/internal/adapter/driven/config"
	"github.com/diillson/aws-org-monitor-go/internal/adapter/driven/export"
	"github.com/diillson/aws-org-monitor-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-org-monitor-go/internal/application/usecase"
	"github.com/diillson/aws-org-monitor-go/pkg/console"
	"github.com/diillson/aws-org-monitor-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	telemetryRepo := aws.NewTelemetryRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	monitorUseCase := usecase.NewMonitorUseCase(
		telemetryRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)

	// Define o caso de uso e o repositório de configuração no aplicativo CLI
	app.SetMonitorUseCase(monitorUseCase)
	app.SetConfigRepository(configRepo)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
