package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diillson/aws-org-monitor-go/internal/application/usecase"
	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/diillson/aws-org-monitor-go/internal/domain/repository"
	"github.com/diillson/aws-org-monitor-go/internal/shared/types"
	"github.com/diillson/aws-org-monitor-go/pkg/version"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd        *cobra.Command
	monitorUseCase *usecase.MonitorUseCase
	configRepo     repository.ConfigRepository
	version        string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "aws-org-monitor",
		Short:   "AWS organization cost and usage monitor",
		Version: formattedVersion,
		RunE:    app.runCosts, // sem subcomando, o relatório de custos é o padrão
	}

	// Personaliza a template para incluir mais informações de versão
	rootCmd.SetVersionTemplate(`{{printf "AWS Org Monitor version: %s\n" .Version}}`)

	// Flags compartilhadas por todos os comandos
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringSliceP("profiles", "p", nil, "Specific AWS profiles to use (comma-separated)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "AWS regions to collect telemetry from (comma-separated)")
	rootCmd.PersistentFlags().BoolP("all", "a", false, "Use all available AWS profiles")
	rootCmd.PersistentFlags().BoolP("combine", "c", false, "Combine profiles from the same AWS account")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().IntP("time-range", "t", 0, "Time range for cost data in days (default: current month)")
	rootCmd.PersistentFlags().StringSliceP("tag", "g", nil, "Cost allocation tag to filter costs, e.g., --tag Team=DevOps")

	costsCmd := &cobra.Command{
		Use:   "costs",
		Short: "Cost report by account and service (the default command)",
		RunE:  app.runCosts,
	}

	anomaliesCmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Scan current spend for deviations from the historical baseline",
		RunE:  app.runAnomalies,
	}
	anomaliesCmd.Flags().Float64("threshold", entity.DefaultDeviationThresholdPercent, "Deviation threshold as a percentage of the baseline mean")
	anomaliesCmd.Flags().Int("baseline-window", entity.DefaultBaselineWindowDays, "Days of history used to build the baselines")
	anomaliesCmd.Flags().Int("min-buckets", entity.DefaultMinimumBaselineBuckets, "Minimum daily buckets required for a usable baseline")
	anomaliesCmd.Flags().Bool("include-usage", false, "Score CloudWatch usage metrics alongside costs")

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Usage metrics summary for EC2, Lambda, RDS, ALB, logs and S3",
		RunE:  app.runUsage,
	}
	usageCmd.Flags().Int("hours", 24, "Hours of usage history to collect")

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Daily spend trajectory with moving averages and a forecast",
		RunE:  app.runTrends,
	}
	trendsCmd.Flags().Int("trend-days", 30, "Days of daily spend used for the trend analysis")

	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Resource inventory discovered through the tagging API",
		RunE:  app.runInventory,
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the organization accounts visible to each profile",
		RunE:  app.runAccounts,
	}

	rootCmd.AddCommand(costsCmd, anomaliesCmd, usageCmd, trendsCmd, inventoryCmd, accountsCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct. O cmd
// recebido enxerga as flags persistentes e as locais do subcomando.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profiles, _ := flags.GetStringSlice("profiles")
	regions, _ := flags.GetStringSlice("regions")
	all, _ := flags.GetBool("all")
	combine, _ := flags.GetBool("combine")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	timeRange, _ := flags.GetInt("time-range")
	tag, _ := flags.GetStringSlice("tag")

	// Flags locais; nos comandos que não as declaram o valor fica zero
	threshold, _ := flags.GetFloat64("threshold")
	baselineWindow, _ := flags.GetInt("baseline-window")
	minBuckets, _ := flags.GetInt("min-buckets")
	includeUsage, _ := flags.GetBool("include-usage")
	trendDays, _ := flags.GetInt("trend-days")
	usageHours, _ := flags.GetInt("hours")

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		// Convert to absolute path
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	timeRangePtr := &timeRange
	if timeRange == 0 {
		timeRangePtr = nil
	}

	args := &types.CLIArgs{
		ConfigFile:                configFile,
		Profiles:                  profiles,
		Regions:                   regions,
		All:                       all,
		Combine:                   combine,
		ReportName:                reportName,
		ReportType:                reportType,
		Dir:                       dir,
		TimeRange:                 timeRangePtr,
		Tag:                       tag,
		DeviationThresholdPercent: threshold,
		BaselineWindowDays:        baselineWindow,
		MinimumBaselineBuckets:    minBuckets,
		IncludeUsage:              includeUsage,
		TrendDays:                 trendDays,
		UsageHours:                usageHours,
	}

	if args.ConfigFile != "" {
		if err := app.applyConfigFile(cmd, args); err != nil {
			return nil, err
		}
	}

	return args, nil
}

// applyConfigFile mescla o arquivo de configuração nos argumentos. Flags
// informadas explicitamente na linha de comando têm precedência sobre o
// arquivo.
func (app *CLIApp) applyConfigFile(cmd *cobra.Command, args *types.CLIArgs) error {
	cfg, err := app.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}

	flags := cmd.Flags()

	if !flags.Changed("profiles") && len(cfg.Profiles) > 0 {
		args.Profiles = cfg.Profiles
	}
	if !flags.Changed("regions") && len(cfg.Regions) > 0 {
		args.Regions = cfg.Regions
	}
	if !flags.Changed("combine") && cfg.Combine {
		args.Combine = true
	}
	if !flags.Changed("report-name") && cfg.ReportName != "" {
		args.ReportName = cfg.ReportName
	}
	if !flags.Changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !flags.Changed("dir") && cfg.Dir != "" {
		absDir, err := filepath.Abs(cfg.Dir)
		if err != nil {
			return err
		}
		args.Dir = absDir
	}
	if !flags.Changed("time-range") && cfg.TimeRange > 0 {
		timeRange := cfg.TimeRange
		args.TimeRange = &timeRange
	}
	if !flags.Changed("tag") && len(cfg.Tag) > 0 {
		args.Tag = cfg.Tag
	}
	if !flags.Changed("threshold") && cfg.DeviationThresholdPercent != 0 {
		args.DeviationThresholdPercent = cfg.DeviationThresholdPercent
	}
	if !flags.Changed("baseline-window") && cfg.BaselineWindowDays != 0 {
		args.BaselineWindowDays = cfg.BaselineWindowDays
	}
	if !flags.Changed("min-buckets") && cfg.MinimumBaselineBuckets != 0 {
		args.MinimumBaselineBuckets = cfg.MinimumBaselineBuckets
	}
	if !flags.Changed("trend-days") && cfg.TrendDays != 0 {
		args.TrendDays = cfg.TrendDays
	}
	if !flags.Changed("hours") && cfg.UsageHours != 0 {
		args.UsageHours = cfg.UsageHours
	}

	return nil
}

// run é o ponto de entrada comum dos comandos: banner, checagem de versão,
// parsing e despacho para o caso de uso.
func (app *CLIApp) run(cmd *cobra.Command, fn func(context.Context, *types.CLIArgs) error) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return fn(ctx, cliArgs)
}

func (app *CLIApp) runCosts(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunCostReport)
}

func (app *CLIApp) runAnomalies(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunAnomalyScan)
}

func (app *CLIApp) runUsage(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunUsageReport)
}

func (app *CLIApp) runTrends(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunTrendAnalysis)
}

func (app *CLIApp) runInventory(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunInventoryReport)
}

func (app *CLIApp) runAccounts(cmd *cobra.Command, args []string) error {
	return app.run(cmd, app.monitorUseCase.RunAccountsReport)
}

// SetMonitorUseCase sets the monitor use case for the CLI app.
func (app *CLIApp) SetMonitorUseCase(useCase *usecase.MonitorUseCase) {
	app.monitorUseCase = useCase
}

// SetConfigRepository sets the repository used to load configuration files.
func (app *CLIApp) SetConfigRepository(repo repository.ConfigRepository) {
	app.configRepo = repo
}
