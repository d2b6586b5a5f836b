package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/diillson/aws-org-monitor-go/internal/domain/repository"
	"github.com/diillson/aws-org-monitor-go/internal/domain/service"
	"github.com/diillson/aws-org-monitor-go/internal/shared/types"
	"github.com/pterm/pterm"
)

// Valores usados quando a flag correspondente não foi informada.
const (
	defaultTrendDays  = 30
	defaultUsageHours = 24
)

// MonitorUseCase orquestra os relatórios de custo, anomalia, utilização e
// inventário da organização.
type MonitorUseCase struct {
	telemetryRepo repository.TelemetryRepository
	exportRepo    repository.ExportRepository
	configRepo    repository.ConfigRepository
	console       types.ConsoleInterface
	aggregator    *service.CostAggregator
}

// NewMonitorUseCase creates a new monitor use case.
func NewMonitorUseCase(
	telemetryRepo repository.TelemetryRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *MonitorUseCase {
	return &MonitorUseCase{
		telemetryRepo: telemetryRepo,
		exportRepo:    exportRepo,
		configRepo:    configRepo,
		console:       console,
		aggregator:    service.NewCostAggregator(),
	}
}

// InitializeProfiles determines which AWS profiles to use based on CLI args.
func (uc *MonitorUseCase) InitializeProfiles(args *types.CLIArgs) ([]string, []string, int, error) {
	availableProfiles := uc.telemetryRepo.GetAWSProfiles()
	if len(availableProfiles) == 0 {
		return nil, nil, 0, types.ErrNoProfilesFound
	}

	profilesToUse := []string{}

	if len(args.Profiles) > 0 {
		for _, profile := range args.Profiles {
			found := false
			for _, availProfile := range availableProfiles {
				if profile == availProfile {
					profilesToUse = append(profilesToUse, profile)
					found = true
					break
				}
			}
			if !found {
				uc.console.LogWarning("Profile '%s' not found in AWS configuration", profile)
			}
		}
		if len(profilesToUse) == 0 {
			return nil, nil, 0, types.ErrNoValidProfilesFound
		}
	} else if args.All {
		profilesToUse = availableProfiles
	} else {
		// Usa o perfil default quando existir
		defaultExists := false
		for _, profile := range availableProfiles {
			if profile == "default" {
				profilesToUse = []string{"default"}
				defaultExists = true
				break
			}
		}

		if !defaultExists {
			profilesToUse = availableProfiles
			uc.console.LogWarning("No default profile found. Using all available profiles.")
		}
	}

	var timeRange int
	if args.TimeRange != nil {
		timeRange = *args.TimeRange
	}

	return profilesToUse, args.Regions, timeRange, nil
}

// resolveGroups agrupa os perfis por conta AWS quando --combine está ativo.
// Sem combine, cada perfil vira um grupo de um elemento.
func (uc *MonitorUseCase) resolveGroups(ctx context.Context, profilesToUse []string, combine bool) []entity.ProfileGroup {
	if !combine {
		groups := make([]entity.ProfileGroup, 0, len(profilesToUse))
		for _, profile := range profilesToUse {
			accountID, err := uc.telemetryRepo.GetAccountID(ctx, profile)
			if err != nil {
				uc.console.LogError("Error checking account ID for profile %s: %s", profile, err)
				accountID = "Unknown"
			}
			groups = append(groups, entity.NewProfileGroup(accountID, []string{profile}))
		}
		return groups
	}

	accountProfiles := make(map[string][]string)
	var accountOrder []string

	for _, profile := range profilesToUse {
		accountID, err := uc.telemetryRepo.GetAccountID(ctx, profile)
		if err != nil {
			uc.console.LogError("Error checking account ID for profile %s: %s", profile, err)
			continue
		}
		if _, seen := accountProfiles[accountID]; !seen {
			accountOrder = append(accountOrder, accountID)
		}
		accountProfiles[accountID] = append(accountProfiles[accountID], profile)
	}

	groups := make([]entity.ProfileGroup, 0, len(accountOrder))
	for _, accountID := range accountOrder {
		groups = append(groups, entity.NewProfileGroup(accountID, accountProfiles[accountID]))
	}
	return groups
}

// resolveRegions usa as regiões informadas pelo usuário ou descobre as
// acessíveis para o perfil.
func (uc *MonitorUseCase) resolveRegions(ctx context.Context, profile string, userRegions []string) []string {
	if len(userRegions) > 0 {
		return userRegions
	}
	regions, err := uc.telemetryRepo.GetAccessibleRegions(ctx, profile)
	if err != nil {
		uc.console.LogWarning("Could not get accessible regions for profile %s: %s", profile, err)
		return []string{"us-east-1", "us-west-2", "eu-west-1"}
	}
	return regions
}

// costPeriods calcula as janelas do período atual e do anterior. Com
// timeRange > 0 compara os últimos N dias com os N dias anteriores; sem
// timeRange compara o mês corrente com o mês fechado anterior.
func costPeriods(timeRange int, now time.Time) (current, previous entity.TimeWindow, currentName, previousName string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if timeRange > 0 {
		current = entity.TimeWindow{Start: today.AddDate(0, 0, -timeRange), End: today}
		previous = entity.TimeWindow{Start: today.AddDate(0, 0, -2*timeRange), End: current.Start}
		currentName = fmt.Sprintf("Last %d days", timeRange)
		previousName = fmt.Sprintf("Previous %d days", timeRange)
		return current, previous, currentName, previousName
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	current = entity.TimeWindow{Start: monthStart, End: today}
	if !current.End.After(current.Start) {
		// Primeiro dia do mês: inclui o dia corrente parcial
		current.End = current.Start.AddDate(0, 0, 1)
	}
	previous = entity.TimeWindow{Start: monthStart.AddDate(0, -1, 0), End: monthStart}
	return current, previous, "Current month", "Last month"
}

// --- Relatório de Custos ---

// RunCostReport executa o relatório principal de custos por conta e serviço.
func (uc *MonitorUseCase) RunCostReport(ctx context.Context, args *types.CLIArgs) error {
	profilesToUse, _, timeRange, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	status := uc.console.Status("Initializing cost report...")

	currentWindow, previousWindow, currentName, previousName := costPeriods(timeRange, time.Now().UTC())
	currentDates := fmt.Sprintf("%s to %s", currentWindow.Start.Format("2006-01-02"), currentWindow.End.Format("2006-01-02"))
	previousDates := fmt.Sprintf("%s to %s", previousWindow.Start.Format("2006-01-02"), previousWindow.End.Format("2006-01-02"))

	table := uc.console.CreateTable()
	table.AddColumn("AWS Account Profile")
	table.AddColumn(fmt.Sprintf("%s\n(%s)", previousName, previousDates))
	table.AddColumn(fmt.Sprintf("%s\n(%s)", currentName, currentDates))
	table.AddColumn("Cost By Account/Service")
	table.AddColumn("Budget Status")
	table.AddColumn("Diagnostics")

	groups := uc.resolveGroups(ctx, profilesToUse, args.Combine)

	progressTotal := len(groups) * 5 // cinco etapas por grupo
	progress := uc.console.ProgressWithTotal(progressTotal)

	reports := make([]entity.CostReport, 0, len(groups))
	for _, group := range groups {
		status.Update(fmt.Sprintf("Processing %s...", group.Identifier))
		report := uc.buildCostReport(ctx, group, currentWindow, previousWindow, currentName, previousName, args.Tag, progress, status)
		reports = append(reports, report)
		uc.addCostReportToTable(table, report)
	}

	progress.Stop()
	status.Stop()

	uc.console.Print(table.Render())

	uc.exportCostReports(reports, args)
	return nil
}

// buildCostReport processa um grupo de perfis em cinco etapas, atualizando a
// barra de progresso a cada uma.
func (uc *MonitorUseCase) buildCostReport(
	ctx context.Context,
	group entity.ProfileGroup,
	currentWindow, previousWindow entity.TimeWindow,
	currentName, previousName string,
	tags []string,
	progress types.ProgressHandle,
	status types.StatusHandle,
) entity.CostReport {
	report := entity.CostReport{
		Profile:            group.Identifier,
		AccountID:          group.AccountID,
		CurrentPeriodName:  currentName,
		PreviousPeriodName: previousName,
		CurrentPeriodStart: currentWindow.Start,
		CurrentPeriodEnd:   currentWindow.End,
		Success:            false,
	}

	// O Cost Explorer enxerga a conta inteira, então um perfil do grupo basta
	primaryProfile := group.Profiles[0]

	skipRemaining := func(done int) {
		for i := done; i < 5; i++ {
			progress.Increment()
		}
	}

	// Etapa 1: custos do período atual
	status.Update(fmt.Sprintf("Getting current period costs for %s...", group.Identifier))
	currentRecords, err := uc.telemetryRepo.GetCostRecords(ctx, primaryProfile, currentWindow, tags)
	if err != nil {
		report.Error = err.Error()
		skipRemaining(0)
		return report
	}
	progress.Increment() // 1/5

	// Etapa 2: custos do período anterior
	status.Update(fmt.Sprintf("Getting previous period costs for %s...", group.Identifier))
	previousRecords, err := uc.telemetryRepo.GetCostRecords(ctx, primaryProfile, previousWindow, tags)
	if err != nil {
		report.Error = err.Error()
		skipRemaining(1)
		return report
	}
	progress.Increment() // 2/5

	// Etapa 3: agregação por conta e serviço
	status.Update(fmt.Sprintf("Aggregating costs for %s...", group.Identifier))
	breakdown, diagnostics := uc.aggregator.Aggregate(currentRecords, currentWindow)
	previousBreakdown, previousDiagnostics := uc.aggregator.Aggregate(previousRecords, previousWindow)
	report.Breakdown = breakdown
	report.CurrentTotal = breakdown.GrandTotal
	report.PreviousTotal = previousBreakdown.GrandTotal
	report.Diagnostics = append(diagnostics, previousDiagnostics...)
	report.ServicesFormatted = formatBreakdown(breakdown)
	progress.Increment() // 3/5

	// Etapa 4: orçamentos
	status.Update(fmt.Sprintf("Getting budgets for %s...", group.Identifier))
	budgets, err := uc.telemetryRepo.GetBudgets(ctx, primaryProfile)
	if err != nil {
		uc.console.LogWarning("Error getting budgets for %s: %s", group.Identifier, err)
	}
	report.Budgets = budgets
	report.BudgetsFormatted = formatBudgetInfo(budgets)
	progress.Increment() // 4/5

	// Etapa 5: variação percentual entre períodos
	status.Update(fmt.Sprintf("Processing data for %s...", group.Identifier))
	if report.PreviousTotal > 0.01 {
		change := ((report.CurrentTotal - report.PreviousTotal) / report.PreviousTotal) * 100.0
		report.PercentChange = &change
	} else if report.CurrentTotal < 0.01 {
		change := 0.0
		report.PercentChange = &change
	}
	progress.Increment() // 5/5

	report.Success = true
	return report
}

// addCostReportToTable adiciona um relatório à tabela de exibição.
func (uc *MonitorUseCase) addCostReportToTable(table types.TableInterface, report entity.CostReport) {
	if !report.Success {
		table.AddRow(
			pterm.FgMagenta.Sprintf("%s", report.Profile),
			pterm.FgRed.Sprint("Error"),
			pterm.FgRed.Sprint("Error"),
			pterm.FgRed.Sprintf("Failed to process profile: %s", report.Error),
			pterm.FgRed.Sprint("N/A"),
			pterm.FgRed.Sprint("N/A"),
		)
		return
	}

	changeText := ""
	if report.PercentChange != nil {
		if *report.PercentChange > 0 {
			changeText = fmt.Sprintf("\n\n%s", pterm.FgRed.Sprintf("⬆ %.2f%%", *report.PercentChange))
		} else if *report.PercentChange < 0 {
			changeText = fmt.Sprintf("\n\n%s", pterm.FgGreen.Sprintf("⬇ %.2f%%", math.Abs(*report.PercentChange)))
		} else {
			changeText = fmt.Sprintf("\n\n%s", pterm.FgYellow.Sprintf("➡ 0.00%%"))
		}
	}

	currentWithChange := fmt.Sprintf("%s%s",
		pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("$%.2f", report.CurrentTotal),
		changeText)

	diagnosticsText := "None"
	if n := len(report.Diagnostics); n > 0 {
		diagnosticsText = pterm.FgYellow.Sprintf("%d malformed record(s) skipped", n)
	}

	table.AddRow(
		pterm.FgMagenta.Sprintf("Profile: %s\nAccount: %s", report.Profile, report.AccountID),
		pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("$%.2f", report.PreviousTotal),
		currentWithChange,
		pterm.FgGreen.Sprintf("%s", strings.Join(report.ServicesFormatted, "\n")),
		pterm.FgYellow.Sprintf("%s", strings.Join(report.BudgetsFormatted, "\n\n")),
		diagnosticsText,
	)
}

func (uc *MonitorUseCase) exportCostReports(reports []entity.CostReport, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportCostReportToCSV(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportCostReportToJSON(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportCostReportToPDF(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("\nSuccessfully exported to PDF: %s", pdfPath)
			}
		}
	}
}

// --- Relatório de Anomalias ---

// analysisConfigFromArgs monta a configuração da análise a partir dos
// argumentos, preenchendo os campos não informados com os padrões.
func analysisConfigFromArgs(args *types.CLIArgs) entity.AnalysisConfig {
	cfg := entity.AnalysisConfig{
		DeviationThresholdPercent: args.DeviationThresholdPercent,
		BaselineWindowDays:        args.BaselineWindowDays,
		MinimumBaselineBuckets:    args.MinimumBaselineBuckets,
	}
	if cfg.BaselineWindowDays == 0 {
		cfg.BaselineWindowDays = entity.DefaultBaselineWindowDays
	}
	if cfg.MinimumBaselineBuckets == 0 {
		cfg.MinimumBaselineBuckets = entity.DefaultMinimumBaselineBuckets
	}
	return cfg
}

// RunAnomalyScan compara o gasto do último dia fechado com o histórico e
// reporta desvios acima do limiar configurado.
func (uc *MonitorUseCase) RunAnomalyScan(ctx context.Context, args *types.CLIArgs) error {
	// A configuração é validada antes de qualquer chamada à AWS
	cfg := analysisConfigFromArgs(args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	profilesToUse, _, _, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	uc.console.LogInfo("Scanning for spend anomalies (threshold: %.2f%%, baseline: %d days)...",
		cfg.DeviationThresholdPercent, cfg.BaselineWindowDays)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Janela atual: o último dia fechado. Baseline: os N dias anteriores.
	currentWindow := entity.TimeWindow{Start: today.AddDate(0, 0, -1), End: today}
	baselineWindow := entity.TimeWindow{Start: currentWindow.Start.AddDate(0, 0, -cfg.BaselineWindowDays), End: currentWindow.Start}

	builder := service.NewBaselineBuilder(cfg)
	scorer := service.NewAnomalyScorer(cfg)

	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Grouping Key")
	table.AddColumn("Category")
	table.AddColumn("Observed")
	table.AddColumn("Baseline Mean")
	table.AddColumn("Deviation")
	table.AddColumn("Severity")

	groups := uc.resolveGroups(ctx, profilesToUse, args.Combine)

	reports := make([]entity.AnomalyReport, 0, len(groups))
	for _, group := range groups {
		status := uc.console.Status(fmt.Sprintf("Scanning %s...", group.Identifier))
		report := uc.buildAnomalyReport(ctx, group, cfg, baselineWindow, currentWindow, builder, scorer, args, status)
		status.Stop()

		reports = append(reports, report)

		if !report.Success {
			uc.console.LogError("Failed to scan %s: %s", group.Identifier, report.Error)
			continue
		}

		uc.addFindingsToTable(table, report)

		if len(report.Diagnostics) > 0 {
			uc.console.LogWarning("%s: %d malformed record(s) skipped", group.Identifier, len(report.Diagnostics))
		}
	}

	uc.console.Print(table.Render())

	totalFindings := 0
	for _, report := range reports {
		totalFindings += len(report.Findings)
	}
	if totalFindings == 0 {
		uc.console.LogSuccess("No anomalies detected across %d account(s)", len(reports))
	} else {
		uc.console.LogWarning("%d finding(s) across %d account(s)", totalFindings, len(reports))
	}

	uc.exportAnomalyReports(reports, args)
	return nil
}

func (uc *MonitorUseCase) buildAnomalyReport(
	ctx context.Context,
	group entity.ProfileGroup,
	cfg entity.AnalysisConfig,
	baselineWindow, currentWindow entity.TimeWindow,
	builder *service.BaselineBuilder,
	scorer *service.AnomalyScorer,
	args *types.CLIArgs,
	status types.StatusHandle,
) entity.AnomalyReport {
	report := entity.AnomalyReport{
		Profile:        group.Identifier,
		AccountID:      group.AccountID,
		Config:         cfg,
		BaselineWindow: baselineWindow,
		CurrentWindow:  currentWindow,
		Success:        false,
	}

	primaryProfile := group.Profiles[0]

	status.Update(fmt.Sprintf("Getting baseline history for %s...", group.Identifier))
	history, err := uc.telemetryRepo.GetCostRecords(ctx, primaryProfile, baselineWindow, args.Tag)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	status.Update(fmt.Sprintf("Getting current spend for %s...", group.Identifier))
	currentRecords, err := uc.telemetryRepo.GetCostRecords(ctx, primaryProfile, currentWindow, args.Tag)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	status.Update(fmt.Sprintf("Building baselines for %s...", group.Identifier))
	baselines, baselineDiags := builder.Build(history, baselineWindow)

	breakdown, aggregateDiags := uc.aggregator.Aggregate(currentRecords, currentWindow)
	observations := breakdown.Observations()

	// Com --include-usage as métricas de utilização entram na mesma pontuação
	if args.IncludeUsage {
		status.Update(fmt.Sprintf("Collecting usage telemetry for %s...", group.Identifier))
		regions := uc.resolveRegions(ctx, primaryProfile, args.Regions)

		usageHistory, err := uc.telemetryRepo.GetUsageSamples(ctx, primaryProfile, regions, baselineWindow)
		if err != nil {
			uc.console.LogWarning("Error collecting usage history for %s: %s", group.Identifier, err)
		}
		usageCurrent, err := uc.telemetryRepo.GetUsageSamples(ctx, primaryProfile, regions, currentWindow)
		if err != nil {
			uc.console.LogWarning("Error collecting current usage for %s: %s", group.Identifier, err)
		}

		usageBaselines, usageDiags := builder.BuildFromUsage(usageHistory, baselineWindow)
		for key, baseline := range usageBaselines.Baselines {
			baselines.Baselines[key] = baseline
		}
		baselineDiags = append(baselineDiags, usageDiags...)

		// A observação é o total da janela corrente (um dia fechado), a mesma
		// soma diária em que as linhas de base foram construídas.
		usageObservations, usageObsDiags := service.UsageObservations(usageCurrent, currentWindow)
		observations = append(observations, usageObservations...)
		aggregateDiags = append(aggregateDiags, usageObsDiags...)
	}

	status.Update(fmt.Sprintf("Scoring observations for %s...", group.Identifier))
	findings, scoreDiags := scorer.Score(observations, baselines)

	report.BaselineKeys = baselines.Len()
	report.Findings = findings
	report.Diagnostics = append(append(baselineDiags, aggregateDiags...), scoreDiags...)
	report.Success = true
	return report
}

// addFindingsToTable adiciona os achados de um relatório à tabela global.
func (uc *MonitorUseCase) addFindingsToTable(table types.TableInterface, report entity.AnomalyReport) {
	if len(report.Findings) == 0 {
		table.AddRow(
			pterm.FgMagenta.Sprintf("%s", report.Profile),
			pterm.FgGreen.Sprint("No anomalies"),
			"", "", "", "", "",
		)
		return
	}

	for _, f := range report.Findings {
		var categoryText, deviationText, severityText string

		switch f.Category {
		case entity.CategoryDeviation:
			categoryText = pterm.FgRed.Sprint("deviation")
			deviationText = fmt.Sprintf("%+.2f%%", f.DeviationPercentage)
			if f.Severity == entity.SeverityHigh {
				severityText = pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("high")
			} else {
				severityText = pterm.FgYellow.Sprint("moderate")
			}
		case entity.CategoryNewSpend:
			categoryText = pterm.FgYellow.Sprint("new spend")
			deviationText = "N/A"
		case entity.CategoryNoBaseline:
			categoryText = pterm.FgCyan.Sprint("no baseline")
			deviationText = "N/A"
		}

		table.AddRow(
			pterm.FgMagenta.Sprintf("%s", report.Profile),
			f.GroupingKey,
			categoryText,
			fmt.Sprintf("$%.2f", f.ObservedValue),
			fmt.Sprintf("$%.2f", f.BaselineMean),
			deviationText,
			severityText,
		)
	}
}

func (uc *MonitorUseCase) exportAnomalyReports(reports []entity.AnomalyReport, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportAnomalyReportToCSV(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export anomaly report to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported anomaly report to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportAnomalyReportToJSON(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export anomaly report to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported anomaly report to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportAnomalyReportToPDF(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export anomaly report to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported anomaly report to PDF: %s", pdfPath)
			}
		}
	}
}

// --- Relatório de Utilização ---

// RunUsageReport coleta métricas de utilização das últimas horas e exibe um
// resumo por recurso e métrica.
func (uc *MonitorUseCase) RunUsageReport(ctx context.Context, args *types.CLIArgs) error {
	profilesToUse, userRegions, _, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	hours := args.UsageHours
	if hours == 0 {
		hours = defaultUsageHours
	}

	now := time.Now().UTC().Truncate(time.Hour)
	window := entity.TimeWindow{Start: now.Add(-time.Duration(hours) * time.Hour), End: now}

	uc.console.LogInfo("Collecting usage telemetry for the last %d hour(s)...", hours)

	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Resource")
	table.AddColumn("Metric")
	table.AddColumn("Average")
	table.AddColumn("Minimum")
	table.AddColumn("Maximum")
	table.AddColumn("Latest")
	table.AddColumn("Samples")

	reports := make([]entity.UsageReport, 0, len(profilesToUse))
	for _, profile := range profilesToUse {
		status := uc.console.Status(fmt.Sprintf("Collecting usage for %s...", profile))

		report := entity.UsageReport{Profile: profile, Window: window}

		accountID, err := uc.telemetryRepo.GetAccountID(ctx, profile)
		if err == nil {
			report.AccountID = accountID
		}

		regions := uc.resolveRegions(ctx, profile, userRegions)
		samples, err := uc.telemetryRepo.GetUsageSamples(ctx, profile, regions, window)
		status.Stop()
		if err != nil {
			report.Error = err.Error()
			reports = append(reports, report)
			uc.console.LogError("Failed to collect usage for %s: %s", profile, err)
			continue
		}

		report.Summaries = service.SummarizeUsage(samples)
		report.Success = true
		reports = append(reports, report)

		for _, s := range report.Summaries {
			table.AddRow(
				pterm.FgMagenta.Sprintf("%s", profile),
				s.ResourceID,
				s.MetricName,
				fmt.Sprintf("%.2f", s.Average),
				fmt.Sprintf("%.2f", s.Minimum),
				fmt.Sprintf("%.2f", s.Maximum),
				fmt.Sprintf("%.2f", s.Latest),
				fmt.Sprintf("%d", s.SampleCount),
			)
		}

		if len(report.Summaries) == 0 {
			uc.console.LogWarning("No usage samples found for profile %s", profile)
		}
	}

	uc.console.Print(table.Render())

	uc.exportUsageReports(reports, args)
	return nil
}

func (uc *MonitorUseCase) exportUsageReports(reports []entity.UsageReport, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportUsageReportToCSV(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export usage report to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported usage report to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportUsageReportToJSON(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export usage report to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported usage report to JSON: %s", jsonPath)
			}
		case "pdf":
			uc.console.LogWarning("PDF export is not available for usage reports")
		}
	}
}

// --- Análise de Tendência ---

// RunTrendAnalysis exibe a trajetória diária de gasto com médias móveis,
// direção e previsão para os próximos dias.
func (uc *MonitorUseCase) RunTrendAnalysis(ctx context.Context, args *types.CLIArgs) error {
	profilesToUse, _, _, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	days := args.TrendDays
	if days == 0 {
		days = defaultTrendDays
	}

	uc.console.LogInfo("Analysing cost trends over the last %d days...", days)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	window := entity.TimeWindow{Start: today.AddDate(0, 0, -days), End: today}

	groups := uc.resolveGroups(ctx, profilesToUse, args.Combine)

	for _, group := range groups {
		primaryProfile := group.Profiles[0]

		totals, err := uc.telemetryRepo.GetDailyTotals(ctx, primaryProfile, window, args.Tag)
		if err != nil {
			uc.console.LogError("Error getting trend for %s: %s", group.Identifier, err)
			continue
		}
		if len(totals) == 0 {
			uc.console.LogWarning("No trend data available for %s", group.Identifier)
			continue
		}

		trend := service.AnalyzeTrend(totals)
		trend.Profile = group.Identifier
		trend.AccountID = group.AccountID

		bars := make([]types.TrendBar, len(trend.Points))
		for i, p := range trend.Points {
			bars[i] = types.TrendBar{Label: p.Date.Format("2006-01-02"), Value: p.Cost}
		}

		uc.console.Printf("\n%s\n",
			pterm.FgYellow.Sprintf("Account: %s (Profiles: %s)", group.AccountID, strings.Join(group.Profiles, ", ")))
		uc.console.DisplayTrendBars(bars)

		uc.printTrendSummary(trend)
	}

	return nil
}

// printTrendSummary resume direção, variação e previsão da tendência.
func (uc *MonitorUseCase) printTrendSummary(trend entity.TrendReport) {
	var directionText string
	switch trend.Direction {
	case entity.TrendIncreasing:
		directionText = pterm.FgRed.Sprintf("⬆ increasing")
	case entity.TrendDecreasing:
		directionText = pterm.FgGreen.Sprintf("⬇ decreasing")
	default:
		directionText = pterm.FgYellow.Sprintf("➡ stable")
	}

	forecastTotal := 0.0
	for _, p := range trend.Forecast {
		forecastTotal += p.Cost
	}

	uc.console.Printf("Direction: %s  |  Change: %+.2f%%  |  Daily average: $%.2f\n",
		directionText, trend.ChangePercent, trend.AverageDaily)
	if len(trend.Forecast) > 0 {
		uc.console.Printf("Forecast (next %d days): $%.2f\n", len(trend.Forecast), forecastTotal)
	}
}

// --- Inventário de Recursos ---

// RunInventoryReport descobre os recursos das regiões através da API de
// tagging e resume por serviço.
func (uc *MonitorUseCase) RunInventoryReport(ctx context.Context, args *types.CLIArgs) error {
	profilesToUse, userRegions, _, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	uc.console.LogInfo("Building resource inventory...")

	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Service")
	table.AddColumn("Resources")
	table.AddColumn("Regions")

	reports := make([]entity.InventoryReport, 0, len(profilesToUse))
	for _, profile := range profilesToUse {
		status := uc.console.Status(fmt.Sprintf("Discovering resources for %s...", profile))

		report := entity.InventoryReport{Profile: profile}

		accountID, err := uc.telemetryRepo.GetAccountID(ctx, profile)
		if err == nil {
			report.AccountID = accountID
		}

		regions := uc.resolveRegions(ctx, profile, userRegions)
		resources, err := uc.telemetryRepo.GetResourceInventory(ctx, profile, regions)
		status.Stop()
		if err != nil {
			report.Error = err.Error()
			reports = append(reports, report)
			uc.console.LogError("Failed to build inventory for %s: %s", profile, err)
			continue
		}

		report.Resources = resources
		report.Summary = summarizeInventory(resources)
		report.Success = true
		reports = append(reports, report)

		// Linhas por serviço, do mais numeroso para o menos
		type serviceCount struct {
			service string
			count   int
		}
		counts := make([]serviceCount, 0, len(report.Summary.ByService))
		for svc, count := range report.Summary.ByService {
			counts = append(counts, serviceCount{svc, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].service < counts[j].service
		})

		for _, sc := range counts {
			regionSet := make(map[string]bool)
			for _, res := range resources {
				if res.Service == sc.service && res.Region != "" {
					regionSet[res.Region] = true
				}
			}
			regionList := make([]string, 0, len(regionSet))
			for region := range regionSet {
				regionList = append(regionList, region)
			}
			sort.Strings(regionList)

			table.AddRow(
				pterm.FgMagenta.Sprintf("%s", profile),
				sc.service,
				fmt.Sprintf("%d", sc.count),
				strings.Join(regionList, ", "),
			)
		}

		uc.console.LogInfo("%s: %d resource(s), %d untagged", profile, report.Summary.TotalResources, report.Summary.Untagged)
	}

	uc.console.Print(table.Render())

	uc.exportInventoryReports(reports, args)
	return nil
}

// summarizeInventory conta os recursos por serviço e região.
func summarizeInventory(resources []entity.ResourceInfo) entity.InventorySummary {
	summary := entity.InventorySummary{
		TotalResources: len(resources),
		ByService:      make(map[string]int),
		ByRegion:       make(map[string]int),
	}
	for _, res := range resources {
		summary.ByService[res.Service]++
		if res.Region != "" {
			summary.ByRegion[res.Region]++
		}
		if len(res.Tags) == 0 {
			summary.Untagged++
		}
	}
	return summary
}

func (uc *MonitorUseCase) exportInventoryReports(reports []entity.InventoryReport, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportInventoryToCSV(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export inventory to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported inventory to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportInventoryToJSON(reports, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export inventory to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported inventory to JSON: %s", jsonPath)
			}
		case "pdf":
			uc.console.LogWarning("PDF export is not available for inventory reports")
		}
	}
}

// --- Contas da Organização ---

// RunAccountsReport lista as contas ativas visíveis para cada perfil.
func (uc *MonitorUseCase) RunAccountsReport(ctx context.Context, args *types.CLIArgs) error {
	profilesToUse, _, _, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	uc.console.LogInfo("Listing organization accounts...")

	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Account ID")
	table.AddColumn("Name")
	table.AddColumn("Email")
	table.AddColumn("Status")
	table.AddColumn("Joined")

	found := false
	for _, profile := range profilesToUse {
		status := uc.console.Status(fmt.Sprintf("Listing accounts for %s...", profile))
		accounts, err := uc.telemetryRepo.ListOrganizationAccounts(ctx, profile)
		status.Stop()
		if err != nil {
			uc.console.LogError("Failed to list accounts for %s: %s", profile, err)
			continue
		}

		for _, acct := range accounts {
			joined := ""
			if !acct.JoinedAt.IsZero() {
				joined = acct.JoinedAt.Format("2006-01-02")
			}
			table.AddRow(
				pterm.FgMagenta.Sprintf("%s", profile),
				acct.ID,
				acct.Name,
				acct.Email,
				pterm.FgGreen.Sprint(acct.Status),
				joined,
			)
			found = true
		}
	}

	if !found {
		return types.ErrNoAccountsFound
	}

	uc.console.Print(table.Render())
	return nil
}

// --- Funções auxiliares de formatação ---

// formatBreakdown formata as entradas agregadas para exibição.
func formatBreakdown(breakdown entity.Breakdown) []string {
	if len(breakdown.Entries) == 0 {
		return []string{"No costs associated with this account"}
	}

	formatted := make([]string, 0, len(breakdown.Entries))
	for _, e := range breakdown.Entries {
		formatted = append(formatted, fmt.Sprintf("%s: $%.2f (%.2f%%)", e.Key.String(), e.TotalAmount, e.Percentage))
	}
	return formatted
}

// formatBudgetInfo formata as informações do orçamento para exibição.
func formatBudgetInfo(budgets []entity.BudgetInfo) []string {
	budgetInfo := []string{}

	for _, budget := range budgets {
		budgetInfo = append(budgetInfo, fmt.Sprintf("%s limit: $%.2f", budget.Name, budget.Limit))
		budgetInfo = append(budgetInfo, fmt.Sprintf("%s actual: $%.2f (%.1f%%)", budget.Name, budget.Actual, budget.PercentUsed()))
		if budget.Forecast > 0 {
			budgetInfo = append(budgetInfo, fmt.Sprintf("%s forecast: $%.2f", budget.Name, budget.Forecast))
		}
		if budget.Exceeded() {
			budgetInfo = append(budgetInfo, pterm.FgRed.Sprintf("%s exceeded!", budget.Name))
		}
	}

	if len(budgetInfo) == 0 {
		budgetInfo = append(budgetInfo, "No budgets found;\nCreate a budget for this account")
	}

	return budgetInfo
}
