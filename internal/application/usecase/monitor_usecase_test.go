package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/diillson/aws-org-monitor-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

// costSpec descreve um custo que o fake materializa dentro da janela pedida,
// um bucket diário por valor a partir do início da janela.
type costSpec struct {
	accountID string
	service   string
	amounts   []float64
}

// usageSpec descreve as amostras de utilização que o fake materializa:
// days[d] contém os valores horários do dia d a partir do início da janela,
// então a soma diária e a média das amostras divergem quando um dia tem mais
// de uma amostra, como acontece com datapoints horários reais.
type usageSpec struct {
	resourceID string
	metric     string
	days       [][]float64
}

// hourlyDay devolve um dia com o mesmo valor em cada uma das horas pedidas.
func hourlyDay(value float64, hours int) []float64 {
	day := make([]float64, hours)
	for i := range day {
		day[i] = value
	}
	return day
}

type costCall struct {
	profile string
	window  entity.TimeWindow
}

type fakeTelemetry struct {
	profiles   []string
	accountIDs map[string]string
	accounts   []entity.AccountInfo
	regions    []string

	// Especificações servidas conforme a janela: janelas que terminam hoje
	// recebem os specs "current", as demais os specs "history".
	currentCosts []costSpec
	historyCosts []costSpec
	currentUsage []usageSpec
	historyUsage []usageSpec

	dailyTotals []entity.DailyCost
	budgets     []entity.BudgetInfo
	resources   []entity.ResourceInfo

	costErrs    map[string]error
	accountsErr error

	costCalls  []costCall
	usageCalls []costCall
}

// isCurrentWindow separa a janela do período corrente (termina hoje) das
// janelas históricas.
func isCurrentWindow(window entity.TimeWindow) bool {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	return window.End.After(cutoff)
}

func (f *fakeTelemetry) GetAWSProfiles() []string {
	return f.profiles
}

func (f *fakeTelemetry) GetAccountID(ctx context.Context, profile string) (string, error) {
	if id, ok := f.accountIDs[profile]; ok {
		return id, nil
	}
	return "123456789012", nil
}

func (f *fakeTelemetry) ListOrganizationAccounts(ctx context.Context, profile string) ([]entity.AccountInfo, error) {
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	return f.accounts, nil
}

func (f *fakeTelemetry) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	if len(f.regions) > 0 {
		return f.regions, nil
	}
	return []string{"us-east-1"}, nil
}

func (f *fakeTelemetry) GetCostRecords(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.CostRecord, error) {
	f.costCalls = append(f.costCalls, costCall{profile: profile, window: window})
	if err, ok := f.costErrs[profile]; ok {
		return nil, err
	}

	specs := f.historyCosts
	if isCurrentWindow(window) {
		specs = f.currentCosts
	}

	var records []entity.CostRecord
	for _, spec := range specs {
		for i, amount := range spec.amounts {
			day := window.Start.AddDate(0, 0, i)
			records = append(records, entity.CostRecord{
				AccountID:   spec.accountID,
				ServiceName: spec.service,
				BucketStart: day,
				BucketEnd:   day.AddDate(0, 0, 1),
				Amount:      amount,
				Currency:    "USD",
			})
		}
	}
	return records, nil
}

func (f *fakeTelemetry) GetDailyTotals(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.DailyCost, error) {
	return f.dailyTotals, nil
}

func (f *fakeTelemetry) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	return f.budgets, nil
}

func (f *fakeTelemetry) GetUsageSamples(ctx context.Context, profile string, regions []string, window entity.TimeWindow) ([]entity.UsageSample, error) {
	f.usageCalls = append(f.usageCalls, costCall{profile: profile, window: window})

	specs := f.historyUsage
	if isCurrentWindow(window) {
		specs = f.currentUsage
	}

	var samples []entity.UsageSample
	for _, spec := range specs {
		for d, day := range spec.days {
			for h, value := range day {
				samples = append(samples, entity.UsageSample{
					ResourceID: spec.resourceID,
					MetricName: spec.metric,
					Timestamp:  window.Start.Add(time.Duration(d)*24*time.Hour + time.Duration(h)*time.Hour),
					Value:      value,
				})
			}
		}
	}
	return samples, nil
}

func (f *fakeTelemetry) GetResourceInventory(ctx context.Context, profile string, regions []string) ([]entity.ResourceInfo, error) {
	return f.resources, nil
}

type fakeStatus struct{}

func (s *fakeStatus) Update(message string) {}
func (s *fakeStatus) Stop()                 {}

type fakeProgress struct{ increments int }

func (p *fakeProgress) Increment() { p.increments++ }
func (p *fakeProgress) Stop()      {}

type fakeTable struct {
	columns []string
	rows    [][]string
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

func (t *fakeTable) Render() string { return "" }

type fakeConsole struct {
	infos     []string
	warnings  []string
	errors    []string
	successes []string
	printed   []string
	bars      []types.TrendBar
	tables    []*fakeTable
	progress  *fakeProgress
}

func (c *fakeConsole) Print(a ...interface{}) { c.printed = append(c.printed, fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) {
	c.printed = append(c.printed, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) Println(a ...interface{}) { c.printed = append(c.printed, fmt.Sprintln(a...)) }
func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) Status(message string) types.StatusHandle { return &fakeStatus{} }
func (c *fakeConsole) Progress(items []string) types.ProgressHandle {
	return &fakeProgress{}
}
func (c *fakeConsole) ProgressWithTotal(total int) types.ProgressHandle {
	c.progress = &fakeProgress{}
	return c.progress
}
func (c *fakeConsole) CreateTable() types.TableInterface {
	table := &fakeTable{}
	c.tables = append(c.tables, table)
	return table
}
func (c *fakeConsole) DisplayTrendBars(bars []types.TrendBar) {
	c.bars = append(c.bars, bars...)
}

type fakeExporter struct {
	err error

	costReports      []entity.CostReport
	anomalyReports   []entity.AnomalyReport
	usageReports     []entity.UsageReport
	inventoryReports []entity.InventoryReport

	costCSV, costJSON, costPDF          int
	anomalyCSV, anomalyJSON, anomalyPDF int
	usageCSV, usageJSON                 int
	inventoryCSV, inventoryJSON         int
}

func (f *fakeExporter) ExportCostReportToCSV(reports []entity.CostReport, filename, outputDir string) (string, error) {
	f.costCSV++
	f.costReports = reports
	return "/tmp/report.csv", f.err
}

func (f *fakeExporter) ExportCostReportToJSON(reports []entity.CostReport, filename, outputDir string) (string, error) {
	f.costJSON++
	f.costReports = reports
	return "/tmp/report.json", f.err
}

func (f *fakeExporter) ExportCostReportToPDF(reports []entity.CostReport, filename, outputDir string) (string, error) {
	f.costPDF++
	f.costReports = reports
	return "/tmp/report.pdf", f.err
}

func (f *fakeExporter) ExportAnomalyReportToCSV(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	f.anomalyCSV++
	f.anomalyReports = reports
	return "/tmp/anomalies.csv", f.err
}

func (f *fakeExporter) ExportAnomalyReportToJSON(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	f.anomalyJSON++
	f.anomalyReports = reports
	return "/tmp/anomalies.json", f.err
}

func (f *fakeExporter) ExportAnomalyReportToPDF(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	f.anomalyPDF++
	f.anomalyReports = reports
	return "/tmp/anomalies.pdf", f.err
}

func (f *fakeExporter) ExportUsageReportToCSV(reports []entity.UsageReport, filename, outputDir string) (string, error) {
	f.usageCSV++
	f.usageReports = reports
	return "/tmp/usage.csv", f.err
}

func (f *fakeExporter) ExportUsageReportToJSON(reports []entity.UsageReport, filename, outputDir string) (string, error) {
	f.usageJSON++
	f.usageReports = reports
	return "/tmp/usage.json", f.err
}

func (f *fakeExporter) ExportInventoryToCSV(reports []entity.InventoryReport, filename, outputDir string) (string, error) {
	f.inventoryCSV++
	f.inventoryReports = reports
	return "/tmp/inventory.csv", f.err
}

func (f *fakeExporter) ExportInventoryToJSON(reports []entity.InventoryReport, filename, outputDir string) (string, error) {
	f.inventoryJSON++
	f.inventoryReports = reports
	return "/tmp/inventory.json", f.err
}

type fakeConfigRepo struct{}

func (f *fakeConfigRepo) LoadConfigFile(filePath string) (*types.Config, error) {
	return nil, nil
}

func newTestUseCase(telemetry *fakeTelemetry) (*MonitorUseCase, *fakeConsole, *fakeExporter) {
	console := &fakeConsole{}
	exporter := &fakeExporter{}
	uc := NewMonitorUseCase(telemetry, exporter, &fakeConfigRepo{}, console)
	return uc, console, exporter
}

func intPtr(v int) *int { return &v }

// --- InitializeProfiles ---

func TestInitializeProfilesSelectsRequested(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod", "dev"}}
	uc, console, _ := newTestUseCase(telemetry)

	profiles, _, _, err := uc.InitializeProfiles(&types.CLIArgs{Profiles: []string{"prod", "staging"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, profiles)
	require.Len(t, console.warnings, 1)
	assert.Contains(t, console.warnings[0], "staging")
}

func TestInitializeProfilesRejectsAllUnknown(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod"}}
	uc, _, _ := newTestUseCase(telemetry)

	_, _, _, err := uc.InitializeProfiles(&types.CLIArgs{Profiles: []string{"staging"}})

	assert.ErrorIs(t, err, types.ErrNoValidProfilesFound)
}

func TestInitializeProfilesPrefersDefault(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod", "default", "dev"}}
	uc, _, _ := newTestUseCase(telemetry)

	profiles, _, _, err := uc.InitializeProfiles(&types.CLIArgs{})

	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, profiles)
}

func TestInitializeProfilesFallsBackToAll(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod", "dev"}}
	uc, console, _ := newTestUseCase(telemetry)

	profiles, _, _, err := uc.InitializeProfiles(&types.CLIArgs{})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "dev"}, profiles)
	require.Len(t, console.warnings, 1)
	assert.Contains(t, console.warnings[0], "No default profile")
}

func TestInitializeProfilesAllFlag(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod", "default", "dev"}}
	uc, _, _ := newTestUseCase(telemetry)

	profiles, _, timeRange, err := uc.InitializeProfiles(&types.CLIArgs{All: true, TimeRange: intPtr(14)})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "default", "dev"}, profiles)
	assert.Equal(t, 14, timeRange)
}

func TestInitializeProfilesNoneConfigured(t *testing.T) {
	telemetry := &fakeTelemetry{}
	uc, _, _ := newTestUseCase(telemetry)

	_, _, _, err := uc.InitializeProfiles(&types.CLIArgs{})

	assert.ErrorIs(t, err, types.ErrNoProfilesFound)
}

// --- RunCostReport ---

func TestRunCostReportComputesPercentChange(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon EC2", amounts: []float64{300.0}},
		},
		historyCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon EC2", amounts: []float64{200.0}},
		},
		budgets: []entity.BudgetInfo{{Name: "monthly", Limit: 500.0, Actual: 300.0}},
	}
	uc, console, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"prod"},
		TimeRange:  intPtr(7),
		ReportName: "costs",
		ReportType: []string{"csv", "json"},
	}
	err := uc.RunCostReport(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, 1, exporter.costCSV)
	assert.Equal(t, 1, exporter.costJSON)
	assert.Equal(t, 0, exporter.costPDF)

	require.Len(t, exporter.costReports, 1)
	report := exporter.costReports[0]
	assert.True(t, report.Success)
	assert.Equal(t, "prod", report.Profile)
	assert.Equal(t, "111122223333", report.AccountID)
	assert.InDelta(t, 300.0, report.CurrentTotal, 0.001)
	assert.InDelta(t, 200.0, report.PreviousTotal, 0.001)
	require.NotNil(t, report.PercentChange)
	assert.InDelta(t, 50.0, *report.PercentChange, 0.001)
	assert.Contains(t, report.ServicesFormatted, "111122223333:Amazon EC2: $300.00 (100.00%)")
	assert.NotEmpty(t, report.BudgetsFormatted)
	assert.Empty(t, report.Diagnostics)

	// Duas janelas consultadas: atual e anterior
	require.Len(t, telemetry.costCalls, 2)
	assert.Equal(t, 7, telemetry.costCalls[0].window.Days())
	assert.Equal(t, 7, telemetry.costCalls[1].window.Days())

	// Cinco etapas de progresso por grupo
	require.NotNil(t, console.progress)
	assert.Equal(t, 5, console.progress.increments)
}

func TestRunCostReportZeroPreviousLeavesChangeNil(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles: []string{"prod"},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "AWS Lambda", amounts: []float64{42.0}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"prod"},
		TimeRange:  intPtr(7),
		ReportName: "costs",
		ReportType: []string{"json"},
	}
	require.NoError(t, uc.RunCostReport(context.Background(), args))

	require.Len(t, exporter.costReports, 1)
	assert.Nil(t, exporter.costReports[0].PercentChange)
}

func TestRunCostReportContinuesAfterProfileError(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"broken", "prod"},
		accountIDs: map[string]string{"broken": "999988887777", "prod": "111122223333"},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon S3", amounts: []float64{10.0}},
		},
		costErrs: map[string]error{"broken": fmt.Errorf("expired credentials")},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"broken", "prod"},
		TimeRange:  intPtr(7),
		ReportName: "costs",
		ReportType: []string{"json"},
	}
	require.NoError(t, uc.RunCostReport(context.Background(), args))

	require.Len(t, exporter.costReports, 2)
	assert.False(t, exporter.costReports[0].Success)
	assert.Contains(t, exporter.costReports[0].Error, "expired credentials")
	assert.True(t, exporter.costReports[1].Success)
}

func TestRunCostReportCombineGroupsProfilesBySharedAccount(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"dev", "prod"},
		accountIDs: map[string]string{"dev": "111122223333", "prod": "111122223333"},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon EC2", amounts: []float64{100.0}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"dev", "prod"},
		Combine:    true,
		TimeRange:  intPtr(7),
		ReportName: "costs",
		ReportType: []string{"json"},
	}
	require.NoError(t, uc.RunCostReport(context.Background(), args))

	require.Len(t, exporter.costReports, 1)
	report := exporter.costReports[0]
	assert.Equal(t, "dev, prod", report.Profile)
	assert.Equal(t, "111122223333", report.AccountID)

	// Só o perfil primário do grupo é consultado
	for _, call := range telemetry.costCalls {
		assert.Equal(t, "dev", call.profile)
	}
}

// --- RunAnomalyScan ---

func TestRunAnomalyScanFindsDeviation(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		historyCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon EC2", amounts: []float64{100.0, 100.0, 100.0}},
		},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon EC2", amounts: []float64{200.0}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		DeviationThresholdPercent: 20.0,
		BaselineWindowDays:        7,
		MinimumBaselineBuckets:    3,
		ReportName:                "anomalies",
		ReportType:                []string{"json"},
	}
	err := uc.RunAnomalyScan(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, 1, exporter.anomalyJSON)

	require.Len(t, exporter.anomalyReports, 1)
	report := exporter.anomalyReports[0]
	assert.True(t, report.Success)
	assert.Equal(t, 1, report.BaselineKeys)

	require.Len(t, report.Findings, 1)
	finding := report.Findings[0]
	assert.Equal(t, "111122223333:Amazon EC2", finding.GroupingKey)
	assert.Equal(t, entity.CategoryDeviation, finding.Category)
	assert.Equal(t, entity.SeverityHigh, finding.Severity)
	assert.InDelta(t, 200.0, finding.ObservedValue, 0.001)
	assert.InDelta(t, 100.0, finding.BaselineMean, 0.001)
	assert.InDelta(t, 100.0, finding.DeviationPercentage, 0.001)
	assert.Equal(t, 3, finding.SampleCount)
}

func TestRunAnomalyScanValidatesConfigBeforeFetching(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod"}}
	uc, _, _ := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		DeviationThresholdPercent: -5.0,
	}
	err := uc.RunAnomalyScan(context.Background(), args)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deviation_threshold_percent")
	assert.Empty(t, telemetry.costCalls, "no AWS call should happen with invalid config")
}

func TestRunAnomalyScanIncludesUsageMetrics(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		historyUsage: []usageSpec{
			{resourceID: "i-0abc123", metric: "CPUUtilization", days: [][]float64{{50.0}, {50.0}, {50.0}}},
		},
		currentUsage: []usageSpec{
			{resourceID: "i-0abc123", metric: "CPUUtilization", days: [][]float64{{100.0}}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		Regions:                   []string{"us-east-1"},
		DeviationThresholdPercent: 20.0,
		BaselineWindowDays:        7,
		MinimumBaselineBuckets:    3,
		IncludeUsage:              true,
		ReportName:                "anomalies",
		ReportType:                []string{"json"},
	}
	require.NoError(t, uc.RunAnomalyScan(context.Background(), args))

	require.Len(t, exporter.anomalyReports, 1)
	report := exporter.anomalyReports[0]

	require.Len(t, report.Findings, 1)
	finding := report.Findings[0]
	assert.Equal(t, "i-0abc123:CPUUtilization", finding.GroupingKey)
	assert.Equal(t, entity.CategoryDeviation, finding.Category)
	assert.InDelta(t, 100.0, finding.ObservedValue, 0.001)
	assert.InDelta(t, 50.0, finding.BaselineMean, 0.001)
	assert.InDelta(t, 100.0, finding.DeviationPercentage, 0.001)

	// Duas coletas de utilização: histórico e janela atual
	assert.Len(t, telemetry.usageCalls, 2)
}

func TestRunAnomalyScanSteadyUsageIsNotAnomalous(t *testing.T) {
	// 50 em todas as horas dos dois lados: a soma do dia corrente (24x50)
	// coincide com a média das somas diárias do histórico, então uma métrica
	// estável não pode virar achado.
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		historyUsage: []usageSpec{
			{resourceID: "i-0steady", metric: "CPUUtilization", days: [][]float64{
				hourlyDay(50.0, 24), hourlyDay(50.0, 24), hourlyDay(50.0, 24),
			}},
		},
		currentUsage: []usageSpec{
			{resourceID: "i-0steady", metric: "CPUUtilization", days: [][]float64{
				hourlyDay(50.0, 24),
			}},
		},
	}
	uc, console, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		Regions:                   []string{"us-east-1"},
		DeviationThresholdPercent: 20.0,
		BaselineWindowDays:        7,
		MinimumBaselineBuckets:    3,
		IncludeUsage:              true,
		ReportName:                "anomalies",
		ReportType:                []string{"json"},
	}
	require.NoError(t, uc.RunAnomalyScan(context.Background(), args))

	require.Len(t, exporter.anomalyReports, 1)
	report := exporter.anomalyReports[0]
	assert.True(t, report.Success)
	assert.Equal(t, 1, report.BaselineKeys)
	assert.Empty(t, report.Findings)
	assert.Contains(t, strings.Join(console.successes, "\n"), "No anomalies detected")
}

func TestRunAnomalyScanUsageSpikeScoresDayTotals(t *testing.T) {
	// Histórico estável em 50 por hora; no dia corrente cada hora dobra para
	// 100. O achado compara o total do dia (2400) com a média das somas
	// diárias (1200), não com a média das amostras.
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		historyUsage: []usageSpec{
			{resourceID: "i-0spike", metric: "NetworkIn", days: [][]float64{
				hourlyDay(50.0, 24), hourlyDay(50.0, 24), hourlyDay(50.0, 24),
			}},
		},
		currentUsage: []usageSpec{
			{resourceID: "i-0spike", metric: "NetworkIn", days: [][]float64{
				hourlyDay(100.0, 24),
			}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		Regions:                   []string{"us-east-1"},
		DeviationThresholdPercent: 20.0,
		BaselineWindowDays:        7,
		MinimumBaselineBuckets:    3,
		IncludeUsage:              true,
		ReportName:                "anomalies",
		ReportType:                []string{"json"},
	}
	require.NoError(t, uc.RunAnomalyScan(context.Background(), args))

	require.Len(t, exporter.anomalyReports, 1)
	report := exporter.anomalyReports[0]

	require.Len(t, report.Findings, 1)
	finding := report.Findings[0]
	assert.Equal(t, "i-0spike:NetworkIn", finding.GroupingKey)
	assert.Equal(t, entity.CategoryDeviation, finding.Category)
	assert.Equal(t, entity.SeverityHigh, finding.Severity)
	assert.InDelta(t, 2400.0, finding.ObservedValue, 0.001)
	assert.InDelta(t, 1200.0, finding.BaselineMean, 0.001)
	assert.InDelta(t, 100.0, finding.DeviationPercentage, 0.001)
	assert.Equal(t, 3, finding.SampleCount)
}

func TestRunAnomalyScanReportsNewSpend(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		currentCosts: []costSpec{
			{accountID: "111122223333", service: "Amazon SageMaker", amounts: []float64{75.0}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:                  []string{"prod"},
		DeviationThresholdPercent: 20.0,
		BaselineWindowDays:        7,
		MinimumBaselineBuckets:    3,
		ReportName:                "anomalies",
		ReportType:                []string{"json"},
	}
	require.NoError(t, uc.RunAnomalyScan(context.Background(), args))

	require.Len(t, exporter.anomalyReports, 1)
	require.Len(t, exporter.anomalyReports[0].Findings, 1)
	finding := exporter.anomalyReports[0].Findings[0]
	assert.Equal(t, entity.CategoryNewSpend, finding.Category)
	assert.InDelta(t, 75.0, finding.ObservedValue, 0.001)
}

// --- RunUsageReport ---

func TestRunUsageReportSummarizesSamples(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		currentUsage: []usageSpec{
			{resourceID: "i-0abc123", metric: "CPUUtilization", days: [][]float64{{40.0, 60.0}}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"prod"},
		Regions:    []string{"us-east-1"},
		ReportName: "usage",
		ReportType: []string{"csv"},
	}
	require.NoError(t, uc.RunUsageReport(context.Background(), args))

	assert.Equal(t, 1, exporter.usageCSV)
	require.Len(t, exporter.usageReports, 1)
	report := exporter.usageReports[0]
	assert.True(t, report.Success)
	assert.Equal(t, "111122223333", report.AccountID)

	require.Len(t, report.Summaries, 1)
	summary := report.Summaries[0]
	assert.Equal(t, "i-0abc123", summary.ResourceID)
	assert.InDelta(t, 50.0, summary.Average, 0.001)
	assert.InDelta(t, 40.0, summary.Minimum, 0.001)
	assert.InDelta(t, 60.0, summary.Maximum, 0.001)
	assert.InDelta(t, 60.0, summary.Latest, 0.001)
	assert.Equal(t, 2, summary.SampleCount)

	// Sem --hours a janela padrão é de 24 horas
	require.Len(t, telemetry.usageCalls, 1)
	window := telemetry.usageCalls[0].window
	assert.Equal(t, 24*time.Hour, window.End.Sub(window.Start))
}

// --- RunTrendAnalysis ---

func TestRunTrendAnalysisDisplaysDailyBars(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var totals []entity.DailyCost
	for i := 0; i < 10; i++ {
		totals = append(totals, entity.DailyCost{
			Date: today.AddDate(0, 0, i-10),
			Cost: float64(i + 1),
		})
	}
	telemetry := &fakeTelemetry{
		profiles:    []string{"prod"},
		accountIDs:  map[string]string{"prod": "111122223333"},
		dailyTotals: totals,
	}
	uc, console, _ := newTestUseCase(telemetry)

	args := &types.CLIArgs{Profiles: []string{"prod"}}
	require.NoError(t, uc.RunTrendAnalysis(context.Background(), args))

	assert.Len(t, console.bars, 10)

	joined := strings.Join(console.printed, "\n")
	assert.Contains(t, joined, "increasing")
	assert.Contains(t, joined, "Forecast")
}

// --- RunInventoryReport ---

func TestRunInventoryReportSummarizesByService(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles:   []string{"prod"},
		accountIDs: map[string]string{"prod": "111122223333"},
		resources: []entity.ResourceInfo{
			{ARN: "arn:aws:ec2:us-east-1:111122223333:instance/i-1", Service: "ec2", Region: "us-east-1", Tags: map[string]string{"Env": "prod"}},
			{ARN: "arn:aws:ec2:us-west-2:111122223333:instance/i-2", Service: "ec2", Region: "us-west-2"},
			{ARN: "arn:aws:s3:::my-bucket", Service: "s3", Tags: map[string]string{"Env": "prod"}},
		},
	}
	uc, _, exporter := newTestUseCase(telemetry)

	args := &types.CLIArgs{
		Profiles:   []string{"prod"},
		Regions:    []string{"us-east-1", "us-west-2"},
		ReportName: "inventory",
		ReportType: []string{"csv", "json"},
	}
	require.NoError(t, uc.RunInventoryReport(context.Background(), args))

	assert.Equal(t, 1, exporter.inventoryCSV)
	assert.Equal(t, 1, exporter.inventoryJSON)

	require.Len(t, exporter.inventoryReports, 1)
	summary := exporter.inventoryReports[0].Summary
	assert.Equal(t, 3, summary.TotalResources)
	assert.Equal(t, 2, summary.ByService["ec2"])
	assert.Equal(t, 1, summary.ByService["s3"])
	assert.Equal(t, 1, summary.Untagged)
}

// --- RunAccountsReport ---

func TestRunAccountsReportListsAccounts(t *testing.T) {
	telemetry := &fakeTelemetry{
		profiles: []string{"prod"},
		accounts: []entity.AccountInfo{
			{ID: "111122223333", Name: "production", Email: "prod@example.com", Status: "ACTIVE"},
			{ID: "444455556666", Name: "staging", Email: "stage@example.com", Status: "ACTIVE"},
		},
	}
	uc, console, _ := newTestUseCase(telemetry)

	args := &types.CLIArgs{Profiles: []string{"prod"}}
	require.NoError(t, uc.RunAccountsReport(context.Background(), args))

	require.Len(t, console.tables, 1)
	assert.Len(t, console.tables[0].rows, 2)
}

func TestRunAccountsReportNoAccounts(t *testing.T) {
	telemetry := &fakeTelemetry{profiles: []string{"prod"}}
	uc, _, _ := newTestUseCase(telemetry)

	args := &types.CLIArgs{Profiles: []string{"prod"}}
	err := uc.RunAccountsReport(context.Background(), args)

	assert.ErrorIs(t, err, types.ErrNoAccountsFound)
}
