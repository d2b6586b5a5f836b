package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCostReport() entity.CostReport {
	change := 12.5
	return entity.CostReport{
		Profile:            "prod",
		AccountID:          "123456789012",
		CurrentPeriodName:  "Current month",
		PreviousPeriodName: "Last month",
		CurrentPeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrentPeriodEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		CurrentTotal:       450.00,
		PreviousTotal:      400.00,
		PercentChange:      &change,
		Breakdown: entity.Breakdown{
			Entries: []entity.BreakdownEntry{
				{Key: entity.GroupKey{AccountID: "123456789012", ServiceName: "Amazon EC2"}, TotalAmount: 300, Percentage: 66.67},
				{Key: entity.GroupKey{AccountID: "123456789012", ServiceName: "Amazon S3"}, TotalAmount: 150, Percentage: 33.33},
			},
			GrandTotal: 450,
		},
		BudgetsFormatted: []string{"[red]monthly[/red] limit: $500.00"},
		Success:          true,
	}
}

func TestExportCostReportToCSV(t *testing.T) {
	repo := NewExportRepository()
	dir := t.TempDir()

	path, err := repo.ExportCostReportToCSV([]entity.CostReport{sampleCostReport()}, "report", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CLI Profile", rows[0][0])
	assert.Equal(t, "prod", rows[1][0])
	assert.Equal(t, "123456789012", rows[1][1])
	assert.Equal(t, "$400.00", rows[1][3])
	assert.Equal(t, "$450.00", rows[1][4])
	assert.Equal(t, "12.50%", rows[1][5])
	assert.Contains(t, rows[1][6], "123456789012:Amazon EC2: $300.00 (66.67%)")
	// Tags de formatação do terminal não devem vazar para o arquivo
	assert.NotContains(t, rows[1][7], "[red]")
}

func TestExportCostReportToJSON(t *testing.T) {
	repo := NewExportRepository()
	dir := t.TempDir()

	path, err := repo.ExportCostReportToJSON([]entity.CostReport{sampleCostReport()}, "report", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []entity.CostReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "prod", decoded[0].Profile)
	assert.Equal(t, 450.00, decoded[0].CurrentTotal)
	require.NotNil(t, decoded[0].PercentChange)
	assert.Equal(t, 12.5, *decoded[0].PercentChange)
}

func TestExportAnomalyReportToCSVWritesOneRowPerFinding(t *testing.T) {
	repo := NewExportRepository()
	dir := t.TempDir()

	report := entity.AnomalyReport{
		Profile:   "prod",
		AccountID: "123456789012",
		Config:    entity.DefaultAnalysisConfig(),
		Findings: []entity.AnomalyFinding{
			{
				GroupingKey:         "123456789012:Amazon EC2",
				Category:            entity.CategoryDeviation,
				ObservedValue:       200,
				BaselineMean:        100,
				DeviationPercentage: 100,
				Severity:            entity.SeverityHigh,
				SampleCount:         30,
			},
			{
				GroupingKey:   "123456789012:Amazon Kendra",
				Category:      entity.CategoryNewSpend,
				ObservedValue: 42,
			},
		},
		Success: true,
	}

	path, err := repo.ExportAnomalyReportToCSV([]entity.AnomalyReport{report}, "anomalies", dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "123456789012:Amazon EC2", rows[1][2])
	assert.Equal(t, "deviation", rows[1][3])
	assert.Equal(t, "high", rows[1][4])
	assert.Equal(t, "123456789012:Amazon Kendra", rows[2][2])
	assert.Equal(t, "new spend", rows[2][3])
	assert.Empty(t, rows[2][4])
}

func TestExportInventoryToCSVSortsTags(t *testing.T) {
	repo := NewExportRepository()
	dir := t.TempDir()

	report := entity.InventoryReport{
		Profile:   "prod",
		AccountID: "123456789012",
		Resources: []entity.ResourceInfo{
			{
				ARN:          "arn:aws:ec2:us-east-1:123456789012:instance/i-0abc",
				Service:      "ec2",
				ResourceType: "instance",
				Name:         "i-0abc",
				Region:       "us-east-1",
				Tags:         map[string]string{"Team": "platform", "Env": "prod"},
			},
		},
		Success: true,
	}

	path, err := repo.ExportInventoryToCSV([]entity.InventoryReport{report}, "inventory", dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Env=prod\nTeam=platform", rows[1][7])
}

func TestGenerateFilenameCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/output"

	path, err := generateFilename("report", dir, "csv")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".csv"))
	assert.Contains(t, path, "report_")
}

func TestCleanRichTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[red]alert[/red]", "alert"},
		{"[#ff0000]alert[/#ff0000]", "alert"},
		{"\x1B[31mred text\x1B[0m", "red text"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanRichTags(tt.in))
	}
}
