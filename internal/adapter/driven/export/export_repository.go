package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/diillson/aws-org-monitor-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Funções de Exportação do Relatório de Custos ---

func (r *ExportRepositoryImpl) ExportCostReportToCSV(reports []entity.CostReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"CLI Profile", "AWS Account ID", "Period",
		"Previous Period Cost", "Current Period Cost", "Change %",
		"Cost By Account/Service", "Budget Status", "Diagnostics",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, report := range reports {
		var services []string
		for _, e := range report.Breakdown.Entries {
			services = append(services, fmt.Sprintf("%s: $%.2f (%.2f%%)", e.Key.String(), e.TotalAmount, e.Percentage))
		}

		change := "N/A"
		if report.PercentChange != nil {
			change = fmt.Sprintf("%.2f%%", *report.PercentChange)
		}

		var diagnostics []string
		for _, d := range report.Diagnostics {
			diagnostics = append(diagnostics, d.Error())
		}

		period := fmt.Sprintf("%s to %s",
			report.CurrentPeriodStart.Format("2006-01-02"),
			report.CurrentPeriodEnd.Format("2006-01-02"))

		record := []string{
			report.Profile,
			report.AccountID,
			period,
			fmt.Sprintf("$%.2f", report.PreviousTotal),
			fmt.Sprintf("$%.2f", report.CurrentTotal),
			change,
			strings.Join(services, "\n"),
			cleanRichTags(strings.Join(report.BudgetsFormatted, "\n")),
			strings.Join(diagnostics, "\n"),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportCostReportToJSON(reports []entity.CostReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportCostReportToPDF(reports []entity.CostReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	for i, report := range reports {
		pdf.AddPage()

		// Cabeçalho
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		profileName := report.Profile
		if len(profileName) > 80 {
			profileName = profileName[:77] + "..."
		}
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", profileName)), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
		pdf.Ln(10)

		// Resumo de custos: período anterior vs atual
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, "Cost Summary")
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		costTableWidth := 95.0
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(costTableWidth, 7, tr(report.PreviousPeriodName), "B", 0, "L", false, 0, "")
		pdf.CellFormat(costTableWidth, 7, tr(report.CurrentPeriodName), "B", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(costTableWidth, 12, tr(fmt.Sprintf("$%.2f", report.PreviousTotal)), "", 0, "L", false, 0, "")

		changeText := ""
		originalR, originalG, originalB := pdf.GetTextColor()
		if report.PercentChange != nil {
			val := *report.PercentChange
			if val > 0.01 {
				pdf.SetTextColor(192, 0, 0)
				changeText = fmt.Sprintf("  (▲ +%.2f%%)", val)
			} else if val < -0.01 {
				pdf.SetTextColor(0, 128, 0)
				changeText = fmt.Sprintf("  (▼ %.2f%%)", val)
			} else {
				changeText = "  (0.00%)"
			}
		}

		valueStr := fmt.Sprintf("$%.2f", report.CurrentTotal)
		pdf.Cell(pdf.GetStringWidth(valueStr), 12, tr(valueStr))

		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(costTableWidth-pdf.GetStringWidth(valueStr), 12, tr(changeText), "", 1, "L", false, 0, "")

		pdf.SetTextColor(originalR, originalG, originalB)
		pdf.Ln(10)

		var breakdown strings.Builder
		for _, e := range report.Breakdown.Entries {
			breakdown.WriteString(fmt.Sprintf("%s: $%.2f (%.2f%%)\n", e.Key.String(), e.TotalAmount, e.Percentage))
		}
		drawSection("Cost By Account/Service", strings.TrimSpace(breakdown.String()))
		drawSection("Budget Status", cleanRichTags(strings.Join(report.BudgetsFormatted, "\n\n")))

		if len(report.Diagnostics) > 0 {
			var diags strings.Builder
			for _, d := range report.Diagnostics {
				diags.WriteString(d.Error() + "\n")
			}
			drawSection("Diagnostics", diags.String())
		}

		// Rodapé
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS Org Monitor (Go) | %s", time.Now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções de Exportação do Relatório de Anomalias ---

func (r *ExportRepositoryImpl) ExportAnomalyReportToCSV(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating anomaly CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Profile", "Account ID", "Grouping Key", "Category", "Severity",
		"Observed", "Baseline Mean", "Baseline StdDev", "Deviation %",
		"Z-Score", "Baseline Samples",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, report := range reports {
		for _, f := range report.Findings {
			record := []string{
				report.Profile,
				report.AccountID,
				f.GroupingKey,
				string(f.Category),
				string(f.Severity),
				fmt.Sprintf("%.2f", f.ObservedValue),
				fmt.Sprintf("%.2f", f.BaselineMean),
				fmt.Sprintf("%.2f", f.BaselineStdDev),
				fmt.Sprintf("%.2f", f.DeviationPercentage),
				fmt.Sprintf("%.2f", f.ZScore),
				fmt.Sprintf("%d", f.SampleCount),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportAnomalyReportToJSON(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating anomaly JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding anomaly JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportAnomalyReportToPDF(reports []entity.AnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, report := range reports {
		pdf.AddPage()
		headerColor := [3]int{192, 0, 0}
		headerTextColor := [3]int{255, 255, 255}
		sectionTitleColor := [3]int{0, 0, 0}
		bodyTextColor := [3]int{50, 50, 50}
		lineColor := [3]int{200, 200, 200}

		drawSection := func(title string, content string) {
			content = cleanRichTags(content)
			if strings.TrimSpace(content) == "" {
				return
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
			pdf.Cell(0, 8, tr(title))
			pdf.Ln(7)

			pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
			pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
			pdf.Ln(4)

			pdf.SetFont("Arial", "", 10)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.MultiCell(190, 5, tr(content), "", "L", false)
			pdf.Ln(8)
		}

		// Cabeçalho
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Anomaly Report: %s", report.Profile)), "", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
		pdf.Ln(10)

		// Parâmetros da análise
		summary := fmt.Sprintf(
			"Baseline window: %s to %s (%d keys)\nCurrent window: %s to %s\nThreshold: %.2f%%  |  Minimum baseline buckets: %d",
			report.BaselineWindow.Start.Format("2006-01-02"),
			report.BaselineWindow.End.Format("2006-01-02"),
			report.BaselineKeys,
			report.CurrentWindow.Start.Format("2006-01-02"),
			report.CurrentWindow.End.Format("2006-01-02"),
			report.Config.DeviationThresholdPercent,
			report.Config.MinimumBaselineBuckets,
		)
		drawSection("Scan Parameters", summary)

		// Achados, já ordenados por desvio
		if len(report.Findings) > 0 {
			var b strings.Builder
			for _, f := range report.Findings {
				switch f.Category {
				case entity.CategoryDeviation:
					b.WriteString(fmt.Sprintf("%s: $%.2f vs mean $%.2f (%+.2f%%, %s)\n",
						f.GroupingKey, f.ObservedValue, f.BaselineMean, f.DeviationPercentage, f.Severity))
				default:
					b.WriteString(fmt.Sprintf("%s: $%.2f (%s)\n", f.GroupingKey, f.ObservedValue, f.Category))
				}
			}
			drawSection(fmt.Sprintf("Findings (%d)", len(report.Findings)), b.String())
		} else {
			drawSection("Findings", "No anomalies detected.")
		}

		if len(report.Diagnostics) > 0 {
			var diags strings.Builder
			for _, d := range report.Diagnostics {
				diags.WriteString(d.Error() + "\n")
			}
			drawSection("Diagnostics", diags.String())
		}

		// Rodapé
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Anomaly Report | %s", time.Now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing anomaly PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções de Exportação do Relatório de Utilização ---

func (r *ExportRepositoryImpl) ExportUsageReportToCSV(reports []entity.UsageReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating usage CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Profile", "Account ID", "Resource", "Metric",
		"Average", "Minimum", "Maximum", "Latest", "Samples",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, report := range reports {
		for _, s := range report.Summaries {
			record := []string{
				report.Profile,
				report.AccountID,
				s.ResourceID,
				s.MetricName,
				fmt.Sprintf("%.4f", s.Average),
				fmt.Sprintf("%.4f", s.Minimum),
				fmt.Sprintf("%.4f", s.Maximum),
				fmt.Sprintf("%.4f", s.Latest),
				fmt.Sprintf("%d", s.SampleCount),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportUsageReportToJSON(reports []entity.UsageReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating usage JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding usage JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções de Exportação do Inventário ---

func (r *ExportRepositoryImpl) ExportInventoryToCSV(reports []entity.InventoryReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating inventory CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Profile", "Account ID", "Service", "Type", "Name", "Region", "ARN", "Tags",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, report := range reports {
		for _, res := range report.Resources {
			var tags []string
			for k, v := range res.Tags {
				tags = append(tags, fmt.Sprintf("%s=%s", k, v))
			}
			sort.Strings(tags)

			record := []string{
				report.Profile,
				report.AccountID,
				res.Service,
				res.ResourceType,
				res.Name,
				res.Region,
				res.ARN,
				strings.Join(tags, "\n"),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportInventoryToJSON(reports []entity.InventoryReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating inventory JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding inventory JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// Regex para limpar formatação pterm (rich tags) e sequências ANSI de cor/estilo.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags remove tags de formatação do pterm e sequências ANSI.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
