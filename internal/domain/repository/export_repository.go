package repository

import (
	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

type ExportRepository interface {
	// Cost reports
	ExportCostReportToCSV(reports []entity.CostReport, filename string, outputDir string) (string, error)
	ExportCostReportToJSON(reports []entity.CostReport, filename string, outputDir string) (string, error)
	ExportCostReportToPDF(reports []entity.CostReport, filename string, outputDir string) (string, error)

	// Anomaly reports
	ExportAnomalyReportToCSV(reports []entity.AnomalyReport, filename string, outputDir string) (string, error)
	ExportAnomalyReportToJSON(reports []entity.AnomalyReport, filename string, outputDir string) (string, error)
	ExportAnomalyReportToPDF(reports []entity.AnomalyReport, filename string, outputDir string) (string, error)

	// Usage reports
	ExportUsageReportToCSV(reports []entity.UsageReport, filename string, outputDir string) (string, error)
	ExportUsageReportToJSON(reports []entity.UsageReport, filename string, outputDir string) (string, error)

	// Inventory reports
	ExportInventoryToCSV(reports []entity.InventoryReport, filename string, outputDir string) (string, error)
	ExportInventoryToJSON(reports []entity.InventoryReport, filename string, outputDir string) (string, error)
}
