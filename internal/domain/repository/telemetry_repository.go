package repository

import (
	"context"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

// TelemetryRepository defines the interface for collecting billing and usage
// telemetry from AWS.
type TelemetryRepository interface {
	// Profile operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Organization operations
	ListOrganizationAccounts(ctx context.Context, profile string) ([]entity.AccountInfo, error)

	// Region operations
	GetAccessibleRegions(ctx context.Context, profile string) ([]string, error)

	// Cost operations
	GetCostRecords(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.CostRecord, error)
	GetDailyTotals(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.DailyCost, error)

	// Budget operations
	GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error)

	// Usage operations
	GetUsageSamples(ctx context.Context, profile string, regions []string, window entity.TimeWindow) ([]entity.UsageSample, error)

	// Inventory operations
	GetResourceInventory(ctx context.Context, profile string, regions []string) ([]entity.ResourceInfo, error)
}
