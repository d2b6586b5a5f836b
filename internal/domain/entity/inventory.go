package entity

// ResourceInfo is one resource discovered through the tagging API.
type ResourceInfo struct {
	ARN          string            `json:"arn"`
	Service      string            `json:"service"`
	ResourceType string            `json:"resource_type"`
	Name         string            `json:"name"`
	Region       string            `json:"region"`
	AccountID    string            `json:"account_id"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// InventorySummary aggregates the resources discovered in one run.
type InventorySummary struct {
	TotalResources int            `json:"total_resources"`
	ByService      map[string]int `json:"by_service"`
	ByRegion       map[string]int `json:"by_region"`
	Untagged       int            `json:"untagged"`
}
