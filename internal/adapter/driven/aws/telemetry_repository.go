package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cloudwatchTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	costexplorerTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	organizationsTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
	"github.com/diillson/aws-org-monitor-go/internal/domain/repository"
)

// TelemetryRepositoryImpl implementa a interface repository.TelemetryRepository
type TelemetryRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	cfgCacheMu  sync.Mutex
	clientCache map[string]interface{}
	clientMu    sync.Mutex
	responses   *ttlCache
	retry       *retrier
}

// NewTelemetryRepository cria uma nova instância de TelemetryRepositoryImpl
func NewTelemetryRepository() repository.TelemetryRepository {
	return &TelemetryRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
		responses:   newTTLCache(defaultCacheTTL),
		retry:       newRetrier(),
	}
}

// getAWSConfig retorna uma configuração AWS para o perfil especificado,
// reaproveitando configurações já carregadas.
func (r *TelemetryRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.cfgCacheMu.Lock()
	defer r.cfgCacheMu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

// getServiceClient retorna um cliente de serviço AWS, reutilizando instâncias
// já criadas para o mesmo perfil/região/serviço.
func (r *TelemetryRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.clientMu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.clientMu.Unlock()
		return client, nil
	}
	r.clientMu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	if region != "" {
		cfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(cfg)
	case "ec2":
		client = ec2.NewFromConfig(cfg)
	case "costexplorer":
		// Cost Explorer é um serviço global, sempre em us-east-1
		cfg.Region = "us-east-1"
		client = costexplorer.NewFromConfig(cfg)
	case "budgets":
		// Budgets também é global
		cfg.Region = "us-east-1"
		client = budgets.NewFromConfig(cfg)
	case "organizations":
		// Organizations só atende em us-east-1
		cfg.Region = "us-east-1"
		client = organizations.NewFromConfig(cfg)
	case "cloudwatch":
		client = cloudwatch.NewFromConfig(cfg)
	case "logs":
		client = cloudwatchlogs.NewFromConfig(cfg)
	case "rds":
		client = rds.NewFromConfig(cfg)
	case "lambda":
		client = lambda.NewFromConfig(cfg)
	case "elbv2":
		client = elasticloadbalancingv2.NewFromConfig(cfg)
	case "s3":
		client = s3.NewFromConfig(cfg)
	case "tagging":
		client = resourcegroupstaggingapi.NewFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.clientMu.Lock()
	r.clientCache[cacheKey] = client
	r.clientMu.Unlock()

	return client, nil
}

// GetAWSProfiles retorna a lista de perfis configurados em ~/.aws
func (r *TelemetryRepositoryImpl) GetAWSProfiles() []string {
	var profiles []string
	profileSet := make(map[string]bool)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	configPath := filepath.Join(homeDir, ".aws", "config")
	credentialsPath := filepath.Join(homeDir, ".aws", "credentials")

	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	for _, path := range []string{configPath, credentialsPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		matches := profileRegex.FindAllStringSubmatch(string(data), -1)
		for _, match := range matches {
			profile := strings.TrimPrefix(match[1], "profile ")
			if !profileSet[profile] {
				profileSet[profile] = true
				profiles = append(profiles, profile)
			}
		}
	}

	sort.Strings(profiles)
	return profiles
}

// GetAccountID retorna o ID da conta do chamador via STS.
func (r *TelemetryRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	cacheKey := "account-id-" + profile
	if cached, ok := r.responses.get(cacheKey); ok {
		return cached.(string), nil
	}

	client, err := r.getServiceClient(ctx, profile, "", "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	var result *sts.GetCallerIdentityOutput
	err = r.retry.Do(ctx, "GetCallerIdentity", func() error {
		var apiErr error
		result, apiErr = stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		return apiErr
	})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}

	accountID := *result.Account
	r.responses.put(cacheKey, accountID)
	return accountID, nil
}

// ListOrganizationAccounts lista as contas ativas da organização. Perfis sem
// acesso à API de Organizations (ou fora de uma organização) caem para a
// própria conta do chamador.
func (r *TelemetryRepositoryImpl) ListOrganizationAccounts(ctx context.Context, profile string) ([]entity.AccountInfo, error) {
	cacheKey := "org-accounts-" + profile
	if cached, ok := r.responses.get(cacheKey); ok {
		return cached.([]entity.AccountInfo), nil
	}

	client, err := r.getServiceClient(ctx, profile, "", "organizations")
	if err != nil {
		return nil, err
	}
	orgClient := client.(*organizations.Client)

	var accounts []entity.AccountInfo
	paginator := organizations.NewListAccountsPaginator(orgClient, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			if isAccessDenied(err) {
				return r.fallbackToCallerAccount(ctx, profile)
			}
			return nil, fmt.Errorf("error listing organization accounts for profile %s: %w", profile, err)
		}

		for _, acct := range output.Accounts {
			if acct.Status != organizationsTypes.AccountStatusActive {
				continue
			}
			info := entity.AccountInfo{Status: string(acct.Status)}
			if acct.Id != nil {
				info.ID = *acct.Id
			}
			if acct.Name != nil {
				info.Name = *acct.Name
			}
			if acct.Email != nil {
				info.Email = *acct.Email
			}
			if acct.JoinedTimestamp != nil {
				info.JoinedAt = *acct.JoinedTimestamp
			}
			accounts = append(accounts, info)
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})

	r.responses.put(cacheKey, accounts)
	return accounts, nil
}

func (r *TelemetryRepositoryImpl) fallbackToCallerAccount(ctx context.Context, profile string) ([]entity.AccountInfo, error) {
	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}
	return []entity.AccountInfo{{ID: accountID, Name: profile, Status: "ACTIVE"}}, nil
}

// GetAccessibleRegions retorna as regiões acessíveis para o perfil.
func (r *TelemetryRepositoryImpl) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	defaultRegions := []string{
		"us-east-1", "us-east-2", "us-west-1", "us-west-2",
		"eu-west-1", "eu-west-2", "eu-central-1",
		"ap-southeast-1", "ap-southeast-2", "ap-northeast-1",
	}

	client, err := r.getServiceClient(ctx, profile, "us-east-1", "ec2")
	if err != nil {
		return defaultRegions, nil
	}
	ec2Client := client.(*ec2.Client)

	result, err := ec2Client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		// Fallback para regiões padrão
		return defaultRegions, nil
	}

	var regions []string
	for _, region := range result.Regions {
		if region.RegionName != nil {
			regions = append(regions, *region.RegionName)
		}
	}

	sort.Strings(regions)
	return regions, nil
}

// GetCostRecords busca os custos diários da janela, agrupados por conta e
// serviço, paginando o Cost Explorer até o fim dos resultados.
func (r *TelemetryRepositoryImpl) GetCostRecords(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.CostRecord, error) {
	cacheKey := fmt.Sprintf("cost-records-%s-%s-%s-%s",
		profile,
		window.Start.Format("2006-01-02"),
		window.End.Format("2006-01-02"),
		strings.Join(tags, ","))
	if cached, ok := r.responses.get(cacheKey); ok {
		return cached.([]entity.CostRecord), nil
	}

	client, err := r.getServiceClient(ctx, profile, "", "costexplorer")
	if err != nil {
		return nil, err
	}
	ceClient := client.(*costexplorer.Client)

	filter, err := parseTagFilter(tags)
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &costexplorerTypes.DateInterval{
			Start: aws.String(window.Start.Format("2006-01-02")),
			End:   aws.String(window.End.Format("2006-01-02")),
		},
		Granularity: costexplorerTypes.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []costexplorerTypes.GroupDefinition{
			{Type: costexplorerTypes.GroupDefinitionTypeDimension, Key: aws.String("LINKED_ACCOUNT")},
			{Type: costexplorerTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		Filter: filter,
	}

	var records []entity.CostRecord
	for {
		var result *costexplorer.GetCostAndUsageOutput
		err := r.retry.Do(ctx, "GetCostAndUsage", func() error {
			var apiErr error
			result, apiErr = ceClient.GetCostAndUsage(ctx, input)
			return apiErr
		})
		if err != nil {
			return nil, fmt.Errorf("error getting cost records for profile %s: %w", profile, err)
		}

		for _, period := range result.ResultsByTime {
			bucketStart, _ := time.Parse("2006-01-02", *period.TimePeriod.Start)
			bucketEnd, _ := time.Parse("2006-01-02", *period.TimePeriod.End)

			for _, group := range period.Groups {
				if len(group.Keys) < 2 {
					continue
				}
				metric, ok := group.Metrics["UnblendedCost"]
				if !ok {
					continue
				}
				amount, err := strconv.ParseFloat(*metric.Amount, 64)
				if err != nil {
					continue
				}
				// Ignora valores residuais de arredondamento do Cost Explorer
				if amount <= 0.001 {
					continue
				}

				currency := "USD"
				if metric.Unit != nil {
					currency = *metric.Unit
				}

				records = append(records, entity.CostRecord{
					AccountID:   group.Keys[0],
					ServiceName: group.Keys[1],
					BucketStart: bucketStart,
					BucketEnd:   bucketEnd,
					Amount:      amount,
					Currency:    currency,
				})
			}
		}

		if result.NextPageToken == nil {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	r.responses.put(cacheKey, records)
	return records, nil
}

// GetDailyTotals busca o gasto total por dia na janela, sem agrupamento.
func (r *TelemetryRepositoryImpl) GetDailyTotals(ctx context.Context, profile string, window entity.TimeWindow, tags []string) ([]entity.DailyCost, error) {
	cacheKey := fmt.Sprintf("daily-totals-%s-%s-%s-%s",
		profile,
		window.Start.Format("2006-01-02"),
		window.End.Format("2006-01-02"),
		strings.Join(tags, ","))
	if cached, ok := r.responses.get(cacheKey); ok {
		return cached.([]entity.DailyCost), nil
	}

	client, err := r.getServiceClient(ctx, profile, "", "costexplorer")
	if err != nil {
		return nil, err
	}
	ceClient := client.(*costexplorer.Client)

	filter, err := parseTagFilter(tags)
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &costexplorerTypes.DateInterval{
			Start: aws.String(window.Start.Format("2006-01-02")),
			End:   aws.String(window.End.Format("2006-01-02")),
		},
		Granularity: costexplorerTypes.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		Filter:      filter,
	}

	var totals []entity.DailyCost
	for {
		var result *costexplorer.GetCostAndUsageOutput
		err := r.retry.Do(ctx, "GetCostAndUsage", func() error {
			var apiErr error
			result, apiErr = ceClient.GetCostAndUsage(ctx, input)
			return apiErr
		})
		if err != nil {
			return nil, fmt.Errorf("error getting daily totals for profile %s: %w", profile, err)
		}

		for _, period := range result.ResultsByTime {
			date, _ := time.Parse("2006-01-02", *period.TimePeriod.Start)

			cost := 0.0
			if val, ok := period.Total["UnblendedCost"]; ok && val.Amount != nil {
				cost, _ = strconv.ParseFloat(*val.Amount, 64)
			}
			totals = append(totals, entity.DailyCost{Date: date, Cost: cost})
		}

		if result.NextPageToken == nil {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	r.responses.put(cacheKey, totals)
	return totals, nil
}

// GetBudgets busca os orçamentos configurados para a conta.
func (r *TelemetryRepositoryImpl) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	client, err := r.getServiceClient(ctx, profile, "", "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(*budgets.Client)

	result, err := budgetsClient.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		// Não é um erro fatal, pode ser que não tenha orçamentos
		return nil, nil
	}

	var budgetsList []entity.BudgetInfo
	for _, budget := range result.Budgets {
		budgetInfo := entity.BudgetInfo{
			Name: *budget.BudgetName,
		}

		if budget.BudgetLimit != nil && budget.BudgetLimit.Amount != nil {
			limit, err := strconv.ParseFloat(*budget.BudgetLimit.Amount, 64)
			if err == nil {
				budgetInfo.Limit = limit
			}
		}

		if budget.CalculatedSpend != nil {
			if budget.CalculatedSpend.ActualSpend != nil && budget.CalculatedSpend.ActualSpend.Amount != nil {
				actual, err := strconv.ParseFloat(*budget.CalculatedSpend.ActualSpend.Amount, 64)
				if err == nil {
					budgetInfo.Actual = actual
				}
			}
			if budget.CalculatedSpend.ForecastedSpend != nil && budget.CalculatedSpend.ForecastedSpend.Amount != nil {
				forecast, err := strconv.ParseFloat(*budget.CalculatedSpend.ForecastedSpend.Amount, 64)
				if err == nil {
					budgetInfo.Forecast = forecast
				}
			}
		}

		budgetsList = append(budgetsList, budgetInfo)
	}

	return budgetsList, nil
}

// metricSpec descreve uma métrica do CloudWatch coletada para um recurso.
type metricSpec struct {
	namespace string
	metric    string
	dimension string
}

var (
	ec2Metrics = []metricSpec{
		{"AWS/EC2", "CPUUtilization", "InstanceId"},
		{"AWS/EC2", "NetworkIn", "InstanceId"},
		{"AWS/EC2", "NetworkOut", "InstanceId"},
	}
	lambdaMetrics = []metricSpec{
		{"AWS/Lambda", "Invocations", "FunctionName"},
		{"AWS/Lambda", "Errors", "FunctionName"},
		{"AWS/Lambda", "Duration", "FunctionName"},
	}
	rdsMetrics = []metricSpec{
		{"AWS/RDS", "CPUUtilization", "DBInstanceIdentifier"},
		{"AWS/RDS", "DatabaseConnections", "DBInstanceIdentifier"},
		{"AWS/RDS", "FreeStorageSpace", "DBInstanceIdentifier"},
	}
	albMetrics = []metricSpec{
		{"AWS/ApplicationELB", "RequestCount", "LoadBalancer"},
		{"AWS/ApplicationELB", "ActiveConnectionCount", "LoadBalancer"},
	}
)

// GetUsageSamples coleta amostras de utilização dos recursos nas regiões
// especificadas. Falhas em um serviço ou região não interrompem a coleta dos
// demais.
func (r *TelemetryRepositoryImpl) GetUsageSamples(ctx context.Context, profile string, regions []string, window entity.TimeWindow) ([]entity.UsageSample, error) {
	if _, err := r.getAWSConfig(ctx, profile); err != nil {
		return nil, err
	}

	var samples []entity.UsageSample
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, region := range regions {
		wg.Add(1)
		go func(rgn string) {
			defer wg.Done()
			regional := r.collectRegionUsage(ctx, profile, rgn, window)
			if len(regional) == 0 {
				return
			}
			mu.Lock()
			samples = append(samples, regional...)
			mu.Unlock()
		}(region)
	}
	wg.Wait()

	// Métricas de armazenamento S3 são publicadas com granularidade diária
	samples = append(samples, r.collectBucketStorage(ctx, profile, window)...)

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].ResourceID != samples[j].ResourceID {
			return samples[i].ResourceID < samples[j].ResourceID
		}
		if samples[i].MetricName != samples[j].MetricName {
			return samples[i].MetricName < samples[j].MetricName
		}
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return samples, nil
}

func (r *TelemetryRepositoryImpl) collectRegionUsage(ctx context.Context, profile, region string, window entity.TimeWindow) []entity.UsageSample {
	cwClient, err := r.cloudWatchClient(ctx, profile, region)
	if err != nil {
		return nil
	}

	var samples []entity.UsageSample
	collect := func(ids []string, specs []metricSpec) {
		for _, id := range ids {
			for _, spec := range specs {
				samples = append(samples, r.fetchMetricSamples(ctx, cwClient, spec, id, window)...)
			}
		}
	}

	collect(r.listRunningInstances(ctx, profile, region), ec2Metrics)
	collect(r.listFunctionNames(ctx, profile, region), lambdaMetrics)
	collect(r.listDBInstances(ctx, profile, region), rdsMetrics)
	collect(r.listLoadBalancers(ctx, profile, region), albMetrics)

	samples = append(samples, r.collectLogGroupStorage(ctx, profile, region, window)...)
	return samples
}

func (r *TelemetryRepositoryImpl) cloudWatchClient(ctx context.Context, profile, region string) (*cloudwatch.Client, error) {
	client, err := r.getServiceClient(ctx, profile, region, "cloudwatch")
	if err != nil {
		return nil, err
	}
	return client.(*cloudwatch.Client), nil
}

// fetchMetricSamples busca os datapoints horários de uma métrica para um
// recurso dentro da janela.
func (r *TelemetryRepositoryImpl) fetchMetricSamples(ctx context.Context, client *cloudwatch.Client, spec metricSpec, resourceID string, window entity.TimeWindow) []entity.UsageSample {
	result, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(spec.namespace),
		MetricName: aws.String(spec.metric),
		Dimensions: []cloudwatchTypes.Dimension{
			{Name: aws.String(spec.dimension), Value: aws.String(resourceID)},
		},
		StartTime:  aws.Time(window.Start),
		EndTime:    aws.Time(window.End),
		Period:     aws.Int32(3600),
		Statistics: []cloudwatchTypes.Statistic{cloudwatchTypes.StatisticAverage},
	})
	if err != nil {
		return nil
	}

	var samples []entity.UsageSample
	for _, dp := range result.Datapoints {
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		samples = append(samples, entity.UsageSample{
			ResourceID: resourceID,
			MetricName: spec.metric,
			Timestamp:  *dp.Timestamp,
			Value:      *dp.Average,
		})
	}
	return samples
}

func (r *TelemetryRepositoryImpl) listRunningInstances(ctx context.Context, profile, region string) []string {
	client, err := r.getServiceClient(ctx, profile, region, "ec2")
	if err != nil {
		return nil
	}
	ec2Client := client.(*ec2.Client)

	var ids []string
	paginator := ec2.NewDescribeInstancesPaginator(ec2Client, &ec2.DescribeInstancesInput{
		Filters: []ec2Types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"running"}},
		},
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return ids
		}
		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				if instance.InstanceId != nil {
					ids = append(ids, *instance.InstanceId)
				}
			}
		}
	}
	return ids
}

func (r *TelemetryRepositoryImpl) listFunctionNames(ctx context.Context, profile, region string) []string {
	client, err := r.getServiceClient(ctx, profile, region, "lambda")
	if err != nil {
		return nil
	}
	lambdaClient := client.(*lambda.Client)

	var names []string
	paginator := lambda.NewListFunctionsPaginator(lambdaClient, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return names
		}
		for _, fn := range output.Functions {
			if fn.FunctionName != nil {
				names = append(names, *fn.FunctionName)
			}
		}
	}
	return names
}

func (r *TelemetryRepositoryImpl) listDBInstances(ctx context.Context, profile, region string) []string {
	client, err := r.getServiceClient(ctx, profile, region, "rds")
	if err != nil {
		return nil
	}
	rdsClient := client.(*rds.Client)

	var ids []string
	paginator := rds.NewDescribeDBInstancesPaginator(rdsClient, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return ids
		}
		for _, db := range output.DBInstances {
			if db.DBInstanceIdentifier != nil {
				ids = append(ids, *db.DBInstanceIdentifier)
			}
		}
	}
	return ids
}

func (r *TelemetryRepositoryImpl) listLoadBalancers(ctx context.Context, profile, region string) []string {
	client, err := r.getServiceClient(ctx, profile, region, "elbv2")
	if err != nil {
		return nil
	}
	elbClient := client.(*elasticloadbalancingv2.Client)

	var dimensions []string
	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(elbClient, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return dimensions
		}
		for _, lb := range output.LoadBalancers {
			if lb.LoadBalancerArn == nil {
				continue
			}
			if dim := loadBalancerDimension(*lb.LoadBalancerArn); dim != "" {
				dimensions = append(dimensions, dim)
			}
		}
	}
	return dimensions
}

// loadBalancerDimension extrai do ARN o valor da dimensão LoadBalancer
// esperado pelo CloudWatch (app/nome/id).
func loadBalancerDimension(arn string) string {
	parts := strings.SplitN(arn, "loadbalancer/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// collectLogGroupStorage registra o volume armazenado de cada log group como
// uma amostra única por execução.
func (r *TelemetryRepositoryImpl) collectLogGroupStorage(ctx context.Context, profile, region string, window entity.TimeWindow) []entity.UsageSample {
	client, err := r.getServiceClient(ctx, profile, region, "logs")
	if err != nil {
		return nil
	}
	logsClient := client.(*cloudwatchlogs.Client)

	var samples []entity.UsageSample
	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(logsClient, &cloudwatchlogs.DescribeLogGroupsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return samples
		}
		for _, group := range output.LogGroups {
			if group.LogGroupName == nil || group.StoredBytes == nil {
				continue
			}
			samples = append(samples, entity.UsageSample{
				ResourceID: *group.LogGroupName,
				MetricName: "StoredBytes",
				Timestamp:  window.End.Add(-time.Hour),
				Value:      float64(*group.StoredBytes),
			})
		}
	}
	return samples
}

func (r *TelemetryRepositoryImpl) collectBucketStorage(ctx context.Context, profile string, window entity.TimeWindow) []entity.UsageSample {
	client, err := r.getServiceClient(ctx, profile, "us-east-1", "s3")
	if err != nil {
		return nil
	}
	s3Client := client.(*s3.Client)

	buckets, err := s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil
	}

	cwClient, err := r.cloudWatchClient(ctx, profile, "us-east-1")
	if err != nil {
		return nil
	}

	var samples []entity.UsageSample
	for _, bucket := range buckets.Buckets {
		if bucket.Name == nil {
			continue
		}
		samples = append(samples, r.fetchBucketMetric(ctx, cwClient, *bucket.Name, "BucketSizeBytes", "StandardStorage", window)...)
		samples = append(samples, r.fetchBucketMetric(ctx, cwClient, *bucket.Name, "NumberOfObjects", "AllStorageTypes", window)...)
	}
	return samples
}

func (r *TelemetryRepositoryImpl) fetchBucketMetric(ctx context.Context, client *cloudwatch.Client, bucketName, metricName, storageType string, window entity.TimeWindow) []entity.UsageSample {
	result, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/S3"),
		MetricName: aws.String(metricName),
		Dimensions: []cloudwatchTypes.Dimension{
			{Name: aws.String("BucketName"), Value: aws.String(bucketName)},
			{Name: aws.String("StorageType"), Value: aws.String(storageType)},
		},
		StartTime:  aws.Time(window.Start),
		EndTime:    aws.Time(window.End),
		Period:     aws.Int32(86400),
		Statistics: []cloudwatchTypes.Statistic{cloudwatchTypes.StatisticAverage},
	})
	if err != nil {
		return nil
	}

	var samples []entity.UsageSample
	for _, dp := range result.Datapoints {
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		samples = append(samples, entity.UsageSample{
			ResourceID: bucketName,
			MetricName: metricName,
			Timestamp:  *dp.Timestamp,
			Value:      *dp.Average,
		})
	}
	return samples
}

// GetResourceInventory descobre os recursos das regiões através da API de
// tagging, em paralelo por região.
func (r *TelemetryRepositoryImpl) GetResourceInventory(ctx context.Context, profile string, regions []string) ([]entity.ResourceInfo, error) {
	cacheKey := fmt.Sprintf("inventory-%s-%s", profile, strings.Join(regions, ","))
	if cached, ok := r.responses.get(cacheKey); ok {
		return cached.([]entity.ResourceInfo), nil
	}

	if _, err := r.getAWSConfig(ctx, profile); err != nil {
		return nil, err
	}

	var resources []entity.ResourceInfo
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, region := range regions {
		wg.Add(1)
		go func(rgn string) {
			defer wg.Done()

			client, err := r.getServiceClient(ctx, profile, rgn, "tagging")
			if err != nil {
				return
			}
			taggingClient := client.(*resourcegroupstaggingapi.Client)

			paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(taggingClient, &resourcegroupstaggingapi.GetResourcesInput{
				ResourcesPerPage: aws.Int32(100),
			})
			for paginator.HasMorePages() {
				output, err := paginator.NextPage(ctx)
				if err != nil {
					return
				}

				mu.Lock()
				for _, mapping := range output.ResourceTagMappingList {
					if mapping.ResourceARN == nil {
						continue
					}
					info := parseResourceARN(*mapping.ResourceARN)
					if len(mapping.Tags) > 0 {
						info.Tags = make(map[string]string, len(mapping.Tags))
						for _, tag := range mapping.Tags {
							if tag.Key != nil && tag.Value != nil {
								info.Tags[*tag.Key] = *tag.Value
							}
						}
					}
					resources = append(resources, info)
				}
				mu.Unlock()
			}
		}(region)
	}
	wg.Wait()

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].ARN < resources[j].ARN
	})

	r.responses.put(cacheKey, resources)
	return resources, nil
}

// parseResourceARN extrai serviço, região, conta e tipo de recurso de um ARN
// (arn:partition:service:region:account:resource).
func parseResourceARN(arn string) entity.ResourceInfo {
	info := entity.ResourceInfo{ARN: arn}

	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return info
	}
	info.Service = parts[2]
	info.Region = parts[3]
	info.AccountID = parts[4]

	resource := parts[5]
	switch {
	case strings.Contains(resource, "/"):
		segments := strings.SplitN(resource, "/", 2)
		info.ResourceType = segments[0]
		info.Name = segments[1]
	case strings.Contains(resource, ":"):
		segments := strings.SplitN(resource, ":", 2)
		info.ResourceType = segments[0]
		info.Name = segments[1]
	default:
		info.Name = resource
	}
	return info
}

// parseTagFilter converte tags no formato "Chave=Valor" em um filtro do Cost Explorer
func parseTagFilter(tags []string) (*costexplorerTypes.Expression, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var tagExpressions []costexplorerTypes.Expression
	for _, tag := range tags {
		parts := strings.SplitN(tag, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid tag format: %s (expected Key=Value)", tag)
		}

		tagExpressions = append(tagExpressions, costexplorerTypes.Expression{
			Tags: &costexplorerTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}

	if len(tagExpressions) == 1 {
		return &tagExpressions[0], nil
	}

	return &costexplorerTypes.Expression{
		And: tagExpressions,
	}, nil
}
