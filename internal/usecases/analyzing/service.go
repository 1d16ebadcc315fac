// Package analyzing оркестрира анализа на корпусите с касови бележки:
// четене на файловете, извличане на цените и запис на резултата
package analyzing

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/infrastructure/repository"
	"github.com/ivpetrov/price-history-api/internal/analysis"
	"github.com/ivpetrov/price-history-api/internal/config"
	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/internal/parsing"
	"github.com/ivpetrov/price-history-api/pkg/utils"
)

// RunRequest описва един анализ: кои файлове и за какъв период. Празен
// списък означава всички корпус файлове от наблюдаваната директория
type RunRequest struct {
	Files     []string
	StartDate *time.Time
	EndDate   *time.Time
}

// Result е пълният резултат от един анализ
type Result struct {
	Run          *domain.AnalysisRun
	Table        *domain.PriceHistoryTable
	Trends       *domain.TrendSummary
	Observations map[string]map[domain.DateKey][]domain.PriceObservation
}

// ProductHistory е историята на един продукт: осреднената серия заедно
// със суровите наблюдения, от които е получена
type ProductHistory struct {
	Product      string                    `json:"product"`
	Series       domain.PriceSeries        `json:"series"`
	Observations []domain.PriceObservation `json:"observations"`
	Trend        *domain.ProductTrend      `json:"trend,omitempty"`
}

type Service interface {
	Run(ctx context.Context, req RunRequest) (*Result, error)
	Current() (*Result, error)
	GetRun(id string) (*domain.AnalysisRun, error)
	ListProducts() ([]string, error)
	ProductHistory(product string) (*ProductHistory, error)
	Trends(limit int) (*domain.TrendSummary, error)
}

type service struct {
	receiptsDir    string
	maxConcurrent  int
	topMoversLimit int

	parser       *parsing.Parser
	runs         repository.AnalysisRunRepository
	observations repository.ObservationRepository

	mutex      sync.RWMutex
	lastResult *Result
}

func NewService(
	cfg *config.Config,
	runs repository.AnalysisRunRepository,
	observations repository.ObservationRepository,
) (Service, error) {
	cutover, err := cfg.EURCutover()
	if err != nil {
		return nil, errors.Wrap(err, "невалидна гранична дата за еврото")
	}

	maxConcurrent := cfg.Analysis.MaxConcurrentFiles
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}

	parser := parsing.NewParser(
		parsing.NewDateResolver(parsing.FixedWindowYearPolicy(
			cfg.Analysis.YearPolicyCurrent,
			cfg.Analysis.YearPolicyDecember,
		)),
		parsing.NewCurrencyNormalizer(cutover, cfg.Currency.BGNPerEUR),
	)

	return &service{
		receiptsDir:    cfg.Analysis.ReceiptsDir,
		maxConcurrent:  maxConcurrent,
		topMoversLimit: cfg.Analysis.TopMoversLimit,
		parser:         parser,
		runs:           runs,
		observations:   observations,
	}, nil
}

// Run обработва подадените файлове паралелно и записва резултата. Грешка
// при четене на отделен файл не спира анализа, записва се към резултата
func (s *service) Run(ctx context.Context, req RunRequest) (*Result, error) {
	startedAt := time.Now()

	files := req.Files
	if len(files) == 0 {
		var err error

		files, err = s.listCorpusFiles()
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, ErrNoCorpusFiles
	}

	filters := domain.AnalysisFilters{StartDate: req.StartDate, EndDate: req.EndDate}

	semaphore := make(chan struct{}, s.maxConcurrent)

	var wg sync.WaitGroup

	// Мутекс за резултатите, попълвани от няколко горутини
	var mutex sync.Mutex

	results := make([]*parsing.FileResult, 0, len(files))
	fileErrors := make([]domain.FileError, 0)

	for _, file := range files {
		wg.Add(1)

		go func(file string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			content, err := os.ReadFile(file)
			if err != nil {
				logrus.WithError(err).WithField("file", file).Error("Корпус файлът не може да бъде прочетен")

				mutex.Lock()
				fileErrors = append(fileErrors, domain.FileError{File: file, Error: err.Error()})
				mutex.Unlock()

				return
			}

			result := s.parser.ParseFile(filepath.Base(file), string(content), filters)

			mutex.Lock()
			results = append(results, result)
			mutex.Unlock()
		}(file)
	}

	wg.Wait()

	if len(results) == 0 {
		return nil, ErrAllFilesFailed
	}

	// Стабилен ред на файловете независимо кога е завършила горутината им
	sort.Slice(results, func(i, j int) bool {
		return results[i].Source < results[j].Source
	})

	aggregate := analysis.Aggregate(results)
	table := analysis.BuildTable(aggregate.Prices)
	trends := analysis.AnalyzeTrends(table, s.topMoversLimit)

	code, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "генериране на код на анализа")
	}

	run := &domain.AnalysisRun{
		ID:         uuid.NewString(),
		Code:       code,
		Files:      files,
		FileErrors: fileErrors,
		Filters:    filters,
		Summary: domain.AnalysisSummary{
			FilesProcessed:   len(results),
			FilesFailed:      len(fileErrors),
			BlocksFound:      aggregate.Stats.BlocksFound,
			BlocksParsed:     aggregate.Stats.BlocksParsed,
			BlocksSkipped:    aggregate.Stats.BlocksSkipped,
			ObservationCount: aggregate.Stats.ObservationCount,
			ProductsTotal:    len(aggregate.Prices),
			ProductsRetained: len(table.Rows),
		},
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}

	if err := s.runs.SaveRun(run); err != nil {
		return nil, errors.Wrap(err, "запис на анализа")
	}

	if err := s.observations.SaveForRun(run.ID, flattenObservations(results)); err != nil {
		return nil, errors.Wrap(err, "запис на наблюденията")
	}

	result := &Result{
		Run:          run,
		Table:        table,
		Trends:       trends,
		Observations: aggregate.Observations,
	}

	s.mutex.Lock()
	s.lastResult = result
	s.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"run_id":            run.ID,
		"code":              run.Code,
		"files":             len(files),
		"files_failed":      len(fileErrors),
		"blocks_found":      run.Summary.BlocksFound,
		"blocks_parsed":     run.Summary.BlocksParsed,
		"products_total":    run.Summary.ProductsTotal,
		"products_retained": run.Summary.ProductsRetained,
	}).Info("Анализът завърши")

	return result, nil
}

// Current връща резултата от последния анализ. При рестарт на процеса той
// се възстановява от записаните наблюдения на последния анализ
func (s *service) Current() (*Result, error) {
	s.mutex.RLock()
	cached := s.lastResult
	s.mutex.RUnlock()

	if cached != nil {
		return cached, nil
	}

	run, err := s.runs.GetLatestRun()
	if err != nil {
		return nil, errors.Wrap(err, "четене на последния анализ")
	}

	if run == nil {
		return nil, ErrNoAnalysis
	}

	observations, err := s.observations.ListByRun(run.ID)
	if err != nil {
		return nil, errors.Wrap(err, "четене на наблюденията")
	}

	aggregate := analysis.Aggregate(resultsFromObservations(observations))
	table := analysis.BuildTable(aggregate.Prices)
	trends := analysis.AnalyzeTrends(table, s.topMoversLimit)

	result := &Result{
		Run:          run,
		Table:        table,
		Trends:       trends,
		Observations: aggregate.Observations,
	}

	s.mutex.Lock()
	s.lastResult = result
	s.mutex.Unlock()

	return result, nil
}

func (s *service) GetRun(id string) (*domain.AnalysisRun, error) {
	run, err := s.runs.GetRunByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "четене на анализа")
	}

	if run == nil {
		return nil, ErrRunNotFound
	}

	return run, nil
}

func (s *service) ListProducts() ([]string, error) {
	result, err := s.Current()
	if err != nil {
		return nil, err
	}

	return result.Table.Products(), nil
}

func (s *service) ProductHistory(product string) (*ProductHistory, error) {
	result, err := s.Current()
	if err != nil {
		return nil, err
	}

	series, ok := result.Table.Rows[product]
	if !ok {
		return nil, ErrProductNotFound
	}

	// Суровите наблюдения идват от базата, тя е авторитетният им източник
	observations, err := s.observations.ListByProduct(result.Run.ID, product)
	if err != nil {
		return nil, errors.Wrap(err, "четене на наблюденията на продукта")
	}

	history := &ProductHistory{
		Product:      product,
		Series:       series,
		Observations: observations,
	}

	for _, trend := range result.Trends.Trends {
		if trend.Product == product {
			history.Trend = trend
			break
		}
	}

	return history, nil
}

func (s *service) Trends(limit int) (*domain.TrendSummary, error) {
	result, err := s.Current()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit == s.topMoversLimit {
		return result.Trends, nil
	}

	return analysis.AnalyzeTrends(result.Table, limit), nil
}

func (s *service) listCorpusFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.receiptsDir, "*.txt"))
	if err != nil {
		return nil, errors.Wrap(err, "четене на директорията с бележки")
	}

	sort.Strings(files)

	return files, nil
}

func flattenObservations(results []*parsing.FileResult) []domain.PriceObservation {
	var observations []domain.PriceObservation

	for _, result := range results {
		observations = append(observations, result.Observations...)
	}

	return observations
}

// resultsFromObservations възстановява пофайловите резултати от записаните
// наблюдения, така че повторното агрегиране да мине по същия път като при
// свеж анализ
func resultsFromObservations(observations []domain.PriceObservation) []*parsing.FileResult {
	bySource := make(map[string]*parsing.FileResult)

	for _, observation := range observations {
		result, ok := bySource[observation.Source]
		if !ok {
			result = &parsing.FileResult{
				Source:   observation.Source,
				Products: make(map[string]domain.PriceSeries),
				Stats:    domain.NewParseStats(),
			}
			bySource[observation.Source] = result
		}

		if result.Products[observation.Product] == nil {
			result.Products[observation.Product] = make(domain.PriceSeries)
		}

		result.Products[observation.Product][observation.Date] = observation.Price
		result.Observations = append(result.Observations, observation)
	}

	results := make([]*parsing.FileResult, 0, len(bySource))
	for _, result := range bySource {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Source < results[j].Source
	})

	return results
}
