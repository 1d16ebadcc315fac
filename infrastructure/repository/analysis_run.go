// Package repository съдържа достъпа до данните в Postgres
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"

	"github.com/ivpetrov/price-history-api/infrastructure/database/postgres"
	"github.com/ivpetrov/price-history-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const analysisRunsTable = "analysis_runs"

type AnalysisRunRepository interface {
	SaveRun(run *domain.AnalysisRun) error
	GetRunByID(id string) (*domain.AnalysisRun, error)
	GetLatestRun() (*domain.AnalysisRun, error)
}

type analysisRunRepository struct {
	conn *postgres.Connection
}

func NewAnalysisRunRepository(conn *postgres.Connection) AnalysisRunRepository {
	return &analysisRunRepository{
		conn: conn,
	}
}

func (r *analysisRunRepository) SaveRun(run *domain.AnalysisRun) error {
	files, err := json.Marshal(run.Files)
	if err != nil {
		return fmt.Errorf("грешка при сериализиране на файловете: %w", err)
	}

	fileErrors, err := json.Marshal(run.FileErrors)
	if err != nil {
		return fmt.Errorf("грешка при сериализиране на файловите грешки: %w", err)
	}

	filters, err := json.Marshal(run.Filters)
	if err != nil {
		return fmt.Errorf("грешка при сериализиране на филтрите: %w", err)
	}

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("грешка при сериализиране на обобщението: %w", err)
	}

	queryBuilder := squirrel.
		Insert(analysisRunsTable).
		Columns("id", "code", "files", "file_errors", "filters", "summary", "started_at", "completed_at").
		Values(run.ID, run.Code, files, fileErrors, filters, summary, run.StartedAt, run.CompletedAt).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	runSQL, runArgs, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("грешка при построяване на заявката: %w", err)
	}

	return r.conn.QueryRow(runSQL, runArgs...).Scan(&run.CreatedAt)
}

func (r *analysisRunRepository) GetRunByID(id string) (*domain.AnalysisRun, error) {
	return r.getRun(squirrel.Eq{"id": id})
}

func (r *analysisRunRepository) GetLatestRun() (*domain.AnalysisRun, error) {
	return r.getRun(nil)
}

func (r *analysisRunRepository) getRun(where interface{}) (*domain.AnalysisRun, error) {
	queryBuilder := squirrel.
		Select("id", "code", "files", "file_errors", "filters", "summary", "started_at", "completed_at", "created_at").
		From(analysisRunsTable).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	runSQL, runArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("грешка при построяване на заявката: %w", err)
	}

	var (
		run        domain.AnalysisRun
		files      []byte
		fileErrors []byte
		filters    []byte
		summary    []byte
	)

	err = r.conn.QueryRow(runSQL, runArgs...).Scan(
		&run.ID,
		&run.Code,
		&files,
		&fileErrors,
		&filters,
		&summary,
		&run.StartedAt,
		&run.CompletedAt,
		&run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("грешка при изпълнение на заявката: %w", err)
	}

	if err := json.Unmarshal(files, &run.Files); err != nil {
		return nil, err
	}

	if len(fileErrors) > 0 {
		if err := json.Unmarshal(fileErrors, &run.FileErrors); err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal(filters, &run.Filters); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return nil, err
	}

	return &run, nil
}
