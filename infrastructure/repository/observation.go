package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ivpetrov/price-history-api/infrastructure/database/postgres"
	"github.com/ivpetrov/price-history-api/internal/domain"
)

const observationsTable = "price_observations"

// Вмъкваме наблюденията на партиди, за да не опрем в лимита на Postgres
// за параметри в една заявка
const observationInsertBatchSize = 500

type ObservationRepository interface {
	SaveForRun(runID string, observations []domain.PriceObservation) error
	ListByRun(runID string) ([]domain.PriceObservation, error)
	ListByProduct(runID, product string) ([]domain.PriceObservation, error)
}

type observationRepository struct {
	conn *postgres.Connection
}

func NewObservationRepository(conn *postgres.Connection) ObservationRepository {
	return &observationRepository{
		conn: conn,
	}
}

func (r *observationRepository) SaveForRun(runID string, observations []domain.PriceObservation) error {
	for start := 0; start < len(observations); start += observationInsertBatchSize {
		end := start + observationInsertBatchSize
		if end > len(observations) {
			end = len(observations)
		}

		if err := r.insertBatch(runID, observations[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (r *observationRepository) insertBatch(runID string, observations []domain.PriceObservation) error {
	queryBuilder := squirrel.
		Insert(observationsTable).
		Columns("run_id", "product", "observed_on", "price", "source").
		PlaceholderFormat(squirrel.Dollar)

	for _, observation := range observations {
		queryBuilder = queryBuilder.Values(
			runID,
			observation.Product,
			observation.Date,
			observation.Price,
			observation.Source,
		)
	}

	observationsSQL, observationsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("грешка при построяване на заявката: %w", err)
	}

	_, err = r.conn.Exec(observationsSQL, observationsArgs...)
	if err != nil {
		return fmt.Errorf("грешка при запис на наблюденията: %w", err)
	}

	return nil
}

func (r *observationRepository) ListByRun(runID string) ([]domain.PriceObservation, error) {
	return r.list(squirrel.Eq{"run_id": runID})
}

func (r *observationRepository) ListByProduct(runID, product string) ([]domain.PriceObservation, error) {
	return r.list(squirrel.Eq{"run_id": runID, "product": product})
}

func (r *observationRepository) list(where squirrel.Eq) ([]domain.PriceObservation, error) {
	queryBuilder := squirrel.
		Select("product", "observed_on", "price", "source").
		From(observationsTable).
		Where(where).
		OrderBy("product ASC", "observed_on ASC", "source ASC").
		PlaceholderFormat(squirrel.Dollar)

	observationsSQL, observationsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("грешка при построяване на заявката: %w", err)
	}

	rows, err := r.conn.Query(observationsSQL, observationsArgs...)
	if err != nil {
		return nil, fmt.Errorf("грешка при изпълнение на заявката: %w", err)
	}
	defer rows.Close()

	observations := make([]domain.PriceObservation, 0)

	for rows.Next() {
		var observation domain.PriceObservation

		err := rows.Scan(
			&observation.Product,
			&observation.Date,
			&observation.Price,
			&observation.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("грешка при четене на ред: %w", err)
		}

		observations = append(observations, observation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return observations, nil
}
