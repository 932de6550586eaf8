package postgres

import (
	"context"
	"fmt"

	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo secuencia de números de vale por año sobre PostgreSQL.
// El UPSERT con RETURNING es atómico: dos llamadas concurrentes al mismo año
// nunca reciben el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador de secuencias. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente valor de la secuencia del año indicado.
func (r *SequenceRepo) Next(year int) (int, error) {
	query := `
		INSERT INTO voucher_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value`
	var next int
	if err := r.q.QueryRow(context.Background(), query, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %d: %w", year, err)
	}
	return next, nil
}
