package repository

// SequenceRepository define el puerto para la secuencia de números de vale,
// con alcance por año. Next debe ser atómico frente a llamadas concurrentes
// (en PostgreSQL: UPSERT con RETURNING sobre la fila del año).
type SequenceRepository interface {
	Next(year int) (int, error)
}
