package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"personachat-backend/internal/models"
)

type PersonalityRepo struct {
	pool *pgxpool.Pool
}

func NewPersonalityRepo(pool *pgxpool.Pool) *PersonalityRepo {
	return &PersonalityRepo{pool: pool}
}

// Personalities are created by the seed migration, so the repo only reads.

func (r *PersonalityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Personality, error) {
	p := &models.Personality{}
	query := `SELECT id, name, instructions, created_at FROM personalities WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Instructions, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PersonalityRepo) List(ctx context.Context) ([]*models.Personality, error) {
	query := `SELECT id, name, instructions, created_at FROM personalities ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personalities []*models.Personality
	for rows.Next() {
		p := &models.Personality{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Instructions, &p.CreatedAt); err != nil {
			return nil, err
		}
		personalities = append(personalities, p)
	}

	return personalities, rows.Err()
}
