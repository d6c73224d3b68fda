package repository

import (
	"context"
	"fmt"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// NavStatusRepository reads the navigational status lookup table
type NavStatusRepository struct {
	db *database.DB
}

// NewNavStatusRepository creates a new navigational status repository
func NewNavStatusRepository(db *database.DB) *NavStatusRepository {
	return &NavStatusRepository{db: db}
}

// List returns all status rows ordered by code
func (r *NavStatusRepository) List(ctx context.Context) ([]models.NavigationalStatus, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT navigational_status_code, navigational_status
		FROM navigational_status
		ORDER BY navigational_status_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list navigational statuses: %w", err)
	}
	defer rows.Close()

	statuses := []models.NavigationalStatus{}
	for rows.Next() {
		var s models.NavigationalStatus
		if err := rows.Scan(&s.Code, &s.Text); err != nil {
			return nil, fmt.Errorf("failed to scan navigational status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// TextMap returns the status descriptions keyed by code
func (r *NavStatusRepository) TextMap(ctx context.Context) (map[int]string, error) {
	statuses, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	texts := make(map[int]string, len(statuses))
	for _, s := range statuses {
		texts[s.Code] = s.Text
	}
	return texts, nil
}
