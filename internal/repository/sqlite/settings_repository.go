package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

const dateLayout = "2006-01-02"

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.ScheduleSettings, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	var s models.ScheduleSettings
	var startDate string
	err := r.db.QueryRowContext(ctx, `
SELECT id, start_date
FROM schedule_settings
ORDER BY id ASC
LIMIT 1
`).Scan(&s.ID, &startDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get schedule settings: %v", err)
		return nil, err
	}
	s.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start_date %q: %w", startDate, err)
	}
	return &s, nil
}

// Insert anchors the cycle start date. The settings table holds a
// single row, so a second call is a no-op that returns the anchor
// already in place.
func (r *settingsRepository) Insert(ctx context.Context, startDate time.Time) (*models.ScheduleSettings, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO schedule_settings (id, start_date) VALUES (1, ?)
ON CONFLICT(id) DO NOTHING
`, startDate.Format(dateLayout))
	if err != nil {
		log.Error("failed to insert schedule settings: %v", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return r.Get(ctx)
	}

	log.Info("anchored review cycle start date: %s", startDate.Format(dateLayout))
	return &models.ScheduleSettings{ID: 1, StartDate: startDate}, nil
}
