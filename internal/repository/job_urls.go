package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/autsoft/hwsw-jobs/internal/models"
)

// JobURLsRepository handles the job_urls table: one cached apply url per job.
type JobURLsRepository struct {
	db *gorm.DB
}

// NewJobURLsRepository creates a new job urls repository.
func NewJobURLsRepository(db *gorm.DB) *JobURLsRepository {
	return &JobURLsRepository{db: db}
}

// Upsert inserts the url for id, replacing any existing row.
func (r *JobURLsRepository) Upsert(ctx context.Context, id, url string) error {
	row := models.JobURL{ID: id, URL: url, UpdatedAt: time.Now().UTC()}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"url", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert job url: %w", err)
	}
	return nil
}

// Get returns the cached url for id. ok is false when no row exists.
func (r *JobURLsRepository) Get(ctx context.Context, id string) (url string, ok bool, err error) {
	var row models.JobURL
	err = r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get job url: %w", err)
	}
	return row.URL, true, nil
}

// Count returns the number of cached urls.
func (r *JobURLsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.JobURL{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count job urls: %w", err)
	}
	return n, nil
}
