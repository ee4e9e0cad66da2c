package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"curbside-service/internal/domain/curb"
)

// SnapshotRepository persists the most recent upstream rows per query cell
// so requests can be answered from the mirror when the live fetch comes back
// empty. It stores upstream data only, never derived decisions.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type UpstreamSnapshot struct {
	ID        int64  `gorm:"primaryKey"`
	Dataset   string `gorm:"not null"`
	CellKey   string `gorm:"not null"`
	Lat       float64
	Lon       float64
	RadiusM   int
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	FetchedAt time.Time      `gorm:"not null"`
	CreatedAt time.Time
}

func (UpstreamSnapshot) TableName() string {
	return "upstream_snapshots"
}

// Save upserts the snapshot for one dataset/cell pair.
func (r *SnapshotRepository) Save(ctx context.Context, dataset, cellKey string, lat, lon float64, radiusM int, rows []curb.RawRecord) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	var existing UpstreamSnapshot
	err = r.db.WithContext(ctx).
		Where("dataset = ? AND cell_key = ?", dataset, cellKey).
		First(&existing).Error
	if err == nil {
		existing.Payload = payload
		existing.FetchedAt = time.Now()
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	snapshot := UpstreamSnapshot{
		Dataset:   dataset,
		CellKey:   cellKey,
		Lat:       lat,
		Lon:       lon,
		RadiusM:   radiusM,
		Payload:   payload,
		FetchedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&snapshot).Error
}

// Load returns the stored rows for a dataset/cell pair, reporting whether a
// snapshot existed.
func (r *SnapshotRepository) Load(ctx context.Context, dataset, cellKey string) ([]curb.RawRecord, bool, error) {
	var snapshot UpstreamSnapshot
	err := r.db.WithContext(ctx).
		Where("dataset = ? AND cell_key = ?", dataset, cellKey).
		Order("fetched_at DESC").
		First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []curb.RawRecord
	if err := json.Unmarshal(snapshot.Payload, &rows); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

// PruneOlderThan deletes snapshots last fetched more than the given number
// of days ago and reports how many went away.
func (r *SnapshotRepository) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("fetched_at < ?", cutoff).
		Delete(&UpstreamSnapshot{})
	return result.RowsAffected, result.Error
}
