package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogDomain "github.com/daedongje/service-wayfinding/internal/domain/catalog"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// LocationModel is the GORM model for the locations table.
type LocationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   string    `gorm:"type:varchar(64);not null;index"`
	Category  string    `gorm:"type:varchar(20);not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Kind      string    `gorm:"type:varchar(20)"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LocationModel) TableName() string { return "locations" }

// GormLocationRepository implements LocationRepository using GORM.
type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.Location, error) {
	var model LocationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Location", id.String())
		}
		return nil, err
	}
	return toLocationDomain(&model), nil
}

func (r *GormLocationRepository) FindByEventID(ctx context.Context, eventID string) ([]*catalogDomain.Location, error) {
	var models []LocationModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sort_order ASC, created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toLocationDomains(models), nil
}

func (r *GormLocationRepository) FindAll(ctx context.Context) ([]*catalogDomain.Location, error) {
	var models []LocationModel
	if err := r.db.WithContext(ctx).Order("event_id ASC, sort_order ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toLocationDomains(models), nil
}

// Upsert inserts the location or overwrites the row with the same ID. New rows
// are ordered after the existing locations of their event.
func (r *GormLocationRepository) Upsert(ctx context.Context, location *catalogDomain.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing LocationModel
		err := tx.Where("id = ?", location.ID()).First(&existing).Error
		switch {
		case err == nil:
			model := toLocationModel(location, existing.SortOrder)
			return tx.Model(&LocationModel{}).Where("id = ?", model.ID).Updates(map[string]any{
				"event_id":   model.EventID,
				"category":   model.Category,
				"name":       model.Name,
				"kind":       model.Kind,
				"latitude":   model.Latitude,
				"longitude":  model.Longitude,
				"updated_at": model.UpdatedAt,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			var maxOrder sql.NullInt64
			if err := tx.Model(&LocationModel{}).
				Where("event_id = ?", location.EventID()).
				Select("MAX(sort_order)").
				Row().Scan(&maxOrder); err != nil {
				return err
			}
			next := 0
			if maxOrder.Valid {
				next = int(maxOrder.Int64) + 1
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(toLocationModel(location, next)).Error
		default:
			return err
		}
	})
}

func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&LocationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFoundError("Location", id.String())
	}
	return nil
}

// --- Conversions ---

func toLocationModel(l *catalogDomain.Location, sortOrder int) *LocationModel {
	return &LocationModel{
		ID:        l.ID(),
		EventID:   l.EventID(),
		Category:  string(l.Category()),
		Name:      l.Name(),
		Kind:      l.Kind(),
		Latitude:  l.Position().Lat,
		Longitude: l.Position().Lng,
		SortOrder: sortOrder,
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}

func toLocationDomain(m *LocationModel) *catalogDomain.Location {
	return catalogDomain.ReconstructLocation(
		m.ID,
		m.EventID,
		catalogDomain.Category(m.Category),
		m.Name, m.Kind,
		geomap.LatLng{Lat: m.Latitude, Lng: m.Longitude},
		m.CreatedAt, m.UpdatedAt,
	)
}

func toLocationDomains(models []LocationModel) []*catalogDomain.Location {
	locations := make([]*catalogDomain.Location, len(models))
	for i := range models {
		locations[i] = toLocationDomain(&models[i])
	}
	return locations
}
