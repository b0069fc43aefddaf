package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogDomain "github.com/daedongje/service-wayfinding/internal/domain/catalog"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// EventModel is the GORM model for the events table.
type EventModel struct {
	ID             string   `gorm:"type:varchar(64);primaryKey"`
	Name           string   `gorm:"type:varchar(200);not null"`
	Schedule       string   `gorm:"type:varchar(200)"`
	Venue          string   `gorm:"type:varchar(200)"`
	Address        string   `gorm:"type:varchar(300)"`
	Description    string   `gorm:"type:text"`
	PosterPath     string   `gorm:"type:text"`
	Going          int      `gorm:"not null;default:0"`
	Tags           []string `gorm:"type:text;serializer:json"`
	Host           string   `gorm:"type:varchar(200)"`
	Latitude       float64  `gorm:"not null"`
	Longitude      float64  `gorm:"not null"`
	FloorPlanImage string   `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (EventModel) TableName() string { return "events" }

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) FindByID(ctx context.Context, id string) (*catalogDomain.Event, error) {
	var model EventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Event", id)
		}
		return nil, err
	}
	return toEventDomain(&model), nil
}

func (r *GormEventRepository) FindAll(ctx context.Context) ([]*catalogDomain.Event, error) {
	var models []EventModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	events := make([]*catalogDomain.Event, len(models))
	for i := range models {
		events[i] = toEventDomain(&models[i])
	}
	return events, nil
}

// Save inserts the event or overwrites an existing one with the same ID.
func (r *GormEventRepository) Save(ctx context.Context, event *catalogDomain.Event) error {
	model := toEventModel(event)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

func (r *GormEventRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&EventModel{}).Count(&n).Error
	return n, err
}

// --- Conversions ---

func toEventModel(e *catalogDomain.Event) *EventModel {
	return &EventModel{
		ID:             e.ID(),
		Name:           e.Name(),
		Schedule:       e.Schedule(),
		Venue:          e.Venue(),
		Address:        e.Address(),
		Description:    e.Description(),
		PosterPath:     e.PosterPath(),
		Going:          e.Going(),
		Tags:           e.Tags(),
		Host:           e.Host(),
		Latitude:       e.Position().Lat,
		Longitude:      e.Position().Lng,
		FloorPlanImage: e.FloorPlanImage(),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}

func toEventDomain(m *EventModel) *catalogDomain.Event {
	return catalogDomain.ReconstructEvent(
		m.ID, m.Name, m.Schedule, m.Venue, m.Address, m.Description, m.PosterPath,
		m.Going,
		m.Tags,
		m.Host,
		geomap.LatLng{Lat: m.Latitude, Lng: m.Longitude},
		m.FloorPlanImage,
		m.CreatedAt, m.UpdatedAt,
	)
}
