package repositories

import (
	"context"
	"errors"
	"time"

	"acenumerik.fr/configs"
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentFilter narrows admin listings.
type AppointmentFilter struct {
	From   *time.Time
	To     *time.Time
	Status models.AppointmentStatus
	TypeID uint
}

// IAppointmentRepository is the appointment table as the booking flow needs it.
type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	// FindByIDForUpdate locks the row; it must run inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error)
	// FindOccupying returns appointments that block slots and start in [from, to).
	FindOccupying(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	FindByStatusBetween(ctx context.Context, status models.AppointmentStatus, from, to time.Time) ([]models.Appointment, error)
	FindAll(ctx context.Context, filter AppointmentFilter, params queryparams.ListParams) ([]models.Appointment, int64, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	MarkReminderSent(ctx context.Context, id uint, at time.Time) error
	// LockDay serializes bookings of one calendar day until the surrounding transaction ends.
	LockDay(ctx context.Context, day time.Time) error
}

// AppointmentRepository implements IAppointmentRepository with gorm.
type AppointmentRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Appointment]
}

// NewAppointmentRepository uses the shared connection.
func NewAppointmentRepository() IAppointmentRepository {
	return newAppointmentRepository(configs.GetDB())
}

func newAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	base := NewBaseRepository[models.Appointment](db)
	base.SetAllowedSortColumns(map[string]string{
		"id":         "appointments.id",
		"created_at": "appointments.created_at",
		"start_time": "appointments.start_time",
		"status":     "appointments.status",
		"name":       "appointments.name",
	}, "start_time")
	base.SetSearchColumns("appointments.name", "appointments.email", "appointments.company")
	return &AppointmentRepository{db: db, base: base}
}

func (r *AppointmentRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create inserts a new appointment.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil {
		return errors.New("rendez-vous invalide")
	}
	return r.base.Create(ctx, appointment)
}

// FindByID loads an appointment with its type.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return r.base.FindByID(ctx, id, Preload("Type"))
}

// FindByIDForUpdate loads an appointment and locks its row until the transaction ends.
func (r *AppointmentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindOccupying returns the non-canceled appointments overlapping [from, to).
func (r *AppointmentRepository) FindOccupying(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.getDB(ctx).
		Where("start_time < ? AND end_time > ?", to, from).
		Where("status <> ?", models.AppointmentCanceled).
		Order("start_time asc").
		Find(&appointments).Error
	if err != nil {
		configslog.Log.Error("AppointmentRepository.FindOccupying failed", zap.Time("from", from), zap.Error(err))
		return nil, err
	}
	return appointments, nil
}

// FindByStatusBetween returns appointments in status starting in [from, to), type preloaded.
func (r *AppointmentRepository) FindByStatusBetween(ctx context.Context, status models.AppointmentStatus, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.getDB(ctx).Preload("Type").
		Where("status = ? AND start_time >= ? AND start_time < ?", status, from, to).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}

// FindAll lists appointments matching filter, paginated.
func (r *AppointmentRepository) FindAll(ctx context.Context, filter AppointmentFilter, params queryparams.ListParams) ([]models.Appointment, int64, error) {
	scopes := []Scope{Preload("Type")}
	if filter.From != nil {
		from := *filter.From
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("appointments.start_time >= ?", from) })
	}
	if filter.To != nil {
		to := *filter.To
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("appointments.start_time < ?", to) })
	}
	if filter.Status != "" {
		scopes = append(scopes, WhereEq("appointments.status", filter.Status))
	}
	if filter.TypeID != 0 {
		scopes = append(scopes, WhereEq("appointments.type_id", filter.TypeID))
	}
	return r.base.FindAll(ctx, params, scopes...)
}

// Update saves every column of appointment.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil || appointment.ID == 0 {
		return errors.New("rendez-vous à mettre à jour invalide")
	}
	return r.getDB(ctx).Omit("Type").Save(appointment).Error
}

// MarkReminderSent records when the reminder for id went out.
func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	return r.base.UpdateFields(ctx, id, map[string]any{"reminder_sent_at": at})
}

// LockDay takes a transaction-scoped advisory lock for the calendar day, serializing bookings on it.
func (r *AppointmentRepository) LockDay(ctx context.Context, day time.Time) error {
	y, m, d := day.Date()
	key := int64(y)*10000 + int64(m)*100 + int64(d)
	return r.getDB(ctx).Exec("SELECT pg_advisory_xact_lock(?)", key).Error
}

var _ IAppointmentRepository = (*AppointmentRepository)(nil)
