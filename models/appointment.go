package models

import "time"

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCanceled  AppointmentStatus = "canceled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// completed and canceled have no outgoing edges.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCanceled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCanceled},
}

// Valid reports whether s is one of the four known states.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCanceled, AppointmentCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether s has no outgoing transition.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCanceled
}

// OccupiesSlot reports whether an appointment in this state blocks its time range.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != AppointmentCanceled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booked meeting. Rows are never removed; cancellation is a status.
type Appointment struct {
	BaseModel
	UserID    *uint             `gorm:"index" json:"userId,omitempty"`
	Name      string            `gorm:"type:varchar(150);not null" json:"name"`
	Email     string            `gorm:"type:varchar(150);not null;index" json:"email"`
	Phone     string            `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Company   string            `gorm:"type:varchar(150)" json:"company,omitempty"`
	Date      time.Time         `gorm:"type:date;not null;index" json:"date"`
	StartTime time.Time         `gorm:"type:timestamptz;not null;index" json:"startTime"`
	EndTime   time.Time         `gorm:"type:timestamptz;not null" json:"endTime"`
	TypeID    uint              `gorm:"not null;index" json:"typeId"`
	Type      AppointmentType   `gorm:"foreignKey:TypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"type"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`

	ReminderSentAt *time.Time `gorm:"type:timestamptz" json:"reminderSentAt,omitempty"`
}

// TransitionTo moves the appointment to next and stamps UpdatedAt. It returns
// false and leaves the appointment untouched when the edge does not exist.
func (a *Appointment) TransitionTo(next AppointmentStatus, now time.Time) bool {
	if !a.Status.CanTransitionTo(next) {
		return false
	}
	a.Status = next
	a.UpdatedAt = now
	return true
}
