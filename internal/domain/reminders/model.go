package reminders

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	default:
		return false
	}
}

type Reminder struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	MemberID  string     `gorm:"type:uuid;not null"`
	Message   string     `gorm:"not null"`
	Status    Status     `gorm:"type:text;not null"`
	SentAt    *time.Time `gorm:"type:timestamptz"`
	Error     *string    `gorm:"type:text"`
	CreatedBy *string    `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type ReminderWithMember struct {
	Reminder
	MemberName  string
	MemberPhone string
	MemberEmail *string
}

type Recipient struct {
	MemberID string
	Name     string
	Email    *string
	Phone    string
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type CreateInput struct {
	MemberID  string
	Message   string
	CreatedBy string
}
