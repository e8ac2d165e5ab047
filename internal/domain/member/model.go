package member

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

type Member struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	UserID         *string         `gorm:"type:uuid"`
	Name           string          `gorm:"not null"`
	Email          *string         `gorm:"type:text"`
	Phone          string          `gorm:"not null"`
	Address        *string         `gorm:"type:text"`
	DateOfBirth    *time.Time      `gorm:"type:date"`
	MembershipDate time.Time       `gorm:"type:date;not null"`
	Status         Status          `gorm:"type:text;not null"`
	TotalPaid      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalOwing     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

type OwingMonth struct {
	MemberID  string          `gorm:"type:uuid;primaryKey"`
	Month     string          `gorm:"type:char(7);primaryKey"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (OwingMonth) TableName() string {
	return "member_owing_months"
}

type CreditMonth struct {
	MemberID  string          `gorm:"type:uuid;primaryKey"`
	Month     string          `gorm:"type:char(7);primaryKey"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (CreditMonth) TableName() string {
	return "member_credit_months"
}

type MonthAmount struct {
	Month  string
	Amount decimal.Decimal
}

type MemberWithMonths struct {
	Member
	OwingMonths  []MonthAmount
	CreditMonths []MonthAmount
}

type Months struct {
	Owing  []MonthAmount
	Credit []MonthAmount
}

type ListFilter struct {
	Status Status
	Search string
	Limit  int
	Offset int
}

type CreateInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	DateOfBirth *time.Time
	Status      string
	UserID      string
}

type UpdateInput struct {
	ID          string
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
	Status      *string
	UserID      *string
}

type Stats struct {
	TotalMembers      int64
	ActiveMembers     int64
	MembersOwing      int64
	TotalOwingAmount  decimal.Decimal
	TotalPaidThisYear decimal.Decimal
	MembersPaidUp     int64
}
