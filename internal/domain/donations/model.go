package donations

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeTithe    Type = "tithe"
	TypeOffering Type = "offering"
	TypeSpecial  Type = "special"
	TypeOther    Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTithe, TypeOffering, TypeSpecial, TypeOther:
		return true
	default:
		return false
	}
}

type Donation struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	MemberID      *string         `gorm:"type:uuid"`
	DonorName     string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DonationType  Type            `gorm:"type:text;not null"`
	PaymentMethod string          `gorm:"type:text;not null"`
	DonationDate  time.Time       `gorm:"not null"`
	Notes         *string         `gorm:"type:text"`
	RecordedBy    *string         `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	DonationType  Type
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

type CreateInput struct {
	MemberID      string
	DonorName     string
	Amount        decimal.Decimal
	DonationType  string
	PaymentMethod string
	DonationDate  *time.Time
	Notes         string
	RecordedBy    string
}
