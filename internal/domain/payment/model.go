package payment

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	memberdomain "dues-app-go/internal/domain/member"
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodMobileMoney  Method = "mobile_money"
	MethodBankTransfer Method = "bank_transfer"
)

var Methods = []Method{MethodCash, MethodMobileMoney, MethodBankTransfer}

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodMobileMoney, MethodBankTransfer:
		return true
	default:
		return false
	}
}

// Label is the display name used in charts.
func (m Method) Label() string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodMobileMoney:
		return "Mobile Money"
	case MethodBankTransfer:
		return "Bank Transfer"
	default:
		return string(m)
	}
}

// MonthList is stored as a comma separated text column.
type MonthList []string

func (l MonthList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *MonthList) Scan(src any) error {
	var raw string
	switch value := src.(type) {
	case nil:
		*l = MonthList{}
		return nil
	case string:
		raw = value
	case []byte:
		raw = string(value)
	default:
		return fmt.Errorf("month list: unsupported type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*l = MonthList{}
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}

type Payment struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	MemberID    string          `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method      Method          `gorm:"column:payment_method;type:text;not null"`
	PaymentDate time.Time       `gorm:"not null"`
	MonthsPaid  MonthList       `gorm:"type:text;not null"`
	IsAdvance   bool            `gorm:"not null"`
	Notes       *string         `gorm:"type:text"`
	RecordedBy  *string         `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

type PaymentWithMember struct {
	Payment
	MemberName  string
	MemberEmail *string
	MemberPhone string
}

type ListFilter struct {
	MemberID string
	Method   Method
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type RecordInput struct {
	MemberID    string
	Amount      decimal.Decimal
	Method      string
	MonthsPaid  []string
	IsAdvance   bool
	Notes       string
	RecordedBy  string
	PaymentDate *time.Time
}

// Receipt describes the effect of recording one payment.
type Receipt struct {
	Payment    Payment
	Member     memberdomain.Member
	Settled    []string
	Credited   []string
	TotalPaid  decimal.Decimal
	TotalOwing decimal.Decimal
}
