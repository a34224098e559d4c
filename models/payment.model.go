package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus defines the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment tracks one checkout session. Status "completed" means the session was closed
// through the success redirect; ConfirmedAt is set once the provider reports it paid.
type Payment struct {
	Model
	UserID        uint              `json:"user_id" gorm:"not null;index"`
	CourseID      *uint             `json:"course_id,omitempty" gorm:"index"`
	PaymentID     string            `json:"payment_id" gorm:"type:varchar(255);uniqueIndex;not null"` // external session id
	Provider      string            `json:"provider" gorm:"type:varchar(30)"`
	Amount        float64           `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency      string            `json:"currency" gorm:"type:varchar(10);default:'usd'"`
	Status        PaymentStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentMethod string            `json:"payment_method,omitempty" gorm:"type:varchar(50)"`
	ReceiptURL    string            `json:"receipt_url,omitempty"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	ConfirmedAt   *time.Time        `json:"confirmed_at,omitempty"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
