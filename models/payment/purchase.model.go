package payment

import (
	"time"

	"gorm.io/gorm"
)

// Purchase statuses. Only pending -> completed happens via webhook;
// pending -> failed happens when the purchase goes stale.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Transaction types
const (
	TxnPurchase = "purchase"
	TxnRefund   = "refund"
)

// Purchase is created at checkout-intent time and reconciled by the
// processor's webhook.
type Purchase struct {
	gorm.Model
	StudentID       uint       `json:"student_id" gorm:"index;not null"`
	CourseID        uint       `json:"course_id" gorm:"index;not null"`
	Amount          float64    `json:"amount" gorm:"not null"`
	Status          string     `json:"status" gorm:"default:'pending'"` // pending, completed, failed, refunded
	PaymentIntentID string     `json:"payment_intent_id" gorm:"uniqueIndex"`
	TransactionID   string     `json:"transaction_id" gorm:"uniqueIndex;not null"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// Transaction is the ledger row written once per settled purchase
type Transaction struct {
	gorm.Model
	PurchaseID      uint    `json:"purchase_id" gorm:"index;not null"`
	TransactionType string  `json:"transaction_type" gorm:"default:'purchase'"` // purchase, refund
	Amount          float64 `json:"amount" gorm:"not null"`
	ChargeID        string  `json:"charge_id"`
	PaymentMethod   string  `json:"payment_method"`
	Description     string  `json:"description" gorm:"type:text"`
}
