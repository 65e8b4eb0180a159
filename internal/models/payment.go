package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus string

const (
	PaymentStatusUnverified PaymentStatus = "unverified"
	PaymentStatusVerified   PaymentStatus = "verified"
)

// Valid reports whether s is one of the known states.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusUnverified || s == PaymentStatusVerified
}

// Payment is an incoming payment and its verification record.
//
// Invariant: Status is Verified exactly when BusinessDate is set, and an
// unverified payment has neither BusinessDate nor Remarks. The ledger
// service maintains it; a manual update with the invariant policy
// switched off can break it.
type Payment struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`
	// Date is kept as the client sent it; listing compares it as a string.
	Date       string `gorm:"size:32;not null;default:'';index" json:"date"`
	CustomerID string `gorm:"size:64;index" json:"customerId"`
	// CustomerName is copied at write time and is not refreshed when the
	// customer is renamed.
	CustomerName string        `gorm:"size:255" json:"customerName"`
	Amount       Amount        `gorm:"not null" json:"amount"`
	Status       PaymentStatus `gorm:"size:20;not null;default:'unverified';index" json:"status"`
	BusinessDate *string       `gorm:"size:32" json:"businessDate"`
	Remarks      *string       `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

// BeforeCreate assigns the identifier when the caller left it empty.
func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// IsVerified returns true if the payment has been reconciled.
func (p *Payment) IsVerified() bool {
	return p.Status == PaymentStatusVerified
}

// Consistent reports whether the status/businessDate/remarks invariant holds.
func (p *Payment) Consistent() bool {
	switch p.Status {
	case PaymentStatusVerified:
		return p.BusinessDate != nil
	case PaymentStatusUnverified:
		return p.BusinessDate == nil && p.Remarks == nil
	default:
		return false
	}
}

// ClearVerification moves the payment back to Unverified.
func (p *Payment) ClearVerification() {
	p.Status = PaymentStatusUnverified
	p.BusinessDate = nil
	p.Remarks = nil
}
