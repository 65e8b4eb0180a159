package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-ledger/internal/models"
	"github.com/diewo77/go-ledger/internal/validation"
	"gorm.io/gorm"
)

type PaymentInput struct {
	Date         string        `json:"date"`
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName"`
	Amount       models.Amount `json:"amount"`
}

// PaymentUpdate is a full replacement of a payment's fields.
type PaymentUpdate struct {
	PaymentInput
	Status       models.PaymentStatus `json:"status"`
	BusinessDate *string              `json:"businessDate"`
	Remarks      *string              `json:"remarks"`
}

type VerifyInput struct {
	IDs          []string `json:"ids"`
	BusinessDate string   `json:"businessDate"`
	Remarks      *string  `json:"remarks"`
}

// VerifyResult reports how many distinct ids were asked for and how many
// rows the batch actually moved to Verified.
type VerifyResult struct {
	Requested int   `json:"requested"`
	Verified  int64 `json:"verified"`
}

// PaymentService owns the payment ledger and its verification state machine:
//
//	create -> unverified -> VerifyBatch -> verified -> UndoVerification -> unverified
type PaymentService struct {
	db     *gorm.DB
	policy Policy
}

func NewPaymentService(db *gorm.DB, policy Policy) *PaymentService {
	return &PaymentService{db: db, policy: policy}
}

// List returns every payment, most recent date first. Dates compare as
// plain strings, so only zero-padded dates sort chronologically.
func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := s.db.WithContext(ctx).Order("date DESC, created_at DESC").Find(&payments).Error; err != nil {
		return nil, storeErr("list payments", err)
	}
	return payments, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get payment", err)
	}
	return &p, nil
}

func (s *PaymentService) validateInput(ctx context.Context, in PaymentInput, v validation.Violations) error {
	if s.policy.RejectNegativeAmounts {
		validation.NonNegative("amount", in.Amount.Decimal, v)
	}
	if s.policy.RequireKnownCustomer {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", in.CustomerID).Count(&n).Error; err != nil {
			return storeErr("check customer", err)
		}
		if n == 0 {
			v["customerId"] = "unknown_customer"
		}
	}
	return nil
}

// Create records a new unverified payment.
func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	v := validation.Violations{}
	if err := s.validateInput(ctx, in, v); err != nil {
		return nil, err
	}
	if err := checkViolations(v); err != nil {
		return nil, err
	}
	p := models.Payment{
		Date:         in.Date,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Amount:       in.Amount,
		Status:       models.PaymentStatusUnverified,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, storeErr("create payment", err)
	}
	return &p, nil
}

// Update overwrites every field of an existing payment. With the
// verification invariant enforced, an unverified payment loses its
// business date and remarks and a verified one must carry a business date.
func (s *PaymentService) Update(ctx context.Context, id string, in PaymentUpdate) (*models.Payment, error) {
	v := validation.Violations{}
	if err := s.validateInput(ctx, in.PaymentInput, v); err != nil {
		return nil, err
	}
	if s.policy.EnforceVerificationInvariant {
		if !in.Status.Valid() {
			v["status"] = "invalid_choice"
		}
		if in.Status == models.PaymentStatusVerified && (in.BusinessDate == nil || strings.TrimSpace(*in.BusinessDate) == "") {
			v["businessDate"] = "required"
		}
	}
	if err := checkViolations(v); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Date = in.Date
	p.CustomerID = in.CustomerID
	p.CustomerName = in.CustomerName
	p.Amount = in.Amount
	p.Status = in.Status
	p.BusinessDate = in.BusinessDate
	p.Remarks = in.Remarks
	if s.policy.EnforceVerificationInvariant && p.Status == models.PaymentStatusUnverified {
		p.ClearVerification()
	}

	if err := s.db.WithContext(ctx).Model(p).Select(
		"date", "customer_id", "customer_name", "amount", "status", "business_date", "remarks",
	).Updates(p).Error; err != nil {
		return nil, storeErr("update payment", err)
	}
	return p, nil
}

// Delete removes the payment; deleting an unknown id is not an error.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return storeErr("delete payment", s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Payment{}).Error)
}

// VerifyBatch marks the given payments verified in a single transaction.
// Ids match exactly as given and unknown ones are skipped; if the store
// fails nothing is changed.
func (s *PaymentService) VerifyBatch(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	ids := uniqueIDs(in.IDs)
	v := validation.Violations{}
	validation.NotEmptyList("ids", ids, v)
	if s.policy.EnforceVerificationInvariant {
		validation.Required("businessDate", in.BusinessDate, v)
	}
	if err := checkViolations(v); err != nil {
		return nil, err
	}

	res := &VerifyResult{Requested: len(ids)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Payment{}).Where("id IN ?", ids).Updates(map[string]any{
			"status":        models.PaymentStatusVerified,
			"business_date": in.BusinessDate,
			"remarks":       in.Remarks,
		})
		if q.Error != nil {
			return q.Error
		}
		res.Verified = q.RowsAffected
		return nil
	})
	if err != nil {
		return nil, storeErr("verify payments", err)
	}
	return res, nil
}

// UndoVerification moves a payment back to unverified and returns the
// number of rows touched; a missing id touches none and is not an error.
func (s *PaymentService) UndoVerification(ctx context.Context, id string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]any{
		"status":        models.PaymentStatusUnverified,
		"business_date": nil,
		"remarks":       nil,
	})
	if q.Error != nil {
		return 0, storeErr("undo verification", q.Error)
	}
	return q.RowsAffected, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
