package services

import (
	"context"
	"errors"
	"sync"

	"github.com/diewo77/go-ledger/internal/models"
	"github.com/diewo77/go-ledger/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountIdentity is what a successful login reveals about the account.
type AccountIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type RotateInput struct {
	Username        string `json:"username"`
	NewPassword     string `json:"newPassword"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

type IdentityService struct {
	db     *gorm.DB
	policy Policy
}

func NewIdentityService(db *gorm.DB, policy Policy) *IdentityService {
	return &IdentityService{db: db, policy: policy}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownUserHash is compared against when the username does not exist so
// that both failure paths cost one bcrypt comparison.
func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Login checks the credentials against the stored bcrypt hash.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*AccountIdentity, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(password))
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storeErr("find account", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return &AccountIdentity{ID: acc.ID, Username: acc.Username}, nil
}

// RotateCredentials replaces the username and password of the operator
// account (the lowest id) with a freshly salted hash.
func (s *IdentityService) RotateCredentials(ctx context.Context, in RotateInput) (*AccountIdentity, error) {
	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	if in.NewPassword == "" {
		v["newPassword"] = "required"
	}
	if err := checkViolations(v); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var acc models.Account
	err := db.Order("id ASC").First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find account", err)
	}
	if s.policy.RequireCurrentPassword {
		if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, ErrUnauthorized
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&acc).Updates(map[string]any{
		"username":      in.Username,
		"password_hash": string(hash),
	}).Error; err != nil {
		return nil, storeErr("update account", err)
	}
	return &AccountIdentity{ID: acc.ID, Username: in.Username}, nil
}
