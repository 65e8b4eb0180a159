package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the shape of the seed file.
type SeedData struct {
	Account struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"account"`
	Customers []SeedCustomer `yaml:"customers"`
}

type SeedCustomer struct {
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
	Phone   string `yaml:"phone"`
}

// LoadSeed reads the seed file named by cfg.SeedFile (the embedded
// default when empty) and applies the account overrides.
func LoadSeed(cfg config.AppConfig) (*SeedData, error) {
	raw := defaultSeed
	if cfg.SeedFile != "" {
		b, err := os.ReadFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if cfg.SeedUsername != "" {
		data.Account.Username = cfg.SeedUsername
	}
	if cfg.SeedPassword != "" {
		data.Account.Password = cfg.SeedPassword
	}
	if data.Account.Username == "" || data.Account.Password == "" {
		return nil, errors.New("seed account needs a username and a password")
	}
	return &data, nil
}

// Seed inserts the operator account when no account exists and the sample
// customers when the roster is empty. Running it again changes nothing.
func Seed(ctx context.Context, dbConn *gorm.DB, data *SeedData, log *slog.Logger) error {
	return dbConn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var accounts int64
		if err := tx.Model(&models.Account{}).Count(&accounts).Error; err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}
		if accounts == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(data.Account.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			acc := models.Account{Username: data.Account.Username, PasswordHash: string(hash)}
			if err := tx.Create(&acc).Error; err != nil {
				return fmt.Errorf("create seed account: %w", err)
			}
			log.Info("seeded account", "username", acc.Username)
		}

		var customers int64
		if err := tx.Model(&models.Customer{}).Count(&customers).Error; err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		if customers == 0 && len(data.Customers) > 0 {
			rows := make([]models.Customer, 0, len(data.Customers))
			for _, c := range data.Customers {
				rows = append(rows, models.Customer{Name: c.Name, Contact: c.Contact, Phone: c.Phone})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("create seed customers: %w", err)
			}
			log.Info("seeded customers", "count", len(rows))
		}
		return nil
	})
}
