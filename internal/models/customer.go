package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is an entry of the customer roster. Payments reference it by
// ID and keep their own copy of the name.
type Customer struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null;default:''" json:"name"`
	Contact   string    `gorm:"size:255" json:"contact"`
	Phone     string    `gorm:"size:64" json:"phone"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Customer) TableName() string { return "customers" }

// BeforeCreate assigns the identifier when the caller left it empty.
func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
