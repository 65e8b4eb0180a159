package models

import (
	"time"

	"gorm.io/datatypes"
)

// SheetSlotID is the primary key of the only sheet_data row.
const SheetSlotID = "sheet_main"

// SheetData holds the spreadsheet snapshot as an opaque JSON document.
type SheetData struct {
	ID        string         `gorm:"primaryKey;size:32"`
	Data      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false"`
}

func (SheetData) TableName() string { return "sheet_data" }

// All returns every model the schema is made of, in creation order.
func All() []any {
	return []any{&Account{}, &Customer{}, &Payment{}, &SheetData{}}
}
