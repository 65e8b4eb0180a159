package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/diewo77/go-ledger/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SheetService keeps the single spreadsheet snapshot. Saves replace the
// whole document; the last writer wins.
type SheetService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewSheetService(db *gorm.DB, log *slog.Logger) *SheetService {
	return &SheetService{db: db, log: log}
}

var jsonNull = json.RawMessage("null")

// Save upserts the snapshot. An empty document is stored as JSON null.
func (s *SheetService) Save(ctx context.Context, doc json.RawMessage) error {
	if len(doc) == 0 {
		doc = jsonNull
	}
	if !json.Valid(doc) {
		return &ValidationError{Violations: map[string]string{"sheetData": "invalid_json"}}
	}
	row := models.SheetData{
		ID:        models.SheetSlotID,
		Data:      datatypes.JSON(doc),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	return storeErr("save sheet", err)
}

// Load returns the stored snapshot, or nil when nothing was saved yet or
// the stored payload is unreadable.
func (s *SheetService) Load(ctx context.Context) (json.RawMessage, error) {
	var row models.SheetData
	err := s.db.WithContext(ctx).Where("id = ?", models.SheetSlotID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load sheet", err)
	}
	if !json.Valid(row.Data) {
		s.log.Warn("stored sheet data is not valid JSON, returning null", "id", row.ID, "bytes", len(row.Data))
		return nil, nil
	}
	return json.RawMessage(row.Data), nil
}
