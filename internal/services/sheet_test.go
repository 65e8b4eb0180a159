package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/diewo77/go-ledger/internal/db/dbtest"
	"github.com/diewo77/go-ledger/internal/logging"
	"github.com/diewo77/go-ledger/internal/models"
	"github.com/stretchr/testify/require"
)

func TestSheetLoadEmpty(t *testing.T) {
	svc := NewSheetService(dbtest.New(t), logging.Discard())
	doc, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestSheetRoundTrip(t *testing.T) {
	d := dbtest.New(t)
	svc := NewSheetService(d, logging.Discard())
	ctx := context.Background()

	first := json.RawMessage(`{"sheets":[{"name":"Jan","cells":{"A1":"total","B1":1000.5}}],"active":0}`)
	require.NoError(t, svc.Save(ctx, first))
	second := json.RawMessage(`{"sheets":[{"name":"Feb","cells":{}}],"active":0,"meta":{"v":2}}`)
	require.NoError(t, svc.Save(ctx, second))

	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	var want, got any
	require.NoError(t, json.Unmarshal(second, &want))
	require.NoError(t, json.Unmarshal(doc, &got))
	require.Equal(t, want, got)

	var rows int64
	d.Model(&models.SheetData{}).Count(&rows)
	require.EqualValues(t, 1, rows, "saves replace the single slot")
}

func TestSheetSaveEmptyStoresNull(t *testing.T) {
	svc := NewSheetService(dbtest.New(t), logging.Discard())
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, nil))
	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, "null", string(doc))
}

func TestSheetLoadCorruptPayload(t *testing.T) {
	d := dbtest.New(t)
	require.NoError(t, d.Exec(
		"INSERT INTO sheet_data (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		models.SheetSlotID, "{broken",
	).Error)

	doc, err := NewSheetService(d, logging.Discard()).Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, doc)
}
