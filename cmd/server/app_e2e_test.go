package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/db/dbtest"
	"github.com/diewo77/go-ledger/internal/logging"
	"github.com/stretchr/testify/require"
)

func newE2EServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		Policy: config.PolicyConfig{EnforceVerificationInvariant: true},
	}
	dbConn := dbtest.New(t)
	require.NoError(t, seed(context.Background(), cfg, dbConn, logging.Discard()))
	srv := httptest.NewServer(NewApp(cfg, dbConn, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestE2E_PaymentVerificationFlow(t *testing.T) {
	srv := newE2EServer(t)

	// login with the seeded account
	var who struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/auth/login", `{"username":"dayou","password":"Dayou123?"}`, &who))
	require.Equal(t, "dayou", who.Username)

	var customers []map[string]any
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/customers", "", &customers))
	require.Len(t, customers, 3)

	var customer map[string]any
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/customers", `{"name":"A Co","contact":"Wang","phone":"138-0"}`, &customer))
	cid := customer["id"].(string)

	var payment map[string]any
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/payments",
		`{"date":"2025-01-15","customerId":"`+cid+`","customerName":"A Co","amount":1000.00}`, &payment))
	pid := payment["id"].(string)
	require.Equal(t, "unverified", payment["status"])

	var ok map[string]bool
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/payments/verify",
		`{"ids":["`+pid+`"],"businessDate":"2025-01-20","remarks":"batch-1"}`, &ok))
	require.True(t, ok["success"])

	var payments []map[string]any
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/payments", "", &payments))
	require.Len(t, payments, 1)
	require.Equal(t, "verified", payments[0]["status"])
	require.Equal(t, "2025-01-20", payments[0]["businessDate"])
	require.Equal(t, "batch-1", payments[0]["remarks"])
	require.EqualValues(t, 1000, payments[0]["amount"])

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/payments/"+pid+"/undo-verification", "", &ok))
	payments = nil
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/payments", "", &payments))
	require.Equal(t, "unverified", payments[0]["status"])
	require.Nil(t, payments[0]["businessDate"])
	require.Nil(t, payments[0]["remarks"])

	// credential rotation takes effect immediately
	var acct map[string]string
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPut, "/api/auth/account", `{"username":"ops","newPassword":"n3w!"}`, &acct))
	require.Equal(t, "ops", acct["username"])
	var errBody map[string]any
	require.Equal(t, http.StatusUnauthorized, call(t, srv, http.MethodPost, "/api/auth/login", `{"username":"dayou","password":"Dayou123?"}`, &errBody))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/auth/login", `{"username":"ops","password":"n3w!"}`, &who))

	// sheet snapshot round trip
	var loaded struct {
		Data any `json:"data"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/sheet/load", "", &loaded))
	require.Nil(t, loaded.Data)
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/sheet/save", `{"sheetData":{"cells":{"A1":"x"}}}`, &ok))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/sheet/load", "", &loaded))
	require.Equal(t, map[string]any{"cells": map[string]any{"A1": "x"}}, loaded.Data)

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodDelete, "/api/payments/"+pid, "", &ok))
	payments = nil
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/payments", "", &payments))
	require.Empty(t, payments)
}
