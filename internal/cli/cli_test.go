package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/db/dbtest"
	"github.com/diewo77/go-ledger/internal/logging"
	"github.com/diewo77/go-ledger/internal/models"
	"github.com/diewo77/go-ledger/internal/services"
	"gorm.io/gorm"
)

type harness struct {
	t  *testing.T
	db *gorm.DB
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, db: dbtest.New(t)}
}

// run executes one ledgerctl invocation against the shared test store.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(Options{
		Out: &out,
		Err: &errOut,
		Open: func(context.Context, *config.Config, *slog.Logger) (*gorm.DB, error) {
			return h.db, nil
		},
		Config: func() (*config.Config, error) {
			cfg := &config.Config{
				Database: dbtest.Config(h.t),
				Logging:  config.LoggingConfig{Level: "error"},
				Policy:   config.PolicyConfig{EnforceVerificationInvariant: true},
			}
			return cfg, nil
		},
	})
	root.SetArgs(append([]string{"--env-file="}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMigrateAndSeed(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "schema up to date") {
		t.Fatalf("unexpected output %q", out)
	}

	for i := 0; i < 2; i++ {
		if _, err := h.run("seed"); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}
	var accounts, customers int64
	h.db.Model(&models.Account{}).Count(&accounts)
	h.db.Model(&models.Customer{}).Count(&customers)
	if accounts != 1 || customers != 3 {
		t.Fatalf("expected 1 account and 3 customers, got %d and %d", accounts, customers)
	}
}

func TestAccountSet(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("seed"); err != nil {
		t.Fatal(err)
	}
	out, err := h.run("account", "set", "--username", "ops", "--password", "n3w!")
	if err != nil {
		t.Fatalf("account set: %v", err)
	}
	if !strings.Contains(out, `"ops"`) {
		t.Fatalf("unexpected output %q", out)
	}
	svc := services.NewIdentityService(h.db, services.DefaultPolicy())
	if _, err := svc.Login(context.Background(), "ops", "n3w!"); err != nil {
		t.Fatalf("login with rotated credentials: %v", err)
	}

	if _, err := h.run("account", "set", "--username", "ops"); err == nil {
		t.Fatal("expected missing --password to fail")
	}
}

func TestPaymentsCommands(t *testing.T) {
	h := newHarness(t)
	svc := services.NewPaymentService(h.db, services.DefaultPolicy())
	ctx := context.Background()
	p1, err := svc.Create(ctx, services.PaymentInput{Date: "2025-01-15", CustomerName: "A Co", Amount: models.MustAmount("1000.50")})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := svc.Create(ctx, services.PaymentInput{Date: "2025-01-16", CustomerName: "B Co", Amount: models.MustAmount("20")})
	if err != nil {
		t.Fatal(err)
	}

	out, err := h.run("payments", "verify", "--business-date", "2025-01-20", "--remarks", "cli", p1.ID, "missing")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "verified 1 of 2 payments") {
		t.Fatalf("unexpected verify output %q", out)
	}

	out, err = h.run("payments", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", out)
	}
	if !strings.HasPrefix(lines[1], p2.ID) || !strings.HasPrefix(lines[2], p1.ID) {
		t.Fatalf("rows not ordered by date desc:\n%s", out)
	}
	if !strings.Contains(lines[2], "1000.5") || !strings.Contains(lines[2], "verified") || !strings.Contains(lines[2], "cli") {
		t.Fatalf("verified row incomplete: %q", lines[2])
	}

	out, err = h.run("payments", "undo", p1.ID)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !strings.Contains(out, "unverified") {
		t.Fatalf("unexpected undo output %q", out)
	}
	got, err := svc.Get(ctx, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsVerified() || !got.Consistent() {
		t.Fatalf("undo left %+v", got)
	}

	if _, err := h.run("payments", "verify", p1.ID); err == nil {
		t.Fatal("expected missing --business-date to fail")
	}
}

func TestSheetExport(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("sheet", "export")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("expected null, got %q", out)
	}

	sheet := services.NewSheetService(h.db, logging.Discard())
	if err := sheet.Save(context.Background(), []byte(`{"a":[1,2]}`)); err != nil {
		t.Fatal(err)
	}
	out, err = h.run("sheet", "export")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"a": [`) {
		t.Fatalf("expected indented JSON, got %q", out)
	}
}
