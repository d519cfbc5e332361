package seed

import (
	"testing"
	"time"

	"moneta/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildPost_TimestampsAndSharedData(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	profile := &models.Profile{ID: 1}

	p := f.BuildPost(profile, models.PostTypeAchievement)
	if p.SharedData == nil {
		t.Fatalf("expected shared data for achievement post")
	}
	if _, ok := p.SharedData["metric_name"]; !ok {
		t.Fatalf("achievement post missing metric_name: %v", p.SharedData)
	}

	// timestamp should be within MaxDays
	if time.Since(p.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}

	p2 := f.BuildPost(profile, models.PostTypeManual)
	if p2.SharedData != nil {
		t.Fatalf("manual post should have no shared data, got %v", p2.SharedData)
	}
	if p2.Title == "" {
		t.Fatalf("expected generated title")
	}
}

func TestBuildTransaction_AmountAndCategory(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})
	profile := &models.Profile{ID: 1}
	account := &models.Account{ID: 2, ProfileID: 1}
	category := &models.Category{ID: 3, Type: models.TransactionIncome}

	tx := f.BuildTransaction(profile, account, category)
	if !tx.Amount.GreaterThan(decimal.Zero) {
		t.Fatalf("transaction amount must be positive, got %s", tx.Amount)
	}
	if tx.Type != models.TransactionIncome {
		t.Fatalf("transaction type should follow its category, got %s", tx.Type)
	}
	if tx.CategoryID == nil || *tx.CategoryID != 3 {
		t.Fatalf("expected category 3, got %v", tx.CategoryID)
	}
}

func TestCreateProfile_DryRunAssignsIDs(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	p1, err := f.CreateProfile()
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	p2, err := f.CreateProfile()
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if p1.ID == 0 || p2.ID == 0 {
		t.Fatalf("dry run should assign synthetic IDs")
	}
	if p1.ID == p2.ID {
		t.Fatalf("synthetic IDs must be unique, both %d", p1.ID)
	}
	if p1.Email == "" || p1.Slug == "" {
		t.Fatalf("profile missing identity fields: %+v", p1)
	}
}
