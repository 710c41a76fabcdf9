package services

import (
	"context"
	"testing"
	"time"

	"kapital/internal/marketdata"
	"kapital/internal/models"
	"kapital/internal/pagination"
	"kapital/internal/testutil"
)

func newTestSecurityService(t *testing.T, quotes *stubQuotes, profiles *stubProfiles) (SecurityServicer, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if quotes == nil {
		quotes = &stubQuotes{}
	}
	if profiles == nil {
		profiles = &stubProfiles{}
	}
	svc := NewSecurityService(db, quotes, profiles)
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func TestFindOrCreateBySymbol(t *testing.T) {
	t.Run("creates_from_quote_and_profile", func(t *testing.T) {
		quotes := &stubQuotes{
			quotes: map[string]marketdata.Quote{
				"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Market: "NasdaqGS", Price: 187.5},
			},
			bars: map[string][]marketdata.Bar{
				"AAPL": {{Date: time.Now().AddDate(0, 0, -1), Close: 186}},
			},
		}
		profiles := &stubProfiles{
			profiles: map[string]marketdata.Profile{
				"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Sector: "Technology", Market: "NASDAQ"},
			},
		}
		svc, teardown := newTestSecurityService(t, quotes, profiles)
		defer teardown()

		sec, err := svc.FindOrCreateBySymbol(context.Background(), "aapl")
		testutil.AssertNoError(t, err)

		if sec.Symbol != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", sec.Symbol)
		}
		if sec.Sector != "Technology" {
			t.Errorf("expected sector from profile, got %q", sec.Sector)
		}
		if sec.CurrentPrice != 187.5 {
			t.Errorf("expected price 187.5, got %g", sec.CurrentPrice)
		}

		// History was backfilled from the provider.
		bars, err := svc.GetHistory("AAPL", 7)
		testutil.AssertNoError(t, err)
		if len(bars) != 1 {
			t.Errorf("expected 1 backfilled bar, got %d", len(bars))
		}
	})

	t.Run("returns_existing_without_quote", func(t *testing.T) {
		quotes := &stubQuotes{
			quotes: map[string]marketdata.Quote{
				"MSFT": {Symbol: "MSFT", Name: "Microsoft", Price: 420},
			},
		}
		svc, teardown := newTestSecurityService(t, quotes, nil)
		defer teardown()

		first, err := svc.FindOrCreateBySymbol(context.Background(), "MSFT")
		testutil.AssertNoError(t, err)

		callsAfterCreate := quotes.quoteCalls
		second, err := svc.FindOrCreateBySymbol(context.Background(), "MSFT")
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected same security, got %d vs %d", second.ID, first.ID)
		}
		if quotes.quoteCalls != callsAfterCreate {
			t.Error("existing security should not trigger a quote")
		}
	})

	t.Run("quote_unavailable", func(t *testing.T) {
		svc, teardown := newTestSecurityService(t, &stubQuotes{}, nil)
		defer teardown()

		_, err := svc.FindOrCreateBySymbol(context.Background(), "NOPE")
		testutil.AssertAppError(t, err, "QUOTE_UNAVAILABLE")
	})

	t.Run("empty_symbol", func(t *testing.T) {
		svc, teardown := newTestSecurityService(t, nil, nil)
		defer teardown()

		_, err := svc.FindOrCreateBySymbol(context.Background(), "  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestSearchSecurities(t *testing.T) {
	t.Run("matches_catalog_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSecurityService(db, &stubQuotes{}, &stubProfiles{})

		testutil.CreateTestSecurity(t, db, "Technology", 100)
		target := testutil.CreateTestSecurity(t, db, "Energy", 50)

		results, err := svc.Search(context.Background(), target.Name)
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].ID != target.ID {
			t.Errorf("expected only %s, got %v", target.Symbol, results)
		}
	})

	t.Run("free_text_resolves_best_provider_matches", func(t *testing.T) {
		quotes := &stubQuotes{
			quotes: map[string]marketdata.Quote{
				"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: 190},
			},
		}
		profiles := &stubProfiles{
			searches: map[string][]marketdata.SearchResult{
				"apple": {
					{Symbol: "AAPL", Name: "Apple Inc.", Region: "United States", Type: "Equity"},
					{Symbol: "APLE", Name: "Apple Hospitality REIT", Region: "United States", Type: "Equity"},
				},
			},
		}
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSecurityService(db, quotes, profiles)

		results, err := svc.Search(context.Background(), "apple")
		testutil.AssertNoError(t, err)

		// APLE has no quote, so only AAPL makes it into the catalog.
		if len(results) != 1 || results[0].Symbol != "AAPL" {
			t.Fatalf("expected AAPL resolved from symbol search, got %v", results)
		}

		var count int64
		db.Model(&models.Security{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 catalog entry, got %d", count)
		}
	})

	t.Run("unknown_symbol_resolves_through_provider", func(t *testing.T) {
		quotes := &stubQuotes{
			quotes: map[string]marketdata.Quote{
				"TSLA": {Symbol: "TSLA", Name: "Tesla", Price: 250},
			},
		}
		svc, teardown := newTestSecurityService(t, quotes, nil)
		defer teardown()

		results, err := svc.Search(context.Background(), "TSLA")
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].Symbol != "TSLA" {
			t.Fatalf("expected TSLA to be created, got %v", results)
		}
	})

	t.Run("unknown_everything_is_empty", func(t *testing.T) {
		svc, teardown := newTestSecurityService(t, &stubQuotes{}, nil)
		defer teardown()

		results, err := svc.Search(context.Background(), "ZZZZZ")
		testutil.AssertNoError(t, err)
		if len(results) != 0 {
			t.Errorf("expected empty result, got %v", results)
		}
	})
}

func TestListSecurities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSecurityService(db, &stubQuotes{}, &stubProfiles{})

	for i := 0; i < 3; i++ {
		testutil.CreateTestSecurity(t, db, "Technology", 100)
	}

	page, err := svc.ListSecurities(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 {
		t.Errorf("expected 3 total, got %d", page.TotalItems)
	}
	if len(page.Data) != 2 {
		t.Errorf("expected page of 2, got %d", len(page.Data))
	}
}

func TestRefreshAllPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	sec := testutil.CreateTestSecurity(t, db, "Technology", 100)
	dead := testutil.CreateTestSecurity(t, db, "Energy", 50)

	quotes := &stubQuotes{
		quotes: map[string]marketdata.Quote{
			sec.Symbol: {Symbol: sec.Symbol, Price: 110, AsOf: time.Now()},
		},
	}
	svc := NewSecurityService(db, quotes, &stubProfiles{})

	err := svc.RefreshAllPrices(context.Background())
	testutil.AssertNoError(t, err)

	var refreshed models.Security
	db.First(&refreshed, sec.ID)
	if refreshed.CurrentPrice != 110 {
		t.Errorf("expected refreshed price 110, got %g", refreshed.CurrentPrice)
	}

	// Symbols without quotes keep their old price.
	var untouched models.Security
	db.First(&untouched, dead.ID)
	if untouched.CurrentPrice != 50 {
		t.Errorf("expected price 50 to survive, got %g", untouched.CurrentPrice)
	}

	var bars int64
	db.Model(&models.SecurityHistory{}).Where("security_id = ?", sec.ID).Count(&bars)
	if bars != 1 {
		t.Errorf("expected 1 history bar, got %d", bars)
	}
}
