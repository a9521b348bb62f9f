package models

import "testing"

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		stock     int
		threshold int
		want      string
	}{
		{0, 5, StockOut},
		{-1, 5, StockOut},
		{1, 5, StockLow},
		{5, 5, StockLow},
		{6, 5, StockInStock},
		{100, 5, StockInStock},
		{3, 0, StockLow},  // zero threshold falls back to the default
		{10, 0, StockInStock},
	}
	for _, tc := range cases {
		if got := StockStatusFor(tc.stock, tc.threshold); got != tc.want {
			t.Errorf("StockStatusFor(%d, %d) = %q, want %q", tc.stock, tc.threshold, got, tc.want)
		}
	}
}

func TestFinalPrice(t *testing.T) {
	p := Product{Price: 500, DiscountPrice: 450}
	if got := p.FinalPrice(); got != 450 {
		t.Fatalf("FinalPrice = %v, want discount price 450", got)
	}

	p.DiscountPrice = 0
	if got := p.FinalPrice(); got != 500 {
		t.Fatalf("FinalPrice = %v, want list price 500", got)
	}
}

func TestRefreshStockStatus(t *testing.T) {
	p := Product{Stock: 2, LowStockThreshold: 5}
	p.RefreshStockStatus()
	if p.StockStatus != StockLow {
		t.Fatalf("stockStatus = %q, want %q", p.StockStatus, StockLow)
	}

	p.Stock = 0
	p.RefreshStockStatus()
	if p.StockStatus != StockOut {
		t.Fatalf("stockStatus = %q, want %q", p.StockStatus, StockOut)
	}
}
