package calc

import "testing"

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name   string
		qty    float64
		rate   float64
		expect string
	}{
		{"basic multiplication", 10, 50, "500"},
		{"zero qty", 0, 100, "0"},
		{"decimal values", 2.5, 100.50, "251.25"},
		{"rounds to paise", 3, 33.333, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(tt.qty, tt.rate)
			if !got.Equal(dec(tt.expect)) {
				t.Errorf("ItemAmount(%v, %v) = %s, want %s", tt.qty, tt.rate, got, tt.expect)
			}
		})
	}
}

func TestTotalBudget_Example(t *testing.T) {
	est := BudgetEstimate{
		Name: "Ground floor",
		Items: []BudgetItem{
			{Quantity: 10, Rate: 50, StoredAmount: 500},
			{Quantity: 2, Rate: 1500, StoredAmount: 3000},
		},
	}
	if got := TotalBudget([]BudgetEstimate{est}); !got.Equal(dec("3500")) {
		t.Errorf("TotalBudget = %s, want 3500", got)
	}
}

func TestTotalBudget_SumsEveryEstimate(t *testing.T) {
	estimates := []BudgetEstimate{
		{Name: "Active", Active: true, Items: []BudgetItem{{Quantity: 1, Rate: 100}}},
		{Name: "Old draft", Active: false, Items: []BudgetItem{{Quantity: 4, Rate: 25}}},
		{Name: "Empty"},
	}
	if got := TotalBudget(estimates); !got.Equal(dec("200")) {
		t.Errorf("TotalBudget = %s, want 200 (inactive estimates included)", got)
	}
}

func TestTotalBudget_IgnoresStoredAmount(t *testing.T) {
	item := BudgetItem{Quantity: 10, Rate: 60, StoredAmount: 500}
	if !item.Stale() {
		t.Error("expected stale item after rate edit")
	}
	est := BudgetEstimate{Items: []BudgetItem{item}}
	if got := est.Total(); !got.Equal(dec("600")) {
		t.Errorf("Total = %s, want 600 recomputed from quantity x rate", got)
	}
}
