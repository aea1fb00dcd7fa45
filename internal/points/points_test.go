package points

import (
	"errors"
	"sync"
	"testing"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

func targetReceipt() receipts.Receipt {
	return receipts.Receipt{
		Retailer:     "Target",
		PurchaseDate: "2022-01-01",
		PurchaseTime: "13:01",
		Total:        "35.35",
		Items: []receipts.Item{
			{ShortDescription: "Mountain Dew 12PK", Price: "6.49"},
			{ShortDescription: "Emils Cheese Pizza", Price: "12.25"},
			{ShortDescription: "Knorr Creamy Chicken", Price: "1.26"},
			{ShortDescription: "Doritos Nacho Cheese", Price: "3.35"},
			{ShortDescription: "   Klarbrunn 12-PK 12 FL OZ  ", Price: "12.00"},
		},
	}
}

// neutral earns only the retailer points: even day, outside the window,
// one item whose description is not a multiple of 3, total neither round nor a quarter.
func neutral() receipts.Receipt {
	return receipts.Receipt{
		Retailer:     "Target",
		PurchaseDate: "2022-01-02",
		PurchaseTime: "13:01",
		Total:        "6.49",
		Items: []receipts.Item{
			{ShortDescription: "Mountain Dew 12PK", Price: "6.49"},
		},
	}
}

func mustCalculate(t *testing.T, r receipts.Receipt) int64 {
	t.Helper()
	got, err := Calculate(r)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	return got
}

func TestCalculate_Scenarios(t *testing.T) {
	roundTotal := neutral()
	roundTotal.Total = "7.00"
	roundTotal.Items[0].Price = "7.00"

	pairs := neutral()
	pairs.Total = "14.02"
	pairs.Items = []receipts.Item{
		{ShortDescription: "Mountain Dew 12PK", Price: "7.01"},
		{ShortDescription: "Emils Cheese Pizza", Price: "7.01"},
	}

	cases := []struct {
		name string
		r    receipts.Receipt
		want int64
	}{
		{"target full receipt", targetReceipt(), 28},
		{"retailer only", neutral(), 6},
		{"round dollar and quarter", roundTotal, 81},
		{"item pair and description", pairs, 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustCalculate(t, tc.r); got != tc.want {
				t.Fatalf("expected %d points, got %d", tc.want, got)
			}
		})
	}
}

func TestCalculate_OddDayAddsSix(t *testing.T) {
	base := neutral()
	odd := neutral()
	odd.PurchaseDate = "2022-01-01"

	if diff := mustCalculate(t, odd) - mustCalculate(t, base); diff != 6 {
		t.Fatalf("expected odd day to add 6, got %d", diff)
	}
}

func TestCalculate_AfternoonAddsTen(t *testing.T) {
	base := neutral()
	inside := neutral()
	inside.PurchaseTime = "14:01"

	if diff := mustCalculate(t, inside) - mustCalculate(t, base); diff != 10 {
		t.Fatalf("expected afternoon window to add 10, got %d", diff)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	r := targetReceipt()
	first := mustCalculate(t, r)
	second := mustCalculate(t, r)
	if first != second {
		t.Fatalf("expected identical scores, got %d and %d", first, second)
	}
}

func TestBreakdown_SumsToCalculate(t *testing.T) {
	r := targetReceipt()

	parts, err := Breakdown(r)
	if err != nil {
		t.Fatalf("Breakdown error: %v", err)
	}
	if len(parts) != 7 {
		t.Fatalf("expected 7 contributions, got %d", len(parts))
	}

	want := map[string]int64{
		"retailer_alphanumeric": 6,
		"round_dollar":          0,
		"quarter_multiple":      0,
		"item_pairs":            10,
		"description_length":    6,
		"odd_day":               6,
		"afternoon_window":      0,
	}
	var sum int64
	for _, p := range parts {
		if p.Points != want[p.Rule] {
			t.Fatalf("rule %s: expected %d, got %d", p.Rule, want[p.Rule], p.Points)
		}
		sum += p.Points
	}
	if total := mustCalculate(t, r); sum != total {
		t.Fatalf("breakdown sum %d != total %d", sum, total)
	}
}

func TestCalculate_ConcurrentCallsAgree(t *testing.T) {
	r := targetReceipt()
	var wg sync.WaitGroup
	results := make([]int64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Calculate(r)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if got != 28 {
			t.Fatalf("goroutine %d: expected 28, got %d", i, got)
		}
	}
}

func TestRetailerAlphanumeric(t *testing.T) {
	cases := map[string]int64{
		"Target":             6,
		"M&M Corner Market":  14,
		"  - & -  ":          0,
		"Café 7":             5,
		"Walgreens 24 Hours": 16,
		"Shop²½":             6,
		"Ⅻ Bakery":           7,
	}
	for retailer, want := range cases {
		got, _ := RetailerAlphanumeric(receipts.Receipt{Retailer: retailer})
		if got != want {
			t.Fatalf("%q: expected %d, got %d", retailer, want, got)
		}
	}
}

func TestRoundDollar(t *testing.T) {
	cases := map[string]int64{
		"9.00":  50,
		"0.00":  50,
		"9.01":  0,
		"10.10": 0,
	}
	for total, want := range cases {
		got, _ := RoundDollar(receipts.Receipt{Total: total})
		if got != want {
			t.Fatalf("%s: expected %d, got %d", total, want, got)
		}
	}
}

func TestQuarterMultiple(t *testing.T) {
	cases := map[string]int64{
		"10.25": 25,
		"10.50": 25,
		"10.75": 25,
		"9.00":  25,
		"0.25":  25,
		"10.10": 0,
		"35.35": 0,
		"0.01":  0,
	}
	for total, want := range cases {
		got, err := QuarterMultiple(receipts.Receipt{Total: total})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", total, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", total, want, got)
		}
	}
}

func TestItemPairs(t *testing.T) {
	for n, want := range map[int]int64{1: 0, 2: 5, 3: 5, 4: 10, 5: 10} {
		got, _ := ItemPairs(receipts.Receipt{Items: make([]receipts.Item, n)})
		if got != want {
			t.Fatalf("%d items: expected %d, got %d", n, want, got)
		}
	}
}

func TestDescriptionLength(t *testing.T) {
	cases := []struct {
		name string
		item receipts.Item
		want int64
	}{
		{"length 18 rounds 2.45 up", receipts.Item{ShortDescription: "Emils Cheese Pizza", Price: "12.25"}, 3},
		{"trimmed length 24", receipts.Item{ShortDescription: "   Klarbrunn 12-PK 12 FL OZ  ", Price: "12.00"}, 3},
		{"exact integer product", receipts.Item{ShortDescription: "abc", Price: "10.00"}, 2},
		{"length 17 earns nothing", receipts.Item{ShortDescription: "Mountain Dew 12PK", Price: "6.49"}, 0},
		{"small price rounds to one", receipts.Item{ShortDescription: "abc", Price: "0.01"}, 1},
		{"zero price earns zero", receipts.Item{ShortDescription: "abc", Price: "0.00"}, 0},
		{"runes not bytes", receipts.Item{ShortDescription: "Ünï", Price: "5.00"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DescriptionLength(receipts.Receipt{Items: []receipts.Item{tc.item}})
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDescriptionLength_BlankDescriptionEarnsNothing(t *testing.T) {
	r := receipts.Receipt{Items: []receipts.Item{{ShortDescription: "   ", Price: "20.00"}}}

	got, err := DescriptionLength(r)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != 0 {
		t.Fatalf("expected blank description to earn 0, got %d", got)
	}
}

func TestOddDay(t *testing.T) {
	for date, want := range map[string]int64{"2022-01-01": 6, "2022-01-02": 0, "2022-01-31": 6, "2024-02-29": 6} {
		got, err := OddDay(receipts.Receipt{PurchaseDate: date})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", date, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", date, want, got)
		}
	}
}

func TestAfternoonWindow_Bounds(t *testing.T) {
	cases := map[string]int64{
		"13:59":    0,
		"14:00":    0,
		"14:00:01": 10,
		"14:01":    10,
		"15:59":    10,
		"15:59:59": 10,
		"16:00":    0,
		"16:01":    0,
	}
	for tod, want := range cases {
		got, err := AfternoonWindow(receipts.Receipt{PurchaseTime: tod})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tod, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", tod, want, got)
		}
	}
}

func TestCalculate_MalformedReceipt(t *testing.T) {
	cases := []func(r *receipts.Receipt){
		func(r *receipts.Receipt) { r.Total = "abc" },
		func(r *receipts.Receipt) { r.PurchaseDate = "yesterday" },
		func(r *receipts.Receipt) { r.PurchaseTime = "2pm" },
		func(r *receipts.Receipt) { r.Items[1].Price = "twelve" },
	}
	for i, mutate := range cases {
		r := targetReceipt()
		mutate(&r)
		_, err := Calculate(r)
		if !errors.Is(err, ErrMalformedReceipt) {
			t.Fatalf("case %d: expected ErrMalformedReceipt, got %v", i, err)
		}
	}
}
