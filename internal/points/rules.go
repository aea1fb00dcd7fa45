package points

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

const (
	roundDollarPoints     = 50
	quarterMultiplePoints = 25
	pointsPerItemPair     = 5
	oddDayPoints          = 6
	afternoonPoints       = 10
)

var (
	roundDollarPattern = regexp.MustCompile(`^\d+\.00$`)

	quarter          = decimal.RequireFromString("0.25")
	descriptionRatio = decimal.RequireFromString("0.2")

	// exclusive bounds, offset from midnight
	afternoonStart = 14 * time.Hour
	afternoonEnd   = 16 * time.Hour
)

// Rule is one independent contribution to a receipt's score.
type Rule struct {
	Name  string
	Apply func(r receipts.Receipt) (int64, error)
}

// Rules is the fixed, ordered rule set. No rule reads another's result.
var Rules = []Rule{
	{Name: "retailer_alphanumeric", Apply: RetailerAlphanumeric},
	{Name: "round_dollar", Apply: RoundDollar},
	{Name: "quarter_multiple", Apply: QuarterMultiple},
	{Name: "item_pairs", Apply: ItemPairs},
	{Name: "description_length", Apply: DescriptionLength},
	{Name: "odd_day", Apply: OddDay},
	{Name: "afternoon_window", Apply: AfternoonWindow},
}

// RetailerAlphanumeric awards one point per letter or number rune in the retailer name.
// Any Unicode number counts, superscripts and vulgar fractions included.
func RetailerAlphanumeric(r receipts.Receipt) (int64, error) {
	var n int64
	for _, c := range r.Retailer {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			n++
		}
	}
	return n, nil
}

// RoundDollar awards 50 points when the total has no cents.
func RoundDollar(r receipts.Receipt) (int64, error) {
	if roundDollarPattern.MatchString(r.Total) {
		return roundDollarPoints, nil
	}
	return 0, nil
}

// QuarterMultiple awards 25 points when the total is a multiple of 0.25.
func QuarterMultiple(r receipts.Receipt) (int64, error) {
	total, err := parseAmount("total", r.Total)
	if err != nil {
		return 0, err
	}
	if total.Mod(quarter).IsZero() {
		return quarterMultiplePoints, nil
	}
	return 0, nil
}

// ItemPairs awards 5 points for every two items.
func ItemPairs(r receipts.Receipt) (int64, error) {
	return int64(len(r.Items)/2) * pointsPerItemPair, nil
}

// DescriptionLength awards ceil(price * 0.2) for every item whose trimmed description
// length is a positive multiple of 3. Blank descriptions earn nothing.
func DescriptionLength(r receipts.Receipt) (int64, error) {
	var sum int64
	for i, it := range r.Items {
		n := len([]rune(strings.TrimSpace(it.ShortDescription)))
		if n == 0 || n%3 != 0 {
			continue
		}
		price, err := parseAmount(fmt.Sprintf("items[%d].price", i), it.Price)
		if err != nil {
			return 0, err
		}
		sum += price.Mul(descriptionRatio).Ceil().IntPart()
	}
	return sum, nil
}

// OddDay awards 6 points when the purchase day of month is odd.
func OddDay(r receipts.Receipt) (int64, error) {
	d, err := time.Parse("2006-01-02", r.PurchaseDate)
	if err != nil {
		return 0, malformed("purchaseDate", r.PurchaseDate, err)
	}
	if d.Day()%2 == 1 {
		return oddDayPoints, nil
	}
	return 0, nil
}

// AfternoonWindow awards 10 points for purchases strictly between 14:00 and 16:00.
func AfternoonWindow(r receipts.Receipt) (int64, error) {
	tod, err := timeOfDay(r.PurchaseTime)
	if err != nil {
		return 0, malformed("purchaseTime", r.PurchaseTime, err)
	}
	if tod > afternoonStart && tod < afternoonEnd {
		return afternoonPoints, nil
	}
	return 0, nil
}

// timeOfDay accepts HH:MM and HH:MM:SS and returns the offset from midnight.
func timeOfDay(s string) (time.Duration, error) {
	var (
		t   time.Time
		err error
	)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err = time.Parse(layout, s)
		if err == nil {
			break
		}
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, malformed(field, s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, malformed(field, s, fmt.Errorf("negative amount"))
	}
	return d, nil
}
