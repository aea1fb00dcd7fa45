// Package points computes loyalty points for validated receipts.
//
// The engine is pure and safe for concurrent use. It does not re-validate its input:
// a receipt that fails to parse here slipped past the HTTP boundary, and the error
// wraps ErrMalformedReceipt so callers can treat it as an internal failure.
package points

import (
	"errors"
	"fmt"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

// ErrMalformedReceipt indicates the engine was handed a receipt that never passed validation.
var ErrMalformedReceipt = errors.New("malformed receipt")

// Contribution is the score a single rule awarded.
type Contribution struct {
	Rule   string
	Points int64
}

// Calculate returns the total score for r: the sum of every rule's contribution.
func Calculate(r receipts.Receipt) (int64, error) {
	var total int64
	for _, rule := range Rules {
		p, err := rule.Apply(r)
		if err != nil {
			return 0, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		total += p
	}
	return total, nil
}

// Breakdown returns each rule's contribution in rule order.
func Breakdown(r receipts.Receipt) ([]Contribution, error) {
	out := make([]Contribution, 0, len(Rules))
	for _, rule := range Rules {
		p, err := rule.Apply(r)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		out = append(out, Contribution{Rule: rule.Name, Points: p})
	}
	return out, nil
}

func malformed(field, value string, cause error) error {
	return fmt.Errorf("%w: %s=%q: %v", ErrMalformedReceipt, field, value, cause)
}
