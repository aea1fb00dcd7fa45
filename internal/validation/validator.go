package validation

import (
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

var (
	// business-name characters: letters, digits, spaces, '-' and '&'.
	// \s is ASCII-only in RE2, so \p{Z} adds no-break and other Unicode spaces.
	retailerPattern = regexp.MustCompile(`^[\p{L}\p{N}_\s\p{Z}\-&]+$`)
	// printable text: letters, digits, spaces, punctuation and symbols
	descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}_\s\p{Z}\p{P}\p{S}]+$`)
	// money: whole units, a dot and exactly two fractional digits
	amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// patterns maps each custom tag to the pattern it enforces. Used for error messages too.
var patterns = map[string]*regexp.Regexp{
	"retailer":    retailerPattern,
	"description": descriptionPattern,
	"amount":      amountPattern,
}

// New returns a configured validator with the receipt pattern tags registered.
// Field names in errors are reported by their json names.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(jsonFieldName)

	for tag, re := range patterns {
		re := re
		// registration only fails on an empty tag or nil func
		_ = v.RegisterValidation(tag, func(fl validatorv10.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}

	return v
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
