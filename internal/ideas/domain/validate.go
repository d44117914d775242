package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice is the largest value NUMERIC(10,2) holds.
var maxPrice = decimal.RequireFromString("99999999.99")

var (
	minLatitude  = decimal.NewFromInt(-90)
	maxLatitude  = decimal.NewFromInt(90)
	minLongitude = decimal.NewFromInt(-180)
	maxLongitude = decimal.NewFromInt(180)
)

// Price is a validated, non-negative amount with two fractional digits, kept as
// text so it never passes through a binary float.
type Price struct {
	text string
}

func (p Price) String() string { return p.text }

func (p Price) IsZero() bool { return p.text == "" }

// ParsePrice accepts decimal text such as "12.5", "0" or "1234567.89" and
// normalises it to two fractional digits. Values needing more precision than
// cents are rejected instead of rounded.
func ParsePrice(raw string) (Price, error) {
	s := strings.TrimSpace(raw)
	d, err := decimal.NewFromString(s)
	if s == "" || err != nil {
		return Price{}, NewValidationError("est_price_per_person", "Invalid est_price_per_person: must be a non-negative decimal.")
	}
	if d.IsNegative() {
		return Price{}, NewValidationError("est_price_per_person", "Invalid est_price_per_person: must not be negative.")
	}
	if !d.Equal(d.Round(2)) {
		return Price{}, NewValidationError("est_price_per_person", "Invalid est_price_per_person: at most two decimal places are allowed.")
	}
	if d.GreaterThan(maxPrice) {
		return Price{}, NewValidationError("est_price_per_person", "Invalid est_price_per_person: value is too large.")
	}
	return Price{text: d.StringFixed(2)}, nil
}

func ParseActivityType(raw string) (ActivityType, error) {
	t := ActivityType(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", NewValidationError("activity_type", "Invalid activity_type: must be STAY_IN or GO_OUT.")
	}
	return t, nil
}

// ParseLocation validates an optional coordinate pair. Blank values count as
// absent; both absent yields nil, exactly one absent is an error.
func ParseLocation(lat, lon *string) (*Location, error) {
	latText := trimmed(lat)
	lonText := trimmed(lon)

	if latText == "" && lonText == "" {
		return nil, nil
	}
	if latText == "" || lonText == "" {
		return nil, NewValidationError("location", "Latitude and longitude must be provided together.")
	}

	if err := checkRange(latText, minLatitude, maxLatitude); err != nil {
		return nil, NewValidationError("latitude", "Invalid latitude: must be a decimal between -90 and 90.")
	}
	if err := checkRange(lonText, minLongitude, maxLongitude); err != nil {
		return nil, NewValidationError("longitude", "Invalid longitude: must be a decimal between -180 and 180.")
	}

	return &Location{Latitude: latText, Longitude: lonText}, nil
}

func checkRange(s string, lo, hi decimal.Decimal) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	if d.LessThan(lo) || d.GreaterThan(hi) {
		return NewValidationError("", "out of range")
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
