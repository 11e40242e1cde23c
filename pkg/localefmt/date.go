package localefmt

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// shortDateLayout accepts one or two digit days and months ("5/3/24", "05/03/24").
// Two digit years follow time.Parse: 69-99 map to 19xx, 00-68 to 20xx.
const shortDateLayout = "2/1/06"

const longDateLayout = "02/01/2006"

// ParseDate parses a dd/mm/yy token. Blank or malformed text yields nil, a non-nil
// result is always a valid calendar date.
func ParseDate(text string) *civil.Date {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t, err := time.Parse(shortDateLayout, text)
	if err != nil {
		return nil
	}
	d := civil.DateOf(t)
	return &d
}

// FormatDate renders a date as dd/mm/yyyy, the format the CM filters expect.
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format(longDateLayout)
}

// FormatOptionalDate renders nil as fallback.
func FormatOptionalDate(d *civil.Date, fallback string) string {
	if d == nil {
		return fallback
	}
	return FormatDate(*d)
}
