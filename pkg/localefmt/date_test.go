package localefmt

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		text     string
		expected *civil.Date
	}{
		{text: "05/03/24", expected: &civil.Date{Year: 2024, Month: time.March, Day: 5}},
		{text: " 5/3/24 ", expected: &civil.Date{Year: 2024, Month: time.March, Day: 5}},
		{text: "31/12/99", expected: &civil.Date{Year: 1999, Month: time.December, Day: 31}},
		{text: "01/01/00", expected: &civil.Date{Year: 2000, Month: time.January, Day: 1}},
		{text: "29/02/24", expected: &civil.Date{Year: 2024, Month: time.February, Day: 29}},
		{text: "29/02/23"},
		{text: "32/01/24"},
		{text: "05/13/24"},
		{text: "05/03/2024"},
		{text: "2024-03-05"},
		{text: "not-a-date"},
		{text: ""},
		{text: "   "},
	}

	for _, test := range testCases {
		t.Run(test.text, func(t *testing.T) {
			actual := ParseDate(test.text)
			if test.expected == nil {
				require.Nil(t, actual)
				return
			}
			require.NotNil(t, actual)
			require.Equal(t, *test.expected, *actual)
			require.True(t, actual.IsValid())
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := civil.Date{Year: 2025, Month: time.July, Day: 4}
	require.Equal(t, "04/07/2025", FormatDate(d))
	require.Equal(t, "04/07/2025", FormatOptionalDate(&d, "N/A"))
	require.Equal(t, "N/A", FormatOptionalDate(nil, "N/A"))
}
