package chrono

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC is still the previous day in BRT
	api := FixedImpl{At: time.Date(2025, time.March, 10, 1, 30, 0, 0, time.UTC).In(loc)}
	require.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 9}, Today(api))
}

func TestStandardImpl(t *testing.T) {
	api, err := NewStandardImpl()
	if err != nil {
		t.Skip("tzdata unavailable:", err)
	}
	require.Equal(t, "America/Sao_Paulo", api.Location().String())
	require.Equal(t, api.Location(), api.Now().Location())
}

func TestStandardImplZeroValue(t *testing.T) {
	var api StandardImpl
	require.Equal(t, time.Local, api.Location())
	require.NotPanics(t, func() { Today(api) })
}
