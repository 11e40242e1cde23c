package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	reg := NewRegistry()
	reg.ObserveFetch("sales", OutcomeOk, 3, time.Second)
	reg.ObserveFetch("sales", OutcomeDegraded, 0, time.Second)
	reg.ObserveFetch("sales", OutcomeOk, 2, time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(reg.FetchTotal.WithLabelValues("sales", OutcomeOk)))
	require.Equal(t, 1.0, testutil.ToFloat64(reg.FetchTotal.WithLabelValues("sales", OutcomeDegraded)))
	require.Equal(t, 5.0, testutil.ToFloat64(reg.FetchRows.WithLabelValues("sales")))
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	reg.ObserveFetch("sales", OutcomeOk, 1, time.Second)
	reg.ObserveRequest("/", 200, time.Second)
}
