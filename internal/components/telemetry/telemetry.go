package telemetry

import (
	"fmt"
)

// API receives every report the scraper and the service make. Tests swap in
// TestAPI to assert on them.
//
// Ids name the component and operation that reported, lowercase with a dot
// between the component and a dashed operation, e.g. "client.sales-backlog".
// Anything more specific (status code, source, row count) goes in params.
type API interface {
	// ReportBroken reports a failure that needs attention, such as an
	// unreachable report or a page without its table.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something worth a look that did not fail the
	// operation, such as a renamed report column.
	ReportWarning(id string, params ...any)
	// ReportDebug is only emitted with verbose logging.
	ReportDebug(msg string, params ...any)
	// ReportCount reports a point-in-time count, the values are samples and
	// must not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
