package chrono

import (
	"time"

	"cloud.google.com/go/civil"
)

// API is the source of "now" for anything that computes report windows.
//
// note: fault injection point
type API interface {
	Now() time.Time
	Location() *time.Location
}

// Today is the civil date of api.Now() in api.Location().
func Today(api API) civil.Date {
	return civil.DateOf(api.Now().In(api.Location()))
}

// StandardImpl pins the clock to the timezone the CM site reports in, the host
// may run elsewhere and would otherwise shift "today" around midnight. The zero
// value uses the local timezone.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl() (StandardImpl, error) {
	location, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.Location())
}

func (s StandardImpl) Location() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}

func (f FixedImpl) Location() *time.Location {
	if f.At.Location() == nil {
		return time.UTC
	}
	return f.At.Location()
}
