package flight

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

var (
	// ErrFlightIsNotConstructed is returned when a zero-value Flight is used.
	ErrFlightIsNotConstructed = errors.New("Flight must be created via NewFlight or RestoreFlight")
	// ErrNumberIsRequired is returned for an empty flight number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("number")
	// ErrDepartureIsRequired is returned for a zero departure time.
	ErrDepartureIsRequired = errs.NewValueIsRequiredError("departureAt")
)

var (
	flightNumberPattern = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}[A-Z]?$`)
	airportCodePattern  = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Flight is the part of a scheduled flight the baggage service depends on.
// Flights are registered once and then only read: baggage references them by ID and
// ground handling prints their number in ledger details.
type Flight struct {
	id          kernel.UUID
	number      string
	origin      string
	destination string
	departureAt time.Time
	guard       guard.ConstructorGuard
}

// NewFlight validates and creates a flight.
// Number is an IATA flight designator such as "LH123"; origin and destination are
// three-letter airport codes. Input is upper-cased before validation.
func NewFlight(id kernel.UUID, number, origin, destination string, departureAt time.Time) (*Flight, error) {
	f := &Flight{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		f.setID(id),
		f.setNumber(number),
		f.setRoute(origin, destination),
		f.setDepartureAt(departureAt),
	); err != nil {
		return nil, err
	}

	return f, nil
}

// RestoreFlight rebuilds a flight loaded from storage.
func RestoreFlight(id kernel.UUID, number, origin, destination string, departureAt time.Time) (*Flight, error) {
	return NewFlight(id, number, origin, destination, departureAt)
}

// Validate reports whether the flight was built by a constructor.
func (f *Flight) Validate() error {
	return f.guard.Validate(ErrFlightIsNotConstructed)
}

// ID returns the flight identity.
func (f *Flight) ID() kernel.UUID {
	return f.id
}

// Number returns the flight designator.
func (f *Flight) Number() string {
	return f.number
}

// Origin returns the departure airport code.
func (f *Flight) Origin() string {
	return f.origin
}

// Destination returns the arrival airport code.
func (f *Flight) Destination() string {
	return f.destination
}

// DepartureAt returns the scheduled departure in UTC.
func (f *Flight) DepartureAt() time.Time {
	return f.departureAt
}

func (f *Flight) String() string {
	return fmt.Sprintf("%s %s-%s", f.number, f.origin, f.destination)
}

func (f *Flight) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	f.id = id
	return nil
}

func (f *Flight) setNumber(number string) error {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return ErrNumberIsRequired
	}
	if !flightNumberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("number", fmt.Errorf("%q is not a flight designator", number))
	}
	f.number = number
	return nil
}

func (f *Flight) setRoute(origin, destination string) error {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	var err error
	if !airportCodePattern.MatchString(origin) {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("origin", fmt.Errorf("%q is not an airport code", origin)))
	}
	if !airportCodePattern.MatchString(destination) {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("destination", fmt.Errorf("%q is not an airport code", destination)))
	}
	if err == nil && origin == destination {
		err = errs.NewValueIsInvalidErrorWithCause("destination", errors.New("must differ from origin"))
	}
	if err != nil {
		return err
	}

	f.origin = origin
	f.destination = destination
	return nil
}

func (f *Flight) setDepartureAt(departureAt time.Time) error {
	if departureAt.IsZero() {
		return ErrDepartureIsRequired
	}
	f.departureAt = departureAt.UTC()
	return nil
}

// ErrFlightNotFound reports a flight reference that does not resolve to a registered flight.
var ErrFlightNotFound = errors.New("flight not found")
