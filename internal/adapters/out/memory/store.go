// Package memory is a transactional in-memory implementation of the unit of work.
//
// Committed state lives in a Store shared by every unit of work created from the same
// factory. A unit of work journals its writes and applies them at Commit under the
// store lock, checking the same uniqueness rules the relational schema enforces:
// tracking numbers, flight numbers and (baggage, ledger sequence) pairs.
// Aggregates are stored as plain rows and rebuilt on every read, so callers never share
// memory with the store.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
)

type entryRow struct {
	sequence   int
	status     baggage.Status
	recordedAt time.Time
	details    string
}

type baggageRow struct {
	id                kernel.UUID
	trackingNumber    string
	weightKg          float64
	flightID          kernel.UUID
	status            baggage.Status
	heldForInspection bool
	history           []entryRow
}

type flightRow struct {
	id          kernel.UUID
	number      string
	origin      string
	destination string
	departureAt time.Time
}

// Store holds committed rows. The zero value is not usable; call NewStore.
type Store struct {
	mu       sync.RWMutex
	baggage  map[kernel.UUID]baggageRow
	flights  map[kernel.UUID]flightRow
	byNumber map[string]kernel.UUID
}

func NewStore() *Store {
	return &Store{
		baggage:  make(map[kernel.UUID]baggageRow),
		flights:  make(map[kernel.UUID]flightRow),
		byNumber: make(map[string]kernel.UUID),
	}
}

// mutation is one journaled write. apply runs under the store write lock and must
// leave state untouched when it fails.
type mutation interface {
	apply(s *state) error
	trackingNumber() string
}

// state is a view over rows that mutations are applied to: the committed store at
// commit time, or a scratch copy when a unit of work reads its own writes.
type state struct {
	baggage  map[kernel.UUID]baggageRow
	flights  map[kernel.UUID]flightRow
	byNumber map[string]kernel.UUID
}

func (s *state) findBaggage(trackingNumber string) (baggageRow, bool) {
	id, ok := s.byNumber[trackingNumber]
	if !ok {
		return baggageRow{}, false
	}
	row, ok := s.baggage[id]
	return row, ok
}

func (s *state) sortedBaggage() []baggageRow {
	rows := make([]baggageRow, 0, len(s.baggage))
	for _, row := range s.baggage {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].trackingNumber < rows[j].trackingNumber
	})
	return rows
}

func (s *state) sortedFlights() []flightRow {
	rows := make([]flightRow, 0, len(s.flights))
	for _, row := range s.flights {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].departureAt.Equal(rows[j].departureAt) {
			return rows[i].departureAt.Before(rows[j].departureAt)
		}
		return rows[i].number < rows[j].number
	})
	return rows
}

// view copies committed rows and replays journal over the copy.
// Rows are copied shallowly; history slices are never mutated in place.
func (s *Store) view(journal []mutation) (*state, error) {
	s.mu.RLock()
	v := &state{
		baggage:  make(map[kernel.UUID]baggageRow, len(s.baggage)),
		flights:  make(map[kernel.UUID]flightRow, len(s.flights)),
		byNumber: make(map[string]kernel.UUID, len(s.byNumber)),
	}
	for k, row := range s.baggage {
		v.baggage[k] = row
	}
	for k, row := range s.flights {
		v.flights[k] = row
	}
	for k, id := range s.byNumber {
		v.byNumber[k] = id
	}
	s.mu.RUnlock()

	for _, m := range journal {
		if err := m.apply(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// commit applies journal atomically. On the first failing mutation nothing is kept.
func (s *Store) commit(journal []mutation) error {
	if len(journal) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := &state{
		baggage:  make(map[kernel.UUID]baggageRow),
		flights:  make(map[kernel.UUID]flightRow),
		byNumber: make(map[string]kernel.UUID),
	}
	for k, row := range s.baggage {
		scratch.baggage[k] = row
	}
	for k, row := range s.flights {
		scratch.flights[k] = row
	}
	for k, id := range s.byNumber {
		scratch.byNumber[k] = id
	}

	for _, m := range journal {
		if err := m.apply(scratch); err != nil {
			return err
		}
	}

	s.baggage = scratch.baggage
	s.flights = scratch.flights
	s.byNumber = scratch.byNumber
	return nil
}

type addBaggage struct{ row baggageRow }

func (m addBaggage) trackingNumber() string { return m.row.trackingNumber }

func (m addBaggage) apply(s *state) error {
	if _, ok := s.byNumber[m.row.trackingNumber]; ok {
		return errs.NewObjectAlreadyExistsError("trackingNumber", m.row.trackingNumber)
	}
	if _, ok := s.baggage[m.row.id]; ok {
		return errs.NewObjectAlreadyExistsError("baggage", m.row.id.String())
	}
	if _, ok := s.flights[m.row.flightID]; !ok {
		return errs.NewObjectNotFoundError("flight", m.row.flightID.String())
	}

	s.baggage[m.row.id] = m.row
	s.byNumber[m.row.trackingNumber] = m.row.id
	return nil
}

// updateBaggage stores the new status and appends entries to a ledger that still has
// exactly base entries.
type updateBaggage struct {
	id                kernel.UUID
	number            string
	status            baggage.Status
	heldForInspection bool
	base              int
	entries           []entryRow
}

func (m updateBaggage) trackingNumber() string { return m.number }

func (m updateBaggage) apply(s *state) error {
	row, ok := s.baggage[m.id]
	if !ok {
		return errs.NewObjectNotFoundError("baggage", m.id.String())
	}

	if last := len(row.history); last != m.base {
		return errs.NewObjectAlreadyExistsErrorWithCause("sequence", m.base+1,
			fmt.Errorf("ledger of %s has %d entries, expected %d", row.trackingNumber, last, m.base))
	}

	history := make([]entryRow, 0, len(row.history)+len(m.entries))
	history = append(history, row.history...)
	history = append(history, m.entries...)

	row.history = history
	row.status = m.status
	row.heldForInspection = m.heldForInspection
	s.baggage[m.id] = row
	return nil
}

type addFlight struct{ row flightRow }

func (m addFlight) trackingNumber() string { return "" }

func (m addFlight) apply(s *state) error {
	if _, ok := s.flights[m.row.id]; ok {
		return errs.NewObjectAlreadyExistsError("flight", m.row.id.String())
	}
	for _, f := range s.flights {
		if f.number == m.row.number {
			return errs.NewObjectAlreadyExistsError("number", m.row.number)
		}
	}

	s.flights[m.row.id] = m.row
	return nil
}

func baggageToRow(b *baggage.Baggage) baggageRow {
	return baggageRow{
		id:                b.ID(),
		trackingNumber:    b.TrackingNumber(),
		weightKg:          b.Weight().Kg(),
		flightID:          b.FlightID(),
		status:            b.Status(),
		heldForInspection: b.IsHeldForInspection(),
		history:           entriesToRows(b.History()),
	}
}

func entriesToRows(entries []baggage.HistoryEntry) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow{
			sequence:   e.Sequence(),
			status:     e.Status(),
			recordedAt: e.RecordedAt(),
			details:    e.Details(),
		})
	}
	return rows
}

func rowToBaggage(row baggageRow) (*baggage.Baggage, error) {
	history, err := rowsToEntries(row.id, row.history)
	if err != nil {
		return nil, err
	}

	weight, err := kernel.NewWeight(row.weightKg)
	if err != nil {
		return nil, err
	}

	return baggage.RestoreBaggage(row.id, row.trackingNumber, weight, row.flightID, row.status, history)
}

func rowsToEntries(baggageID kernel.UUID, rows []entryRow) ([]baggage.HistoryEntry, error) {
	entries := make([]baggage.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e, err := baggage.RestoreHistoryEntry(baggageID, r.sequence, r.status, r.recordedAt, r.details)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func flightToRow(f *flight.Flight) flightRow {
	return flightRow{
		id:          f.ID(),
		number:      f.Number(),
		origin:      f.Origin(),
		destination: f.Destination(),
		departureAt: f.DepartureAt(),
	}
}

func rowToFlight(row flightRow) (*flight.Flight, error) {
	return flight.RestoreFlight(row.id, row.number, row.origin, row.destination, row.departureAt)
}
