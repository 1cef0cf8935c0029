package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

var errNotFound = errors.New("not found")

// memStore is an in-memory CommitmentStore for exercising the service
// layer without a database.  Atomically holds the store mutex for the
// whole callback, mirroring the isolation a real transaction gives.
type memStore struct {
	mu       sync.Mutex
	classes  map[uint64]*model.Class
	packages map[uint64]*model.Package
	promos   map[string]*model.Promotion
	bookings map[uint64]*model.Booking
	regs     map[uint64]*model.Registration
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		classes:  map[uint64]*model.Class{},
		packages: map[uint64]*model.Package{},
		promos:   map[string]*model.Promotion{},
		bookings: map[uint64]*model.Booking{},
		regs:     map[uint64]*model.Registration{},
	}
}

func (s *memStore) addClass(c model.Class) *model.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	s.classes[c.ID] = &c
	return &c
}

func (s *memStore) addPackage(p model.Package) *model.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.packages[p.ID] = &p
	return &p
}

func (s *memStore) addPromotion(p model.Promotion) *model.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.promos[p.Code] = &p
	return &p
}

func (s *memStore) addRegistration(g model.Registration) *model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g.ID = s.nextID
	s.regs[g.ID] = &g
	return &g
}

func (s *memStore) addBooking(b model.Booking) *model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.bookings[b.ID] = &b
	return &b
}

func (s *memStore) Class(_ context.Context, id uint64) (*model.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) Package(_ context.Context, id uint64) (*model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.packages[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) PromotionByCode(_ context.Context, code string) (*model.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.promos[code]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) Booking(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) Registration(_ context.Context, id uint64) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.regs[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *memStore) UpdateBookingStatus(_ context.Context, id uint64, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return errNotFound
	}
	if b.Status != from {
		return errors.New("status conflict")
	}
	b.Status = to
	return nil
}

func (s *memStore) UpdateRegistrationStatus(_ context.Context, id uint64, from, to string, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.regs[id]
	if !ok {
		return errNotFound
	}
	if g.Status != from {
		return errors.New("status conflict")
	}
	g.Status = to
	if reason != nil {
		g.CancelReason = reason
	}
	return nil
}

func (s *memStore) UpdateRegistrationEndDate(_ context.Context, id uint64, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.regs[id]
	if !ok {
		return errNotFound
	}
	g.EndDate = end
	return nil
}

func (s *memStore) RegistrationsByMember(_ context.Context, memberID uint64) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, g := range s.regs {
		if g.MemberID == memberID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *memStore) Atomically(ctx context.Context, fn func(tx service.CommitmentTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{store: s})
}

// memTx runs with the store mutex already held by Atomically.
type memTx struct {
	store *memStore
}

func (t *memTx) Occupancy(_ context.Context, classID uint64, date time.Time) (model.Occupancy, error) {
	c, ok := t.store.classes[classID]
	if !ok {
		return model.Occupancy{}, errNotFound
	}
	occ := model.Occupancy{Capacity: c.Capacity}
	for _, b := range t.store.bookings {
		if b.ClassID == classID && b.Status == model.BookingBooked && model.SameDate(b.Date, date) {
			occ.BookedCount++
		}
	}
	for _, g := range t.store.regs {
		if g.IsClass() && *g.ClassID == classID && g.Status == model.RegistrationActive && g.CoversDate(date) {
			occ.RegisteredCount++
		}
	}
	return occ, nil
}

func (t *memTx) HasBooked(_ context.Context, memberID, classID uint64, date time.Time) (bool, error) {
	for _, b := range t.store.bookings {
		if b.MemberID == memberID && b.ClassID == classID && b.Status == model.BookingBooked && model.SameDate(b.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) EnrollmentCovers(_ context.Context, memberID, classID uint64, date time.Time) (bool, error) {
	for _, g := range t.store.regs {
		if g.MemberID == memberID && g.IsClass() && *g.ClassID == classID &&
			g.Status == model.RegistrationActive && g.CoversDate(date) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) HasActivePackage(_ context.Context, memberID uint64, today time.Time) (bool, error) {
	for _, g := range t.store.regs {
		if g.MemberID == memberID && g.IsPackage() && g.Status == model.RegistrationActive && !g.IsExpired(today) {
			return true, nil
		}
	}
	return false, nil
}

// HasOverlappingClass mirrors the production query: only ACTIVE
// enrollments block, a pending one holds nothing yet.
func (t *memTx) HasOverlappingClass(_ context.Context, memberID, classID uint64, start, end time.Time) (bool, error) {
	for _, g := range t.store.regs {
		if g.MemberID == memberID && g.IsClass() && *g.ClassID == classID &&
			g.Status == model.RegistrationActive && g.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.store.nextID++
	b.ID = t.store.nextID
	cp := *b
	t.store.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) InsertRegistration(_ context.Context, g *model.Registration) error {
	t.store.nextID++
	g.ID = t.store.nextID
	cp := *g
	t.store.regs[g.ID] = &cp
	return nil
}

func (t *memTx) UpdateRegistrationStatus(_ context.Context, id uint64, from, to string, reason *string) error {
	g, ok := t.store.regs[id]
	if !ok {
		return errNotFound
	}
	if g.Status != from {
		return errors.New("status conflict")
	}
	g.Status = to
	if reason != nil {
		g.CancelReason = reason
	}
	return nil
}

var _ service.CommitmentStore = (*memStore)(nil)
var _ service.PromotionLookup = (*memStore)(nil)

// stubGateway records pending payments instead of talking to a
// provider.
type stubGateway struct {
	mu    sync.Mutex
	calls int
}

func (g *stubGateway) CreatePendingPayment(_ context.Context, registrationID uint64, _ int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return "pay_test_ref", nil
}
