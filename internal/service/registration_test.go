package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

func newDesk(store *memStore) (*service.RegistrationDesk, *stubGateway) {
	gateway := &stubGateway{}
	fees := service.NewFeeEngine(store, store)
	return service.NewRegistrationDesk(store, fees, gateway), gateway
}

func TestRegisterPackage(t *testing.T) {
	t.Run("creates a pending registration with a payment ref", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		desk, gateway := newDesk(store)

		out, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 3, nil)
		if err != nil {
			t.Fatalf("RegisterPackage: %v", err)
		}
		if out.Registration.Status != model.RegistrationPendingPayment {
			t.Fatalf("status = %s, want PENDING_PAYMENT", out.Registration.Status)
		}
		if out.Registration.AmountCents != 900_000 {
			t.Fatalf("amount = %d, want 900000", out.Registration.AmountCents)
		}
		if out.PaymentRef == "" || gateway.calls != 1 {
			t.Fatalf("payment ref %q, gateway calls %d", out.PaymentRef, gateway.calls)
		}
	})

	t.Run("rejects a second active package", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		pkgID := pkg.ID
		store.addRegistration(model.Registration{
			MemberID:  10,
			PackageID: &pkgID,
			StartDate: model.Today(),
			EndDate:   model.Today().AddDate(0, 1, 0),
			Status:    model.RegistrationActive,
		})
		desk, _ := newDesk(store)

		_, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil)
		if !errors.Is(err, model.ErrDuplicateActivePackage) {
			t.Fatalf("err = %v, want ErrDuplicateActivePackage", err)
		}
	})

	t.Run("concurrent purchases by one member yield one active package", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		// A 100% promotion activates inside the serialized section,
		// so the duplicate guard decides the race deterministically.
		store.addPromotion(model.Promotion{
			Code:            "OPENING",
			DiscountPercent: 100,
			IsActive:        true,
			StartDate:       model.Today().AddDate(0, 0, -1),
			EndDate:         model.Today().AddDate(0, 1, 0),
		})
		desk, _ := newDesk(store)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			won  int
			dups int
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				code := "OPENING"
				_, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, &code)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					won++
				} else if errors.Is(err, model.ErrDuplicateActivePackage) {
					dups++
				}
			}()
		}
		wg.Wait()
		if won != 1 || dups != 4 {
			t.Fatalf("won=%d dups=%d, want exactly one winner", won, dups)
		}
	})

	t.Run("a stale expired package does not block a new one", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		pkgID := pkg.ID
		store.addRegistration(model.Registration{
			MemberID:  10,
			PackageID: &pkgID,
			StartDate: model.Today().AddDate(0, -2, 0),
			EndDate:   model.Today().AddDate(0, -1, 0),
			Status:    model.RegistrationActive,
		})
		desk, _ := newDesk(store)

		if _, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil); err != nil {
			t.Fatalf("RegisterPackage: %v", err)
		}
	})
}

func TestRegisterClass(t *testing.T) {
	start := model.Today().AddDate(0, 0, 7)

	newClassStore := func(capacity uint32, priceCents int64) (*memStore, *model.Class) {
		store := newMemStore()
		class := store.addClass(model.Class{
			TrainerID:  1,
			Name:       "Evening Yoga",
			Days:       everyDay(),
			StartTime:  "18:00",
			EndTime:    "19:00",
			Capacity:   capacity,
			PriceCents: &priceCents,
			Status:     model.ClassOpen,
		})
		return store, class
	}

	t.Run("enrolls for a future window", func(t *testing.T) {
		store, class := newClassStore(10, 500_000)
		desk, _ := newDesk(store)

		out, err := desk.RegisterClass(context.Background(), 10, class.ID, start, 1, nil)
		if err != nil {
			t.Fatalf("RegisterClass: %v", err)
		}
		if out.Registration.AmountCents != 500_000 {
			t.Fatalf("amount = %d, want flat class price", out.Registration.AmountCents)
		}
		if !out.Registration.IsClass() {
			t.Fatal("registration is not a class enrollment")
		}
	})

	t.Run("rejects a start date not in the future", func(t *testing.T) {
		store, class := newClassStore(10, 500_000)
		desk, _ := newDesk(store)

		_, err := desk.RegisterClass(context.Background(), 10, class.ID, model.Today(), 1, nil)
		if !errors.Is(err, model.ErrEnrollmentClosed) {
			t.Fatalf("err = %v, want ErrEnrollmentClosed", err)
		}
	})

	t.Run("rejects an overlapping enrollment in the same class", func(t *testing.T) {
		store, class := newClassStore(10, 500_000)
		classID := class.ID
		store.addRegistration(model.Registration{
			MemberID:  10,
			ClassID:   &classID,
			StartDate: start,
			EndDate:   start.AddDate(0, 2, 0),
			Status:    model.RegistrationActive,
		})
		desk, _ := newDesk(store)

		_, err := desk.RegisterClass(context.Background(), 10, class.ID, start.AddDate(0, 1, 0), 1, nil)
		if !errors.Is(err, model.ErrDuplicateClassRegistration) {
			t.Fatalf("err = %v, want ErrDuplicateClassRegistration", err)
		}
	})

	t.Run("rejects when any session date in the window is full", func(t *testing.T) {
		store, class := newClassStore(1, 500_000)
		// A rival's booking fills the single seat of one date inside
		// the window.
		store.addBooking(model.Booking{
			MemberID: 99,
			ClassID:  class.ID,
			Date:     start.AddDate(0, 0, 3),
			Status:   model.BookingBooked,
		})
		desk, _ := newDesk(store)

		_, err := desk.RegisterClass(context.Background(), 10, class.ID, start, 1, nil)
		if !errors.Is(err, model.ErrClassFull) {
			t.Fatalf("err = %v, want ErrClassFull", err)
		}
	})

	t.Run("zero fee activates immediately without a payment", func(t *testing.T) {
		store, class := newClassStore(10, 500_000)
		store.addPromotion(model.Promotion{
			Code:            "FREE100",
			DiscountPercent: 100,
			IsActive:        true,
			StartDate:       model.Today().AddDate(0, 0, -1),
			EndDate:         model.Today().AddDate(0, 1, 0),
		})
		desk, gateway := newDesk(store)

		code := "FREE100"
		out, err := desk.RegisterClass(context.Background(), 10, class.ID, start, 1, &code)
		if err != nil {
			t.Fatalf("RegisterClass: %v", err)
		}
		if out.Registration.Status != model.RegistrationActive {
			t.Fatalf("status = %s, want ACTIVE", out.Registration.Status)
		}
		if out.PaymentRef != "" || gateway.calls != 0 {
			t.Fatalf("zero fee still opened a payment: ref=%q calls=%d", out.PaymentRef, gateway.calls)
		}
	})
}

func TestActivateOnPayment(t *testing.T) {
	t.Run("activates a settled package once", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		desk, _ := newDesk(store)

		out, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil)
		if err != nil {
			t.Fatalf("RegisterPackage: %v", err)
		}

		reg, err := desk.ActivateOnPayment(context.Background(), out.Registration.ID)
		if err != nil {
			t.Fatalf("ActivateOnPayment: %v", err)
		}
		if reg.Status != model.RegistrationActive {
			t.Fatalf("status = %s, want ACTIVE", reg.Status)
		}

		// Callback retries must not double activate.
		if _, err := desk.ActivateOnPayment(context.Background(), out.Registration.ID); !errors.Is(err, model.ErrNotActive) {
			t.Fatalf("repeat activation err = %v, want ErrNotActive", err)
		}
	})

	t.Run("second settled package loses the duplicate re-check", func(t *testing.T) {
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		desk, _ := newDesk(store)

		// Both purchases open while the member has nothing active,
		// so both sit in PENDING_PAYMENT.
		first, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil)
		if err != nil {
			t.Fatalf("first RegisterPackage: %v", err)
		}
		second, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil)
		if err != nil {
			t.Fatalf("second RegisterPackage: %v", err)
		}

		if _, err := desk.ActivateOnPayment(context.Background(), first.Registration.ID); err != nil {
			t.Fatalf("first activation: %v", err)
		}
		if _, err := desk.ActivateOnPayment(context.Background(), second.Registration.ID); !errors.Is(err, model.ErrDuplicateActivePackage) {
			t.Fatalf("second activation err = %v, want ErrDuplicateActivePackage", err)
		}

		got, err := store.Registration(context.Background(), second.Registration.ID)
		if err != nil {
			t.Fatalf("Registration: %v", err)
		}
		if got.Status != model.RegistrationPendingPayment {
			t.Fatalf("loser status = %s, want PENDING_PAYMENT", got.Status)
		}
	})

	t.Run("settled enrollments beyond capacity lose the seat re-check", func(t *testing.T) {
		store := newMemStore()
		price := int64(500_000)
		class := store.addClass(model.Class{
			TrainerID:  1,
			Name:       "Evening Yoga",
			Days:       everyDay(),
			StartTime:  "18:00",
			EndTime:    "19:00",
			Capacity:   1,
			PriceCents: &price,
			Status:     model.ClassOpen,
		})
		desk, _ := newDesk(store)
		start := model.Today().AddDate(0, 0, 7)

		// Pending enrollments hold no seat, so all three open fine
		// against a single-seat class.
		var ids []uint64
		for _, member := range []uint64{10, 11, 12} {
			out, err := desk.RegisterClass(context.Background(), member, class.ID, start, 1, nil)
			if err != nil {
				t.Fatalf("RegisterClass member %d: %v", member, err)
			}
			ids = append(ids, out.Registration.ID)
		}

		if _, err := desk.ActivateOnPayment(context.Background(), ids[0]); err != nil {
			t.Fatalf("first activation: %v", err)
		}
		for _, id := range ids[1:] {
			if _, err := desk.ActivateOnPayment(context.Background(), id); !errors.Is(err, model.ErrClassFull) {
				t.Fatalf("late activation err = %v, want ErrClassFull", err)
			}
			got, err := store.Registration(context.Background(), id)
			if err != nil {
				t.Fatalf("Registration: %v", err)
			}
			if got.Status != model.RegistrationPendingPayment {
				t.Fatalf("loser status = %s, want PENDING_PAYMENT", got.Status)
			}
		}
	})
}

func TestCancelRegistration(t *testing.T) {
	setup := func(t *testing.T) (*service.RegistrationDesk, uint64) {
		t.Helper()
		store := newMemStore()
		pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
		desk, _ := newDesk(store)
		out, err := desk.RegisterPackage(context.Background(), 10, pkg.ID, 1, nil)
		if err != nil {
			t.Fatalf("RegisterPackage: %v", err)
		}
		if _, err := desk.ActivateOnPayment(context.Background(), out.Registration.ID); err != nil {
			t.Fatalf("ActivateOnPayment: %v", err)
		}
		return desk, out.Registration.ID
	}

	t.Run("cancel with a reason succeeds once", func(t *testing.T) {
		desk, id := setup(t)
		reg, err := desk.CancelRegistration(context.Background(), 10, id, "relocating")
		if err != nil {
			t.Fatalf("CancelRegistration: %v", err)
		}
		if reg.Status != model.RegistrationCanceled {
			t.Fatalf("status = %s, want CANCELED", reg.Status)
		}
		if _, err := desk.CancelRegistration(context.Background(), 10, id, "again"); !errors.Is(err, model.ErrAlreadyCanceled) {
			t.Fatalf("repeat cancel err = %v, want ErrAlreadyCanceled", err)
		}
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		desk, id := setup(t)
		if _, err := desk.CancelRegistration(context.Background(), 10, id, ""); !errors.Is(err, model.ErrReasonRequired) {
			t.Fatalf("err = %v, want ErrReasonRequired", err)
		}
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		desk, id := setup(t)
		if _, err := desk.CancelRegistration(context.Background(), 99, id, "nope"); !errors.Is(err, service.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestExtendRegistration(t *testing.T) {
	t.Run("extends an active package by whole months", func(t *testing.T) {
		store := newMemStore()
		pkgID := uint64(77)
		end := model.Today().AddDate(0, 1, 0)
		reg := store.addRegistration(model.Registration{
			MemberID:  10,
			PackageID: &pkgID,
			StartDate: model.Today(),
			EndDate:   end,
			Status:    model.RegistrationActive,
		})
		desk, _ := newDesk(store)

		got, err := desk.ExtendRegistration(context.Background(), 10, reg.ID, 2)
		if err != nil {
			t.Fatalf("ExtendRegistration: %v", err)
		}
		want := end.AddDate(0, 2, 0)
		if !model.SameDate(got.EndDate, want) {
			t.Fatalf("end = %s, want %s", got.EndDate, want)
		}
	})

	t.Run("class extension checks the added session dates", func(t *testing.T) {
		store := newMemStore()
		price := int64(500_000)
		class := store.addClass(model.Class{
			TrainerID:  1,
			Name:       "Evening Yoga",
			Days:       everyDay(),
			Capacity:   1,
			PriceCents: &price,
			Status:     model.ClassOpen,
		})
		classID := class.ID
		end := model.Today().AddDate(0, 1, 0)
		reg := store.addRegistration(model.Registration{
			MemberID:  10,
			ClassID:   &classID,
			StartDate: model.Today(),
			EndDate:   end,
			Status:    model.RegistrationActive,
		})
		// A rival booking occupies the only seat on a date just past
		// the current end.
		store.addBooking(model.Booking{
			MemberID: 99,
			ClassID:  class.ID,
			Date:     end.AddDate(0, 0, 2),
			Status:   model.BookingBooked,
		})
		desk, _ := newDesk(store)

		_, err := desk.ExtendRegistration(context.Background(), 10, reg.ID, 1)
		if !errors.Is(err, model.ErrClassFull) {
			t.Fatalf("err = %v, want ErrClassFull", err)
		}
	})

	t.Run("expired registrations cannot be extended", func(t *testing.T) {
		store := newMemStore()
		pkgID := uint64(77)
		reg := store.addRegistration(model.Registration{
			MemberID:  10,
			PackageID: &pkgID,
			StartDate: model.Today().AddDate(0, -2, 0),
			EndDate:   model.Today().AddDate(0, 0, -1),
			Status:    model.RegistrationActive,
		})
		desk, _ := newDesk(store)

		if _, err := desk.ExtendRegistration(context.Background(), 10, reg.ID, 1); !errors.Is(err, model.ErrNotActive) {
			t.Fatalf("err = %v, want ErrNotActive", err)
		}
	})
}

func TestRenewRegistration(t *testing.T) {
	store := newMemStore()
	pkg := store.addPackage(model.Package{Name: "Gold", MonthlyPriceCents: 300_000, IsActive: true})
	pkgID := pkg.ID
	reg := store.addRegistration(model.Registration{
		MemberID:    10,
		PackageID:   &pkgID,
		StartDate:   model.Today().AddDate(0, -2, 0),
		EndDate:     model.Today().AddDate(0, 0, -1),
		AmountCents: 111_111, // stale price, must not be reused
		Status:      model.RegistrationActive,
	})
	desk, _ := newDesk(store)

	out, err := desk.RenewRegistration(context.Background(), 10, reg.ID, 2, nil)
	if err != nil {
		t.Fatalf("RenewRegistration: %v", err)
	}
	if out.Registration.ID == reg.ID {
		t.Fatal("renewal must create a new registration")
	}
	if out.Registration.AmountCents != 600_000 {
		t.Fatalf("amount = %d, want freshly computed 600000", out.Registration.AmountCents)
	}
}
