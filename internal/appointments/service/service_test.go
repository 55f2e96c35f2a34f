package service

import (
	"context"
	"testing"
	"time"

	"agenda_backend/internal/appointments/repository"
	"agenda_backend/internal/appointments/transport"
	"agenda_backend/internal/clock"
	"agenda_backend/internal/events"
	"agenda_backend/internal/scheduler"
	usersrepo "agenda_backend/internal/users/repository"
	"agenda_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeRepo keeps appointments in memory and enforces the one-active-
// booking-per-slot rule the same way the partial unique index does.
type fakeRepo struct {
	appointments map[uuid.UUID]*repository.AppointmentWithParties

	listPage     int
	listPageSize int
	listResult   []repository.AppointmentWithProvider

	dayResult []repository.AppointmentWithClient
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*repository.AppointmentWithParties)}
}

func (r *fakeRepo) Create(_ context.Context, appt *repository.Appointment) error {
	for _, existing := range r.appointments {
		if existing.ProviderID == appt.ProviderID &&
			existing.SlotTime.Equal(appt.SlotTime) &&
			existing.CanceledAt == nil {
			return apperr.Conflict("the requested slot is already booked").WithCode("slot_unavailable")
		}
	}
	r.appointments[appt.ID] = &repository.AppointmentWithParties{Appointment: *appt}
	return nil
}

func (r *fakeRepo) GetByIDWithParties(_ context.Context, id uuid.UUID) (*repository.AppointmentWithParties, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found").WithCode("not_found")
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID, canceledAt time.Time) error {
	appt, ok := r.appointments[id]
	if !ok || appt.CanceledAt != nil {
		return apperr.Gone("appointment is already canceled").WithCode("already_canceled")
	}
	appt.CanceledAt = &canceledAt
	return nil
}

func (r *fakeRepo) ListActiveForClient(_ context.Context, _ uuid.UUID, page, pageSize int) ([]repository.AppointmentWithProvider, error) {
	r.listPage = page
	r.listPageSize = pageSize
	return r.listResult, nil
}

func (r *fakeRepo) ListForProviderDay(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]repository.AppointmentWithClient, error) {
	return r.dayResult, nil
}

type fakeDirectory struct {
	providers map[uuid.UUID]bool
	contacts  map[uuid.UUID]usersrepo.Contact
}

func (d *fakeDirectory) IsProvider(_ context.Context, id uuid.UUID) (bool, error) {
	return d.providers[id], nil
}

func (d *fakeDirectory) GetContact(_ context.Context, id uuid.UUID) (*usersrepo.Contact, error) {
	c, ok := d.contacts[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &c, nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) { b.published = append(b.published, event) }
func (b *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *fakeBus) Subscribe(string, events.Handler) {}

type fakeReminders struct {
	scheduled []time.Time
}

func (f *fakeReminders) ScheduleAppointmentReminder(_ context.Context, _ scheduler.AppointmentReminderPayload, runAt time.Time) error {
	f.scheduled = append(f.scheduled, runAt)
	return nil
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	dir        *fakeDirectory
	bus        *fakeBus
	reminders  *fakeReminders
	providerID uuid.UUID
	clientID   uuid.UUID
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	providerID := uuid.New()
	clientID := uuid.New()
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	bus := &fakeBus{}
	reminders := &fakeReminders{}
	dir := &fakeDirectory{
		providers: map[uuid.UUID]bool{providerID: true},
		contacts: map[uuid.UUID]usersrepo.Contact{
			clientID:   {ID: clientID, Name: "Carla Client", Email: "carla@example.com"},
			providerID: {ID: providerID, Name: "Paul Provider", Email: "paul@example.com"},
		},
	}

	return &fixture{
		svc:        New(repo, dir, bus, reminders, clock.Fixed(now)),
		repo:       repo,
		dir:        dir,
		bus:        bus,
		reminders:  reminders,
		providerID: providerID,
		clientID:   clientID,
		now:        now,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if !apperr.HasCode(err, code) {
		t.Fatalf("expected error code %q, got %v", code, err)
	}
}

func TestBookNormalizesToHourSlot(t *testing.T) {
	f := newFixture(t)
	requested := time.Date(2025, 6, 10, 10, 3, 0, 0, time.UTC)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID,
		Date:       requested,
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	wantSlot := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	if !resp.Slot.Equal(wantSlot) {
		t.Errorf("slot = %v, want %v", resp.Slot, wantSlot)
	}
	if !resp.Date.Equal(requested) {
		t.Errorf("date = %v, want the raw requested instant %v", resp.Date, requested)
	}
}

func TestBookSameHourConflicts(t *testing.T) {
	f := newFixture(t)
	first := time.Date(2025, 6, 10, 10, 3, 0, 0, time.UTC)
	second := time.Date(2025, 6, 10, 10, 47, 0, 0, time.UTC)

	otherClient := uuid.New()
	f.dir.contacts[otherClient] = usersrepo.Contact{ID: otherClient, Name: "Nadia Newcomer", Email: "nadia@example.com"}
	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: first,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.svc.Book(context.Background(), otherClient, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: second,
	})
	assertCode(t, err, "slot_unavailable")
}

func TestBookRejectsPastNormalizedSlot(t *testing.T) {
	f := newFixture(t)

	// 08:40 truncates to 08:00, strictly before the 09:00 now.
	requested := time.Date(2025, 6, 10, 8, 40, 0, 0, time.UTC)

	_, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: requested,
	})
	assertCode(t, err, "past_date")
}

func TestBookAllowsCurrentHourSlot(t *testing.T) {
	f := newFixture(t)

	// now is 09:00; 09:40 truncates to exactly 09:00, not past.
	requested := time.Date(2025, 6, 10, 9, 40, 0, 0, time.UTC)

	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: requested,
	}); err != nil {
		t.Fatalf("expected current-hour booking to succeed, got %v", err)
	}
}

func TestBookRejectsNonProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       f.now.Add(24 * time.Hour),
	})
	assertCode(t, err, "invalid_provider")
}

func TestBookRejectsSelfBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.providerID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID,
		Date:       f.now.Add(24 * time.Hour),
	})
	assertCode(t, err, "validation_failed")
}

func TestBookPublishesExactlyOneEvent(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID,
		Date:       f.now.Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if len(f.bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.bus.published))
	}
	booked, ok := f.bus.published[0].(events.AppointmentBooked)
	if !ok {
		t.Fatalf("expected AppointmentBooked, got %T", f.bus.published[0])
	}
	if booked.ClientName != "Carla Client" {
		t.Errorf("event client name = %q", booked.ClientName)
	}
	if booked.ProviderID != f.providerID {
		t.Errorf("event provider = %v, want %v", booked.ProviderID, f.providerID)
	}
}

func TestBookFailsWhenClientContactUnavailable(t *testing.T) {
	f := newFixture(t)
	delete(f.dir.contacts, f.clientID)

	_, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID,
		Date:       f.now.Add(24 * time.Hour),
	})
	if err == nil {
		t.Fatal("expected Book to fail when the client contact cannot be resolved")
	}

	if len(f.repo.appointments) != 0 {
		t.Errorf("expected no appointment to be stored, got %d", len(f.repo.appointments))
	}
	if len(f.bus.published) != 0 {
		t.Errorf("expected no events, got %d", len(f.bus.published))
	}
}

func TestBookSchedulesReminderOnlyBeyondLeadTime(t *testing.T) {
	f := newFixture(t)

	// 25h out: reminder due in 1h.
	date := f.now.Add(25 * time.Hour)
	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: date,
	}); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if len(f.reminders.scheduled) != 1 {
		t.Fatalf("expected 1 scheduled reminder, got %d", len(f.reminders.scheduled))
	}
	if want := date.Add(-24 * time.Hour); !f.reminders.scheduled[0].Equal(want) {
		t.Errorf("reminder at %v, want %v", f.reminders.scheduled[0], want)
	}

	// 3h out: the reminder instant is already behind us, skip it.
	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(3 * time.Hour),
	}); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if len(f.reminders.scheduled) != 1 {
		t.Fatalf("expected no additional reminder, got %d total", len(f.reminders.scheduled))
	}
}

func TestCancelExactlyAtLeadTimeBoundary(t *testing.T) {
	f := newFixture(t)

	// Exactly 2h of lead time remaining is still allowed.
	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	canceled, err := f.svc.Cancel(context.Background(), f.clientID, resp.ID)
	if err != nil {
		t.Fatalf("expected cancel with exactly 2h of lead time to succeed, got %v", err)
	}
	if canceled.CanceledAt == nil || !canceled.CanceledAt.Equal(f.now) {
		t.Errorf("canceledAt = %v, want %v", canceled.CanceledAt, f.now)
	}
}

func TestCancelTooLate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(2*time.Hour - time.Second),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), f.clientID, resp.ID)
	assertCode(t, err, "too_late")
}

func TestCancelRejectsNonOwner(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), uuid.New(), resp.ID)
	assertCode(t, err, "forbidden")

	// The provider is not the booking client either.
	_, err = f.svc.Cancel(context.Background(), f.providerID, resp.ID)
	assertCode(t, err, "forbidden")
}

func TestCancelTwiceReportsAlreadyCanceled(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if _, err := f.svc.Cancel(context.Background(), f.clientID, resp.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), f.clientID, resp.ID)
	assertCode(t, err, "already_canceled")
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), f.clientID, uuid.New())
	assertCode(t, err, "not_found")
}

func TestCancelPublishesCancellationEvent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: f.now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	f.bus.published = nil

	if _, err := f.svc.Cancel(context.Background(), f.clientID, resp.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if len(f.bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.bus.published))
	}
	if _, ok := f.bus.published[0].(events.AppointmentCanceled); !ok {
		t.Fatalf("expected AppointmentCanceled, got %T", f.bus.published[0])
	}
}

func TestCancelAfterBookingFreesTheSlot(t *testing.T) {
	f := newFixture(t)
	date := f.now.Add(24 * time.Hour)

	resp, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: date,
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), f.clientID, resp.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if _, err := f.svc.Book(context.Background(), f.clientID, transport.CreateAppointmentRequest{
		ProviderID: f.providerID, Date: date,
	}); err != nil {
		t.Fatalf("expected rebooking a canceled slot to succeed, got %v", err)
	}
}

func TestListActiveUsesFixedPageSize(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.ListActive(context.Background(), f.clientID, transport.ListAppointmentsRequest{Page: 0}); err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	if f.repo.listPage != 1 {
		t.Errorf("page = %d, want clamped to 1", f.repo.listPage)
	}
	if f.repo.listPageSize != 20 {
		t.Errorf("pageSize = %d, want 20", f.repo.listPageSize)
	}
}

func TestListActiveKeepsPastAppointments(t *testing.T) {
	f := newFixture(t)
	f.repo.listResult = []repository.AppointmentWithProvider{
		{
			Appointment: repository.Appointment{
				ID:         uuid.New(),
				ProviderID: f.providerID,
				ClientID:   f.clientID,
				Date:       f.now.Add(-48 * time.Hour),
			},
			ProviderName: "Paul Provider",
		},
	}

	items, err := f.svc.ListActive(context.Background(), f.clientID, transport.ListAppointmentsRequest{Page: 1})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the past non-canceled appointment to be listed, got %d items", len(items))
	}
}

func TestListActiveEmbedsProviderProjection(t *testing.T) {
	f := newFixture(t)
	f.repo.listResult = []repository.AppointmentWithProvider{
		{
			Appointment: repository.Appointment{
				ID:         uuid.New(),
				ProviderID: f.providerID,
				ClientID:   f.clientID,
			},
			ProviderName: "Paul Provider",
		},
	}

	items, err := f.svc.ListActive(context.Background(), f.clientID, transport.ListAppointmentsRequest{Page: 1})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Provider == nil || items[0].Provider.Name != "Paul Provider" {
		t.Errorf("missing provider projection: %+v", items[0].Provider)
	}
}

func TestScheduleRequiresProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), f.clientID, false, transport.ScheduleRequest{Date: "2025-06-10"})
	assertCode(t, err, "forbidden")
}

func TestScheduleRejectsMalformedDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), f.providerID, true, transport.ScheduleRequest{Date: "10-06-2025"})
	assertCode(t, err, "validation_failed")
}

func TestScheduleEmbedsClientProjection(t *testing.T) {
	f := newFixture(t)
	f.repo.dayResult = []repository.AppointmentWithClient{
		{
			Appointment: repository.Appointment{
				ID:         uuid.New(),
				ProviderID: f.providerID,
				ClientID:   f.clientID,
			},
			ClientName: "Carla Client",
		},
	}

	items, err := f.svc.Schedule(context.Background(), f.providerID, true, transport.ScheduleRequest{Date: "2025-06-10"})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Client == nil || items[0].Client.Name != "Carla Client" {
		t.Errorf("missing client projection: %+v", items[0].Client)
	}
}
