package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"verdea/models"
	"verdea/services/geo"
)

// fakeBookingRepo is an in-memory BookingRepository mirroring the conditional
// update semantics of the Mongo implementation.
type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	failReads bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) add(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := b
	r.bookings[b.ID] = &copied
}

func (r *fakeBookingRepo) get(id string) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.bookings[id]
}

func (r *fakeBookingRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetConfirmedBookings(ctx context.Context, gardenerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReads {
		return nil, fmt.Errorf("storage down")
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.GardenerID == gardenerID && b.Date == date &&
			(b.Status == models.BookingConfirmed || b.Status == models.BookingCompleted) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

func (r *fakeBookingRepo) CreatePendingBookings(ctx context.Context, bookings []models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range bookings {
		copied := b
		r.bookings[b.ID] = &copied
	}
	return nil
}

func (r *fakeBookingRepo) ConfirmBooking(ctx context.Context, bookingID, gardenerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.GardenerID != gardenerID || b.Status != models.BookingPending {
		return false, nil
	}
	b.Status = models.BookingConfirmed
	b.ConfirmedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) CancelSiblings(ctx context.Context, clientID, serviceID, date string, startHour int, excludingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == excludingID {
			continue
		}
		if b.ClientID == clientID && b.ServiceID == serviceID && b.Date == date &&
			b.StartHour == startHour && b.Status == models.BookingPending {
			b.Status = models.BookingCancelled
		}
	}
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) GetPendingForGardener(ctx context.Context, gardenerID string) ([]models.Booking, error) {
	if _, err := r.ExpireStale(ctx, time.Now()); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.GardenerID == gardenerID && b.Status == models.BookingPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Status == models.BookingPending && now.After(b.ExpiresAt) {
			b.Status = models.BookingExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) HasConfirmedOnDate(ctx context.Context, gardenerID, date string) (bool, error) {
	bookings, err := r.GetConfirmedBookings(ctx, gardenerID, date)
	if err != nil {
		return false, err
	}
	return len(bookings) > 0, nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

// fakeAvailabilityRepo is an in-memory AvailabilityRepository. A missing day
// reads as fully unavailable, matching the Mongo implementation.
type fakeAvailabilityRepo struct {
	mu   sync.Mutex
	days map[string]map[int]bool
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{days: make(map[string]map[int]bool)}
}

func dayKey(gardenerID, date string) string {
	return gardenerID + "|" + date
}

func (r *fakeAvailabilityRepo) setAll(gardenerID, date string, hours ...int) {
	blocks := make(map[int]bool)
	for h := DayStartHour; h < DayEndHour; h++ {
		blocks[h] = false
	}
	for _, h := range hours {
		blocks[h] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[dayKey(gardenerID, date)] = blocks
}

func (r *fakeAvailabilityRepo) GetHourlyAvailability(ctx context.Context, gardenerID, date string) (map[int]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]bool)
	for h := DayStartHour; h < DayEndHour; h++ {
		out[h] = false
	}
	if blocks, ok := r.days[dayKey(gardenerID, date)]; ok {
		for h, free := range blocks {
			out[h] = free
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) SetHourlyAvailability(ctx context.Context, gardenerID, date string, availableHours []int) error {
	blocks := make(map[int]bool)
	for _, h := range availableHours {
		blocks[h] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[dayKey(gardenerID, date)] = blocks
	return nil
}

func (r *fakeAvailabilityRepo) BlockHours(ctx context.Context, gardenerID, date string, hours []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blocks, ok := r.days[dayKey(gardenerID, date)]
	if !ok {
		return nil
	}
	for _, h := range hours {
		blocks[h] = false
	}
	return nil
}

func (r *fakeAvailabilityRepo) ReleaseHours(ctx context.Context, gardenerID, date string, hours []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blocks, ok := r.days[dayKey(gardenerID, date)]
	if !ok {
		blocks = make(map[int]bool)
		r.days[dayKey(gardenerID, date)] = blocks
	}
	for _, h := range hours {
		blocks[h] = true
	}
	return nil
}

func (r *fakeAvailabilityRepo) GetDaysInRange(ctx context.Context, gardenerID, fromDate, toDate string) ([]models.AvailabilityDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilityDay
	for key, blocks := range r.days {
		gid, date := splitDayKey(key)
		if gid != gardenerID || date < fromDate || date > toDate {
			continue
		}
		day := models.AvailabilityDay{GardenerID: gid, Date: date}
		for h, free := range blocks {
			if free {
				day.AvailableHours = append(day.AvailableHours, h)
			}
		}
		sort.Ints(day.AvailableHours)
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func splitDayKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func (r *fakeAvailabilityRepo) EnsureIndexes() error { return nil }

// fakeGardenerRepo serves a fixed gardener population.
type fakeGardenerRepo struct {
	gardeners        []models.Gardener
	emptyContainment bool
}

func (r *fakeGardenerRepo) GetByID(ctx context.Context, gardenerID string) (*models.Gardener, error) {
	for _, g := range r.gardeners {
		if g.ID == gardenerID {
			copied := g
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("gardener %s not found", gardenerID)
}

func (r *fakeGardenerRepo) FindByServices(ctx context.Context, serviceIDs []string) ([]models.Gardener, error) {
	if r.emptyContainment {
		return nil, nil
	}
	var out []models.Gardener
	for _, g := range r.gardeners {
		if g.IsAvailable && g.OffersAll(serviceIDs) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGardenerRepo) FindAvailable(ctx context.Context) ([]models.Gardener, error) {
	var out []models.Gardener
	for _, g := range r.gardeners {
		if g.IsAvailable {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGardenerRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.gardeners))
	for _, g := range r.gardeners {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// fakeGeocoder resolves addresses from a fixed table. Unknown addresses are
// unresolvable (nil, nil); addresses in the errs set fail.
type fakeGeocoder struct {
	locations map[string]geo.LatLng
	errs      map[string]bool
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (*geo.LatLng, error) {
	if g.errs[address] {
		return nil, fmt.Errorf("geocoder unavailable")
	}
	loc, ok := g.locations[address]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}
