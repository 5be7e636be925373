package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"verdea/models"

	"go.uber.org/zap"
)

func newBroadcastService(bookings *fakeBookingRepo, avail *fakeAvailabilityRepo) *DefaultBroadcastService {
	return &DefaultBroadcastService{
		Bookings:     bookings,
		Availability: avail,
		Buffer:       newBufferEngine(bookings),
		Logger:       zap.NewNop(),
	}
}

func testJob() JobSpec {
	return JobSpec{
		ClientID:      "client-b",
		ServiceID:     "svc-mow",
		Date:          testDate,
		StartHour:     9,
		DurationHours: 2,
		TotalPrice:    80,
	}
}

func TestBroadcastCreatesOnePendingRowPerGardener(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1", "g2", "g2", "g3"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("got %d rows, want 3 after dedupe", len(created))
	}
	for _, b := range created {
		if b.Status != models.BookingPending {
			t.Errorf("row %s status = %s, want pending", b.ID, b.Status)
		}
		if b.BroadcastID != created[0].BroadcastID {
			t.Errorf("rows must share one broadcast ID")
		}
		if !b.ExpiresAt.Equal(created[0].ExpiresAt) {
			t.Errorf("rows must share one expiry")
		}
	}
}

func TestBroadcastRejectsWindowOutsideWorkingDay(t *testing.T) {
	svc := newBroadcastService(newFakeBookingRepo(), newFakeAvailabilityRepo())

	early := testJob()
	early.StartHour = 7
	if _, err := svc.Broadcast(context.Background(), early, []string{"g1"}); err == nil {
		t.Errorf("start before opening should be rejected")
	}

	late := testJob()
	late.StartHour = 19
	late.DurationHours = 2
	if _, err := svc.Broadcast(context.Background(), late, []string{"g1"}); err == nil {
		t.Errorf("window running past closing should be rejected")
	}

	if _, err := svc.Broadcast(context.Background(), testJob(), nil); err == nil {
		t.Errorf("empty gardener list should be rejected")
	}
}

func TestAcceptFirstWinsAndCancelsSiblings(t *testing.T) {
	repo := newFakeBookingRepo()
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 8, 9, 10, 11, 12)
	avail.setAll("g2", testDate, 8, 9, 10, 11, 12)
	svc := newBroadcastService(repo, avail)

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1", "g2"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	var rowG1, rowG2 models.Booking
	for _, b := range created {
		if b.GardenerID == "g1" {
			rowG1 = b
		} else {
			rowG2 = b
		}
	}

	confirmed, err := svc.Accept(context.Background(), rowG1.ID, "g1")
	if err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}

	if _, err := svc.Accept(context.Background(), rowG2.ID, "g2"); !errors.Is(err, ErrBookingTaken) {
		t.Errorf("second accept error = %v, want ErrBookingTaken", err)
	}
	if got := repo.get(rowG2.ID).Status; got != models.BookingCancelled {
		t.Errorf("sibling status = %s, want cancelled", got)
	}

	if _, err := svc.Accept(context.Background(), rowG1.ID, "g1"); !errors.Is(err, ErrBookingTaken) {
		t.Errorf("repeated accept error = %v, want ErrBookingTaken", err)
	}
}

func TestAcceptBlocksBookedHoursAndTrailingMargin(t *testing.T) {
	repo := newFakeBookingRepo()
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 8, 9, 10, 11, 12, 13)
	svc := newBroadcastService(repo, avail)

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), created[0].ID, "g1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	blocks, _ := avail.GetHourlyAvailability(context.Background(), "g1", testDate)
	for _, h := range []int{9, 10, 11} { // job 9-11 plus the margin hour
		if blocks[h] {
			t.Errorf("hour %d should be blocked after acceptance", h)
		}
	}
	for _, h := range []int{8, 12, 13} {
		if !blocks[h] {
			t.Errorf("hour %d should remain available", h)
		}
	}
}

func TestAcceptSkipsMarginAtDayEnd(t *testing.T) {
	repo := newFakeBookingRepo()
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 17, 18, 19)
	svc := newBroadcastService(repo, avail)

	job := testJob()
	job.StartHour = 18
	created, err := svc.Broadcast(context.Background(), job, []string{"g1"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), created[0].ID, "g1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	blocks, _ := avail.GetHourlyAvailability(context.Background(), "g1", testDate)
	if blocks[18] || blocks[19] {
		t.Errorf("booked hours 18-20 should be blocked")
	}
	if !blocks[17] {
		t.Errorf("hour 17 should remain available, there is no margin past closing")
	}
}

// A row that already resolved reports the lost race, not a calendar
// conflict against its own confirmed hours.
func TestAcceptResolvedRowReportsTaken(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	resolved := confirmedBooking("g1", "client-b", 9, 2)
	resolved.ExpiresAt = time.Now().Add(time.Hour)
	repo.add(resolved)

	if _, err := svc.Accept(context.Background(), resolved.ID, "g1"); !errors.Is(err, ErrBookingTaken) {
		t.Errorf("error = %v, want ErrBookingTaken", err)
	}

	cancelled := confirmedBooking("g1", "client-c", 13, 2)
	cancelled.Status = models.BookingCancelled
	cancelled.ExpiresAt = time.Now().Add(time.Hour)
	repo.add(cancelled)

	if _, err := svc.Accept(context.Background(), cancelled.ID, "g1"); !errors.Is(err, ErrBookingTaken) {
		t.Errorf("error = %v, want ErrBookingTaken", err)
	}
}

func TestAcceptExpiredRequest(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	stale := models.Booking{
		ID:            "stale-1",
		ClientID:      "client-b",
		GardenerID:    "g1",
		ServiceID:     "svc-mow",
		Date:          testDate,
		StartHour:     9,
		DurationHours: 2,
		Status:        models.BookingPending,
		ExpiresAt:     time.Now().Add(-time.Hour),
	}
	repo.add(stale)

	if _, err := svc.Accept(context.Background(), "stale-1", "g1"); !errors.Is(err, ErrBookingExpired) {
		t.Errorf("error = %v, want ErrBookingExpired", err)
	}
}

func TestAcceptRejectsWrongGardener(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), created[0].ID, "g2"); err == nil {
		t.Errorf("accepting someone else's request should fail")
	}
}

func TestAcceptRejectsConflictingCalendar(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.add(confirmedBooking("g1", "client-a", 9, 2)) // direct conflict with the job
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), created[0].ID, "g1"); err == nil {
		t.Errorf("accept over a confirmed booking should fail")
	}
	if got := repo.get(created[0].ID).Status; got != models.BookingPending {
		t.Errorf("row status = %s, want still pending after a failed accept", got)
	}
}

func TestDecline(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	created, err := svc.Broadcast(context.Background(), testJob(), []string{"g1", "g2"})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	target := created[0]

	if err := svc.Decline(context.Background(), target.ID, target.GardenerID); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if got := repo.get(target.ID).Status; got != models.BookingCancelled {
		t.Errorf("status = %s, want cancelled", got)
	}
	// The other gardener's row is untouched.
	if got := repo.get(created[1].ID).Status; got != models.BookingPending {
		t.Errorf("sibling status = %s, want pending", got)
	}

	if err := svc.Decline(context.Background(), target.ID, target.GardenerID); err == nil {
		t.Errorf("declining a non-pending row should fail")
	}
}

func TestPendingForGardenerExpiresOverdueRows(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBroadcastService(repo, newFakeAvailabilityRepo())

	repo.add(models.Booking{
		ID:         "overdue",
		GardenerID: "g1",
		Status:     models.BookingPending,
		ExpiresAt:  time.Now().Add(-time.Minute),
	})
	repo.add(models.Booking{
		ID:         "fresh",
		GardenerID: "g1",
		Status:     models.BookingPending,
		ExpiresAt:  time.Now().Add(time.Hour),
	})

	pending, err := svc.PendingForGardener(context.Background(), "g1")
	if err != nil {
		t.Fatalf("PendingForGardener failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "fresh" {
		t.Fatalf("pending = %+v, want only the fresh row", pending)
	}
	if got := repo.get("overdue").Status; got != models.BookingExpired {
		t.Errorf("overdue status = %s, want expired", got)
	}
}
