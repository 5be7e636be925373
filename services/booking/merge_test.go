package booking

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func newMergeEngine(avail *fakeAvailabilityRepo, bookings *fakeBookingRepo) *DefaultMergeEngine {
	return &DefaultMergeEngine{
		Availability: avail,
		Buffer:       newBufferEngine(bookings),
		Logger:       zap.NewNop(),
	}
}

func TestComputeMergedSlotsSingleGardener(t *testing.T) {
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 9, 10, 11, 12, 13, 14, 15, 16) // free 09:00-17:00
	engine := newMergeEngine(avail, newFakeBookingRepo())

	slots := engine.ComputeMergedSlots(context.Background(), []string{"g1"}, testDate, "client-b", 2)

	wantStarts := []int{9, 10, 11, 12, 13, 14, 15}
	if len(slots) != len(wantStarts) {
		t.Fatalf("got %d slots, want %d: %+v", len(slots), len(wantStarts), slots)
	}
	for i, slot := range slots {
		if slot.StartHour != wantStarts[i] {
			t.Errorf("slot %d start = %d, want %d", i, slot.StartHour, wantStarts[i])
		}
		if slot.EndHour != slot.StartHour+2 {
			t.Errorf("slot %d end = %d, want %d", i, slot.EndHour, slot.StartHour+2)
		}
		if len(slot.GardenerIDs) != 1 || slot.GardenerIDs[0] != "g1" {
			t.Errorf("slot %d gardeners = %v, want [g1]", i, slot.GardenerIDs)
		}
	}
}

func TestComputeMergedSlotsMergesGardeners(t *testing.T) {
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 9, 10, 11)
	avail.setAll("g2", testDate, 10, 11, 12)
	engine := newMergeEngine(avail, newFakeBookingRepo())

	slots := engine.ComputeMergedSlots(context.Background(), []string{"g1", "g2"}, testDate, "client-b", 2)
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3: %+v", len(slots), slots)
	}

	assertStrSlice(t, slots[0].GardenerIDs, []string{"g1"})
	if slots[0].StartHour != 9 {
		t.Errorf("slot 0 start = %d, want 9", slots[0].StartHour)
	}
	// Overlapping start hour: gardener IDs keep input iteration order.
	assertStrSlice(t, slots[1].GardenerIDs, []string{"g1", "g2"})
	if slots[1].StartHour != 10 {
		t.Errorf("slot 1 start = %d, want 10", slots[1].StartHour)
	}
	assertStrSlice(t, slots[2].GardenerIDs, []string{"g2"})
	if slots[2].StartHour != 11 {
		t.Errorf("slot 2 start = %d, want 11", slots[2].StartHour)
	}
}

func TestComputeMergedSlotsDedupesGardeners(t *testing.T) {
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 9, 10)
	engine := newMergeEngine(avail, newFakeBookingRepo())

	slots := engine.ComputeMergedSlots(context.Background(), []string{"g1", "g1"}, testDate, "client-b", 2)
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1", len(slots))
	}
	assertStrSlice(t, slots[0].GardenerIDs, []string{"g1"})
}

func TestComputeMergedSlotsRespectsBufferAndBookings(t *testing.T) {
	avail := newFakeAvailabilityRepo()
	allHours := make([]int, 0, DayEndHour-DayStartHour)
	for h := DayStartHour; h < DayEndHour; h++ {
		allHours = append(allHours, h)
	}
	avail.setAll("g1", testDate, allHours...)

	bookings := newFakeBookingRepo()
	bookings.add(confirmedBooking("g1", "client-a", 9, 2)) // occupies 9-11, buffers 11
	engine := newMergeEngine(avail, bookings)

	slots := engine.ComputeMergedSlots(context.Background(), []string{"g1"}, testDate, "client-b", 2)

	// Start 8 overlaps hour 9; starts 9 and 10 overlap directly; start 11 sits
	// in the buffer hour. Everything from 12 on fits.
	wantStarts := []int{12, 13, 14, 15, 16, 17, 18}
	if len(slots) != len(wantStarts) {
		t.Fatalf("got %d slots, want %d: %+v", len(slots), len(wantStarts), slots)
	}
	for i, slot := range slots {
		if slot.StartHour != wantStarts[i] {
			t.Errorf("slot %d start = %d, want %d", i, slot.StartHour, wantStarts[i])
		}
	}
}

func TestComputeMergedSlotsRejectsBadDurations(t *testing.T) {
	avail := newFakeAvailabilityRepo()
	avail.setAll("g1", testDate, 9, 10, 11)
	engine := newMergeEngine(avail, newFakeBookingRepo())

	for _, duration := range []int{0, -1, 13} {
		if slots := engine.ComputeMergedSlots(context.Background(), []string{"g1"}, testDate, "client-b", duration); len(slots) != 0 {
			t.Errorf("duration %d: got %d slots, want 0", duration, len(slots))
		}
	}
}

func assertStrSlice(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
