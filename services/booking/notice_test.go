package booking

import (
	"testing"
	"time"

	"verdea/models"
)

func TestFilterByNotice(t *testing.T) {
	now := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	days := []models.DayAvailability{
		{Date: "2026-09-15", Slots: []models.MergedSlot{
			{StartHour: 9, EndHour: 11, GardenerIDs: []string{"g1"}},
			{StartHour: 11, EndHour: 13, GardenerIDs: []string{"g1"}},
		}},
		{Date: "2026-09-16", Slots: []models.MergedSlot{
			{StartHour: 8, EndHour: 10, GardenerIDs: []string{"g1"}},
		}},
	}

	// 24h notice from 10:00 leaves 2026-09-15 slots before 10:00 out.
	got := FilterByNotice(days, now.UTC(), 24)
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2: %+v", len(got), got)
	}
	if len(got[0].Slots) != 1 || got[0].Slots[0].StartHour != 11 {
		t.Errorf("day 1 slots = %+v, want only the 11:00 start", got[0].Slots)
	}
	if len(got[1].Slots) != 1 {
		t.Errorf("day 2 slots = %+v, want untouched", got[1].Slots)
	}
}

func TestFilterByNoticeDropsEmptiedDays(t *testing.T) {
	now := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	days := []models.DayAvailability{
		{Date: "2026-09-14", Slots: []models.MergedSlot{
			{StartHour: 15, EndHour: 17, GardenerIDs: []string{"g1"}},
		}},
	}

	got := FilterByNotice(days, now, 48)
	if len(got) != 0 {
		t.Errorf("a day with every slot inside the notice window should be dropped, got %+v", got)
	}
}

func TestFilterByNoticeZeroIsPassthrough(t *testing.T) {
	days := []models.DayAvailability{
		{Date: "2026-09-14", Slots: []models.MergedSlot{{StartHour: 8, EndHour: 10}}},
	}
	got := FilterByNotice(days, time.Now(), 0)
	if len(got) != 1 || len(got[0].Slots) != 1 {
		t.Errorf("zero notice should pass days through unchanged, got %+v", got)
	}
}
