package booking

import (
	"context"
	"sort"
	"sync"

	availabilityRepo "verdea/database/repository/availability"
	"verdea/models"

	"go.uber.org/zap"
)

// DefaultMergeEngine implements MergeEngine. Availability fetches are
// independent per gardener, so the outer loop fans out; each gardener's
// blocks are fully computed before their sequences are tested.
type DefaultMergeEngine struct {
	Availability availabilityRepo.AvailabilityRepository
	Buffer       BufferEngine
	Logger       *zap.Logger
}

// ComputeMergedSlots returns every start hour at which at least one of the
// given gardeners can deliver a contiguous block of durationHours, ascending
// by start hour. Gardener ID lists keep input iteration order.
func (m *DefaultMergeEngine) ComputeMergedSlots(ctx context.Context, gardenerIDs []string, date, clientID string, durationHours int) []models.MergedSlot {
	if durationHours <= 0 || durationHours > DayEndHour-DayStartHour {
		return []models.MergedSlot{}
	}

	gardenerIDs = dedupe(gardenerIDs)
	perGardener := make([][]int, len(gardenerIDs))

	var wg sync.WaitGroup
	for i, id := range gardenerIDs {
		wg.Add(1)
		go func(idx int, gardenerID string) {
			defer wg.Done()
			perGardener[idx] = m.startHoursFor(ctx, gardenerID, date, clientID, durationHours)
		}(i, id)
	}
	wg.Wait()

	byStart := make(map[int][]string)
	for i, gardenerID := range gardenerIDs {
		for _, start := range perGardener[i] {
			byStart[start] = append(byStart[start], gardenerID)
		}
	}

	starts := make([]int, 0, len(byStart))
	for start := range byStart {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	slots := make([]models.MergedSlot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, models.MergedSlot{
			StartHour:   start,
			EndHour:     start + durationHours,
			GardenerIDs: byStart[start],
		})
	}
	return slots
}

// startHoursFor computes the admissible start hours for a single gardener.
func (m *DefaultMergeEngine) startHoursFor(ctx context.Context, gardenerID, date, clientID string, durationHours int) []int {
	blocks, err := m.Availability.GetHourlyAvailability(ctx, gardenerID, date)
	if err != nil {
		m.Logger.Warn("availability fetch failed, skipping gardener",
			zap.String("gardenerId", gardenerID), zap.String("date", date), zap.Error(err))
		return nil
	}
	blocks = m.Buffer.ApplyBufferRules(ctx, gardenerID, date, clientID, blocks)

	var starts []int
	for start := DayStartHour; start <= DayEndHour-durationHours; start++ {
		free := true
		for hour := start; hour < start+durationHours; hour++ {
			if !blocks[hour] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		if m.Buffer.CanBookSequence(ctx, gardenerID, date, start, durationHours, clientID).CanBook {
			starts = append(starts, start)
		}
	}
	return starts
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
