package ctl

import (
	"fmt"

	"github.com/okian/simonev/internal/domain/types"
)

// verifyRanking checks that ranks run 1..n and scores never increase.
func verifyRanking(entries []types.RankingEntry) error {
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrVerification, i, e.Rank)
		}
		if i > 0 && e.TotalScore > entries[i-1].TotalScore {
			return fmt.Errorf("%w: ranking not properly sorted: entry %d has higher score than entry %d",
				ErrVerification, i, i-1)
		}
		if e.EventsParticipated > e.TotalEventsPossible {
			return fmt.Errorf("%w: school %s participated in %d of %d events",
				ErrVerification, e.ID, e.EventsParticipated, e.TotalEventsPossible)
		}
	}
	return nil
}

// participationTotal sums eventsParticipated over every school.
func participationTotal(schools []types.SchoolView) int {
	total := 0
	for _, s := range schools {
		total += s.EventsParticipated
	}
	return total
}

// verifyReplay checks that uploading the same roster again credited nobody.
func verifyReplay(first, replay types.UploadResult) error {
	if len(replay.Credited) != 0 {
		return fmt.Errorf("%w: replayed roster credited %d schools", ErrVerification, len(replay.Credited))
	}
	if replay.Matched != first.Matched {
		return fmt.Errorf("%w: replayed roster matched %d schools, first upload %d",
			ErrVerification, replay.Matched, first.Matched)
	}
	return nil
}
