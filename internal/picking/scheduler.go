package picking

import (
	"sort"

	"github.com/stocklane/warehouse-service/internal/model"
)

// NextEligibleWorker selects the picker for the next wave by round robin.
// The cursor is not persisted anywhere: it is inferred from who received the
// most recent assignment, so the rotation self-heals when workers join or
// leave between assignments.
//
// Eligible workers (active, holding the picker capability) are ordered by
// their stable id; the pick is the worker immediately after the last
// assignee, wrapping to the first. With no history, or when the last
// assignee has left the pool, the rotation starts at the first worker.
func NextEligibleWorker(workers []model.Worker, lastAssignedWorkerID string) (string, error) {
	eligible := make([]model.Worker, 0, len(workers))
	for _, w := range workers {
		if w.IsActive && w.IsPicker {
			eligible = append(eligible, w)
		}
	}
	if len(eligible) == 0 {
		return "", ErrNoEligibleWorker
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].ID < eligible[j].ID
	})

	if lastAssignedWorkerID == "" {
		return eligible[0].ID, nil
	}

	for i, w := range eligible {
		if w.ID == lastAssignedWorkerID {
			return eligible[(i+1)%len(eligible)].ID, nil
		}
	}

	return eligible[0].ID, nil
}
