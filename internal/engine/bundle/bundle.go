// Package bundle classifies the sessions of one multi-session application.
package bundle

import (
	"sort"

	"facility-rental/internal/data/entity"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAllPending         Kind = "all_pending"
	KindAllApproved        Kind = "all_approved"
	KindAllRejected        Kind = "all_rejected"
	KindInProgress         Kind = "in_progress"
	KindPartiallyFinalized Kind = "partially_finalized"
	KindOther              Kind = "other"
)

// Display values that are not themselves request statuses.
const (
	DisplayPartiallyFinalized = "partially_finalized"
	DisplayInProgress         = "in_progress"
	DisplayMixed              = "mixed"
)

type Counts struct {
	Total       int `json:"total"`
	Received    int `json:"received"`
	UnderReview int `json:"under_review"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	Cancelled   int `json:"cancelled"`
}

func (c Counts) Pending() int {
	return c.Received + c.UnderReview
}

type Summary struct {
	Kind            Kind                 `json:"kind"`
	DisplayStatus   string               `json:"display_status"`
	StatusForFilter entity.RequestStatus `json:"status_for_filter"`
	Counts          Counts               `json:"counts"`
}

// Order sorts sessions by bundle sequence, then date, then start time.
func Order(sessions []entity.RentalRequest) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.BatchSeq != b.BatchSeq {
			return a.BatchSeq < b.BatchSeq
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})
}

// Group is one listing entry: either a standalone request or a bundle.
type Group struct {
	BatchID  *uuid.UUID
	Sessions []entity.RentalRequest
}

func (g Group) Lead() entity.RentalRequest {
	return g.Sessions[0]
}

// GroupByBatch folds bundled sessions into one group each, keeping the
// position of the first session seen. Standalone requests stay single.
func GroupByBatch(requests []entity.RentalRequest) []Group {
	var groups []Group
	index := make(map[uuid.UUID]int)
	for _, r := range requests {
		if !r.IsBundled() {
			groups = append(groups, Group{Sessions: []entity.RentalRequest{r}})
			continue
		}
		id := *r.BatchID
		if i, ok := index[id]; ok {
			groups[i].Sessions = append(groups[i].Sessions, r)
			continue
		}
		index[id] = len(groups)
		batchID := id
		groups = append(groups, Group{BatchID: &batchID, Sessions: []entity.RentalRequest{r}})
	}
	for i := range groups {
		Order(groups[i].Sessions)
	}
	return groups
}

func count(sessions []entity.RentalRequest) Counts {
	c := Counts{Total: len(sessions)}
	for _, s := range sessions {
		switch s.Status {
		case entity.StatusReceived:
			c.Received++
		case entity.StatusUnderReview:
			c.UnderReview++
		case entity.StatusApproved:
			c.Approved++
		case entity.StatusRejected:
			c.Rejected++
		case entity.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

func classify(c Counts) Kind {
	pending := c.Pending()
	decided := c.Approved + c.Rejected
	switch {
	case c.Total == 0:
		return KindAllPending
	case c.Approved == c.Total:
		return KindAllApproved
	case c.Rejected == c.Total:
		return KindAllRejected
	case pending > 0 && decided == 0:
		return KindAllPending
	case pending > 0 && decided > 0:
		return KindInProgress
	case c.Approved > 0 && c.Rejected > 0 && pending == 0:
		return KindPartiallyFinalized
	default:
		return KindOther
	}
}

func uniformStatus(sessions []entity.RentalRequest) (entity.RequestStatus, bool) {
	if len(sessions) == 0 {
		return "", false
	}
	first := sessions[0].Status
	for _, s := range sessions[1:] {
		if s.Status != first {
			return "", false
		}
	}
	return first, true
}

// Analyze never fails: mixed outcomes are reported through Summary.Kind.
func Analyze(sessions []entity.RentalRequest) Summary {
	c := count(sessions)
	kind := classify(c)
	uniform, isUniform := uniformStatus(sessions)

	summary := Summary{Kind: kind, Counts: c}

	switch {
	case isUniform:
		summary.DisplayStatus = string(uniform)
	case kind == KindAllPending:
		summary.DisplayStatus = string(entity.DefaultPendingStatus)
	case kind == KindPartiallyFinalized:
		summary.DisplayStatus = DisplayPartiallyFinalized
	case kind == KindInProgress:
		summary.DisplayStatus = DisplayInProgress
	default:
		summary.DisplayStatus = DisplayMixed
	}
	if c.Total == 0 {
		summary.DisplayStatus = string(entity.DefaultPendingStatus)
	}

	// Partially rejected bundles deliberately surface under the rejected filter.
	switch {
	case isUniform:
		summary.StatusForFilter = uniform
	case c.Rejected > 0:
		summary.StatusForFilter = entity.StatusRejected
	default:
		summary.StatusForFilter = entity.DefaultPendingStatus
	}
	return summary
}

// FeeBasis picks the sessions a payable amount is computed from. The flag is
// true when nothing is approved yet and the result is only an estimate.
func FeeBasis(sessions []entity.RentalRequest) ([]entity.RentalRequest, bool) {
	var approved []entity.RentalRequest
	for _, s := range sessions {
		if s.Status == entity.StatusApproved {
			approved = append(approved, s)
		}
	}
	if len(approved) > 0 {
		return approved, false
	}
	return sessions, true
}
