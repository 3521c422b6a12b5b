// Package detector implements the recurrence-hike engine: it groups
// transactions by merchant, orders each group chronologically and flags
// every charge that is strictly higher than the charge immediately before
// it from the same merchant.
//
// The engine is a pure function of its input. It holds no state between
// calls, performs no I/O and never mutates the transactions it is given.
package detector

import (
	"sort"
	"sync"

	"github.com/AhmadFikry/subscription-recovery/internal/domain"
)

// MerchantPartition holds every transaction for one merchant, sorted by
// date ascending with the original input position breaking ties. Partitions
// are never empty.
type MerchantPartition struct {
	Merchant string
	Records  []domain.Transaction
}

// Recurring reports whether the merchant was billed more than once.
func (p MerchantPartition) Recurring() bool {
	return len(p.Records) > 1
}

// Partition groups transactions by exact merchant identity and orders each
// group by (date, input index). Partitions come back sorted by merchant
// ascending so the result is unique and repeatable for a fixed input.
// Single-record merchants are retained here; the hike filter excludes them.
func Partition(records []domain.Transaction) []MerchantPartition {
	groups := make(map[string][]domain.Transaction)
	merchants := make([]string, 0)
	for _, r := range records {
		if _, seen := groups[r.Merchant]; !seen {
			merchants = append(merchants, r.Merchant)
		}
		groups[r.Merchant] = append(groups[r.Merchant], r)
	}
	sort.Strings(merchants)

	parts := make([]MerchantPartition, 0, len(merchants))
	for _, m := range merchants {
		recs := groups[m]
		sort.SliceStable(recs, func(i, j int) bool {
			if !recs[i].Date.Equal(recs[j].Date) {
				return recs[i].Date.Before(recs[j].Date)
			}
			return recs[i].Index < recs[j].Index
		})
		parts = append(parts, MerchantPartition{Merchant: m, Records: recs})
	}
	return parts
}

// FindHikes runs the full engine pass: partition, difference, filter.
// Events come back in merchant-ascending then date-ascending order. The
// result is never nil; zero events is a normal outcome, not an error.
func FindHikes(records []domain.Transaction) []domain.HikeEvent {
	events := make([]domain.HikeEvent, 0)
	for _, p := range Partition(records) {
		events = append(events, partitionHikes(p)...)
	}
	return events
}

// FindHikesParallel computes the same result as FindHikes with one
// goroutine per merchant partition. Partitions are independent, so results
// are collected per partition and concatenated in partition order; the
// emitted sequence is identical to the sequential pass.
func FindHikesParallel(records []domain.Transaction) []domain.HikeEvent {
	parts := Partition(records)
	results := make([][]domain.HikeEvent, len(parts))

	var wg sync.WaitGroup
	for i, p := range parts {
		wg.Add(1)
		go func(i int, p MerchantPartition) {
			defer wg.Done()
			results[i] = partitionHikes(p)
		}(i, p)
	}
	wg.Wait()

	events := make([]domain.HikeEvent, 0)
	for _, r := range results {
		events = append(events, r...)
	}
	return events
}

// partitionHikes walks one ordered partition and emits an event for every
// record whose amount is strictly above its immediate predecessor's.
//
// Two separate exclusions apply: merchants billed only once have no delta
// at all, and the first record of a recurring merchant carries no delta
// either. The delta is purely local, so three increasing charges produce
// two events, one per consecutive pair.
func partitionHikes(p MerchantPartition) []domain.HikeEvent {
	if !p.Recurring() {
		return nil
	}

	var events []domain.HikeEvent
	for i := 1; i < len(p.Records); i++ {
		prev, cur := p.Records[i-1], p.Records[i]
		delta := cur.Amount.Sub(prev.Amount)
		if delta.Sign() <= 0 {
			// Flat or decreased. Normal filtering, not worth reporting.
			continue
		}
		events = append(events, domain.HikeEvent{
			Merchant:       p.Merchant,
			PreviousAmount: prev.Amount,
			NewAmount:      cur.Amount,
			Delta:          delta,
			OccurredAt:     cur.Date,
		})
	}
	return events
}
