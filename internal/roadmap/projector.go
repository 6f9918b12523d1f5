package roadmap

import (
	"sort"
	"time"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
)

// horizon is how many future occurrences each recurring source contributes.
const horizon = 12

// Project merges the three obligation sources into one chronological stream.
// It is a pure function of its inputs: no caching, no clock reads, so a
// projection after any source edit reflects that edit immediately.
//
// Loans emit from nextPaymentDate verbatim, overdue or not, because an
// unpaid installment stays owed. Equbs catch up from startDate to now first,
// past rounds are not re-listed. Planned payments emit exactly once at their
// due date. Windowed views keep items up to one day overdue and drop older
// ones; WindowAll drops nothing.
func Project(loans []*loan.Loan, equbs []*equb.Group, payments []*planned.Payment, filter CategoryFilter, window TimeWindow, now time.Time) []Item {
	var items []Item

	if filter == FilterAll || filter == FilterLoan {
		for _, l := range loans {
			items = append(items, projectLoan(l)...)
		}
	}
	if filter == FilterAll || filter == FilterEqub {
		for _, g := range equbs {
			items = append(items, projectEqub(g, now)...)
		}
	}
	if filter == FilterAll || filter == FilterPlanned {
		for _, p := range payments {
			items = append(items, Item{
				Source:   SourcePlanned,
				SourceID: p.ID,
				Title:    p.Title,
				Amount:   p.Amount,
				DueDate:  p.DueDate,
			})
		}
	}

	items = applyWindow(items, window, now)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate)
	})
	return items
}

func projectLoan(l *loan.Loan) []Item {
	count := horizon
	if l.PaymentsRemainingCount < count {
		count = l.PaymentsRemainingCount
	}
	if count <= 0 {
		return nil
	}

	amount := l.InstallmentDue()
	items := make([]Item, 0, count)
	due := l.NextPaymentDate
	for i := 0; i < count; i++ {
		items = append(items, Item{
			Source:     SourceLoan,
			SourceID:   l.ID,
			Title:      l.LoanName,
			Amount:     amount,
			DueDate:    due,
			Occurrence: l.PaymentsMadeCount + i,
		})
		due = l.Recurrence.Next(due)
	}
	return items
}

func projectEqub(g *equb.Group, now time.Time) []Item {
	if g.Status != equb.StatusActive {
		return nil
	}

	// Catch up from the circle's start so the occurrence number stays
	// anchored to the schedule rather than to when the projection ran.
	occurrence := 0
	due := g.StartDate
	for due.Before(now) {
		due = g.Frequency.Next(due)
		occurrence++
	}

	count := horizon
	if remaining := g.MembersCount - occurrence; remaining < count {
		count = remaining
	}
	if count <= 0 {
		return nil
	}

	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, Item{
			Source:     SourceEqub,
			SourceID:   g.ID,
			Title:      g.Name,
			Amount:     g.ContributionAmount,
			DueDate:    due,
			Occurrence: occurrence,
		})
		due = g.Frequency.Next(due)
		occurrence++
	}
	return items
}

func applyWindow(items []Item, window TimeWindow, now time.Time) []Item {
	if window == WindowAll {
		return items
	}

	cutoff := now.AddDate(0, 0, -1)
	end := now.AddDate(0, 0, int(window))

	kept := items[:0]
	for _, it := range items {
		if it.DueDate.Before(cutoff) || it.DueDate.After(end) {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
