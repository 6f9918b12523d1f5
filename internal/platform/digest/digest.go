// Package digest runs a scheduled read-only summary of upcoming
// obligations. It never mutates anything; it only projects and logs.
package digest

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
	"github.com/abenezerg/pluszone/internal/roadmap"
	"github.com/abenezerg/pluszone/pkg/logger"
	"github.com/abenezerg/pluszone/pkg/money"
)

// Job projects the next week's obligations on a cron schedule and logs the
// unsettled ones.
type Job struct {
	loans    *loan.Service
	equbs    *equb.Service
	payments *planned.Service
	tracker  *roadmap.Tracker
	log      *logger.Logger
}

// New creates a digest job over the obligation sources.
func New(l *loan.Service, e *equb.Service, p *planned.Service, t *roadmap.Tracker, log *logger.Logger) *Job {
	return &Job{
		loans:    l,
		equbs:    e,
		payments: p,
		tracker:  t,
		log:      log.WithField("component", "digest"),
	}
}

// Start schedules the job with the given cron expression. The returned cron
// should be stopped on shutdown.
func (j *Job) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { j.Run(time.Now().UTC()) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Run logs every unsettled obligation due within the next seven days and a
// total. Exposed for the scheduler and for tests.
func (j *Job) Run(now time.Time) (count int, total decimal.Decimal) {
	items := roadmap.Project(j.loans.List(), j.equbs.List(), j.payments.List(), roadmap.FilterAll, roadmap.Window7, now)
	items = j.tracker.Annotate(items)

	for _, it := range items {
		if it.Settled {
			continue
		}
		count++
		total = total.Add(it.Amount)
		j.log.Info("obligation due soon",
			"source", it.Source,
			"title", it.Title,
			"amount", money.Format(it.Amount),
			"due", it.DueDate.Format(time.DateOnly),
		)
	}

	j.log.Info("weekly obligation digest", "count", count, "total", money.Format(total))
	return count, total
}
