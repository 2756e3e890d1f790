// Package janitor periodically drops expired entries from the shared
// caches so long-idle processes don't accumulate dead keys.
package janitor

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper is any store that can evict its expired entries.
type Sweeper interface {
	Sweep() int
}

type Janitor struct {
	cron     *cron.Cron
	sweepers []Sweeper
}

func New(sweepers ...Sweeper) *Janitor {
	return &Janitor{cron: cron.New(), sweepers: sweepers}
}

// Start schedules a sweep every minute.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@every 1m", j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

func (j *Janitor) sweep() {
	total := 0
	for _, s := range j.sweepers {
		total += s.Sweep()
	}
	if total > 0 {
		slog.Debug("cache sweep", "removed", total)
	}
}
