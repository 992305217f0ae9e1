// Package scheduler runs the periodic upstream probe behind /ready and the
// changelog_upstream_up gauge.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/metrics"
	"github.com/crucial707/changelog-browser/internal/models"
)

// StatsSource is probed by fetching stats.json.
type StatsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Status is the outcome of the most recent probe.
type Status struct {
	Up        bool      `json:"up"`
	Checked   bool      `json:"checked"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Countries int       `json:"countries,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Prober checks the upstream on a cron schedule.
type Prober struct {
	src     StatsSource
	log     *logrus.Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	status Status
	cron   *cron.Cron
}

// NewProber returns a Prober; each probe is bounded by timeout.
func NewProber(src StatsSource, log *logrus.Logger, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{src: src, log: log, timeout: timeout, now: time.Now}
}

// Probe fetches stats once and records the result.
func (p *Prober) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	st := Status{Checked: true, CheckedAt: p.now().UTC()}
	stats, err := p.src.Stats(ctx)
	if err != nil {
		st.Error = err.Error()
		p.log.WithError(err).Warn("scheduler: upstream probe failed")
	} else {
		st.Up = true
		st.Countries = len(stats.ByCountry)
		p.log.WithField("countries", st.Countries).Debug("scheduler: upstream probe ok")
	}
	metrics.SetUpstreamUp(st.Up)

	p.mu.Lock()
	p.status = st
	p.mu.Unlock()
	return st
}

// Status returns the last recorded probe result.
func (p *Prober) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Start probes once, then on every tick of schedule (standard cron syntax or
// descriptors such as "@every 5m").
func (p *Prober) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { p.Probe(ctx) }); err != nil {
		return err
	}
	p.mu.Lock()
	p.cron = c
	p.mu.Unlock()

	go p.Probe(ctx)
	c.Start()
	p.log.WithField("schedule", schedule).Info("scheduler: upstream probe started")
	return nil
}

// Stop halts the schedule and waits for a running probe to finish.
func (p *Prober) Stop() {
	p.mu.RLock()
	c := p.cron
	p.mu.RUnlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
