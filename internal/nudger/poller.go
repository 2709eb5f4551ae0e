package nudger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/sonarr-nudger/internal/rule"
	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
	"github.com/MimeLyc/sonarr-nudger/pkg/icron"
	"github.com/MimeLyc/sonarr-nudger/pkg/log"
)

// QueueClient is the part of the Sonarr API the poller needs.
type QueueClient interface {
	Queue(ctx context.Context) ([]sonarr.QueueRecord, error)
	Grab(ctx context.Context, id int) error
}

// Waiter blocks until the next pass is due or ctx is done.
type Waiter func(ctx context.Context, interval time.Duration) error

// Result counts what happened during one pass.
type Result struct {
	Records  int
	Eligible int
	Matched  int
	Grabbed  int
	Failed   int
}

func (r Result) String() string {
	return fmt.Sprintf("records=%d eligible=%d matched=%d grabbed=%d failed=%d",
		r.Records, r.Eligible, r.Matched, r.Grabbed, r.Failed)
}

type Poller struct {
	client   QueueClient
	rules    rule.Rules
	interval time.Duration
	wait     Waiter

	group singleflight.Group
}

type Option func(*Poller)

// WithWaiter replaces the interval wait between passes.
func WithWaiter(w Waiter) Option {
	return func(p *Poller) {
		p.wait = w
	}
}

func NewPoller(client QueueClient, rules rule.Rules, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		client:   client,
		rules:    rules,
		interval: interval,
		wait:     waitForNextTick,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Eligible reports whether a record may be offered to the rules at all.
func Eligible(rec sonarr.QueueRecord) bool {
	return rec.Status == sonarr.StatusDelay && rec.Title != ""
}

// Run polls immediately and then once per interval until ctx is done.
// Pass errors are logged and never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	log.Info("Monitoring the queue for matches every %s", p.interval)

	for {
		res, err := p.Poll(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			log.Info("Queue check interrupted: %v", err)
		case err != nil:
			log.Error("An error occurred while checking the queue: %v", err)
			log.Error("Advice: %s", sonarr.Advice(err))
		case res.Matched > 0:
			log.Info("Queue check finished: %s", res)
		default:
			log.Debug("Queue check finished: %s", res)
		}

		if err := p.wait(ctx, p.interval); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("Stopping queue monitor")
				return nil
			}
			return err
		}
	}
}

// Poll runs one fetch-match-grab pass. Concurrent callers share a single
// in-flight pass.
func (p *Poller) Poll(ctx context.Context) (Result, error) {
	v, err, _ := p.group.Do("poll", func() (any, error) {
		var res Result
		err := safeExecute(func() error {
			var err error
			res, err = p.poll(ctx)
			return err
		})
		return res, err
	})
	return v.(Result), err
}

func (p *Poller) poll(ctx context.Context) (Result, error) {
	var res Result

	records, err := p.client.Queue(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch queue: %w", err)
	}
	res.Records = len(records)
	if len(records) == 0 {
		return res, nil
	}

	// at most one grab per record per pass
	seen := make(map[int]struct{}, len(records))

	for _, rec := range records {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if !Eligible(rec) {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		res.Eligible++

		matched, ok := p.rules.FirstMatch(rec)
		if !ok {
			continue
		}
		res.Matched++
		log.Info("Match found for '%s' with pattern '%s'", rec.Title, matched)

		if err := p.grab(ctx, rec); err != nil {
			res.Failed++
			log.Error("Failed to start download for '%s': %v", rec.Title, err)
			continue
		}
		res.Grabbed++
		log.Info("Download started for '%s'", rec.Title)
	}

	return res, nil
}

func (p *Poller) grab(ctx context.Context, rec sonarr.QueueRecord) error {
	log.Debug("Sending grab for queue item %d", rec.ID)

	err := p.client.Grab(ctx, rec.ID)
	if err == nil {
		return nil
	}

	var sErr *sonarr.Error
	if errors.As(err, &sErr) && sErr.StatusCode != 0 {
		log.Warn("Grab for item %d answered with status %d: %s", rec.ID, sErr.StatusCode, sErr.Body)
	}
	return err
}

// waitForNextTick sleeps until the interval schedule's next tick.
func waitForNextTick(ctx context.Context, interval time.Duration) error {
	info, err := icron.GetTriggerInfo(interval, time.Now())
	if err != nil {
		return err
	}
	log.Debug("Next queue check at %s", info.Next.Format(time.TimeOnly))

	timer := time.NewTimer(info.TimeUntilNext)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// safeExecute turns a panic during a pass into an ErrUnknown error.
func safeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = sonarr.NewError(sonarr.ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
