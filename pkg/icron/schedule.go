package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type TriggerInfo struct {
	Next       time.Time
	Expression string

	TimeUntilNext time.Duration
}

// Expression renders a fixed interval as a cron descriptor, e.g. "@every 1m0s".
func Expression(interval time.Duration) string {
	return "@every " + interval.String()
}

// Every parses a fixed interval into a cron schedule. Sub-second intervals
// are rejected since cron rounds them up to one second.
func Every(interval time.Duration) (cron.Schedule, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("interval must be at least 1s, got %s", interval)
	}
	schedule, err := cron.ParseStandard(Expression(interval))
	if err != nil {
		return nil, fmt.Errorf("invalid interval: %w", err)
	}
	return schedule, nil
}

func GetTriggerInfo(interval time.Duration, refTime time.Time) (*TriggerInfo, error) {
	schedule, err := Every(interval)
	if err != nil {
		return nil, err
	}

	next := schedule.Next(refTime)
	return &TriggerInfo{
		Next:          next,
		Expression:    Expression(interval),
		TimeUntilNext: next.Sub(refTime),
	}, nil
}
