package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
)

// CriticalEvents inspects the system event log for critical and error
// entries within Lookback. Finding events is not a failure: each one is
// journaled as a warning.
type CriticalEvents struct {
	Executor  ports.CommandExecutor
	Journal   ports.Journal
	Cmd       domain.Command
	Lookback  time.Duration
	MaxEvents int
}

// Event is one entry parsed from the text-format event query.
type Event struct {
	Source      string
	ID          string
	Level       string
	Description string
}

// String renders the event for the journal.
func (e Event) String() string {
	s := fmt.Sprintf("%s event %s from %s", e.Level, e.ID, e.Source)
	if e.Description != "" {
		s += ": " + e.Description
	}
	return s
}

// Command returns the query restricted to Level 1 (critical) and 2 (error)
// within the lookback window.
func (c *CriticalEvents) Command() domain.Command {
	cmd := c.Cmd
	cmd.Args = append(append([]string(nil), c.Cmd.Args...),
		fmt.Sprintf("/c:%d", c.MaxEvents),
		fmt.Sprintf("/q:*[System[(Level=1 or Level=2) and TimeCreated[timediff(@SystemTime) <= %d]]]", c.Lookback.Milliseconds()),
	)
	return cmd
}

// Run implements domain.Action.
func (c *CriticalEvents) Run(ctx context.Context) (domain.Outcome, error) {
	cmd := c.Command()
	res, err := execute(ctx, c.Executor, cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	if res.ExitCode != 0 {
		return domain.Outcome{}, exitError(cmd, res)
	}

	events := ParseEvents(res.Output)
	for _, e := range events {
		c.Journal.Record(domain.LevelWarning, e.String())
	}
	if len(events) == 0 {
		return domain.Outcome{Message: fmt.Sprintf("no critical events in the last %s", c.Lookback)}, nil
	}
	return domain.Outcome{Message: fmt.Sprintf("%d critical event(s) in the last %s", len(events), c.Lookback)}, nil
}

// ParseEvents splits wevtutil /f:text output into events.
func ParseEvents(output string) []Event {
	var (
		events  []Event
		current *Event
		inDesc  bool
	)
	for line := range strings.Lines(strings.ReplaceAll(output, "\r\n", "\n")) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Event[") {
			events = append(events, Event{})
			current = &events[len(events)-1]
			inDesc = false
			continue
		}
		if current == nil || line == "" {
			continue
		}
		if inDesc {
			if current.Description == "" {
				current.Description = line
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Source":
			current.Source = value
		case "Event ID":
			current.ID = value
		case "Level":
			current.Level = value
		case "Description":
			current.Description = value
			inDesc = true
		}
	}
	return events
}
