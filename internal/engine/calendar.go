package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// MeasurementSource returns the raw measurement history of a child.
type MeasurementSource interface {
	FetchMeasurements(ctx context.Context, childID string) ([]MeasurementRecord, error)
}

// Checkup is the next measurement visit of one child.
type Checkup struct {
	Child ChildProfile
	// LatestAgeInDays is the age of the last usable measurement, or the
	// current age when none is known.
	LatestAgeInDays int
	Measured        bool
	// DueAgeInDays is LatestAgeInDays plus its horizon.
	DueAgeInDays int
	Due          time.Time
}

// CheckupPlanner turns the child directory into a check-up calendar.
type CheckupPlanner struct {
	Clock        Clock
	Directory    *Directory
	Measurements MeasurementSource // optional

	// FormatSummary lets the UI inject localized event titles.
	FormatSummary func(name string, dueAgeInDays int) string
}

// RunSync loads the directory, plans every child and renders the feed.
func (p *CheckupPlanner) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []ChildProfile, []Checkup, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	if p.Directory == nil {
		return nil, nil, nil, errors.New(config.ErrFetcherMissing)
	}
	children, err := p.Directory.Load(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	checkups := p.Plan(ctx, children)
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	ics, err := p.Render(checkups, cfg.ReminderTrigger)
	if err != nil {
		return nil, nil, nil, err
	}

	log.Debug("Sync finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	return ics, children, checkups, nil
}

// Plan computes the next check-up of every child, ordered by due date.
// A failed history lookup falls back to the child's current age.
func (p *CheckupPlanner) Plan(ctx context.Context, children []ChildProfile) []Checkup {
	now := p.Clock.Now()
	out := make([]Checkup, len(children))

	var g errgroup.Group
	g.SetLimit(config.ReferenceFetchConcurrency)
	for i, child := range children {
		g.Go(func() error {
			age, measured := child.AgeInDays(now), false
			if p.Measurements != nil {
				recs, err := p.Measurements.FetchMeasurements(ctx, child.ID)
				if err != nil {
					metrics.UpstreamFailure(metrics.SourceMeasurements)
					slog.Warn(config.MsgUpstreamFailed,
						config.LogKeyComponent, config.CompCalendar,
						config.LogKeyChild, child.ID,
						config.LogKeyError, err)
				} else if last, ok := LatestActualAge(recs); ok {
					age, measured = last, true
				}
			}
			out[i] = newCheckup(child, age, measured, now)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(out[j].Due) })
	return out
}

// newCheckup places the visit one horizon after the last measurement. A
// visit already overdue is moved to today.
func newCheckup(child ChildProfile, latestAge int, measured bool, now time.Time) Checkup {
	dueAge := latestAge + HorizonDays(latestAge)
	birth := time.Date(child.BirthDate.Year(), child.BirthDate.Month(), child.BirthDate.Day(), 0, 0, 0, 0, now.Location())
	due := birth.AddDate(0, 0, dueAge)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		due = today
	}

	return Checkup{
		Child:           child,
		LatestAgeInDays: latestAge,
		Measured:        measured,
		DueAgeInDays:    dueAge,
		Due:             due,
	}
}

// Render encodes the check-ups as an iCalendar feed.
func (p *CheckupPlanner) Render(checkups []Checkup, reminderTrigger string) ([]byte, error) {
	if len(checkups) == 0 {
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		p.logSuccess(0)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(p.Clock.Now().UTC())

	for _, c := range checkups {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, c.Child.ID, c.DueAgeInDays, config.ICalDomain))

		summary := fmt.Sprintf(config.FallbackSummary, c.Child.Name)
		if p.FormatSummary != nil {
			summary = p.FormatSummary(c.Child.Name, c.DueAgeInDays)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(c.Due)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	p.logSuccess(len(checkups))
	return buf.Bytes(), nil
}

func (p *CheckupPlanner) logSuccess(count int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyCheckups, count,
	)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
