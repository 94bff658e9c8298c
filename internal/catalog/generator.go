// Package catalog expands the weekly class timetable into calendar events.
package catalog

import (
	"fmt"
	"time"

	"github.com/tanqtrail-arch/Absence/internal/model"
)

// DefaultWeeks is the length of the generated window.
const DefaultWeeks = 52

// Session is one class held on a template weekday.
type Session struct {
	Title string
	Start string // "16:00"
	End   string // "17:40"
}

// Template lists the sessions held every week on Weekday.
type Template struct {
	Weekday  time.Weekday
	Prefix   string // префикс ID события, например "mon"
	Sessions []Session
}

// DefaultTemplates is the school's weekly timetable.
func DefaultTemplates() []Template {
	return []Template{
		{Weekday: time.Monday, Prefix: "mon", Sessions: []Session{
			{Title: "探究スターター", Start: "16:00", End: "17:00"},
			{Title: "探究ベーシック", Start: "18:00", End: "19:40"},
		}},
		{Weekday: time.Tuesday, Prefix: "tue", Sessions: []Session{
			{Title: "探究アドバンス", Start: "17:00", End: "18:40"},
			{Title: "探究リミットレス", Start: "19:00", End: "20:40"},
		}},
		{Weekday: time.Wednesday, Prefix: "wed", Sessions: []Session{
			{Title: "個別", Start: "16:00", End: "17:40"},
			{Title: "個別", Start: "19:00", End: "20:40"},
		}},
		{Weekday: time.Thursday, Prefix: "thu", Sessions: []Session{
			{Title: "個別", Start: "16:00", End: "17:40"},
			{Title: "個別", Start: "18:00", End: "18:50"},
		}},
		{Weekday: time.Saturday, Prefix: "sat", Sessions: []Session{
			{Title: "探究ベーシック", Start: "10:00", End: "12:10"},
		}},
	}
}

// WindowStart returns the first day of the month before today.
func WindowStart(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, today.Location())
}

// WeeklyDates returns weeks consecutive dates falling on weekday, starting from the
// first such weekday on or after from.
func WeeklyDates(from time.Time, weekday time.Weekday, weeks int) []time.Time {
	offset := (int(weekday) - int(from.Weekday()) + 7) % 7
	first := from.AddDate(0, 0, offset)

	dates := make([]time.Time, 0, weeks)
	for i := 0; i < weeks; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i))
	}
	return dates
}

// Generate builds the class calendar for today. The result depends only on its
// arguments; event IDs are "<prefix>-<session>-<week index>".
func Generate(today time.Time, templates []Template, holidays Holidays, weeks int) ([]*model.CalendarEvent, error) {
	start := WindowStart(today)

	var events []*model.CalendarEvent
	for _, tmpl := range templates {
		for idx, date := range WeeklyDates(start, tmpl.Weekday, weeks) {
			if holidays.Contains(date.Format(model.DateLayout)) {
				continue
			}

			for n, session := range tmpl.Sessions {
				startAt, err := atClock(date, session.Start)
				if err != nil {
					return nil, fmt.Errorf("session %q start: %w", session.Title, err)
				}
				endAt, err := atClock(date, session.End)
				if err != nil {
					return nil, fmt.Errorf("session %q end: %w", session.Title, err)
				}

				events = append(events, &model.CalendarEvent{
					ID:        fmt.Sprintf("%s-%d-%d", tmpl.Prefix, n+1, idx),
					Title:     session.Title,
					StartAt:   startAt,
					EndAt:     endAt,
					EventType: model.EventTypeClass,
				})
			}
		}
	}

	return events, nil
}

func atClock(date time.Time, label string) (time.Time, error) {
	t, err := time.Parse(model.TimeLayout, label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
