package clock

import "time"

// Clock отдаёт текущее время в часовом поясе школы
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Today возвращает начало текущего дня по часам c
func Today(c Clock) time.Time {
	now := c.Now().In(c.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location())
}

type realClock struct {
	loc *time.Location
}

// New создаёт системные часы для указанного часового пояса
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return realClock{loc: loc}
}

func (c realClock) Now() time.Time          { return time.Now().In(c.loc) }
func (c realClock) Location() *time.Location { return c.loc }

// Fixed часы для тестов, можно сдвигать через Advance
type Fixed struct {
	now time.Time
}

// NewFixed создаёт часы, остановленные на t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (c *Fixed) Now() time.Time          { return c.now }
func (c *Fixed) Location() *time.Location { return c.now.Location() }

// Advance сдвигает часы вперёд на d
func (c *Fixed) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
