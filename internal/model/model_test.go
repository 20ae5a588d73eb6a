package model

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestEventsByDateAddIsIdempotent(t *testing.T) {
	d := civil.Date{Year: 2025, Month: time.March, Day: 4}
	e := EventsByDate{}

	assert.True(t, e.Add(d, "ProjA: meeting"))
	assert.False(t, e.Add(d, "ProjA: meeting"))
	assert.True(t, e.Add(d, "ProjB: show"))
	assert.Equal(t, []string{"ProjA: meeting", "ProjB: show"}, e[d])
}

func TestEventsOrdering(t *testing.T) {
	d1 := civil.Date{Year: 2025, Month: time.March, Day: 4}
	d2 := civil.Date{Year: 2025, Month: time.March, Day: 3}
	e := EventsByDate{}
	e.Add(d1, "b")
	e.Add(d1, "a")
	e.Add(d2, "z")

	assert.Equal(t, []CalendarEvent{
		{Date: d2, Text: "z"},
		{Date: d1, Text: "a"},
		{Date: d1, Text: "b"},
	}, e.Events())
	// Sorted must not reorder the stored slice.
	assert.Equal(t, []string{"b", "a"}, e[d1])
}

func TestWeekDatesEmpty(t *testing.T) {
	assert.True(t, WeekDates{}.Empty())
	assert.False(t, WeekDates{0, 0, 3}.Empty())
}

func TestScheduleBlockOpenEnded(t *testing.T) {
	assert.True(t, ScheduleBlock{Start: "11:00", Activity: "B"}.OpenEnded())
	assert.False(t, ScheduleBlock{Start: "09:00", End: "11:00", Activity: "A"}.OpenEnded())
}
