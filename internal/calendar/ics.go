package calendar

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	ical "github.com/arran4/golang-ical"

	"sheetcal/internal/model"
)

// EncodeICS renders events as an iCalendar feed of all-day VEVENTs.
// UIDs are derived from date and text so that re-exports of the same sheet
// keep stable identities.
func EncodeICS(events model.EventsByDate, prodID string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, ev := range events.Events() {
		start := ev.Date.In(time.UTC)

		vev := cal.AddEvent(eventUID(ev))
		vev.SetDtStampTime(stamp.UTC())
		vev.SetAllDayStartAt(start)
		vev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		vev.SetSummary(ev.Text)
	}

	return cal.Serialize()
}

func eventUID(ev model.CalendarEvent) string {
	sum := sha256.Sum256([]byte(ev.Date.String() + "\x00" + ev.Text))
	return hex.EncodeToString(sum[:10]) + "@sheetcal"
}
