package schedule

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sheetcal/internal/model"
)

// Format renders a person's week: contact details, then each day in days
// order that has a schedule, one "start - end: activity" line per block.
func Format(rec model.PersonRecord, days []string, openEnd string) string {
	title := cases.Title(language.Russian)

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", rec.Name)
	fmt.Fprintf(&b, "📞 %s\n", rec.Phone)
	fmt.Fprintf(&b, "📋 %s\n\n", rec.Position)

	for _, day := range days {
		blocks, ok := rec.Schedule[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "📅 %s:\n", title.String(day))
		for _, blk := range blocks {
			end := blk.End
			if blk.OpenEnded() {
				end = openEnd
			}
			fmt.Fprintf(&b, "    %s - %s: %s\n", blk.Start, end, blk.Activity)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
