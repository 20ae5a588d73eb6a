// Package schedule rebuilds per-person day schedules from day-sheets and
// answers lookups by name.
package schedule

import (
	"strings"

	"sheetcal/internal/model"
)

// TimeColumns returns the column labels that look like times ("09:00"),
// in sheet order. They are never sorted by time value.
func TimeColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if strings.Contains(c, ":") {
			out = append(out, c)
		}
	}
	return out
}

// Blocks collapses one person's day row into contiguous activity blocks.
// A block ends where the next different activity starts; the last block is
// open-ended because nothing after the last time column bounds it.
func Blocks(row map[string]string, timeColumns []string) []model.ScheduleBlock {
	blocks := []model.ScheduleBlock{}

	var cur *model.ScheduleBlock
	for _, col := range timeColumns {
		activity := strings.TrimSpace(row[col])
		if activity == "" {
			continue
		}
		if cur != nil && cur.Activity == activity {
			continue
		}
		if cur != nil {
			cur.End = col
			blocks = append(blocks, *cur)
		}
		cur = &model.ScheduleBlock{Start: col, Activity: activity}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}
