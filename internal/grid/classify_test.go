package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetcal/internal/model"
)

func testVocabulary() Vocabulary {
	return NewVocabulary(
		map[string]int{"ЯНВАРЬ": 1, "ФЕВРАЛЬ": 2, "МАРТ": 3},
		[]string{"ПОНЕДЕЛЬНИК", "ВТОРНИК", "СРЕДА", "ЧЕТВЕРГ", "ПЯТНИЦА", "СУББОТА", "ВОСКРЕСЕНЬЕ"},
	)
}

func TestClassify(t *testing.T) {
	v := testVocabulary()

	tests := []struct {
		name string
		row  []string
		want Row
	}{
		{
			name: "short row is skipped",
			row:  []string{"ЯНВАРЬ", "1", "2"},
			want: Row{Kind: KindSkip},
		},
		{
			name: "month header",
			row:  []string{"ФЕВРАЛЬ", "", "", "", "", "", "", ""},
			want: Row{Kind: KindMonthHeader, Month: 2},
		},
		{
			name: "month header matches loosely",
			row:  []string{" март ", "", "", "", "", "", "", ""},
			want: Row{Kind: KindMonthHeader, Month: 3},
		},
		{
			name: "weekday header with trailing space",
			row:  []string{"", "ПОНЕДЕЛЬНИК", "ВТОРНИК", "СРЕДА", "ЧЕТВЕРГ", "ПЯТНИЦА", "СУББОТА ", "ВОСКРЕСЕНЬЕ"},
			want: Row{Kind: KindWeekdayHeader},
		},
		{
			name: "date numbers with gaps",
			row:  []string{"", "27", "28", "x", "", "31", "1", "2"},
			want: Row{Kind: KindDateNumbers, Dates: model.WeekDates{27, 28, 0, 0, 31, 1, 2}},
		},
		{
			name: "month beats weekday",
			row:  []string{"ЯНВАРЬ", "СРЕДА", "", "", "", "", "", ""},
			want: Row{Kind: KindMonthHeader, Month: 1},
		},
		{
			name: "weekday beats number",
			row:  []string{"", "среда", "5", "", "", "", "", ""},
			want: Row{Kind: KindWeekdayHeader},
		},
		{
			name: "data row trims cells and ignores extra columns",
			row:  []string{" ProjA ", "", " meeting ", "", "", "", "", "show", "notes"},
			want: Row{
				Kind:    KindData,
				Project: "ProjA",
				Cells:   [7]string{"", "meeting", "", "", "", "", "show"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.row, v))
		})
	}
}

func TestProjectNames(t *testing.T) {
	rows := model.RawGrid{
		{"ЯНВАРЬ", "", "", "", "", "", "", ""},
		{"", "ПОНЕДЕЛЬНИК", "ВТОРНИК", "СРЕДА", "ЧЕТВЕРГ", "ПЯТНИЦА", "СУББОТА", "ВОСКРЕСЕНЬЕ"},
		{"12", "1", "2", "3", "4", "5", "6", "7"},
		{"Гамлет", "", "", "", "", "", "", ""},
		{"Чайка ", "", "", "", "", "", "", ""},
		{"Гамлет", "", "", "", "", "", "", ""},
		{"Короткая"},
		{"", "x", "", "", "", "", "", ""},
	}

	assert.Equal(t, []string{"Гамлет", "Чайка"}, ProjectNames(rows, testVocabulary()))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "date_numbers", KindDateNumbers.String())
	assert.Equal(t, "skip", Kind(99).String())
}
