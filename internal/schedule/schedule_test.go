package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcal/internal/model"
)

func TestTimeColumns(t *testing.T) {
	cols := []string{"Организатор", "Телефон", "10:00", "09:00", "Должность", "11:30"}
	assert.Equal(t, []string{"10:00", "09:00", "11:30"}, TimeColumns(cols))
	assert.Nil(t, TimeColumns([]string{"Организатор"}))
}

func TestBlocks(t *testing.T) {
	cols := []string{"09:00", "10:00", "11:00", "12:00"}

	tests := []struct {
		name string
		row  map[string]string
		want []model.ScheduleBlock
	}{
		{
			name: "merge identical neighbours",
			row:  map[string]string{"09:00": "A", "10:00": "A", "11:00": "B"},
			want: []model.ScheduleBlock{
				{Start: "09:00", End: "11:00", Activity: "A"},
				{Start: "11:00", Activity: "B"},
			},
		},
		{
			name: "all empty",
			row:  map[string]string{"09:00": " ", "10:00": ""},
			want: []model.ScheduleBlock{},
		},
		{
			name: "blank cells do not split a run",
			row:  map[string]string{"09:00": "A", "10:00": "", "11:00": " A ", "12:00": "B"},
			want: []model.ScheduleBlock{
				{Start: "09:00", End: "12:00", Activity: "A"},
				{Start: "12:00", Activity: "B"},
			},
		},
		{
			name: "single activity is open-ended",
			row:  map[string]string{"10:00": "касса"},
			want: []model.ScheduleBlock{{Start: "10:00", Activity: "касса"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Blocks(tt.row, cols))
		})
	}
}

func TestBlocksKeepColumnOrder(t *testing.T) {
	row := map[string]string{"23:00": "A", "01:00": "B"}
	got := Blocks(row, []string{"23:00", "01:00"})
	assert.Equal(t, []model.ScheduleBlock{
		{Start: "23:00", End: "01:00", Activity: "A"},
		{Start: "01:00", Activity: "B"},
	}, got)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		query    string
		want     bool
	}{
		{"surname", "Иванов Пётр", "иванов", true},
		{"other surname", "Иванов Пётр", "петров", false},
		{"surname and given name with ё folded", "Иванов Пётр", "иванов петр", true},
		{"tokens in any order", "Иванов Пётр", "пётр иванов", true},
		{"every token required", "Иванов Пётр", "иванов сидор", false},
		{"substring of a word", "Иванов Пётр", "ван", true},
		{"case and whitespace", "  ИВАНОВ Пётр ", "  Иванов  ", true},
		{"empty name", "", "иванов", false},
		{"empty query", "Иванов Пётр", "   ", false},
		// Mark removal folds й to и as well, so both spellings match.
		{"й folds to и", "Зуйков Андрей", "зуиков", true},
		{"и matches й", "Зуиков Андрей", "зуйков", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.fullName, tt.query))
		})
	}
}

type fakeTables struct {
	tables map[string]model.Table
	calls  []string
}

func (f *fakeTables) Table(_ context.Context, day string) (model.Table, error) {
	f.calls = append(f.calls, day)
	t, ok := f.tables[day]
	if !ok {
		return model.Table{}, errors.New("no sheet for " + day)
	}
	return t, nil
}

func testColumns() Columns {
	return Columns{Name: "Организатор", Phone: "Телефон", Position: "Должность"}
}

func testLabels() Labels {
	return Labels{
		OpenEnd:    "До конца",
		EmptyQuery: "Ошибка: Введите фамилию или фамилию+имя для поиска",
		NotFound:   "Сотрудник '%s' не найден",
	}
}

func dayTable(rows ...map[string]string) model.Table {
	return model.Table{
		Columns: []string{"Организатор", "Телефон", "Должность", "10:00", "11:00", "12:00"},
		Rows:    rows,
	}
}

func TestSearch(t *testing.T) {
	src := &fakeTables{tables: map[string]model.Table{
		"четверг": dayTable(
			map[string]string{"Организатор": "Петров Иван", "10:00": "склад"},
		),
		"пятница": dayTable(
			map[string]string{"Организатор": "Иванов Пётр", "Телефон": "+7 900", "Должность": "администратор", "10:00": "вход", "11:00": "вход", "12:00": "зал"},
			map[string]string{"Организатор": "Иванова Анна", "Телефон": "+7 901", "Должность": "кассир", "10:00": "касса"},
		),
		"воскресенье": dayTable(
			map[string]string{"Организатор": "Иванов Пётр", "Телефон": "ignored", "Должность": "ignored", "12:00": "зал"},
		),
	}}
	svc := &Service{
		Tables:  src,
		Days:    []string{"четверг", "пятница", "суббота", "воскресенье"},
		Columns: testColumns(),
		Labels:  testLabels(),
	}

	rec, ok := svc.Search(context.Background(), "иванов")
	require.True(t, ok)
	assert.Equal(t, "Иванов Пётр", rec.Name)
	assert.Equal(t, "+7 900", rec.Phone)
	assert.Equal(t, "администратор", rec.Position)
	assert.Equal(t, map[string][]model.ScheduleBlock{
		"пятница": {
			{Start: "10:00", End: "12:00", Activity: "вход"},
			{Start: "12:00", Activity: "зал"},
		},
		"воскресенье": {{Start: "12:00", Activity: "зал"}},
	}, rec.Schedule)
	// The missing Saturday sheet does not stop the search.
	assert.Equal(t, svc.Days, src.calls)

	_, ok = svc.Search(context.Background(), "сидоров")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	src := &fakeTables{tables: map[string]model.Table{
		"пятница": dayTable(
			map[string]string{"Организатор": "Иванова Анна", "Телефон": "+7 901", "Должность": "кассир", "10:00": "касса", "12:00": "перерыв"},
		),
	}}
	svc := &Service{
		Tables:  src,
		Days:    []string{"четверг", "пятница"},
		Columns: testColumns(),
		Labels:  testLabels(),
	}
	ctx := context.Background()

	assert.Equal(t, "Ошибка: Введите фамилию или фамилию+имя для поиска", svc.Lookup(ctx, "  "))
	assert.Equal(t, "Сотрудник 'Сидоров' не найден", svc.Lookup(ctx, "Сидоров"))

	want := "👤 Иванова Анна\n" +
		"📞 +7 901\n" +
		"📋 кассир\n\n" +
		"📅 Пятница:\n" +
		"    10:00 - 12:00: касса\n" +
		"    12:00 - До конца: перерыв"
	assert.Equal(t, want, svc.Lookup(ctx, "Анна иванова"))
}

func TestSearchStopsOnCanceledContext(t *testing.T) {
	src := &fakeTables{tables: map[string]model.Table{}}
	svc := &Service{Tables: src, Days: []string{"четверг", "пятница"}, Columns: testColumns()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := svc.Search(ctx, "иванов")
	assert.False(t, ok)
	assert.Empty(t, src.calls)
}
