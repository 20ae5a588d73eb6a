package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SheetConfig maps a sheet title to the URL of its CSV export.
type SheetConfig struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// SourceConfig describes where a workbook's sheets come from. Exactly one of
// Dir or Sheets is expected; Dir wins when both are set.
type SourceConfig struct {
	// Dir holds one <title>.csv file per sheet.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
	// Sheets lists remote CSV exports (e.g. a published spreadsheet).
	Sheets []SheetConfig `yaml:"sheets,omitempty" json:"sheets,omitempty"`
	// CacheDir stores HTTP bodies and ETags for remote sheets.
	CacheDir string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
}

// CalendarConfig controls calendar grid reconstruction.
type CalendarConfig struct {
	Source    SourceConfig `yaml:"source" json:"source"`
	Worksheet string       `yaml:"worksheet" json:"worksheet"`

	// Year is the calendar year every reconstructed date is placed in.
	// Zero means the current year at the time of each reconstruction, so it
	// is kept as zero on disk.
	Year int `yaml:"year" json:"year"`

	CacheTTL    time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	HorizonDays int           `yaml:"horizon_days" json:"horizon_days"`

	// Months maps upper-case month names to month numbers.
	Months map[string]int `yaml:"months" json:"months"`
	// WeekdayHeaders are the names that mark a weekday header row.
	WeekdayHeaders []string `yaml:"weekday_headers" json:"weekday_headers"`
	// ExcludeKeywords veto project-combination detection.
	ExcludeKeywords []string `yaml:"exclude_keywords" json:"exclude_keywords"`

	Labels CalendarLabels `yaml:"labels" json:"labels"`
}

// CalendarLabels holds the user-facing words of the formatted calendar.
type CalendarLabels struct {
	// Weekdays, Monday first.
	Weekdays []string `yaml:"weekdays" json:"weekdays"`
	// MonthsGenitive, January first, in the case used after a day number.
	MonthsGenitive []string `yaml:"months_genitive" json:"months_genitive"`
	Today          string   `yaml:"today" json:"today"`
	NoEvents       string   `yaml:"no_events" json:"no_events"`
	Refreshed      string   `yaml:"refreshed" json:"refreshed"`
}

// ScheduleConfig controls per-person schedule lookups.
type ScheduleConfig struct {
	Source SourceConfig `yaml:"source" json:"source"`

	// Days are the day keys searched, in display order. When DiscoverDays is
	// set they are replaced by the days found in sheet titles.
	Days         []string `yaml:"days" json:"days"`
	DiscoverDays bool     `yaml:"discover_days" json:"discover_days"`
	// DayNames is the vocabulary used for discovery, in week order.
	DayNames []string `yaml:"day_names" json:"day_names"`

	NameColumn     string `yaml:"name_column" json:"name_column"`
	PhoneColumn    string `yaml:"phone_column" json:"phone_column"`
	PositionColumn string `yaml:"position_column" json:"position_column"`

	OpenEnd    string `yaml:"open_end" json:"open_end"`
	EmptyQuery string `yaml:"empty_query" json:"empty_query"`
	// NotFound is a fmt pattern taking the query.
	NotFound string `yaml:"not_found" json:"not_found"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address used by `serve`.
	Listen string `yaml:"listen" json:"listen"`

	Timezone string `yaml:"timezone" json:"timezone"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron drives forced calendar refreshes in serve mode.
	// RefreshOff disables the background refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Calendar CalendarConfig `yaml:"calendar" json:"calendar"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`

	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// RefreshOff as the refresh schedule disables background refreshes.
const RefreshOff = "off"

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

var defaultMonths = map[string]int{
	"ЯНВАРЬ": 1, "ФЕВРАЛЬ": 2, "МАРТ": 3, "АПРЕЛЬ": 4, "МАЙ": 5, "ИЮНЬ": 6,
	"ИЮЛЬ": 7, "АВГУСТ": 8, "СЕНТЯБРЬ": 9, "ОКТЯБРЬ": 10, "НОЯБРЬ": 11, "ДЕКАБРЬ": 12,
}

var defaultWeekdays = []string{
	"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье",
}

var defaultMonthsGenitive = []string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}

	cal := &c.Calendar
	if cal.Worksheet == "" {
		cal.Worksheet = "календарь new"
	}
	if cal.Year < 0 {
		cal.Year = 0
	}
	if cal.CacheTTL <= 0 {
		cal.CacheTTL = time.Hour
	}
	if cal.HorizonDays <= 0 {
		cal.HorizonDays = 7
	}
	if len(cal.Months) == 0 {
		cal.Months = copyMonths(defaultMonths)
	}
	if cal.WeekdayHeaders == nil {
		cal.WeekdayHeaders = []string{
			"ПОНЕДЕЛЬНИК", "ВТОРНИК", "СРЕДА", "ЧЕТВЕРГ", "ПЯТНИЦА", "СУББОТА", "ВОСКРЕСЕНЬЕ",
		}
	}
	if cal.ExcludeKeywords == nil {
		cal.ExcludeKeywords = []string{"репетиция", "собрание", "концепции"}
	}
	if len(cal.Labels.Weekdays) != 7 {
		cal.Labels.Weekdays = append([]string(nil), defaultWeekdays...)
	}
	if len(cal.Labels.MonthsGenitive) != 12 {
		cal.Labels.MonthsGenitive = append([]string(nil), defaultMonthsGenitive...)
	}
	if cal.Labels.Today == "" {
		cal.Labels.Today = "сегодня"
	}
	if cal.Labels.NoEvents == "" {
		cal.Labels.NoEvents = "Событий нет"
	}
	if cal.Labels.Refreshed == "" {
		cal.Labels.Refreshed = "Календарь обновлен"
	}

	sch := &c.Schedule
	if len(sch.Days) == 0 {
		sch.Days = []string{"четверг", "пятница", "суббота", "воскресенье"}
	}
	if len(sch.DayNames) == 0 {
		sch.DayNames = append([]string(nil), defaultWeekdays...)
	}
	if sch.NameColumn == "" {
		sch.NameColumn = "Организатор"
	}
	if sch.PhoneColumn == "" {
		sch.PhoneColumn = "Телефон"
	}
	if sch.PositionColumn == "" {
		sch.PositionColumn = "Должность"
	}
	if sch.OpenEnd == "" {
		sch.OpenEnd = "До конца"
	}
	if sch.EmptyQuery == "" {
		sch.EmptyQuery = "Ошибка: Введите фамилию или фамилию+имя для поиска"
	}
	if sch.NotFound == "" {
		sch.NotFound = "Сотрудник '%s' не найден"
	}
}

func copyMonths(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// YearAt returns the fixed Year, or now's year when none is configured.
func (c CalendarConfig) YearAt(now time.Time) int {
	if c.Year > 0 {
		return c.Year
	}
	return now.Year()
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path, then applies
// environment overrides (optionally read from a .env file next to the
// working directory).
//
// Behavior:
//   - If the file does not exist: write a default config with 0600 perms
//     and return it.
//   - If the file exists: unmarshal, normalize, apply env overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()
	cfg.ApplyEnv()

	return &cfg, nil
}

// ApplyEnv overrides sources and the listen address from the environment.
//
//	CALENDAR_URL     CSV export URL of the calendar worksheet
//	SPREADSHEET_DIR  directory holding the day-sheet CSV files
//	SHEETCAL_LISTEN  HTTP listen address
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CALENDAR_URL"); v != "" {
		c.Calendar.Source.Dir = ""
		c.Calendar.Source.Sheets = []SheetConfig{{Title: c.Calendar.Worksheet, URL: v}}
	}
	if v := os.Getenv("SPREADSHEET_DIR"); v != "" {
		c.Schedule.Source.Dir = v
	}
	if v := os.Getenv("SHEETCAL_LISTEN"); v != "" {
		c.Listen = v
	}
}

// Save writes the given configuration to path atomically with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sheetcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
