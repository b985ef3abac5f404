package calendar

import "time"

const DateLayout = "Mon, Jan 2, 2006"

var DefaultEpoch = time.Date(1983, time.September, 1, 0, 0, 0, 0, time.UTC)

type Config struct {
	Epoch         time.Time
	SemesterWeeks int
}

type Calendar struct {
	cfg Config
}

func NewCalendar(cfg Config) Calendar {
	if cfg.Epoch.IsZero() {
		cfg.Epoch = DefaultEpoch
	}
	if cfg.SemesterWeeks <= 0 {
		cfg.SemesterWeeks = 15
	}
	y, m, d := cfg.Epoch.Date()
	cfg.Epoch = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Calendar{cfg: cfg}
}

func DefaultCalendar() Calendar {
	return NewCalendar(Config{})
}

// DateOf maps day 1 to the epoch. Days below 1 are treated as day 1.
func (c Calendar) DateOf(day int) time.Time {
	if day < 1 {
		day = 1
	}
	return c.cfg.Epoch.AddDate(0, 0, day-1)
}

func (c Calendar) Format(day int) string {
	return c.DateOf(day).Format(DateLayout)
}

func (c Calendar) Weekday(day int) time.Weekday {
	return c.DateOf(day).Weekday()
}

func (c Calendar) IsWeekend(day int) bool {
	wd := c.Weekday(day)
	return wd == time.Saturday || wd == time.Sunday
}

// Week returns the 1-based semester week for a day and whether the day still
// falls inside the semester.
func (c Calendar) Week(day int) (int, bool) {
	if day < 1 {
		day = 1
	}
	week := (day-1)/7 + 1
	return week, week <= c.cfg.SemesterWeeks
}

func FormatDate(day int) string {
	return DefaultCalendar().Format(day)
}
