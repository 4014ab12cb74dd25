package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthNames are the period month labels, January first.
var MonthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Period is a month and year pair. Nothing stops two records from sharing one.
type Period struct {
	Month string
	Year  int
}

func (p Period) String() string {
	return fmt.Sprintf("%s %04d", p.Month, p.Year)
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: MonthNames[t.Month()-1], Year: t.Year()}
}

// ParsePeriod reads labels of the form "Maret 2025".
func ParsePeriod(label string) (Period, error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return Period{}, ErrInvalidPeriod
	}
	if !isMonthName(parts[0]) {
		return Period{}, ErrInvalidPeriod
	}
	if len(parts[1]) != 4 {
		return Period{}, ErrInvalidPeriod
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1000 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: parts[0], Year: year}, nil
}

func isMonthName(name string) bool {
	for _, m := range MonthNames {
		if m == name {
			return true
		}
	}
	return false
}
