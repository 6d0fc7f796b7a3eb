package lottery

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Dataset string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: %s", e.Dataset, e.Reason)
}

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Weekday derives the short weekday name of a DD/Mon/YYYY date.
// An unknown month or a non-numeric day or year yields "".
func Weekday(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return ""
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ""
	}
	month, ok := months[strings.TrimSpace(parts[1])]
	if !ok {
		return ""
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return ""
	}
	return weekdays[time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()]
}

func NormalizeDaily(r DailyRecord) (DailyRecord, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Date = strings.TrimSpace(r.Date)
	r.LiveNumber = strings.TrimSpace(r.LiveNumber)
	r.UpdatedTime = strings.TrimSpace(r.UpdatedTime)
	r.AM = trimDraw(r.AM, AMDrawTime)
	r.PM = trimDraw(r.PM, PMDrawTime)
	r.Additional = trimAdditional(r.Additional)

	if r.Title == "" || r.Date == "" {
		return DailyRecord{}, &ValidationError{Dataset: "daily", Reason: "title and date are required"}
	}
	return r, nil
}

// NormalizeWeekly keeps the first record of every date and preserves page order.
func NormalizeWeekly(records []WeeklyRecord) ([]WeeklyRecord, error) {
	out := make([]WeeklyRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		r.Date = strings.TrimSpace(r.Date)
		r.Day = strings.TrimSpace(r.Day)
		if r.Date == "" {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		r.AM = trimDraw(r.AM, AMDrawTime)
		r.PM = trimDraw(r.PM, PMDrawTime)
		r.Additional = trimAdditional(r.Additional)
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, &ValidationError{Dataset: "weekly", Reason: "no records"}
	}
	return out, nil
}

func NormalizeThreeD(records []ThreeDRecord) ([]ThreeDRecord, error) {
	out := make([]ThreeDRecord, 0, len(records))
	for _, r := range records {
		r.Date = strings.TrimSpace(r.Date)
		r.Result = strings.TrimSpace(r.Result)
		if r.Date == "" {
			continue
		}
		r.Day = Weekday(r.Date)
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, &ValidationError{Dataset: "threeD", Reason: "no records"}
	}
	return out, nil
}

func trimDraw(d Draw, label string) Draw {
	return Draw{
		Time:   label,
		Result: strings.TrimSpace(d.Result),
		Set:    strings.TrimSpace(d.Set),
		Value:  strings.TrimSpace(d.Value),
	}
}

func trimAdditional(a Additional) Additional {
	return Additional{
		AM: Supplementary{
			Time:          AMSupplementaryTime,
			ModernValue:   strings.TrimSpace(a.AM.ModernValue),
			InternetValue: strings.TrimSpace(a.AM.InternetValue),
		},
		PM: Supplementary{
			Time:          PMSupplementaryTime,
			ModernValue:   strings.TrimSpace(a.PM.ModernValue),
			InternetValue: strings.TrimSpace(a.PM.InternetValue),
		},
	}
}

func containsLabel(s, label string) bool {
	return strings.Contains(s, label)
}
