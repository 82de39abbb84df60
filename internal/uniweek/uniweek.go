// Package uniweek implements the University of Birmingham academic
// calendar. The university numbers everything from open days to teaching
// terms in "university weeks": week 1 is the week containing the last
// Friday of August. The mapping between university weeks and term weeks is
// fixed, so any date can be located within the academic calendar.
package uniweek

import "time"

// TermInfo locates a date within the teaching year. Term 0 means the date
// falls outside all three teaching terms; TermWeek is always 0 in that
// case.
type TermInfo struct {
	Term           int `json:"term"`
	TermWeek       int `json:"term_week"`
	UniversityWeek int `json:"university_week"`
}

// Date returns the given calendar date at midnight UTC. Every function in
// this package operates on whole days.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Weekday returns the Monday-indexed day of the week: Monday = 0 through
// Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func lastWeekdayOfAugust(year int, weekday time.Weekday) time.Time {
	d := Date(year, time.August, 31)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// WeekOne returns the Monday of week 1 for a given academic year
// (e.g. 2014 for 2014/15): four days before the last Friday of August.
func WeekOne(year int) time.Time {
	return lastWeekdayOfAugust(year, time.Friday).AddDate(0, 0, -4)
}

// AugustBankHoliday returns the date of the August bank holiday, the last
// Monday of August, for a given year.
func AugustBankHoliday(year int) time.Time {
	return lastWeekdayOfAugust(year, time.Monday)
}

// AcademicYear returns the academic year a date belongs to, labelled by the
// calendar year the academic year begins in.
func AcademicYear(t time.Time) int {
	d := dateOf(t)
	if d.Before(WeekOne(d.Year())) {
		return d.Year() - 1
	}
	return d.Year()
}

// UniversityWeek returns the university week number for a date. Week
// numbers are 1-based and have no upper bound: a late-summer date after the
// teaching year simply produces a large number.
func UniversityWeek(t time.Time) int {
	d := dateOf(t)
	days := int(d.Sub(WeekOne(AcademicYear(d))).Hours()) / 24
	return days/7 + 1
}

// DateFromUniversityWeek returns the date of a day of the week
// (Monday = 0 through Sunday = 6) in a university week of an academic
// year. It is the exact inverse of AcademicYear, UniversityWeek and
// Weekday taken together.
func DateFromUniversityWeek(academicYear, week, dayOfWeek int) time.Time {
	return WeekOne(academicYear).AddDate(0, 0, (week-1)*7+dayOfWeek)
}

// Term boundaries in university weeks.
const (
	term1Start, term1End = 5, 16
	term2Start, term2End = 21, 31
	term3Start, term3End = 36, 43
)

// TermWeek locates a date within the three teaching terms.
func TermWeek(t time.Time) TermInfo {
	uweek := UniversityWeek(t)
	switch {
	case uweek >= term1Start && uweek <= term1End:
		return TermInfo{Term: 1, TermWeek: uweek - term1Start + 1, UniversityWeek: uweek}
	case uweek >= term2Start && uweek <= term2End:
		return TermInfo{Term: 2, TermWeek: uweek - term2Start + 1, UniversityWeek: uweek}
	case uweek >= term3Start && uweek <= term3End:
		return TermInfo{Term: 3, TermWeek: uweek - term3Start + 1, UniversityWeek: uweek}
	default:
		return TermInfo{UniversityWeek: uweek}
	}
}

// TermBounds returns the first and last university week of a term.
func TermBounds(term int) (start, end int, ok bool) {
	switch term {
	case 1:
		return term1Start, term1End, true
	case 2:
		return term2Start, term2End, true
	case 3:
		return term3Start, term3End, true
	default:
		return 0, 0, false
	}
}

// FindCorrespondingDate re-projects a date onto another academic year,
// preserving its university week and day of the week. Useful for finding
// the same point in term across years, e.g. recurring deadlines.
func FindCorrespondingDate(t time.Time, academicYear int) time.Time {
	return DateFromUniversityWeek(academicYear, UniversityWeek(t), Weekday(t))
}
