package closures

import (
	"time"

	"github.com/metmat-canvas-bot/internal/uniweek"
)

// BankHolidays returns the English bank holidays for a calendar year,
// keyed by date. Holidays falling on a weekend are observed on the next
// free weekday, which is why the published closure list shows 2023-01-02
// for New Year's Day.
func BankHolidays(year int) map[time.Time]string {
	holidays := make(map[time.Time]string)

	observe(holidays, uniweek.Date(year, time.January, 1), "New Year's Day")

	easter := easterSunday(year)
	holidays[easter.AddDate(0, 0, -2)] = "Good Friday"
	holidays[easter.AddDate(0, 0, 1)] = "Easter Monday"

	holidays[firstMondayOfMay(year)] = "Early May Bank Holiday"
	holidays[lastMondayOfMay(year)] = "Spring Bank Holiday"
	holidays[uniweek.AugustBankHoliday(year)] = "Summer Bank Holiday"

	observe(holidays, uniweek.Date(year, time.December, 25), "Christmas Day")
	observe(holidays, uniweek.Date(year, time.December, 26), "Boxing Day")

	return holidays
}

// observe records a holiday on its own date, or on the next weekday not
// already taken when it falls on a weekend.
func observe(holidays map[time.Time]string, d time.Time, name string) {
	for {
		_, taken := holidays[d]
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday && !taken {
			holidays[d] = name
			return
		}
		d = d.AddDate(0, 0, 1)
	}
}

func firstMondayOfMay(year int) time.Time {
	d := uniweek.Date(year, time.May, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func lastMondayOfMay(year int) time.Time {
	d := uniweek.Date(year, time.May, 31)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easterSunday computes Easter Sunday with the Meeus/Jones/Butcher
// algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return uniweek.Date(year, time.Month(month), day)
}
