package domain

import "time"

// DateOnly truncates t to a calendar date at UTC midnight. Birth and death
// dates are stored in this form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextBirthday computes the next calendar anniversary of birthDate on or
// after today. A Feb 29 birthday falls on Feb 28 in non-leap years.
func NextBirthday(birthDate, today time.Time) time.Time {
	birthDate = DateOnly(birthDate)
	today = DateOnly(today)

	next := anniversary(birthDate, today.Year())
	if next.Before(today) {
		next = anniversary(birthDate, today.Year()+1)
	}
	return next
}

// AgeOn computes the age in whole years on a specific date: plain calendar
// subtraction, minus one if the (month, day) of onDate precedes the birthday.
func AgeOn(birthDate, onDate time.Time) int {
	age := onDate.Year() - birthDate.Year()
	if monthDayLess(onDate, birthDate) {
		age--
	}
	return age
}

// SameMonthDay reports whether two dates share the same calendar month and day.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// anniversary places the birthday in the given year, substituting day 28 for a
// Feb 29 birthday when the year is not a leap year. time.Date would normalize
// Feb 29 to Mar 1, so the substitution must happen before constructing it.
func anniversary(birthDate time.Time, year int) time.Time {
	month, day := birthDate.Month(), birthDate.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func monthDayLess(a, b time.Time) bool {
	if a.Month() != b.Month() {
		return a.Month() < b.Month()
	}
	return a.Day() < b.Day()
}
