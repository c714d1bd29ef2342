package domain

import "time"

// DateLayout is the ISO calendar date format accepted for dates of birth.
const DateLayout = "2006-01-02"

// Patient is a registered patient. PatientNumber is assigned by the caller.
// Age is a snapshot taken at write time and is never recomputed on read.
type Patient struct {
	PatientNumber int64
	FirstName     string
	MiddleName    string
	LastName      string
	Age           int
	DateOfBirth   time.Time
	City          string
	CategoryIDs   []int64
	// Categories is populated on reads with the enrolled categories that still exist.
	Categories []Category
	CreatedAt  time.Time
}

// AgeAt returns the number of full years elapsed between dob and now.
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// ParseDate parses an ISO calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
