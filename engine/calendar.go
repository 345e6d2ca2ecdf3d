package engine

import "time"

// Calendar is the market-open predicate: a pure function of wall-clock
// time against one exchange's regular session.
type Calendar struct {
	loc       *time.Location
	openMins  int // minutes after midnight, session start
	closeMins int // minutes after midnight, session end (inclusive)
}

// NewCalendar builds a weekday session calendar in the given location.
func NewCalendar(loc *time.Location, openHour, openMin, closeHour, closeMin int) Calendar {
	return Calendar{
		loc:       loc,
		openMins:  openHour*60 + openMin,
		closeMins: closeHour*60 + closeMin,
	}
}

// NYSECalendar returns the regular US equities session: Monday to Friday,
// 09:30-16:00 Eastern.
func NYSECalendar() (Calendar, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return Calendar{}, err
	}
	return NewCalendar(loc, 9, 30, 16, 0), nil
}

// IsOpen reports whether t falls inside the regular session. Both session
// boundaries count as open.
func (c Calendar) IsOpen(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := local.Hour()*60 + local.Minute()
	return mins >= c.openMins && mins <= c.closeMins
}
