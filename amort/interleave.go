package amort

import "time"

// Interleave merges an ordered scheduled list with an ordered unscheduled
// list into a single stream ordered by date, with unscheduled entries
// preceding scheduled ones on a tied date (C3). It refuses unsorted input
// and duplicate same-source same-date entries, both as OrderingError.
func Interleave(scheduled []Amortization, unscheduled []Bare) ([]Entry, error) {
	out := make([]Entry, 0, len(scheduled)+len(unscheduled))

	i, j := 0, 0
	var lastSchedDate, lastUnschedDate time.Time
	sawSched, sawUnsched := false, false

	for i < len(scheduled) || j < len(unscheduled) {
		haveSched := i < len(scheduled)
		haveUnsched := j < len(unscheduled)

		if haveSched {
			d := scheduled[i].Date
			if sawSched {
				if d.Before(lastSchedDate) {
					return nil, &OrderingError{Message: "scheduled amortizations are not ordered by date"}
				}
				if d.Equal(lastSchedDate) {
					return nil, &OrderingError{Message: "duplicate scheduled amortization on " + d.Format("2006-01-02")}
				}
			}
		}
		if haveUnsched {
			d := unscheduled[j].Date
			if sawUnsched {
				if d.Before(lastUnschedDate) {
					return nil, &OrderingError{Message: "unscheduled cashflows are not ordered by date"}
				}
				if d.Equal(lastUnschedDate) {
					return nil, &OrderingError{Message: "duplicate unscheduled cashflow on " + d.Format("2006-01-02")}
				}
			}
		}

		switch {
		case haveSched && haveUnsched:
			sd, ud := scheduled[i].Date, unscheduled[j].Date
			if ud.After(sd) {
				out = append(out, Entry{Scheduled: &scheduled[i]})
				lastSchedDate, sawSched = sd, true
				i++
			} else {
				// Ties go to the unscheduled entry (advance payments
				// settle before scheduled installments).
				out = append(out, Entry{Unscheduled: &unscheduled[j]})
				lastUnschedDate, sawUnsched = ud, true
				j++
			}
		case haveSched:
			out = append(out, Entry{Scheduled: &scheduled[i]})
			lastSchedDate, sawSched = scheduled[i].Date, true
			i++
		case haveUnsched:
			out = append(out, Entry{Unscheduled: &unscheduled[j]})
			lastUnschedDate, sawUnsched = unscheduled[j].Date, true
			j++
		}
	}

	return out, nil
}
