package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
)

// Type codes for dated pairing fields.
const (
	codeInterview = "IF"
	codeFollowUp  = "NFD"
	codeJoining   = "EDJ"
	codeAttended  = "ATND"
	codeUnknown   = "SH"
)

// remarkCodes maps a status-history remark (lowercased) to its calendar
// type code. Unknown remarks fall back to SH (status history).
var remarkCodes = map[string]string{
	"interested":        "INT",
	"not interested":    "NINT",
	"selected":          "SEL",
	"rejected":          "REJ",
	"joined":            "JND",
	"profile submitted": "PS",
	"offer released":    "OFR",
}

// CalendarService renders pairing date fields and the status timeline into
// a read-only per-day view. It never mutates either input.
type CalendarService struct {
	store store.Store
}

func NewCalendarService(store store.Store) *CalendarService {
	return &CalendarService{store: store}
}

type calendarKey struct {
	date        time.Time
	candidateID uuid.UUID
	pairingID   uuid.UUID
}

// GetCalendar merges dated events into one consolidated record per
// (date, candidate, pairing). Multiple type codes on the same key combine
// into a sorted plus-joined type with the multipleEvents flag set. An
// unbounded query covers every pairing with any dated field.
func (s *CalendarService) GetCalendar(ctx context.Context, from, to *time.Time) (*api.Calendar, error) {
	pairings, err := s.store.Pairing().List(ctx, store.NewPairingQueryFilter().WithAnyDateField())
	if err != nil {
		return nil, err
	}

	statusFilter := store.NewStatusQueryFilter()
	if from != nil {
		statusFilter = statusFilter.From(model.DateOf(*from))
	}
	if to != nil {
		statusFilter = statusFilter.To(model.DateOf(*to).Add(24*time.Hour - time.Nanosecond))
	}
	statuses, err := s.store.StatusHistory().List(ctx, statusFilter)
	if err != nil {
		return nil, err
	}

	codesByKey := make(map[calendarKey]map[string]struct{})
	addCode := func(day time.Time, candidateID, pairingID uuid.UUID, code string) {
		key := calendarKey{date: day, candidateID: candidateID, pairingID: pairingID}
		if codesByKey[key] == nil {
			codesByKey[key] = make(map[string]struct{})
		}
		codesByKey[key][code] = struct{}{}
	}

	for i := range pairings {
		p := &pairings[i]
		for _, f := range []struct {
			t    *time.Time
			code string
		}{
			{p.InterviewDate, codeInterview},
			{p.NextFollowUpDate, codeFollowUp},
			{p.ExpectedJoiningDate, codeJoining},
		} {
			if f.t == nil {
				continue
			}
			day := model.DateOf(*f.t)
			if !inRange(day, from, to) {
				continue
			}
			addCode(day, p.CandidateID, p.ID, f.code)
		}
	}

	for i := range statuses {
		e := &statuses[i]
		day := model.DateOf(e.ChangeDate)
		if !inRange(day, from, to) {
			continue
		}
		code := codeAttended
		if !e.Attended {
			code = remarkCode(e.Remark)
		}
		pairingID := uuid.Nil
		if e.PairingID != nil {
			pairingID = *e.PairingID
		}
		addCode(day, e.CandidateID, pairingID, code)
	}

	days := make(map[time.Time]*api.CalendarDay)
	totals := make(map[string]int)
	attendedSeen := make(map[time.Time]bool)

	keys := make([]calendarKey, 0, len(codesByKey))
	for key := range codesByKey {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		if keys[i].candidateID != keys[j].candidateID {
			return keys[i].candidateID.String() < keys[j].candidateID.String()
		}
		return keys[i].pairingID.String() < keys[j].pairingID.String()
	})

	for _, key := range keys {
		codes := make([]string, 0, len(codesByKey[key]))
		for code := range codesByKey[key] {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		day := days[key.date]
		if day == nil {
			day = &api.CalendarDay{
				Date:   key.date.Format("2006-01-02"),
				Counts: make(map[string]int),
			}
			days[key.date] = day
		}

		for _, code := range codes {
			if code == codeAttended {
				// attended is tallied once per date no matter how many
				// events share the day
				if attendedSeen[key.date] {
					continue
				}
				attendedSeen[key.date] = true
			}
			day.Counts[code]++
			totals[code]++
		}

		event := api.CalendarEvent{
			CandidateID:    key.candidateID,
			Type:           strings.Join(codes, "+"),
			MultipleEvents: len(codes) > 1,
		}
		if key.pairingID != uuid.Nil {
			id := key.pairingID
			event.PairingID = &id
		}
		day.Events = append(day.Events, event)
	}

	out := &api.Calendar{Totals: totals, Days: []api.CalendarDay{}}
	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, d := range dates {
		out.Days = append(out.Days, *days[d])
	}
	return out, nil
}

func remarkCode(remark string) string {
	if code, ok := remarkCodes[strings.ToLower(strings.TrimSpace(remark))]; ok {
		return code
	}
	return codeUnknown
}

func inRange(day time.Time, from, to *time.Time) bool {
	if from != nil && day.Before(model.DateOf(*from)) {
		return false
	}
	if to != nil && day.After(model.DateOf(*to)) {
		return false
	}
	return true
}
