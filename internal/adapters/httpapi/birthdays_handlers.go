package httpapi

import (
	"net/http"
	"strconv"
)

const defaultBirthdayWindowDays = 30

func (s *Server) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	days := defaultBirthdayWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", s.Catalog.Get("invalid_input"), map[string]any{
				"days": "must be an integer",
			})
			return
		}
		days = n
	}

	upcoming, err := s.Birthdays.Upcoming(r.Context(), days)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := UpcomingBirthdaysResponse{
		Birthdays: make([]UpcomingBirthdayResponse, 0, len(upcoming)),
		Message:   s.Catalog.Get("upcoming_birthdays_retrieved"),
	}
	if len(upcoming) == 0 {
		out.Message = s.Catalog.Get("no_upcoming_birthdays")
	}
	for _, b := range upcoming {
		out.Birthdays = append(out.Birthdays, upcomingBirthdayFromDomain(b))
	}
	writeJSON(w, http.StatusOK, out)
}
