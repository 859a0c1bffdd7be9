package api

import (
	"net/http"
	"time"

	"github.com/navikt/zbook/internal/analytics"
	"github.com/navikt/zbook/internal/models"
)

const (
	dateLayout = "2006-01-02"

	// DefaultMaxAnalyticsDays bounds the span of one analytics query
	DefaultMaxAnalyticsDays = 366
)

// AnalyticsHandler serves utilization analytics
type AnalyticsHandler struct {
	rooms   RoomServicer
	loc     *time.Location
	maxDays int
}

// NewAnalyticsHandler creates a handler that interprets dates in loc and
// accepts ranges of at most maxDays calendar days
func NewAnalyticsHandler(rooms RoomServicer, loc *time.Location, maxDays int) *AnalyticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxAnalyticsDays
	}
	return &AnalyticsHandler{rooms: rooms, loc: loc, maxDays: maxDays}
}

// ServeHTTP handles GET /api/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD&room=id&work_hours=HH:MM-HH:MM.
// to defaults to from; room may repeat.
func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.rooms.Analytics(r.Context(), q)
	if err != nil {
		writeServiceError(w, "analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) parseQuery(r *http.Request) (analytics.Query, error) {
	params := r.URL.Query()

	from, err := time.ParseInLocation(dateLayout, params.Get("from"), h.loc)
	if err != nil {
		return analytics.Query{}, errBadParam("from")
	}

	to := from
	if s := params.Get("to"); s != "" {
		if to, err = time.ParseInLocation(dateLayout, s, h.loc); err != nil {
			return analytics.Query{}, errBadParam("to")
		}
	}
	if to.After(from.AddDate(0, 0, h.maxDays-1)) {
		return analytics.Query{}, errBadParam("to")
	}

	q := analytics.Query{
		From:    from,
		To:      to,
		RoomIDs: params["room"],
	}

	if s := params.Get("work_hours"); s != "" {
		wh, err := models.ParseWorkHours(s)
		if err != nil || !wh.Valid() {
			return analytics.Query{}, errBadParam("work_hours")
		}
		q.WorkHours = &wh
	}

	return q, nil
}

type errBadParam string

func (e errBadParam) Error() string {
	return "invalid or missing query parameter: " + string(e)
}
