package httpapi

import (
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"

	"compliance-planner/internal/model"
)

const calendarProductID = "-//compliance-planner//deadlines//EN"

// deadlineCalendar serves the organization's deadlines as all-day VEVENTs.
// It accepts the same query parameters as the JSON listing.
func (h *Handler) deadlineCalendar(w http.ResponseWriter, r *http.Request) {
	in, err := listInput(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	org := organizationFrom(r.Context())
	deadlines, err := h.deadlines.List(r.Context(), org.ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cal := buildCalendar(*org, deadlines, h.now().UTC())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("deadlines-%d.ics", org.ID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}

func buildCalendar(org model.Organization, deadlines []model.Deadline, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(org.Name + " deadlines")

	for _, d := range deadlines {
		ev := cal.AddEvent(fmt.Sprintf("deadline-%d@org-%d", d.ID, org.ID))
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(d.DueDate)
		ev.SetAllDayEndAt(d.DueDate.AddDate(0, 0, 1))
		ev.SetSummary(d.Title)
		if d.Description != "" {
			ev.SetDescription(d.Description)
		}
		if d.Status == model.StatusCompleted {
			ev.SetProperty(ical.ComponentPropertyCategories, "COMPLETED")
		}
		if d.RecurrenceGroupID != "" {
			ev.SetProperty(ical.ComponentProperty("X-RECURRENCE-GROUP"), d.RecurrenceGroupID)
		}
	}
	return cal
}
