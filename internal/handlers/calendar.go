package handlers

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/noobkia1314/SmartMind/internal/services"
)

// CalendarHandler serves a read-only iCal feed of every goal's daily tasks,
// for subscribing from an external calendar app.
type CalendarHandler struct {
	app       *services.AppService
	feedToken string
}

func NewCalendarHandler(app *services.AppService, feedToken string) *CalendarHandler {
	return &CalendarHandler{app: app, feedToken: feedToken}
}

func (handler *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if handler.feedToken == "" || r.URL.Query().Get("token") != handler.feedToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	state := handler.app.State()

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//SmartMind//SmartMind Coach//EN")
	calendar.SetXWRCalName("SmartMind Tasks")

	for _, goal := range state.Goals {
		for _, task := range goal.Tasks {
			day, err := time.Parse("2006-01-02", task.Date)
			if err != nil {
				continue
			}

			event := calendar.AddEvent(fmt.Sprintf("task-%s@smartmind", task.ID))
			summary := fmt.Sprintf("[%s] %s", task.Category, task.Title)
			if task.Completed {
				event.SetStatus(ics.ObjectStatusConfirmed)
			} else {
				event.SetStatus(ics.ObjectStatusTentative)
			}
			event.SetSummary(summary)
			event.SetDescription(goal.Title)
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
			event.SetDtStampTime(time.Now())
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=smartmind.ics")
	w.Write([]byte(calendar.Serialize()))
}
