package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"leetracker/internal/metrics"
	"leetracker/internal/stats"
	"leetracker/internal/utils"
)

type ProgressHandler struct {
	svc TrackerService
	agg *stats.Aggregator
}

func NewProgressHandler(svc TrackerService, agg *stats.Aggregator) *ProgressHandler {
	return &ProgressHandler{svc: svc, agg: agg}
}

// DailyHandler returns the daily log oldest first.
func (handler *ProgressHandler) DailyHandler(writer http.ResponseWriter, request *http.Request) {
	series := handler.svc.DailySeries()
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	utils.JSON(writer, http.StatusOK, series)
}

func (handler *ProgressHandler) StatsHandler(writer http.ResponseWriter, request *http.Request) {
	global := handler.agg.GlobalStats()
	metrics.SetStreak(global.CurrentStreak)
	utils.JSON(writer, http.StatusOK, global)
}

func (handler *ProgressHandler) CalendarHandler(writer http.ResponseWriter, request *http.Request) {
	weeks := stats.DefaultCalendarWeeks
	if raw := request.URL.Query().Get("weeks"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 || w > stats.MaxCalendarWeeks {
			utils.JSONError(writer, http.StatusBadRequest, "invalid_weeks",
				"weeks must be an integer between 1 and "+strconv.Itoa(stats.MaxCalendarWeeks))
			return
		}
		weeks = w
	}
	utils.JSON(writer, http.StatusOK, handler.agg.Calendar(weeks))
}
