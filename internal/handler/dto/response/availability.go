package response

import (
	"parkbook/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type DayAvailabilityResponse struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

type AvailabilityResponse struct {
	Days             []DayAvailabilityResponse `json:"per_day"`
	AllDaysHaveSpace bool                      `json:"all_days_have_space"`
}

func FromCalendarView(v *queries.CalendarView) *AvailabilityResponse {
	resp := &AvailabilityResponse{Days: []DayAvailabilityResponse{}}
	_ = copier.Copy(resp, v)
	return resp
}
