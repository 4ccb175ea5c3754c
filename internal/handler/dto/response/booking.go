package response

import (
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID            string `json:"id"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	VehicleReg    string `json:"vehicle_reg"`
	FromDate      string `json:"from_date"`
	ToMoment      string `json:"to_datetime"`
	Status        string `json:"status"`
	TotalMinor    int64  `json:"total_minor"`
	Currency      string `json:"currency"`
	Version       int32  `json:"version"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	_ = copier.Copy(resp, v)
	resp.ID = v.ID.String()
	resp.FromDate = v.FromDate.Format(booking.DayKeyFormat)
	resp.ToMoment = v.ToMoment.Format(time.RFC3339)
	resp.CreatedAt = v.CreatedAt.Unix()
	resp.UpdatedAt = v.UpdatedAt.Unix()
	return resp
}
