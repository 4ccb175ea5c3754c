//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"parkbook/internal/handler/dto/response"
	"parkbook/tests/common/dbtest"
	"parkbook/tests/common/httptest"
	"parkbook/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const bookingsURL = "/api/v1/bookings"

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

// day returns a day key n days from now, far enough out to stay clear
// of the "from today" floor in any timezone.
func day(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}

// checkout returns an RFC3339 checkout moment at 11:00 on the given day offset.
func checkout(n int) string {
	d := time.Now().UTC().AddDate(0, 0, n)
	return time.Date(d.Year(), d.Month(), d.Day(), 11, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func bookingPayload(email, reg string, fromOffset, toOffset int) map[string]any {
	return map[string]any{
		"customer_name":  "Alex Smith",
		"customer_email": email,
		"vehicle_reg":    reg,
		"from_date":      day(fromOffset),
		"to_datetime":    checkout(toOffset),
	}
}

func (s *BookingSuite) TestCreateBooking() {
	s.Run("creates an active booking with a reference and quote", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("alex@example.com", "AB12 CDE", 10, 13))

		var resp response.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		require.NotEmpty(s.T(), resp.ID)
		require.Regexp(s.T(), "^BK-[0-9A-F]{32}$", resp.Reference)
		require.Equal(s.T(), "active", resp.Status)
		require.Equal(s.T(), int32(1), resp.Version)
		require.Equal(s.T(), "AB12 CDE", resp.VehicleReg)
		require.Equal(s.T(), day(10), resp.FromDate)
		require.Positive(s.T(), resp.TotalMinor)
		require.Equal(s.T(), "GBP", resp.Currency)
	})

	s.Run("charges the same total the price endpoint quotes", func() {
		priceURL := fmt.Sprintf("/api/v1/price?from=%s&to=%s", day(10), checkout(13))
		var quote response.QuoteResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, priceURL, nil)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &quote)
		require.Len(s.T(), quote.Breakdown, 3)

		var resp response.BookingResponse
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("quote@example.com", "QT11 AAA", 10, 13))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		require.Equal(s.T(), quote.TotalMinor, resp.TotalMinor)
	})

	s.Run("rejects a window that ends before it starts", func() {
		payload := bookingPayload("alex@example.com", "AB12 CDE", 10, 10)
		payload["to_datetime"] = day(10) + "T00:00:00Z"
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.Run("rejects a window starting in the past", func() {
		payload := bookingPayload("alex@example.com", "AB12 CDE", -2, 2)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})

	s.Run("rejects a stay longer than the maximum", func() {
		payload := bookingPayload("alex@example.com", "AB12 CDE", 10, 30)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "maximum")
	})

	s.Run("rejects a start beyond the booking horizon", func() {
		payload := bookingPayload("alex@example.com", "AB12 CDE", 400, 402)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})

	s.Run("rejects a malformed vehicle registration", func() {
		payload := bookingPayload("alex@example.com", "???!!!", 10, 12)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "registration")
	})
}

func (s *BookingSuite) TestGetBooking() {
	s.Run("returns the booking by id", func() {
		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("get@example.com", "GT11 AAA", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		var fetched response.BookingResponse
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, bookingsURL+"/"+created.ID, nil)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &fetched)
		require.Equal(s.T(), created.Reference, fetched.Reference)
	})

	s.Run("returns 404 for an unknown id", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			bookingsURL+"/a3bb189e-8bf9-3888-9912-ace4e6543002", nil)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})

	s.Run("returns 400 for a malformed id", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, bookingsURL+"/not-a-uuid", nil)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})
}

func (s *BookingSuite) TestDuplicateSubmission() {
	s.Run("rejects an identical replay and accepts it again after cancel", func() {
		payload := bookingPayload("dup@example.com", "DP11 AAA", 10, 12)

		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already submitted")

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, bookingsURL+"/"+created.ID, nil)
		require.Equal(s.T(), http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)
	})

	s.Run("treats registration spacing and case as the same submission", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("dup2@example.com", "ab12cde", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("DUP2@EXAMPLE.COM", "AB12 CDE", 10, 12))
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})
}

func (s *BookingSuite) TestVehicleOverlap() {
	s.Run("rejects an overlapping window for the same vehicle", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("one@example.com", "OV11 AAA", 10, 14))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("two@example.com", "ov11aaa", 12, 16))
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "overlapping")
	})

	s.Run("a same-day pick-up and drop-off for the same vehicle conflict", func() {
		// Checkout at 11:00 on day 12 still overlaps a window starting at
		// midnight on day 12: the half-open intervals share the morning.
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("one@example.com", "BB11 AAA", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("one@example.com", "BB11 AAA", 12, 14))
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "overlapping")
	})

	s.Run("allows touching windows for the same vehicle", func() {
		// A midnight checkout touching the next window's start does not overlap.
		payload := bookingPayload("one@example.com", "TT11 AAA", 10, 12)
		payload["to_datetime"] = day(12) + "T00:00:00Z"
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("one@example.com", "TT11 AAA", 12, 14))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)
	})

	s.Run("different vehicles with the same window do not conflict", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("one@example.com", "DV11 AAA", 10, 13))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("two@example.com", "DV22 BBB", 10, 13))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)
	})
}

func (s *BookingSuite) TestCapacity() {
	s.Run("rejects a booking when a day is full and frees it on cancel", func() {
		dbtest.SetDayCapacity(s.T(), s.DB, day(10), 1)

		var first response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("cap1@example.com", "CP11 AAA", 10, 11))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &first)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("cap2@example.com", "CP22 BBB", 10, 11))
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "No spaces")

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, bookingsURL+"/"+first.ID, nil)
		require.Equal(s.T(), http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("cap2@example.com", "CP22 BBB", 10, 11))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)
	})

	s.Run("never oversells a day under concurrent submissions", func() {
		dbtest.SetDayCapacity(s.T(), s.DB, day(20), 2)

		const attempts = 5
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				payload := bookingPayload(
					fmt.Sprintf("rush%d@example.com", i),
					fmt.Sprintf("RS%02d AAA", i),
					20, 21)
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, payload)
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created, conflicted := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		require.Equal(s.T(), 2, created, "exactly capacity bookings must win")
		require.Equal(s.T(), attempts-2, conflicted)
	})
}

func (s *BookingSuite) TestAmendBooking() {
	s.Run("amends the window and bumps the version", func() {
		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("amend@example.com", "AM11 AAA", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		var amended response.BookingResponse
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPut, bookingsURL+"/"+created.ID,
			map[string]any{
				"from_date":   day(11),
				"to_datetime": checkout(14),
			})
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &amended)
		require.Equal(s.T(), int32(2), amended.Version)
		require.Equal(s.T(), day(11), amended.FromDate)
		require.Equal(s.T(), created.Reference, amended.Reference)
	})

	s.Run("ignores the booking's own days when re-checking capacity", func() {
		dbtest.SetDayCapacity(s.T(), s.DB, day(10), 1)
		dbtest.SetDayCapacity(s.T(), s.DB, day(11), 1)

		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("self@example.com", "SF11 AAA", 10, 11))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		// Extending over its own occupied day must not count itself.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPut, bookingsURL+"/"+created.ID,
			map[string]any{
				"from_date":   day(10),
				"to_datetime": checkout(12),
			})
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("rejects amending a cancelled booking", func() {
		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("gone@example.com", "GN11 AAA", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, bookingsURL+"/"+created.ID, nil)
		require.Equal(s.T(), http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPut, bookingsURL+"/"+created.ID,
			map[string]any{
				"from_date":   day(11),
				"to_datetime": checkout(13),
			})
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "Cancelled")
	})

	s.Run("returns 404 for an unknown booking", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPut,
			bookingsURL+"/a3bb189e-8bf9-3888-9912-ace4e6543002",
			map[string]any{
				"from_date":   day(11),
				"to_datetime": checkout(13),
			})
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})
}

func (s *BookingSuite) TestCancelBooking() {
	s.Run("cancels once and rejects a second cancel", func() {
		var created response.BookingResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			bookingPayload("cxl@example.com", "CX11 AAA", 10, 12))
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &created)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, bookingsURL+"/"+created.ID, nil)
		require.Equal(s.T(), http.StatusNoContent, w.Code)

		var fetched response.BookingResponse
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, bookingsURL+"/"+created.ID, nil)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &fetched)
		require.Equal(s.T(), "cancelled", fetched.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, bookingsURL+"/"+created.ID, nil)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already cancelled")
	})
}
