package response

import (
	"parkbook/internal/domain/pricing"
)

type QuoteLineResponse struct {
	Date        string `json:"date"`
	Season      string `json:"season"`
	DayType     string `json:"day_type"`
	AmountMinor int64  `json:"amount_minor"`
}

type QuoteResponse struct {
	Currency   string              `json:"currency"`
	TotalMinor int64               `json:"total_minor"`
	Breakdown  []QuoteLineResponse `json:"breakdown"`
}

func FromQuote(q *pricing.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		Currency:   q.Currency,
		TotalMinor: q.TotalMinor,
		Breakdown:  make([]QuoteLineResponse, len(q.Breakdown)),
	}
	for i, line := range q.Breakdown {
		resp.Breakdown[i] = QuoteLineResponse{
			Date:        line.Date,
			Season:      string(line.Season),
			DayType:     string(line.DayType),
			AmountMinor: line.AmountMinor,
		}
	}
	return resp
}
