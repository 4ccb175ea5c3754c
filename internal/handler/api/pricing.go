package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "parkbook/internal/handler/dto/request"
	resdto "parkbook/internal/handler/dto/response"
	"parkbook/internal/handler/httperr"
	"parkbook/internal/pkg/clock"
	"parkbook/internal/pkg/config"
	"parkbook/internal/pkg/errs"
	"parkbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricingQueries queries.PricingQueries
	cfg            config.BookingConfig
	loc            *time.Location
	clock          clock.Clock
}

func NewPricingHandler(
	pricingQueries queries.PricingQueries,
	cfg config.BookingConfig,
	loc *time.Location,
	clk clock.Clock,
) *PricingHandler {
	return &PricingHandler{
		pricingQueries: pricingQueries,
		cfg:            cfg,
		loc:            loc,
		clock:          clk,
	}
}

// @Summary Price quote
// @Description Quote a window of days with a per-day breakdown
// @Tags pricing
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Checkout moment (RFC3339)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /price [get]
func (h *PricingHandler) GetQuote(c *gin.Context) {
	var q reqdto.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Missing from/to query parameters", nil)
		return
	}

	from, to, err := q.Window(h.clock.Now(), h.loc, h.cfg)
	if err != nil {
		abortQueryWindowError(c, err)
		return
	}

	quote, err := h.pricingQueries.Quote(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRange) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}
