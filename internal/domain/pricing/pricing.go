// Package pricing maps occupied days to exact minor-unit amounts using a
// season/day-type rate matrix. Pure integer arithmetic throughout so the
// same range always quotes to the same total, regardless of currency
// minor-unit count.
package pricing

import (
	"fmt"
	"time"

	"parkbook/internal/domain/booking"
)

type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// Rates holds minor-unit amounts per season and day type.
type Rates map[Season]map[DayType]int64

type Line struct {
	Date        string  `json:"date"`
	Season      Season  `json:"season"`
	DayType     DayType `json:"day_type"`
	AmountMinor int64   `json:"amount_minor"`
}

type Quote struct {
	Currency   string `json:"currency"`
	TotalMinor int64  `json:"total_minor"`
	Breakdown  []Line `json:"breakdown"`
}

type Service struct {
	currency      string
	rates         Rates
	summerMonths  map[time.Month]struct{}
	winterMonths  map[time.Month]struct{}
	defaultSeason Season
	weekendDays   map[time.Weekday]struct{}
}

func New(
	currency string,
	rates Rates,
	summerMonths, winterMonths []time.Month,
	defaultSeason Season,
	weekendDays []time.Weekday,
) (*Service, error) {
	for _, season := range []Season{SeasonSummer, SeasonWinter} {
		for _, dayType := range []DayType{DayTypeWeekday, DayTypeWeekend} {
			if _, ok := rates[season][dayType]; !ok {
				return nil, fmt.Errorf("pricing: missing rate for %s/%s", season, dayType)
			}
		}
	}
	if defaultSeason != SeasonSummer && defaultSeason != SeasonWinter {
		return nil, fmt.Errorf("pricing: unknown default season %q", defaultSeason)
	}

	s := &Service{
		currency:      currency,
		rates:         rates,
		summerMonths:  make(map[time.Month]struct{}, len(summerMonths)),
		winterMonths:  make(map[time.Month]struct{}, len(winterMonths)),
		defaultSeason: defaultSeason,
		weekendDays:   make(map[time.Weekday]struct{}, len(weekendDays)),
	}
	for _, m := range summerMonths {
		s.summerMonths[m] = struct{}{}
	}
	for _, m := range winterMonths {
		s.winterMonths[m] = struct{}{}
	}
	for _, d := range weekendDays {
		s.weekendDays[d] = struct{}{}
	}
	return s, nil
}

func (s *Service) Currency() string { return s.currency }

// Quote prices every occupied day of the range. An empty range quotes to
// zero with an empty breakdown.
func (s *Service) Quote(rng booking.DateRange) Quote {
	q := Quote{Currency: s.currency, Breakdown: []Line{}}

	for dateStr := range rng.EachOccupiedDay() {
		day, err := time.Parse(booking.DayKeyFormat, dateStr)
		if err != nil {
			// Day keys come from DateRange and always parse.
			continue
		}

		season := s.seasonForMonth(day.Month())
		dayType := DayTypeWeekday
		if _, ok := s.weekendDays[day.Weekday()]; ok {
			dayType = DayTypeWeekend
		}
		amount := s.rates[season][dayType]

		q.Breakdown = append(q.Breakdown, Line{
			Date:        dateStr,
			Season:      season,
			DayType:     dayType,
			AmountMinor: amount,
		})
		q.TotalMinor += amount
	}

	return q
}

func (s *Service) seasonForMonth(m time.Month) Season {
	if _, ok := s.summerMonths[m]; ok {
		return SeasonSummer
	}
	if _, ok := s.winterMonths[m]; ok {
		return SeasonWinter
	}
	return s.defaultSeason
}
