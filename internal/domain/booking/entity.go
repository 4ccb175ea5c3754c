package booking

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCancelled
}

// Booking is a parking reservation over a DateRange. Only Active
// bookings count against daily capacity; cancellation keeps the row and
// its historical day rows but clears the idempotency fingerprint so an
// identical payload may be submitted again.
type Booking struct {
	id            uuid.UUID
	reference     string
	customerName  string
	customerEmail string
	vehicleReg    string
	regNormalized string
	fromDate      time.Time
	toMoment      time.Time
	status        Status
	total         Money
	version       int32
	fingerprint   *string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewBooking(referencePrefix, customerName, customerEmail, vehicleReg string, rng DateRange, total Money) *Booking {
	fp := Fingerprint(customerEmail, vehicleReg, rng)
	return &Booking{
		id:            uuid.New(),
		reference:     newReference(referencePrefix),
		customerName:  strings.TrimSpace(customerName),
		customerEmail: NormalizeEmail(customerEmail),
		vehicleReg:    DisplayReg(vehicleReg),
		regNormalized: NormalizeReg(vehicleReg),
		fromDate:      rng.FromDate(),
		toMoment:      rng.ToMoment(),
		status:        StatusActive,
		total:         total,
		version:       1,
		fingerprint:   &fp,
	}
}

func ReconstructBooking(
	id uuid.UUID,
	reference, customerName, customerEmail, vehicleReg, regNormalized string,
	fromDate, toMoment time.Time,
	status Status,
	total Money,
	version int32,
	fingerprint *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		reference:     reference,
		customerName:  customerName,
		customerEmail: customerEmail,
		vehicleReg:    vehicleReg,
		regNormalized: regNormalized,
		fromDate:      fromDate,
		toMoment:      toMoment,
		status:        status,
		total:         total,
		version:       version,
		fingerprint:   fingerprint,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Amend replaces the window, price and optionally the customer/vehicle
// fields, bumping version by exactly 1. The fingerprint is left alone:
// idempotency protects initial submission only.
func (b *Booking) Amend(customerName, customerEmail, vehicleReg *string, rng DateRange, total Money) {
	if customerName != nil {
		b.customerName = strings.TrimSpace(*customerName)
	}
	if customerEmail != nil {
		b.customerEmail = NormalizeEmail(*customerEmail)
	}
	if vehicleReg != nil {
		b.vehicleReg = DisplayReg(*vehicleReg)
		b.regNormalized = NormalizeReg(*vehicleReg)
	}
	b.fromDate = rng.FromDate()
	b.toMoment = rng.ToMoment()
	b.total = total
	b.version++
}

// Cancel transitions to Cancelled and clears the fingerprint. Cancelling
// twice is a caller error, not a no-op.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.status = StatusCancelled
	b.fingerprint = nil
	return nil
}

func (b *Booking) IsActive() bool    { return b.status == StatusActive }
func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) Reference() string     { return b.reference }
func (b *Booking) CustomerName() string  { return b.customerName }
func (b *Booking) CustomerEmail() string { return b.customerEmail }
func (b *Booking) VehicleReg() string    { return b.vehicleReg }
func (b *Booking) RegNormalized() string { return b.regNormalized }
func (b *Booking) FromDate() time.Time   { return b.fromDate }
func (b *Booking) ToMoment() time.Time   { return b.toMoment }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) Total() Money          { return b.total }
func (b *Booking) Version() int32        { return b.version }
func (b *Booking) Fingerprint() *string  { return b.fingerprint }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// Fingerprint identifies a logically-identical submission: the same
// customer, vehicle and exact window always hash to the same value.
func Fingerprint(customerEmail, vehicleReg string, rng DateRange) string {
	payload := strings.Join([]string{
		NormalizeEmail(customerEmail),
		NormalizeReg(vehicleReg),
		rng.FromDate().Format(DayKeyFormat),
		rng.ToMoment().Format(time.RFC3339),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func newReference(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + strings.ToUpper(raw)
}
