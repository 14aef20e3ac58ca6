package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harsh-0015/freelance-tracker/internal/models"
)

// Number is a numeric request field that accepts either a JSON number or a
// numeric string. Parsing is deferred so validation can report which field
// is malformed.
type Number struct {
	raw string
}

// NewNumber returns a Number holding f.
func NewNumber(f float64) *Number {
	return &Number{raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// NumberString returns a Number holding s as if it had been sent as a
// JSON string.
func NumberString(s string) *Number {
	return &Number{raw: strings.TrimSpace(s)}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.raw = strings.TrimSpace(s)
		return nil
	}
	n.raw = string(bytes.TrimSpace(b))
	return nil
}

func (n *Number) empty() bool {
	return n == nil || n.raw == ""
}

// Float parses the value. NaN and infinities are rejected.
func (n *Number) Float() (float64, error) {
	if n == nil {
		return 0, errors.New("missing number")
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %s", n.raw)
	}
	return f, nil
}

// Accepted input layouts for timestamps. Layouts without an offset are
// interpreted in the configured location.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses an RFC 3339 timestamp or a local date-time as sent by a
// browser datetime-local input.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Column widths of the SQL schema, in characters.
const (
	maxTextLength  = 255
	maxPhoneLength = 64
	maxIDLength    = 36
)

type lengthLimit struct {
	field string
	value *string
	max   int
}

// checkLengths rejects the first present value longer than its limit.
func checkLengths(limits ...lengthLimit) error {
	for _, l := range limits {
		if l.value != nil && utf8.RuneCountInString(*l.value) > l.max {
			return invalidf("%s must be at most %d characters", l.field, l.max)
		}
	}
	return nil
}

func (in *TimeEntryInput) checkLengths() error {
	return checkLengths(
		lengthLimit{"freelancerId", in.FreelancerID, maxTextLength},
		lengthLimit{"project", in.Project, maxTextLength},
		lengthLimit{"clientName", in.ClientName, maxTextLength},
	)
}

// TimeEntryInput is the request body for creating or updating a time
// entry. Nil fields were absent from the request.
type TimeEntryInput struct {
	FreelancerID *string `json:"freelancerId"`
	Project      *string `json:"project"`
	ClientName   *string `json:"clientName"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	Description  *string `json:"description"`
	BillableRate *Number `json:"billableRate"`
}

// validateCreate checks required fields in a fixed order and returns the
// entry to persist.
func (in *TimeEntryInput) validateCreate(loc *time.Location) (*models.TimeEntry, error) {
	switch {
	case isBlank(in.FreelancerID):
		return nil, invalidf("freelancerId is required")
	case isBlank(in.ClientName):
		return nil, invalidf("clientName is required")
	case isBlank(in.StartTime):
		return nil, invalidf("startTime is required")
	case isBlank(in.EndTime):
		return nil, invalidf("endTime is required")
	case in.BillableRate.empty():
		return nil, invalidf("billableRate is required")
	}
	if err := in.checkLengths(); err != nil {
		return nil, err
	}

	start, err := ParseTime(*in.StartTime, loc)
	if err != nil {
		return nil, invalidf("startTime is invalid")
	}
	end, err := ParseTime(*in.EndTime, loc)
	if err != nil {
		return nil, invalidf("endTime is invalid")
	}
	rate, err := parseRate(in.BillableRate)
	if err != nil {
		return nil, err
	}

	if !end.After(start) {
		return nil, &ValidationError{Message: models.ErrEndBeforeStart.Error()}
	}

	return &models.TimeEntry{
		FreelancerID: *in.FreelancerID,
		Project:      deref(in.Project),
		ClientName:   *in.ClientName,
		StartTime:    start,
		EndTime:      end,
		Description:  deref(in.Description),
		BillableRate: rate,
	}, nil
}

func parseRate(n *Number) (float64, error) {
	rate, err := n.Float()
	if err != nil {
		return 0, invalidf("billableRate must be a number")
	}
	if rate < 0 {
		return 0, invalidf("billableRate must be non-negative")
	}
	return rate, nil
}

// timeEntryPatch holds the parsed fields of a partial update.
type timeEntryPatch struct {
	freelancerID *string
	project      *string
	clientName   *string
	startTime    *time.Time
	endTime      *time.Time
	description  *string
	billableRate *float64
}

// validateUpdate checks only the fields present in the request. Required
// fields may be omitted but not blanked.
func (in *TimeEntryInput) validateUpdate(loc *time.Location) (*timeEntryPatch, error) {
	patch := &timeEntryPatch{
		freelancerID: in.FreelancerID,
		project:      in.Project,
		clientName:   in.ClientName,
		description:  in.Description,
	}

	if in.FreelancerID != nil && isBlank(in.FreelancerID) {
		return nil, invalidf("freelancerId is required")
	}
	if in.ClientName != nil && isBlank(in.ClientName) {
		return nil, invalidf("clientName is required")
	}
	if err := in.checkLengths(); err != nil {
		return nil, err
	}
	if in.StartTime != nil {
		if isBlank(in.StartTime) {
			return nil, invalidf("startTime is required")
		}
		t, err := ParseTime(*in.StartTime, loc)
		if err != nil {
			return nil, invalidf("startTime is invalid")
		}
		patch.startTime = &t
	}
	if in.EndTime != nil {
		if isBlank(in.EndTime) {
			return nil, invalidf("endTime is required")
		}
		t, err := ParseTime(*in.EndTime, loc)
		if err != nil {
			return nil, invalidf("endTime is invalid")
		}
		patch.endTime = &t
	}
	if in.BillableRate != nil {
		if in.BillableRate.empty() {
			return nil, invalidf("billableRate is required")
		}
		rate, err := parseRate(in.BillableRate)
		if err != nil {
			return nil, err
		}
		patch.billableRate = &rate
	}

	if patch.startTime != nil && patch.endTime != nil && !patch.endTime.After(*patch.startTime) {
		return nil, &ValidationError{Message: models.ErrEndBeforeStart.Error()}
	}

	return patch, nil
}

// apply merges the patch into entry.
func (p *timeEntryPatch) apply(entry *models.TimeEntry) {
	if p.freelancerID != nil {
		entry.FreelancerID = *p.freelancerID
	}
	if p.project != nil {
		entry.Project = *p.project
	}
	if p.clientName != nil {
		entry.ClientName = *p.clientName
	}
	if p.startTime != nil {
		entry.StartTime = *p.startTime
	}
	if p.endTime != nil {
		entry.EndTime = *p.endTime
	}
	if p.description != nil {
		entry.Description = *p.description
	}
	if p.billableRate != nil {
		entry.BillableRate = *p.billableRate
	}
}

// InvoiceInput is the request body for creating an invoice.
type InvoiceInput struct {
	FreelancerID   *string  `json:"freelancerId"`
	FreelancerName *string  `json:"freelancerName"`
	ClientName     *string  `json:"clientName"`
	Project        *string  `json:"project"`
	TotalHours     *Number  `json:"totalHours"`
	TotalAmount    *Number  `json:"totalAmount"`
	RatePerHour    *Number  `json:"ratePerHour"`
	HoursBilled    *Number  `json:"hoursBilled"`
	Status         *string  `json:"status"`
	TimeEntryIDs   []string `json:"timeEntryIds"`
}

var invoiceStatuses = []models.InvoiceStatus{
	models.InvoiceStatusDraft,
	models.InvoiceStatusPending,
	models.InvoiceStatusSent,
	models.InvoiceStatusPaid,
	models.InvoiceStatusOverdue,
	models.InvoiceStatusCancelled,
}

func (in *InvoiceInput) validateCreate() (*models.Invoice, error) {
	if isBlank(in.FreelancerID) {
		return nil, invalidf("freelancerId is required")
	}
	if isBlank(in.ClientName) {
		return nil, invalidf("clientName is required")
	}
	if in.TotalHours.empty() || in.TotalAmount.empty() {
		return nil, invalidf("totalHours and totalAmount are required")
	}

	hours, err := in.TotalHours.Float()
	if err != nil {
		return nil, invalidf("totalHours must be a number")
	}
	amount, err := in.TotalAmount.Float()
	if err != nil {
		return nil, invalidf("totalAmount must be a number")
	}
	if hours == 0 || amount == 0 {
		return nil, invalidf("totalHours and totalAmount are required")
	}
	if hours < 0 {
		return nil, invalidf("totalHours must be non-negative")
	}
	if amount < 0 {
		return nil, invalidf("totalAmount must be non-negative")
	}

	ratePerHour, err := optionalNonNegative(in.RatePerHour, "ratePerHour")
	if err != nil {
		return nil, err
	}
	hoursBilled, err := optionalNonNegative(in.HoursBilled, "hoursBilled")
	if err != nil {
		return nil, err
	}

	status := models.InvoiceStatusPending
	if !isBlank(in.Status) {
		status = models.InvoiceStatus(strings.TrimSpace(*in.Status))
		if !status.Valid() {
			names := make([]string, len(invoiceStatuses))
			for i, s := range invoiceStatuses {
				names[i] = string(s)
			}
			return nil, invalidf("status must be one of %s", strings.Join(names, ", "))
		}
	}

	if err := checkLengths(
		lengthLimit{"freelancerId", in.FreelancerID, maxTextLength},
		lengthLimit{"freelancerName", in.FreelancerName, maxTextLength},
		lengthLimit{"clientName", in.ClientName, maxTextLength},
		lengthLimit{"project", in.Project, maxTextLength},
	); err != nil {
		return nil, err
	}

	var entryIDs []string
	for _, id := range in.TimeEntryIDs {
		if id = strings.TrimSpace(id); id != "" {
			if utf8.RuneCountInString(id) > maxIDLength {
				return nil, invalidf("timeEntryIds contains an invalid id")
			}
			entryIDs = append(entryIDs, id)
		}
	}

	return &models.Invoice{
		FreelancerID:   *in.FreelancerID,
		FreelancerName: deref(in.FreelancerName),
		ClientName:     *in.ClientName,
		Project:        deref(in.Project),
		TotalHours:     hours,
		TotalAmount:    amount,
		RatePerHour:    ratePerHour,
		HoursBilled:    hoursBilled,
		Status:         status,
		TimeEntryIDs:   entryIDs,
	}, nil
}

func optionalNonNegative(n *Number, field string) (*float64, error) {
	if n.empty() {
		return nil, nil
	}
	f, err := n.Float()
	if err != nil {
		return nil, invalidf("%s must be a number", field)
	}
	if f < 0 {
		return nil, invalidf("%s must be non-negative", field)
	}
	return &f, nil
}

// ClientInput is the request body for creating a client.
type ClientInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (in *ClientInput) validateCreate() (*models.Client, error) {
	if isBlank(in.Name) {
		return nil, invalidf("name is required")
	}
	if err := checkLengths(
		lengthLimit{"name", in.Name, maxTextLength},
		lengthLimit{"email", in.Email, maxTextLength},
		lengthLimit{"phone", in.Phone, maxPhoneLength},
	); err != nil {
		return nil, err
	}
	return &models.Client{
		Name:    *in.Name,
		Email:   deref(in.Email),
		Phone:   deref(in.Phone),
		Address: deref(in.Address),
	}, nil
}
