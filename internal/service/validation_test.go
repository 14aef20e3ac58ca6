package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantNil bool
		wantErr bool
	}{
		{name: "number", body: `{"billableRate": 75.5}`, want: 75.5},
		{name: "numeric string", body: `{"billableRate": "75.5"}`, want: 75.5},
		{name: "padded string", body: `{"billableRate": " 40 "}`, want: 40},
		{name: "null is absent", body: `{"billableRate": null}`, wantNil: true},
		{name: "absent", body: `{}`, wantNil: true},
		{name: "word", body: `{"billableRate": "fast"}`, wantErr: true},
		{name: "boolean", body: `{"billableRate": true}`, wantErr: true},
		{name: "NaN", body: `{"billableRate": "NaN"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in TimeEntryInput
			if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if tt.wantNil {
				if in.BillableRate != nil {
					t.Errorf("expected nil, got %+v", in.BillableRate)
				}
				return
			}
			got, err := in.BillableRate.Float()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Float failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name    string
		value   string
		loc     *time.Location
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC 3339 UTC",
			value: "2024-01-01T09:00:00Z",
			want:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "RFC 3339 with offset ignores location",
			value: "2024-01-01T09:00:00+05:30",
			loc:   time.UTC,
			want:  time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			name:  "milliseconds",
			value: "2024-01-01T09:00:00.250Z",
			want:  time.Date(2024, 1, 1, 9, 0, 0, 250_000_000, time.UTC),
		},
		{
			name:  "datetime-local in location",
			value: "2024-01-01T09:00",
			loc:   ist,
			want:  time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime-local with seconds defaults to UTC",
			value: "2024-01-01T09:00:30",
			want:  time.Date(2024, 1, 1, 9, 0, 30, 0, time.UTC),
		},
		{
			name:  "date only",
			value: "2024-01-01",
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "garbage", value: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.value, tt.loc)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromStoreError(t *testing.T) {
	svc, cleanup := setupTestServices(t, Settings{})
	defer cleanup()

	// Sub-millisecond entries collapse to zero length once stored.
	in := validEntryInput()
	in.StartTime = str("2024-01-01T09:00:00.0001Z")
	in.EndTime = str("2024-01-01T09:00:00.0002Z")

	_, err := svc.entries.Create(context.Background(), in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "End time must be after start time" {
		t.Errorf("unexpected message %q", verr.Message)
	}
}

func TestValidate_FieldLengths(t *testing.T) {
	long := strings.Repeat("a", 256)
	atLimit := strings.Repeat("é", 255)

	tests := []struct {
		name    string
		run     func() error
		wantMsg string
	}{
		{
			name: "entry client name",
			run: func() error {
				in := validEntryInput()
				in.ClientName = &long
				_, err := in.validateCreate(time.UTC)
				return err
			},
			wantMsg: "clientName must be at most 255 characters",
		},
		{
			name: "entry multibyte name at limit",
			run: func() error {
				in := validEntryInput()
				in.ClientName = &atLimit
				_, err := in.validateCreate(time.UTC)
				return err
			},
		},
		{
			name: "entry update project",
			run: func() error {
				in := TimeEntryInput{Project: &long}
				_, err := in.validateUpdate(time.UTC)
				return err
			},
			wantMsg: "project must be at most 255 characters",
		},
		{
			name: "invoice time entry id",
			run: func() error {
				in := validInvoiceInput()
				in.TimeEntryIDs = []string{strings.Repeat("x", 37)}
				_, err := in.validateCreate()
				return err
			},
			wantMsg: "timeEntryIds contains an invalid id",
		},
		{
			name: "invoice freelancer name",
			run: func() error {
				in := validInvoiceInput()
				in.FreelancerName = &long
				_, err := in.validateCreate()
				return err
			},
			wantMsg: "freelancerName must be at most 255 characters",
		},
		{
			name: "client phone",
			run: func() error {
				phone := strings.Repeat("1", 65)
				in := ClientInput{Name: str("Acme"), Phone: &phone}
				_, err := in.validateCreate()
				return err
			},
			wantMsg: "phone must be at most 64 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.wantMsg {
				t.Errorf("expected %q, got %v", tt.wantMsg, err)
			}
		})
	}
}
