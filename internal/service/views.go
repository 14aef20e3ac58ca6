package service

import (
	"time"

	"github.com/harsh-0015/freelance-tracker/internal/calculator"
	"github.com/harsh-0015/freelance-tracker/internal/models"
)

// TimeEntryView is a stored time entry plus its derived fields. Derived
// fields are recomputed on every read and never persisted.
type TimeEntryView struct {
	ID           string    `json:"_id"`
	FreelancerID string    `json:"freelancerId"`
	Project      string    `json:"project"`
	ClientName   string    `json:"clientName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Description  string    `json:"description"`
	BillableRate float64   `json:"billableRate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	Client      string  `json:"client"`
	TotalAmount float64 `json:"totalAmount"`
	Duration    string  `json:"duration"`
}

// NewTimeEntryView attaches derived fields to e. Dates are taken in loc.
func NewTimeEntryView(e *models.TimeEntry, loc *time.Location) TimeEntryView {
	figures := calculator.Figures(e.StartTime, e.EndTime, e.BillableRate)
	return TimeEntryView{
		ID:           e.ID,
		FreelancerID: e.FreelancerID,
		Project:      e.Project,
		ClientName:   e.ClientName,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Description:  e.Description,
		BillableRate: e.BillableRate,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Hours:        figures.Hours,
		Date:         calculator.DateOf(e.StartTime, loc),
		Client:       e.ClientName,
		TotalAmount:  figures.TotalAmount,
		Duration:     figures.Duration,
	}
}

// InvoiceView is a stored invoice plus the fields the dashboard reads.
type InvoiceView struct {
	ID             string    `json:"_id"`
	FreelancerID   string    `json:"freelancerId"`
	FreelancerName string    `json:"freelancerName"`
	ClientName     string    `json:"clientName"`
	Project        string    `json:"project"`
	TotalHours     float64   `json:"totalHours"`
	TotalAmount    float64   `json:"totalAmount"`
	RatePerHour    *float64  `json:"ratePerHour,omitempty"`
	HoursBilled    *float64  `json:"hoursBilled,omitempty"`
	GeneratedAt    time.Time `json:"generatedAt"`
	TimeEntryIDs   []string  `json:"timeEntryIds"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// TimeEntries holds the referenced entries that still exist, in the
	// order of TimeEntryIDs.
	TimeEntries []TimeEntryView `json:"timeEntries"`

	Client string  `json:"client"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

// NewInvoiceView attaches derived fields to inv. entries are the resolved
// time entry references.
func NewInvoiceView(inv *models.Invoice, entries []*models.TimeEntry, loc *time.Location) InvoiceView {
	view := InvoiceView{
		ID:             inv.ID,
		FreelancerID:   inv.FreelancerID,
		FreelancerName: inv.FreelancerName,
		ClientName:     inv.ClientName,
		Project:        inv.Project,
		TotalHours:     inv.TotalHours,
		TotalAmount:    inv.TotalAmount,
		RatePerHour:    inv.RatePerHour,
		HoursBilled:    inv.HoursBilled,
		GeneratedAt:    inv.GeneratedAt,
		TimeEntryIDs:   inv.TimeEntryIDs,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		TimeEntries:    make([]TimeEntryView, 0, len(entries)),
		Client:         inv.ClientName,
		Amount:         inv.TotalAmount,
		Date:           calculator.DateOf(inv.GeneratedAt, loc),
		Status:         string(inv.Status),
	}
	if view.TimeEntryIDs == nil {
		view.TimeEntryIDs = []string{}
	}
	if view.Client == "" {
		view.Client = "Unknown Client"
	}
	if view.Status == "" {
		view.Status = string(models.InvoiceStatusPending)
	}
	for _, e := range entries {
		view.TimeEntries = append(view.TimeEntries, NewTimeEntryView(e, loc))
	}
	return view
}

// TopClientView is one row of the top-clients report.
type TopClientView struct {
	Name          string  `json:"name"`
	TotalInvoices int     `json:"totalInvoices"`
	TotalAmount   float64 `json:"totalAmount"`
}

// ClientView is a stored client. Clients have no derived fields.
type ClientView struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewClientView(c *models.Client) ClientView {
	return ClientView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// ActivityView is one item of the dashboard's recent-activity feed.
type ActivityView struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
	Date   string `json:"date"`
}

// DashboardView is the dashboard summary.
type DashboardView struct {
	TodayHours      float64        `json:"todayHours"`
	WeekHours       float64        `json:"weekHours"`
	PendingInvoices float64        `json:"pendingInvoices"`
	ActiveClients   int            `json:"activeClients"`
	RecentActivity  []ActivityView `json:"recentActivity"`
}
