package calculator

import (
	"sort"
	"strconv"
	"time"
)

const (
	// RecentActivityLimit caps the merged activity feed.
	RecentActivityLimit = 5

	ActivityTimeEntry = "Time Entry"
	ActivityInvoice   = "Invoice"

	unknownClient = "Unknown Client"
)

// EntryForDashboard is the derived view of a time entry used by Summarize.
type EntryForDashboard struct {
	Hours  float64
	Client string
	Date   string // YYYY-MM-DD
}

// InvoiceForDashboard is the derived view of an invoice used by Summarize.
type InvoiceForDashboard struct {
	Amount float64
	Client string
	Status string
	Date   string // YYYY-MM-DD
}

// Activity is one item of the recent-activity feed.
type Activity struct {
	Type      string
	Detail    string
	Date      string
	Timestamp int64 // milliseconds since epoch of Date at 00:00 UTC
}

// DashboardSummary is the aggregate shown on the dashboard.
type DashboardSummary struct {
	TodayHours      float64
	WeekHours       float64
	PendingInvoices float64
	ActiveClients   int
	RecentActivity  []Activity
}

// WeekStart returns the Monday of the week containing now as YYYY-MM-DD.
// Weeks start on Monday, so a Sunday maps to the Monday six days earlier.
func WeekStart(now time.Time) string {
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7
	}
	return now.AddDate(0, 0, -(wd - 1)).Format(DateLayout)
}

// Summarize computes the dashboard figures. now must already be expressed in
// the location used to derive the entries' and invoices' dates.
func Summarize(now time.Time, entries []EntryForDashboard, invoices []InvoiceForDashboard, clientCount int, currency string) DashboardSummary {
	today := now.Format(DateLayout)
	weekStart := WeekStart(now)

	var summary DashboardSummary
	for _, e := range entries {
		if e.Date == today {
			summary.TodayHours += e.Hours
		}
		// YYYY-MM-DD compares correctly as a string.
		if e.Date >= weekStart {
			summary.WeekHours += e.Hours
		}
	}
	for _, inv := range invoices {
		if inv.Status == "pending" {
			summary.PendingInvoices += inv.Amount
		}
	}
	summary.TodayHours = Round2(summary.TodayHours)
	summary.WeekHours = Round2(summary.WeekHours)
	summary.PendingInvoices = Round2(summary.PendingInvoices)
	summary.ActiveClients = clientCount
	summary.RecentActivity = recentActivity(entries, invoices, currency)
	return summary
}

func recentActivity(entries []EntryForDashboard, invoices []InvoiceForDashboard, currency string) []Activity {
	feed := make([]Activity, 0, len(entries)+len(invoices))
	for _, e := range entries {
		feed = append(feed, Activity{
			Type:      ActivityTimeEntry,
			Detail:    formatNumber(e.Hours) + " hrs for " + clientLabel(e.Client),
			Date:      e.Date,
			Timestamp: dayTimestamp(e.Date),
		})
	}
	for _, inv := range invoices {
		feed = append(feed, Activity{
			Type:      ActivityInvoice,
			Detail:    currency + formatNumber(inv.Amount) + " for " + clientLabel(inv.Client) + " (" + inv.Status + ")",
			Date:      inv.Date,
			Timestamp: dayTimestamp(inv.Date),
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp > feed[j].Timestamp
	})
	if len(feed) > RecentActivityLimit {
		feed = feed[:RecentActivityLimit]
	}
	return feed
}

func clientLabel(name string) string {
	if name == "" {
		return unknownClient
	}
	return name
}

// formatNumber prints the shortest representation: 2.5, 250, 0.75.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dayTimestamp parses a YYYY-MM-DD date as midnight UTC. Unparseable dates
// sort last.
func dayTimestamp(date string) int64 {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
