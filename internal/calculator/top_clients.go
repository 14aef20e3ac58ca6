package calculator

import "sort"

const (
	// TopClientsLimit is the number of groups returned by TopClients.
	TopClientsLimit = 5

	// UnnamedClient labels invoices that carry no client name.
	UnnamedClient = "Unnamed Client"
)

// InvoiceForAggregation is the minimal invoice view needed for grouping.
type InvoiceForAggregation struct {
	ClientName  string
	TotalAmount float64
}

// ClientTotal summarizes all invoices of one client.
type ClientTotal struct {
	Name          string
	TotalInvoices int
	TotalAmount   float64
}

// TopClients groups invoices by client name and returns the limit groups
// with the most invoices.
//
// An empty client name forms its own group, labelled UnnamedClient. Groups
// with equal counts are ordered by total amount (descending), then by name.
func TopClients(invoices []InvoiceForAggregation, limit int) []ClientTotal {
	groups := make(map[string]*ClientTotal)
	for _, inv := range invoices {
		g, ok := groups[inv.ClientName]
		if !ok {
			name := inv.ClientName
			if name == "" {
				name = UnnamedClient
			}
			g = &ClientTotal{Name: name}
			groups[inv.ClientName] = g
		}
		g.TotalInvoices++
		g.TotalAmount += inv.TotalAmount
	}

	totals := make([]ClientTotal, 0, len(groups))
	for _, g := range groups {
		g.TotalAmount = Round2(g.TotalAmount)
		totals = append(totals, *g)
	}

	sort.Slice(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if a.TotalInvoices != b.TotalInvoices {
			return a.TotalInvoices > b.TotalInvoices
		}
		if a.TotalAmount != b.TotalAmount {
			return a.TotalAmount > b.TotalAmount
		}
		return a.Name < b.Name
	})

	if limit >= 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}
