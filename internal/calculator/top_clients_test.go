package calculator

import "testing"

func TestTopClients(t *testing.T) {
	invoicesFor := func(name string, n int, amount float64) []InvoiceForAggregation {
		out := make([]InvoiceForAggregation, n)
		for i := range out {
			out[i] = InvoiceForAggregation{ClientName: name, TotalAmount: amount}
		}
		return out
	}

	t.Run("orders by invoice count and labels unnamed group", func(t *testing.T) {
		var invoices []InvoiceForAggregation
		invoices = append(invoices, invoicesFor("Acme", 3, 100)...)
		invoices = append(invoices, invoicesFor("", 1, 50)...)
		invoices = append(invoices, invoicesFor("Beta", 5, 10.1)...)

		got := TopClients(invoices, TopClientsLimit)
		want := []ClientTotal{
			{Name: "Beta", TotalInvoices: 5, TotalAmount: 50.5},
			{Name: "Acme", TotalInvoices: 3, TotalAmount: 300},
			{Name: UnnamedClient, TotalInvoices: 1, TotalAmount: 50},
		}

		if len(got) != len(want) {
			t.Fatalf("got %d groups, want %d: %+v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("group %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		var invoices []InvoiceForAggregation
		for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
			invoices = append(invoices, invoicesFor(name, i+1, 1)...)
		}

		got := TopClients(invoices, TopClientsLimit)
		if len(got) != TopClientsLimit {
			t.Fatalf("got %d groups, want %d", len(got), TopClientsLimit)
		}
		if got[0].Name != "G" || got[4].Name != "C" {
			t.Errorf("unexpected order: %+v", got)
		}
	})

	t.Run("ties broken by amount then name", func(t *testing.T) {
		invoices := []InvoiceForAggregation{
			{ClientName: "Zed", TotalAmount: 10},
			{ClientName: "Alpha", TotalAmount: 10},
			{ClientName: "Rich", TotalAmount: 500},
		}

		got := TopClients(invoices, TopClientsLimit)
		names := []string{got[0].Name, got[1].Name, got[2].Name}
		want := []string{"Rich", "Alpha", "Zed"}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("order = %v, want %v", names, want)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := TopClients(nil, TopClientsLimit); len(got) != 0 {
			t.Errorf("expected no groups, got %+v", got)
		}
	})
}
