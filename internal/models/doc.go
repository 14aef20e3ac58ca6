// Package models defines the core domain models for the freelance tracker.
//
// # Models
//
//   - TimeEntry: a block of tracked work for one client at a billable rate
//   - Invoice: billed totals for one client, optionally referencing entries
//   - Client: a customer record
//
// # Design Principles
//
//  1. **Soft references**: time entries and invoices refer to clients by
//     name (a plain string), never by ID. Renaming a client does not cascade.
//  2. **Stored vs derived**: only user-supplied attributes and storage
//     timestamps are persisted. Hours, amounts, durations and dashboard
//     aliases are computed on every read (see package calculator).
//  3. **Storage-agnostic**: the same structs are scanned from SQL rows and
//     decoded from BSON documents, hence the bson tags.
package models
