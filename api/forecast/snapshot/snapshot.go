package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AgencyPulseSaas/api/forecast/engine"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Load reads one tenant's open financial records into the flat snapshot the
// engine consumes. All join/JSON unwrapping happens here so the engine only
// ever sees canonical typed rows. Historical collections use a 6-month
// lookback matching the trend window.
func Load(ctx context.Context, pool *pgxpool.Pool, orgID string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	now := time.Now().UTC()
	lookback := now.AddDate(0, -6, 0)

	invoices, err := loadInvoices(ctx, pool, orgID)
	if err != nil {
		return snap, fmt.Errorf("load invoices: %w", err)
	}
	leads, err := loadLeads(ctx, pool, orgID)
	if err != nil {
		return snap, fmt.Errorf("load leads: %w", err)
	}
	proposals, err := loadProposals(ctx, pool, orgID)
	if err != nil {
		return snap, fmt.Errorf("load proposals: %w", err)
	}
	contracts, err := loadContracts(ctx, pool, orgID)
	if err != nil {
		return snap, fmt.Errorf("load contracts: %w", err)
	}
	expenses, err := loadExpenses(ctx, pool, orgID, lookback)
	if err != nil {
		return snap, fmt.Errorf("load expenses: %w", err)
	}
	payments, err := loadPayments(ctx, pool, orgID, lookback)
	if err != nil {
		return snap, fmt.Errorf("load payments: %w", err)
	}

	snap.Invoices = invoices
	snap.Leads = leads
	snap.Proposals = proposals
	snap.Contracts = contracts
	snap.Expenses = expenses
	snap.Payments = payments
	return snap, nil
}

func loadInvoices(ctx context.Context, pool *pgxpool.Pool, orgID string) ([]engine.Invoice, error) {
	q := `
		SELECT i.invoice_id,
		       COALESCE(i.invoice_number, '') || ' ' || COALESCE(c.client_name, ''),
		       COALESCE(i.total_amount, 0)::float8,
		       COALESCE(i.amount_paid, 0)::float8,
		       i.due_date,
		       i.status,
		       COALESCE(i.currency_code, 'USD')
		FROM invoices i
		LEFT JOIN clients c ON i.client_id = c.client_id
		WHERE i.org_id = $1
		  AND i.status IN ('sent', 'viewed', 'overdue', 'partially_paid')`
	rows, err := pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Invoice
	for rows.Next() {
		var inv engine.Invoice
		if err := rows.Scan(&inv.ID, &inv.Label, &inv.Total, &inv.AmountPaid, &inv.DueDate, &inv.Status, &inv.Currency); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func loadLeads(ctx context.Context, pool *pgxpool.Pool, orgID string) ([]engine.Lead, error) {
	q := `
		SELECT l.lead_id,
		       COALESCE(l.title, ''),
		       COALESCE(l.estimated_value, 0)::float8,
		       COALESCE(l.probability, 0)::float8,
		       l.expected_close_date,
		       l.status
		FROM pipeline_leads l
		WHERE l.org_id = $1
		  AND l.status NOT IN ('won', 'lost', 'archived')`
	rows, err := pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Lead
	for rows.Next() {
		var lead engine.Lead
		if err := rows.Scan(&lead.ID, &lead.Label, &lead.EstimatedValue, &lead.Probability, &lead.ExpectedClose, &lead.Status); err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

func loadProposals(ctx context.Context, pool *pgxpool.Pool, orgID string) ([]engine.Proposal, error) {
	q := `
		SELECT p.proposal_id,
		       COALESCE(p.title, ''),
		       COALESCE(p.pricing_items, '[]'::jsonb),
		       p.valid_until,
		       p.status,
		       COALESCE(p.currency_code, 'USD')
		FROM proposals p
		WHERE p.org_id = $1
		  AND p.status IN ('sent', 'viewed')`
	rows, err := pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Proposal
	for rows.Next() {
		var prop engine.Proposal
		var rawItems []byte
		if err := rows.Scan(&prop.ID, &prop.Label, &rawItems, &prop.ValidUntil, &prop.Status, &prop.Currency); err != nil {
			return nil, err
		}
		prop.PricingItems = decodePricingItems(rawItems)
		out = append(out, prop)
	}
	return out, rows.Err()
}

// decodePricingItems unwraps the stored JSONB line items into typed rows.
// Clients store these in whatever shape their form produced, so every field
// goes through the engine's coercion helper; an unparsable blob just yields
// no items (the proposal still counts, with amount 0).
func decodePricingItems(raw []byte) []engine.PricingItem {
	if len(raw) == 0 {
		return nil
	}
	var loose []map[string]interface{}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil
	}
	items := make([]engine.PricingItem, 0, len(loose))
	for _, m := range loose {
		var item engine.PricingItem
		if v, ok := m["amount"]; ok && v != nil {
			amt := engine.ToNonNegative(v)
			item.Amount = &amt
		}
		if v, ok := m["quantity"]; ok && v != nil {
			qty := engine.ToNonNegative(v)
			item.Quantity = &qty
		}
		item.UnitPrice = engine.ToNonNegative(m["unit_price"])
		items = append(items, item)
	}
	return items
}

func loadContracts(ctx context.Context, pool *pgxpool.Pool, orgID string) ([]engine.Contract, error) {
	q := `
		SELECT ct.contract_id,
		       COALESCE(ct.title, ''),
		       COALESCE(ct.value, 0)::float8,
		       ct.start_date,
		       ct.end_date,
		       COALESCE(ct.currency_code, 'USD')
		FROM contracts ct
		WHERE ct.org_id = $1
		  AND ct.status = 'active'`
	rows, err := pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Contract
	for rows.Next() {
		var c engine.Contract
		if err := rows.Scan(&c.ID, &c.Label, &c.Value, &c.StartDate, &c.EndDate, &c.Currency); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadExpenses(ctx context.Context, pool *pgxpool.Pool, orgID string, since time.Time) ([]engine.Expense, error) {
	q := `
		SELECT COALESCE(e.amount, 0)::float8,
		       e.expense_date,
		       COALESCE(e.category, 'uncategorized'),
		       e.status
		FROM expenses e
		WHERE e.org_id = $1
		  AND e.status <> 'rejected'
		  AND e.expense_date >= $2`
	rows, err := pool.Query(ctx, q, orgID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Expense
	for rows.Next() {
		var e engine.Expense
		if err := rows.Scan(&e.Amount, &e.Date, &e.Category, &e.Status); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadPayments(ctx context.Context, pool *pgxpool.Pool, orgID string, since time.Time) ([]engine.Payment, error) {
	q := `
		SELECT COALESCE(p.amount, 0)::float8,
		       p.payment_date,
		       p.status
		FROM payments p
		WHERE p.org_id = $1
		  AND p.status = 'completed'
		  AND p.payment_date >= $2`
	rows, err := pool.Query(ctx, q, orgID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Payment
	for rows.Next() {
		var p engine.Payment
		if err := rows.Scan(&p.Amount, &p.Date, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
