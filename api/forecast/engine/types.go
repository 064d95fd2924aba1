package engine

import "time"

// SourceType identifies which kind of record a cash event came from.
type SourceType string

const (
	SourceInvoice  SourceType = "invoice"
	SourcePipeline SourceType = "pipeline"
	SourceProposal SourceType = "proposal"
	SourceContract SourceType = "contract"
)

// CashEvent is the canonical unit the engine works with: a dated,
// probability-weighted expected inflow derived from one source record.
type CashEvent struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	SourceType     SourceType `json:"sourceType"`
	Amount         float64    `json:"amount"`
	Probability    float64    `json:"probability"`
	WeightedAmount float64    `json:"weightedAmount"`
	ExpectedDate   time.Time  `json:"expectedDate"`
}

// --- Input snapshot ---------------------------------------------------------
//
// The flat record shapes below are the only thing the engine ever sees; the
// snapshot loader resolves joins and loose JSON into these before calling in.
// All amounts are in the tenant's single reporting currency.

type Invoice struct {
	ID         string
	Label      string
	Total      float64
	AmountPaid float64
	DueDate    *time.Time
	Status     string
	Currency   string
}

type Lead struct {
	ID             string
	Label          string
	EstimatedValue float64
	Probability    float64 // 0-100, maintained per lead in the CRM
	ExpectedClose  *time.Time
	Status         string
}

type PricingItem struct {
	Amount    *float64
	Quantity  *float64
	UnitPrice float64
}

type Proposal struct {
	ID           string
	Label        string
	PricingItems []PricingItem
	ValidUntil   *time.Time
	Status       string
	Currency     string
}

type Contract struct {
	ID        string
	Label     string
	Value     float64
	StartDate *time.Time
	EndDate   *time.Time
	Currency  string
}

type Expense struct {
	Amount   float64
	Date     time.Time
	Category string
	Status   string
}

type Payment struct {
	Amount float64
	Date   time.Time
	Status string
}

// Snapshot is a point-in-time read of one tenant's open financial records.
type Snapshot struct {
	Invoices  []Invoice
	Leads     []Lead
	Proposals []Proposal
	Contracts []Contract
	Expenses  []Expense
	Payments  []Payment
}

// --- Output document --------------------------------------------------------

// Horizon holds cumulative 30/60/90-day totals: D60 includes D30 and D90
// includes D60 (the per-source forecasts below are NOT cumulative).
type Horizon struct {
	D30 float64 `json:"d30"`
	D60 float64 `json:"d60"`
	D90 float64 `json:"d90"`
}

// SourceForecast is one source's non-cumulative window sums; Total is the
// sum of the three windows.
type SourceForecast struct {
	D30   float64 `json:"d30"`
	D60   float64 `json:"d60"`
	D90   float64 `json:"d90"`
	Total float64 `json:"total"`
}

type SourceBreakdown struct {
	Forecast SourceForecast `json:"forecast"`
	Count    int            `json:"count"`
	Items    []CashEvent    `json:"items"`
}

type ExpenseBreakdown struct {
	Forecast   SourceForecast     `json:"forecast"`
	AvgMonthly float64            `json:"avgMonthly"`
	ByCategory map[string]float64 `json:"byCategory"`
}

type Projections struct {
	Inflow  Horizon `json:"inflow"`
	Outflow Horizon `json:"outflow"`
	Net     Horizon `json:"net"`
}

type Sources struct {
	Invoices  SourceBreakdown  `json:"invoices"`
	Pipeline  SourceBreakdown  `json:"pipeline"`
	Proposals SourceBreakdown  `json:"proposals"`
	Contracts SourceBreakdown  `json:"contracts"`
	Expenses  ExpenseBreakdown `json:"expenses"`
}

type WeekEntry struct {
	Week       int     `json:"week"`
	WeekStart  string  `json:"weekStart"`
	Inflow     float64 `json:"inflow"`
	Outflow    float64 `json:"outflow"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

type MonthEntry struct {
	Month    string  `json:"month"`
	MonthKey string  `json:"monthKey"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// Document is the full forward-looking financial picture for one tenant.
type Document struct {
	Projections    Projections  `json:"projections"`
	Sources        Sources      `json:"sources"`
	WeeklyTimeline []WeekEntry  `json:"weeklyTimeline"`
	MonthlyRevenue []MonthEntry `json:"monthlyRevenue"`
}
