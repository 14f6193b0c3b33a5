package models

import "time"

// DashboardSummary is the admin landing page data
type DashboardSummary struct {
	Inventory        InventoryCounts    `json:"inventory"`
	SalesThisMonth   int                `json:"sales_this_month"`
	RevenueThisMonth float64            `json:"revenue_this_month"`
	SalesByMethod    map[string]int     `json:"sales_by_method"`
	Receivables      ReceivablesSummary `json:"receivables"`
	RecentSales      []SaleResponse     `json:"recent_sales"`
	MonthlyRevenue   []MonthlyRevenue   `json:"monthly_revenue"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// InventoryCounts counts vehicles per status
type InventoryCounts struct {
	Total      int     `json:"total"`
	Available  int     `json:"available"`
	Reserved   int     `json:"reserved"`
	Sold       int     `json:"sold"`
	StockValue float64 `json:"stock_value"`
}

// ReceivablesSummary aggregates the ledgers of every open promissory sale
type ReceivablesSummary struct {
	OpenSales      int     `json:"open_sales"`
	PaidOffSales   int     `json:"paid_off_sales"`
	TotalDebt      float64 `json:"total_debt"`
	TotalPaid      float64 `json:"total_paid"`
	TotalRemaining float64 `json:"total_remaining"`
	OverdueSales   int     `json:"overdue_sales"`
}

// MonthlyRevenue is one point of the revenue chart
type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
