package models

// Portfolio holds a client's aggregate totals and its daily value history.
type Portfolio struct {
	PortfolioID         ID            `json:"portfolio_id"`
	ClientID            ID            `json:"client_id,omitempty"`
	TotalPortfolioValue Number        `json:"total_portfolio_value"`
	TotalPurchaseValue  Number        `json:"total_purchase_value"`
	ProfitLoss          Number        `json:"profit_loss"`
	PLPercent           Number        `json:"p_l_percent"`
	DailyChanges        []DailyChange `json:"daily_changes"` // chronological as delivered
}

// DailyChange is one day of portfolio value history.
type DailyChange struct {
	Date           Label  `json:"date"`
	PortfolioValue Number `json:"portfolio_value"`
	ProfitLoss     Number `json:"profit_loss"`
}

// DailyRisk is one day of risk analysis for a client.
type DailyRisk struct {
	Date         Label         `json:"date"`
	RiskAnalysis *RiskAnalysis `json:"risk_analysis,omitempty"`
}

// RiskAnalysis is the body of a DailyRisk record.
type RiskAnalysis struct {
	RiskScore     Number `json:"risk_score"`
	RiskLevel     Label  `json:"risk_level"`
	TrendAnalysis Label  `json:"trend_analysis"`
}
