package models

// Client is an advisory client as returned by /api/clients.
type Client struct {
	ClientID       ID     `json:"client_id"`
	Name           string `json:"name"`
	Age            Number `json:"age"`
	RiskTolerance  string `json:"risk_tolerance"`  // e.g. "Moderate"
	InvestmentGoal string `json:"investment_goal"` // e.g. "Retirement"
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AccountStatus  string `json:"account_status"` // e.g. "Active"
}

// SatisfactionScore is the client satisfaction badge shown on the portfolio page.
type SatisfactionScore struct {
	OverallSatisfactionScore Number `json:"overall_satisfaction_score"` // percent
	SatisfactionLevel        Label  `json:"satisfaction_level"`
}
