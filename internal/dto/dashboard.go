package dto

import "github.com/noah-isme/academy-attendance-api/internal/models"

// BranchOverview aggregates one branch for the dashboard.
type BranchOverview struct {
	BranchID      string `json:"branch_id"`
	BranchName    string `json:"branch_name"`
	TotalStudents int    `json:"total_students"`
	PresentToday  int    `json:"present_today"`
	Coaches       int    `json:"coaches"`
	Batches       int    `json:"batches"`
}

// DashboardOverview is the landing summary across branches.
type DashboardOverview struct {
	Date     models.Date      `json:"date"`
	Overall  BranchOverview   `json:"overall"`
	Branches []BranchOverview `json:"branches"`
}
