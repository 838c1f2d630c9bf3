package dto

import "github.com/noah-isme/academy-attendance-api/internal/models"

// AssignCoachRequest is the body of PUT /batches/:id/coach.
type AssignCoachRequest struct {
	CoachID string `json:"coach_id" binding:"required"`
}

// StudentList is a filtered student page together with its fee summary.
type StudentList struct {
	Students   []models.Student   `json:"students"`
	FeeSummary models.FeeSummary  `json:"fee_summary"`
	Pagination *models.Pagination `json:"-"`
}
