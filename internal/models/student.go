package models

// FeeStatus reflects how much of the fee a student has paid.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusDue     FeeStatus = "due"
	FeeStatusPartial FeeStatus = "partial"
)

// Valid returns true when the fee status is supported.
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusPaid, FeeStatusDue, FeeStatusPartial:
		return true
	default:
		return false
	}
}

// Student represents a learner enrolled in one batch.
type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	BranchID    string    `json:"branch_id"`
	BatchID     string    `json:"batch_id"`
	JoiningDate Date      `json:"joining_date"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	FeeStatus   FeeStatus `json:"fee_status"`
	FeeAmount   int       `json:"fee_amount"`
	FeePaid     int       `json:"fee_paid"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	BranchID  string
	BatchID   string
	FeeStatus *FeeStatus
	Search    string
	Page      int
	PageSize  int
}

// FeeSummary counts students by fee status.
type FeeSummary struct {
	Total   int `json:"total"`
	Paid    int `json:"paid"`
	Due     int `json:"due"`
	Partial int `json:"partial"`
}
