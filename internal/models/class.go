package models

// AllBranchesID is the pseudo branch that disables branch filtering.
const AllBranchesID = "all"

// Branch represents a physical academy location.
type Branch struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Batch is a recurring class group at one branch, optionally led by a coach.
type Batch struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	BranchID string   `json:"branch_id"`
	CoachID  *string  `json:"coach_id"`
	Timing   string   `json:"timing"`
	Days     []string `json:"days"`
	Capacity int      `json:"capacity"`
	Enrolled int      `json:"enrolled"`
}

// Coach is a trainer attached to a branch.
type Coach struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BranchID       string `json:"branch_id"`
	Experience     int    `json:"experience"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	Salary         int    `json:"salary"`
}

// CoachDetail extends a coach with workload counters.
type CoachDetail struct {
	Coach
	BatchCount   int `json:"batch_count"`
	StudentCount int `json:"student_count"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
