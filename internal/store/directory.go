package store

import (
	"strings"
	"sync"

	"github.com/noah-isme/academy-attendance-api/internal/models"
)

// Directory holds the branch, batch, coach and student reference data.
// Coaches and batches can be edited; branches and students are fixed.
type Directory struct {
	mu       sync.RWMutex
	branches []models.Branch
	batches  []models.Batch
	coaches  []models.Coach
	students []models.Student
}

// NewDirectory copies the provided reference data into a directory.
func NewDirectory(branches []models.Branch, batches []models.Batch, coaches []models.Coach, students []models.Student) *Directory {
	d := &Directory{
		branches: append([]models.Branch(nil), branches...),
		coaches:  append([]models.Coach(nil), coaches...),
		students: append([]models.Student(nil), students...),
	}
	d.batches = make([]models.Batch, len(batches))
	for i, b := range batches {
		d.batches[i] = cloneBatch(b)
	}
	return d
}

func matchesBranch(filter, branchID string) bool {
	return filter == "" || filter == models.AllBranchesID || filter == branchID
}

// Branches returns every branch in insertion order.
func (d *Directory) Branches() []models.Branch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Branch(nil), d.branches...)
}

// Branch looks up a branch by id.
func (d *Directory) Branch(id string) (models.Branch, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.branches {
		if b.ID == id {
			return b, true
		}
	}
	return models.Branch{}, false
}

// BatchesByBranch returns the batches run at a branch.
func (d *Directory) BatchesByBranch(branchID string) []models.Batch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Batch, 0)
	for _, b := range d.batches {
		if matchesBranch(branchID, b.BranchID) {
			out = append(out, cloneBatch(b))
		}
	}
	return out
}

// Batch looks up a batch by id.
func (d *Directory) Batch(id string) (models.Batch, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if idx := d.batchIndex(id); idx >= 0 {
		return cloneBatch(d.batches[idx]), true
	}
	return models.Batch{}, false
}

// Roster returns the students enrolled in a batch.
func (d *Directory) Roster(batchID string) []models.Student {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Student, 0)
	for _, s := range d.students {
		if s.BatchID == batchID {
			out = append(out, s)
		}
	}
	return out
}

// Student looks up a student by id.
func (d *Directory) Student(id string) (models.Student, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

// Students returns students matching filter. Search matches the name or phone.
// Pagination is not applied here.
func (d *Directory) Students(filter models.StudentFilter) []models.Student {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Student, 0)
	for _, s := range d.students {
		if !matchesBranch(filter.BranchID, s.BranchID) {
			continue
		}
		if filter.BatchID != "" && filter.BatchID != s.BatchID {
			continue
		}
		if filter.FeeStatus != nil && *filter.FeeStatus != s.FeeStatus {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(s.Phone, search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Coaches returns the coaches attached to a branch.
func (d *Directory) Coaches(branchID string) []models.Coach {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Coach, 0)
	for _, c := range d.coaches {
		if matchesBranch(branchID, c.BranchID) {
			out = append(out, c)
		}
	}
	return out
}

// Coach looks up a coach by id.
func (d *Directory) Coach(id string) (models.Coach, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.coaches {
		if c.ID == id {
			return c, true
		}
	}
	return models.Coach{}, false
}

// BatchesByCoach returns the batches assigned to a coach.
func (d *Directory) BatchesByCoach(coachID string) []models.Batch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Batch, 0)
	for _, b := range d.batches {
		if b.CoachID != nil && *b.CoachID == coachID {
			out = append(out, cloneBatch(b))
		}
	}
	return out
}

// UnassignedBatches returns batches without a coach.
func (d *Directory) UnassignedBatches() []models.Batch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Batch, 0)
	for _, b := range d.batches {
		if b.CoachID == nil {
			out = append(out, cloneBatch(b))
		}
	}
	return out
}

// AssignCoach sets the coach of a batch. It reports false when either id is unknown.
func (d *Directory) AssignCoach(batchID, coachID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.batchIndex(batchID)
	if idx < 0 {
		return false
	}
	known := false
	for _, c := range d.coaches {
		if c.ID == coachID {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	id := coachID
	d.batches[idx].CoachID = &id
	return true
}

// UnassignCoach clears the coach of a batch. It reports false for unknown batches.
func (d *Directory) UnassignCoach(batchID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.batchIndex(batchID)
	if idx < 0 {
		return false
	}
	d.batches[idx].CoachID = nil
	return true
}

// UpdateCoach replaces the stored coach with the same id. It reports false for unknown coaches.
func (d *Directory) UpdateCoach(coach models.Coach) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.coaches {
		if d.coaches[i].ID == coach.ID {
			d.coaches[i] = coach
			return true
		}
	}
	return false
}

// UpdateBatch replaces the stored batch with the same id. It reports false for unknown batches.
func (d *Directory) UpdateBatch(batch models.Batch) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.batchIndex(batch.ID)
	if idx < 0 {
		return false
	}
	d.batches[idx] = cloneBatch(batch)
	return true
}

func (d *Directory) batchIndex(id string) int {
	for i, b := range d.batches {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneBatch(b models.Batch) models.Batch {
	if b.CoachID != nil {
		id := *b.CoachID
		b.CoachID = &id
	}
	b.Days = append([]string(nil), b.Days...)
	return b
}
