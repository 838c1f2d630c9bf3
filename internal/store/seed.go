package store

import (
	"time"

	"github.com/noah-isme/academy-attendance-api/internal/models"
)

func strPtr(s string) *string { return &s }

// DemoDirectory returns the demo academy used when seeding is enabled.
func DemoDirectory() *Directory {
	branches := []models.Branch{
		{ID: "b1", Name: "Vijay Nagar", Location: "Vijay Nagar, Indore"},
		{ID: "b2", Name: "Palasia", Location: "Palasia Square, Indore"},
		{ID: "b3", Name: "Rau", Location: "Rau, Indore"},
	}
	batches := []models.Batch{
		{ID: "batch1", Name: "Morning Beginners", BranchID: "b1", CoachID: strPtr("c1"), Timing: "6:00 AM - 7:30 AM", Days: []string{"Mon", "Wed", "Fri"}, Capacity: 20, Enrolled: 18},
		{ID: "batch2", Name: "Evening Advanced", BranchID: "b1", CoachID: strPtr("c2"), Timing: "5:00 PM - 6:30 PM", Days: []string{"Tue", "Thu", "Sat"}, Capacity: 15, Enrolled: 14},
		{ID: "batch3", Name: "Morning Intermediate", BranchID: "b2", CoachID: strPtr("c3"), Timing: "7:00 AM - 8:30 AM", Days: []string{"Mon", "Wed", "Fri"}, Capacity: 18, Enrolled: 16},
		{ID: "batch4", Name: "Evening Beginners", BranchID: "b3", CoachID: strPtr("c4"), Timing: "4:00 PM - 5:30 PM", Days: []string{"Tue", "Thu", "Sat"}, Capacity: 20, Enrolled: 19},
	}
	coaches := []models.Coach{
		{ID: "c1", Name: "Vikram Singh", BranchID: "b1", Experience: 8, Phone: "+91 98765 11111", Email: "vikram@onfit.com", Specialization: "Beginners", Salary: 35000},
		{ID: "c2", Name: "Rajesh Kumar", BranchID: "b1", Experience: 12, Phone: "+91 98765 22222", Email: "rajesh@onfit.com", Specialization: "Advanced", Salary: 45000},
		{ID: "c3", Name: "Suresh Patel", BranchID: "b2", Experience: 10, Phone: "+91 98765 33333", Email: "suresh@onfit.com", Specialization: "Intermediate", Salary: 40000},
		{ID: "c4", Name: "Mahesh Sharma", BranchID: "b3", Experience: 6, Phone: "+91 98765 44444", Email: "mahesh@onfit.com", Specialization: "Beginners", Salary: 32000},
	}
	students := []models.Student{
		{ID: "s1", Name: "Rahul Sharma", Age: 16, BranchID: "b1", BatchID: "batch1", JoiningDate: models.NewDate(2024, time.January, 15), Phone: "+91 98765 43210", Email: "rahul@example.com", FeeStatus: models.FeeStatusPaid, FeeAmount: 5000, FeePaid: 5000},
		{ID: "s2", Name: "Priya Patel", Age: 14, BranchID: "b1", BatchID: "batch1", JoiningDate: models.NewDate(2024, time.February, 10), Phone: "+91 98765 43211", Email: "priya@example.com", FeeStatus: models.FeeStatusDue, FeeAmount: 5000, FeePaid: 0},
		{ID: "s3", Name: "Amit Kumar", Age: 17, BranchID: "b1", BatchID: "batch2", JoiningDate: models.NewDate(2024, time.January, 20), Phone: "+91 98765 43212", Email: "amit@example.com", FeeStatus: models.FeeStatusPaid, FeeAmount: 5000, FeePaid: 5000},
		{ID: "s4", Name: "Sneha Singh", Age: 15, BranchID: "b2", BatchID: "batch3", JoiningDate: models.NewDate(2024, time.March, 5), Phone: "+91 98765 43213", Email: "sneha@example.com", FeeStatus: models.FeeStatusPartial, FeeAmount: 5000, FeePaid: 2500},
		{ID: "s5", Name: "Rohan Verma", Age: 16, BranchID: "b2", BatchID: "batch3", JoiningDate: models.NewDate(2024, time.February, 15), Phone: "+91 98765 43214", Email: "rohan@example.com", FeeStatus: models.FeeStatusPaid, FeeAmount: 5000, FeePaid: 5000},
		{ID: "s6", Name: "Anjali Gupta", Age: 14, BranchID: "b3", BatchID: "batch4", JoiningDate: models.NewDate(2024, time.January, 10), Phone: "+91 98765 43215", Email: "anjali@example.com", FeeStatus: models.FeeStatusDue, FeeAmount: 5000, FeePaid: 0},
	}
	return NewDirectory(branches, batches, coaches, students)
}

// DemoAttendance returns the sample marks for 2024-11-19.
func DemoAttendance() []models.AttendanceRecord {
	day := models.NewDate(2024, time.November, 19)
	return []models.AttendanceRecord{
		{ID: "a1", StudentID: "s1", Date: day, Status: models.AttendanceStatusPresent, BranchID: "b1"},
		{ID: "a2", StudentID: "s2", Date: day, Status: models.AttendanceStatusPresent, BranchID: "b1"},
		{ID: "a3", StudentID: "s3", Date: day, Status: models.AttendanceStatusPresent, BranchID: "b1"},
		{ID: "a4", StudentID: "s4", Date: day, Status: models.AttendanceStatusPresent, BranchID: "b2"},
		{ID: "a5", StudentID: "s5", Date: day, Status: models.AttendanceStatusPresent, BranchID: "b2"},
		{ID: "a6", StudentID: "s6", Date: day, Status: models.AttendanceStatusAbsent, BranchID: "b3"},
	}
}
