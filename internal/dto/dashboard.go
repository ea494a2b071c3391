package dto

// AdminDashboardResponse captures the aggregated admin dashboard payload.
type AdminDashboardResponse struct {
	Counts         DashboardCounts    `json:"counts"`
	AttendanceRate float64            `json:"attendanceRate"`
	TodaySessions  []DashboardSession `json:"todaySessions"`
}

// DashboardCounts holds the headline entity totals.
type DashboardCounts struct {
	Trainees          int `json:"trainees"`
	Coaches           int `json:"coaches"`
	Employees         int `json:"employees"`
	Branches          int `json:"branches"`
	TraineeGroups     int `json:"traineeGroups"`
	ActiveEnrollments int `json:"activeEnrollments"`
}

// DashboardSession is a simplified occurrence entry for the today panel.
type DashboardSession struct {
	ID               string `json:"id"`
	GroupName        string `json:"groupName"`
	BranchName       string `json:"branchName"`
	CoachName        string `json:"coachName"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Status           string `json:"status"`
	ExpectedTrainees int    `json:"expectedTrainees"`
}
