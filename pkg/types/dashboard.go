package types

// SchoolDashboardStats is the aggregate view a school sees over its own
// needs. Field names follow the public API contract (camelCase).
type SchoolDashboardStats struct {
	TotalNeeds        int `json:"totalNeeds"`
	ActiveNeeds       int `json:"activeNeeds"`
	CompletedNeeds    int `json:"completedNeeds"`
	StudentsBenefited int `json:"studentsBenefited"`
}

// CompanyDashboardStats is the aggregate view a company sees over its
// donations. TotalDonation and VolunteerHours are zero-valued stubs until
// funding amounts and volunteer tracking exist as data sources.
type CompanyDashboardStats struct {
	CompletedProjects int            `json:"completedProjects"`
	StudentsHelped    int            `json:"studentsHelped"`
	TotalDonation     int            `json:"totalDonation"`
	VolunteerHours    int            `json:"volunteerHours"`
	SDGContributions  map[string]int `json:"sdgContributions"`
}
