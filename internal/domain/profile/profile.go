package profile

// Profile is the applicant profile as served by the profile directory.
// Read-only from this service's perspective.
type Profile struct {
	UserID            string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Location          string       `json:"location"`
	OpenToRemote      bool         `json:"openToRemote"`
	YearsOfExperience int          `json:"yearsOfExperience"`
	Skills            []Skill      `json:"skills"`
	Experience        []Experience `json:"experience"`
	Education         []Education  `json:"education"`
}

type Skill struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	ProficiencyLevel string `json:"proficiencyLevel"`
	Years            int    `json:"yearsOfExperience"`
}

type Experience struct {
	ID             string `json:"id"`
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	Location       string `json:"location"`
	IsRemote       bool   `json:"isRemote"`
	EmploymentType string `json:"employmentType"`
	Current        bool   `json:"isCurrentPosition"`
}

type Education struct {
	ID              string  `json:"id"`
	InstitutionName string  `json:"institutionName"`
	Degree          string  `json:"degree"`
	FieldOfStudy    string  `json:"fieldOfStudy"`
	Location        string  `json:"location"`
	GPA             float64 `json:"gpa"`
}
