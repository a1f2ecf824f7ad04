package matching

// DoctorProfile is the business-logic view of a doctor, decoupled from how the
// store persists it. TranslatedCredentials is a comma-separated token list and
// is the only field the scorer reads.
type DoctorProfile struct {
	ID                    string `json:"id"`
	FullName              string `json:"fullName"`
	CountryOfOrigin       string `json:"countryOfOrigin"`
	Credentials           string `json:"credentials"`
	TranslatedCredentials string `json:"translatedCredentials"`
	YearsExperience       int    `json:"yearsExperience"`
	Location              string `json:"location"`
}

// JobPosting mirrors a hospital posting. Requirements is a comma-separated
// token list.
type JobPosting struct {
	ID           string `json:"id"`
	HospitalID   string `json:"hospitalId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// JobPostingMatch scores one posting against a doctor. MissingRequirements is
// nil, never empty, when everything matched.
type JobPostingMatch struct {
	JobPosting          *JobPosting `json:"jobPosting"`
	MatchScore          int         `json:"matchScore"`
	MissingRequirements []string    `json:"missingRequirements,omitempty"`
	Explanation         string      `json:"explanation,omitempty"`
}

// DoctorMatch scores one doctor against a posting.
type DoctorMatch struct {
	DoctorProfile         *DoctorProfile `json:"doctorProfile"`
	MatchScore            int            `json:"matchScore"`
	MissingQualifications []string       `json:"missingQualifications,omitempty"`
	Explanation           string         `json:"explanation,omitempty"`
}

// MatchExplanation is the single-pair breakdown returned by ExplainMatch.
type MatchExplanation struct {
	MatchScore            int      `json:"matchScore"`
	Explanation           string   `json:"explanation"`
	MetRequirements       []string `json:"metRequirements"`
	MissingRequirements   []string `json:"missingRequirements"`
	SuggestedImprovements []string `json:"suggestedImprovements,omitempty"`
}
