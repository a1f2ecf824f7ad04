package pathway

// Role is the profession the applicant wants to be licensed for.
type Role string

const (
	RoleGeneralPractitioner Role = "gp"
	RoleSpecialist          Role = "specialist"
)

// Applicant holds the attested facts about an internationally trained doctor.
// The engine trusts these values as given; validation and coercion happen in
// whatever produced them (a form, the extraction service, a file).
type Applicant struct {
	Country              string `json:"country"`
	DegreeVerified       bool   `json:"degreeVerified"`
	InternshipMonths     int    `json:"internshipMonths"`
	HasMCCQE1            bool   `json:"hasMCCQE1"`
	Role                 Role   `json:"role"`
	ForeignSpecialtyCert string `json:"foreignSpecialtyCert,omitempty"`
	CFPCCertified        bool   `json:"cfpcCertified,omitempty"`
	ProvinceLicence      bool   `json:"provinceLicence,omitempty"`
	CMPA                 bool   `json:"cmpa,omitempty"`
}
