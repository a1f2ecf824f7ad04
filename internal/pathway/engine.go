package pathway

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnsupportedCountry is returned when no rule set exists for the
	// applicant's country of training.
	ErrUnsupportedCountry = errors.New("no rules defined for country")
	// ErrUnknownRole is returned for roles outside gp/specialist.
	ErrUnknownRole = errors.New("unknown applicant role")
)

// Remediation steps appended to a report as gap actions. The wording is shown
// to applicants as-is.
const (
	ActionVerifyDegree      = "Verify primary medical degree"
	ActionResidencyMatch    = "Match to a Canadian residency / PRA programme"
	ActionPassMCCQE1        = "Pass MCCQE Part I"
	ActionObtainLMCC        = "Obtain LMCC (via MCCQE I + 12 mos verified PG training)"
	ActionCFPCPaperwork     = "Apply for CFPC certificate without exam"
	ActionCFPCExam          = "Sit CFPC Certification Exam"
	ActionRCPSCAssessment   = "Apply to RCPSC Approved-Jurisdiction Route"
	ActionRCPSCExam         = "Sit RCPSC Specialty Exam"
	ActionProvincialLicence = "Apply for full provincial licence (e.g., CPSBC)"
	ActionCMPACoverage      = "Purchase CMPA professional-liability coverage"
)

const (
	// LMCC requires 12 verified months regardless of the country minimum.
	lmccTrainingFloorMonths = 12
	// Foreign certs carrying this marker qualify for the CFPC exam waiver.
	gpWaiverMarker = "MRCGP"
)

type check struct {
	name string
	eval func(a Applicant, rule CountryRule, rep *Report) error
}

// Engine maps an applicant's credentials onto the Canadian Standard. The
// checks run in a fixed order so that reports and their gap actions are
// reproducible for identical input.
type Engine struct {
	logger *zap.Logger
	checks []check
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		logger: logger,
		checks: []check{
			{name: "degree", eval: evalDegree},
			{name: "internship", eval: evalInternship},
			{name: "mccqe1", eval: evalMCCQE1},
			{name: "lmcc", eval: evalLMCC},
			{name: "certification", eval: evalCertification},
			{name: "provincial_licence", eval: evalProvincialLicence},
			{name: "cmpa", eval: evalCMPA},
		},
	}
}

// Evaluate runs every check against the applicant and returns the gap
// analysis. It is pure: no state is kept between calls.
func (e *Engine) Evaluate(applicant Applicant) (*Report, error) {
	country, rule, ok := ruleFor(applicant.Country)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedCountry, applicant.Country)
	}

	report := &Report{Country: country}

	for _, c := range e.checks {
		if err := c.eval(applicant, rule, report); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	report.Summary = report.buildSummary()

	e.logger.Debug("credential evaluation completed",
		zap.String("country", country),
		zap.String("role", string(applicant.Role)),
		zap.Int("gap_actions", len(report.GapActions)),
	)

	return report, nil
}

func evalDegree(a Applicant, _ CountryRule, rep *Report) error {
	if a.DegreeVerified {
		rep.record(CriterionDegree, StatusAccepted)
		return nil
	}

	rep.record(CriterionDegree, StatusRejected)
	rep.addAction(ActionVerifyDegree)
	return nil
}

func evalInternship(a Applicant, rule CountryRule, rep *Report) error {
	if a.InternshipMonths >= rule.MinimumTrainingMonths {
		rep.record(CriterionInternship, StatusAccepted)
		return nil
	}

	rep.record(CriterionInternship, StatusRejected)
	rep.addAction(ActionResidencyMatch)
	return nil
}

func evalMCCQE1(a Applicant, _ CountryRule, rep *Report) error {
	if a.HasMCCQE1 {
		rep.record(CriterionMCCQE1, StatusAccepted)
		return nil
	}

	rep.record(CriterionMCCQE1, StatusRejected)
	rep.addAction(ActionPassMCCQE1)
	return nil
}

// evalLMCC never rejects: the licentiate is always reachable once the exam
// and training floor are met, so anything short of eligible is partial.
func evalLMCC(a Applicant, _ CountryRule, rep *Report) error {
	if a.HasMCCQE1 && a.InternshipMonths >= lmccTrainingFloorMonths {
		rep.record(CriterionLMCC, StatusAccepted)
		return nil
	}

	rep.record(CriterionLMCC, StatusPartial)
	rep.addAction(ActionObtainLMCC)
	return nil
}

func evalCertification(a Applicant, rule CountryRule, rep *Report) error {
	switch a.Role {
	case RoleGeneralPractitioner:
		evalGPCertification(a, rule, rep)
		return nil
	case RoleSpecialist:
		evalSpecialistCertification(rule, rep)
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownRole, a.Role)
	}
}

func evalGPCertification(a Applicant, rule CountryRule, rep *Report) {
	hasWaiverCert := strings.Contains(strings.ToUpper(a.ForeignSpecialtyCert), gpWaiverMarker)

	switch {
	case rule.GPExamWaiver && hasWaiverCert:
		// Eligible without the exam, but the certificate application
		// itself is still outstanding paperwork.
		rep.record(CriterionCFPC, StatusAccepted)
		rep.addAction(ActionCFPCPaperwork)
	case a.CFPCCertified:
		rep.record(CriterionCFPC, StatusAccepted)
	default:
		rep.record(CriterionCFPC, StatusRejected)
		rep.addAction(ActionCFPCExam)
	}
}

func evalSpecialistCertification(rule CountryRule, rep *Report) {
	if rule.SpecialistApprovedJurisdiction {
		rep.record(CriterionRCPSC, StatusPartial)
		rep.addAction(ActionRCPSCAssessment)
		return
	}

	rep.record(CriterionRCPSC, StatusRejected)
	rep.addAction(ActionRCPSCExam)
}

func evalProvincialLicence(a Applicant, _ CountryRule, rep *Report) error {
	if a.ProvinceLicence {
		rep.record(CriterionProvincialLicence, StatusAccepted)
		return nil
	}

	rep.record(CriterionProvincialLicence, StatusRejected)
	rep.addAction(ActionProvincialLicence)
	return nil
}

func evalCMPA(a Applicant, _ CountryRule, rep *Report) error {
	if a.CMPA {
		rep.record(CriterionCMPA, StatusAccepted)
		return nil
	}

	rep.record(CriterionCMPA, StatusRejected)
	rep.addAction(ActionCMPACoverage)
	return nil
}
