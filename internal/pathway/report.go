package pathway

import (
	"fmt"
	"strings"
)

// Criterion names one element of the Canadian Standard.
type Criterion string

const (
	CriterionDegree            Criterion = "degree"
	CriterionInternship        Criterion = "internship"
	CriterionMCCQE1            Criterion = "mccqe1"
	CriterionLMCC              Criterion = "lmcc"
	CriterionCFPC              Criterion = "cfpc"
	CriterionRCPSC             Criterion = "rcpsc"
	CriterionProvincialLicence Criterion = "provincialLicence"
	CriterionCMPA              Criterion = "cmpa"
)

// Element is a single evaluated criterion. Elements keep evaluation order.
type Element struct {
	Criterion Criterion `json:"criterion"`
	Status    Status    `json:"status"`
}

// Report is the gap analysis for one applicant. It is built once by
// Engine.Evaluate and not mutated afterwards.
type Report struct {
	Country    string    `json:"country"`
	Elements   []Element `json:"elements"`
	GapActions []string  `json:"gapActions"`
	Summary    string    `json:"summary"`
}

// Status returns the status recorded for the given criterion.
func (r *Report) Status(c Criterion) (Status, bool) {
	for _, el := range r.Elements {
		if el.Criterion == c {
			return el.Status, true
		}
	}
	return 0, false
}

func (r *Report) record(c Criterion, s Status) {
	r.Elements = append(r.Elements, Element{Criterion: c, Status: s})
}

func (r *Report) addAction(action string) {
	r.GapActions = append(r.GapActions, action)
}

const summaryAllClear = "• None – you meet the Canadian Standard!"

func (r *Report) buildSummary() string {
	var b strings.Builder

	b.WriteString("Credential status:\n")
	for _, el := range r.Elements {
		fmt.Fprintf(&b, "• %-18s %s\n", el.Criterion, el.Status.Glyph())
	}

	b.WriteString("\nNext required actions:\n")
	if len(r.GapActions) == 0 {
		b.WriteString(summaryAllClear)
		return b.String()
	}

	for i, action := range r.GapActions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + action)
	}

	return b.String()
}
