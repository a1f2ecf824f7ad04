// Package matching scores comma-separated credential lists against job
// requirement lists. The score is the share of requirement tokens covered by
// the credentials, 0-100; candidates scoring zero are dropped from list
// results.
package matching

import (
	"fmt"
	"math"
	"strings"
)

// tokenize splits a comma-separated list into trimmed lowercase tokens.
// Blank entries are dropped, so an empty string yields no tokens.
func tokenize(s string) []string {
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// scoreAgainst compares requirement tokens with a credential set. Missing
// preserves requirement order and is nil when everything is covered.
func scoreAgainst(credentials, requirements string) (score int, missing []string, matched, total int) {
	creds := tokenize(credentials)
	reqs := tokenize(requirements)

	have := make(map[string]struct{}, len(creds))
	for _, c := range creds {
		have[c] = struct{}{}
	}

	for _, req := range reqs {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}

	total = len(reqs)
	matched = total - len(missing)
	if total == 0 {
		return 0, missing, matched, total
	}

	score = int(math.Round(float64(matched) / float64(total) * 100))
	return score, missing, matched, total
}

// MatchDoctorToJobs scores every posting against the doctor's translated
// credentials. Postings with a zero score are dropped, so the result may be
// shorter than the input.
func MatchDoctorToJobs(doctor *DoctorProfile, jobs []*JobPosting) []*JobPostingMatch {
	matches := make([]*JobPostingMatch, 0, len(jobs))
	for _, job := range jobs {
		score, missing, matched, total := scoreAgainst(doctor.TranslatedCredentials, job.Requirements)
		if score == 0 {
			continue
		}

		matches = append(matches, &JobPostingMatch{
			JobPosting:          job,
			MatchScore:          score,
			MissingRequirements: missing,
			Explanation:         fmt.Sprintf("Matched %d out of %d requirements.", matched, total),
		})
	}
	return matches
}

// MatchJobToDoctors is the symmetric direction: every doctor is scored against
// the posting's requirements.
func MatchJobToDoctors(job *JobPosting, doctors []*DoctorProfile) []*DoctorMatch {
	matches := make([]*DoctorMatch, 0, len(doctors))
	for _, doctor := range doctors {
		score, missing, matched, total := scoreAgainst(doctor.TranslatedCredentials, job.Requirements)
		if score == 0 {
			continue
		}

		matches = append(matches, &DoctorMatch{
			DoctorProfile:         doctor,
			MatchScore:            score,
			MissingQualifications: missing,
			Explanation:           fmt.Sprintf("Doctor matches %d out of %d requirements.", matched, total),
		})
	}
	return matches
}

// ExplainMatch breaks a single doctor/posting pair down into met and missing
// requirement tokens. Unlike the list variants it never filters: a zero score
// still produces an explanation.
func ExplainMatch(doctor *DoctorProfile, job *JobPosting) *MatchExplanation {
	score, missing, matched, total := scoreAgainst(doctor.TranslatedCredentials, job.Requirements)

	met := make([]string, 0, total-len(missing))
	absent := make(map[string]struct{}, len(missing))
	for _, m := range missing {
		absent[m] = struct{}{}
	}
	for _, req := range tokenize(job.Requirements) {
		if _, ok := absent[req]; !ok {
			met = append(met, req)
		}
	}

	var improvements []string
	if len(missing) > 0 {
		improvements = missing
	}
	if missing == nil {
		missing = []string{}
	}

	return &MatchExplanation{
		MatchScore:            score,
		Explanation:           fmt.Sprintf("Doctor matches %d out of %d requirements. Met: [%s]. Missing: [%s]", matched, total, displayList(met), displayList(missing)),
		MetRequirements:       met,
		MissingRequirements:   missing,
		SuggestedImprovements: improvements,
	}
}

func displayList(tokens []string) string {
	if len(tokens) == 0 {
		return "N/A"
	}
	return strings.Join(tokens, ", ")
}
