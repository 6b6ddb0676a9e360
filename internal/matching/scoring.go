// Package matching scores candidate profiles against job postings.
//
// Scoring is pure: the same job and candidate always produce the same
// result, and missing data never fails a score. A factor whose comparison
// data is absent on either side gets the neutral score.
package matching

import (
	"math"
	"strconv"
	"strings"
)

// Factor weights of the overall score.
const (
	skillsWeight     = 0.30
	experienceWeight = 0.25
	educationWeight  = 0.15
	locationWeight   = 0.10
	salaryWeight     = 0.10
	industryWeight   = 0.10
)

const (
	// NeutralScore is assigned when a factor cannot be compared.
	NeutralScore = 50.0

	educationFloor     = 30.0
	fieldOfStudyBonus  = 10.0
	experienceFloor    = 20.0
	salaryFloor        = 20.0
	relocationScore    = 80.0
	locationMismatch   = 30.0
	industryMismatch   = 40.0
	highlightThreshold = 80.0
	gapThreshold       = 60.0
	maxScore           = 100.0
)

// degreeRank orders degree levels. Keys are normalized with degreeKey.
var degreeRank = map[string]int{
	"phd":        5,
	"master":     4,
	"bachelor":   3,
	"associate":  2,
	"highschool": 1,
}

// factors holds unrounded factor scores.
type factors struct {
	education, experience, skills, location, salary, industry float64
}

// overall weighs the unrounded factors. Rounding happens once, on the sum.
func (f factors) overall() float64 {
	return f.education*educationWeight +
		f.experience*experienceWeight +
		f.skills*skillsWeight +
		f.location*locationWeight +
		f.salary*salaryWeight +
		f.industry*industryWeight
}

// Compute scores one candidate against one job.
func Compute(job JobRequirement, c CandidateProfile) Result {
	var (
		f   factors
		exp Explanation
	)

	f.education, exp.Education = scoreEducation(job, c)
	f.experience, exp.Experience = scoreExperience(job, c)
	f.skills, exp.Skills = scoreSkills(job, c)
	f.location, exp.Location = scoreLocation(job, c)
	f.salary, exp.Salary = scoreSalary(job, c)
	f.industry, exp.Industry = scoreIndustry(job, c)
	exp.Overall = overallSentence

	return Result{
		Scores: Scores{
			Overall:    roundScore(f.overall()),
			Education:  roundScore(f.education),
			Experience: roundScore(f.experience),
			Skills:     roundScore(f.skills),
			Location:   roundScore(f.location),
			Salary:     roundScore(f.salary),
			Industry:   roundScore(f.industry),
		},
		Explanation: exp,
		Summary:     qualificationSummary(c),
		Highlights:  highlights(f),
		Gaps:        gaps(f),
	}
}

func scoreEducation(job JobRequirement, c CandidateProfile) (float64, string) {
	required := strings.TrimSpace(job.RequiredEducation)
	degree := strings.TrimSpace(c.HighestDegree)
	if required == "" || degree == "" {
		return NeutralScore, educationNotSpecified
	}

	requiredRank := DegreeRank(required)
	candidateRank := DegreeRank(degree)

	var (
		score float64
		text  string
	)
	if candidateRank >= requiredRank {
		score = maxScore
		text = educationMeets(degree, required)
	} else {
		// requiredRank > candidateRank >= 0 here, so the division is safe.
		score = math.Max(educationFloor, float64(candidateRank)/float64(requiredRank)*100)
		text = educationBelow(degree, required)
	}

	field := strings.TrimSpace(job.RequiredFieldOfStudy)
	study := strings.TrimSpace(c.FieldOfStudy)
	if field != "" && study != "" && containsFold(study, field) {
		score = math.Min(maxScore, score+fieldOfStudyBonus)
		text += educationFieldMatch(study)
	}

	return score, text
}

func scoreExperience(job JobRequirement, c CandidateProfile) (float64, string) {
	if job.MinExperience == nil || c.YearsOfExperience == nil {
		return NeutralScore, experienceNotSpecified
	}

	required := *job.MinExperience
	years := *c.YearsOfExperience
	if years >= required {
		return maxScore, experienceMeets(years, required)
	}
	return math.Max(experienceFloor, float64(years)/float64(required)*100), experienceBelow(years, required)
}

func scoreSkills(job JobRequirement, c CandidateProfile) (float64, string) {
	required := normalizeSkills(job.RequiredSkills)
	owned := normalizeSkills(c.Skills)
	if len(required) == 0 || len(owned) == 0 {
		return NeutralScore, skillsNotSpecified
	}

	matched := MatchSkills(required, owned)
	score := float64(len(matched)) / float64(len(required)) * 100
	return score, skillsMatched(matched, len(required))
}

// MatchSkills returns the required skills found in the candidate's skills.
// A skill matches when either string contains the other, case-insensitively,
// so "Java" also matches "JavaScript".
func MatchSkills(required, owned []string) []string {
	lowered := make([]string, 0, len(owned))
	for _, s := range owned {
		lowered = append(lowered, strings.ToLower(s))
	}

	matched := make([]string, 0, len(required))
	for _, skill := range required {
		want := strings.ToLower(skill)
		for _, have := range lowered {
			if strings.Contains(have, want) || strings.Contains(want, have) {
				matched = append(matched, skill)
				break
			}
		}
	}
	return matched
}

func scoreLocation(job JobRequirement, c CandidateProfile) (float64, string) {
	if job.IsRemote {
		return maxScore, locationRemote
	}

	location := strings.TrimSpace(job.Location)
	city := strings.TrimSpace(c.City)
	if location == "" || city == "" {
		return NeutralScore, locationNotSpecified
	}

	switch {
	case containsFold(location, city) || containsFold(city, location):
		return maxScore, locationMatch(city, location)
	case c.WillingToRelocate:
		return relocationScore, locationRelocate(city, location)
	default:
		return locationMismatch, locationMismatchText(city, location)
	}
}

func scoreSalary(job JobRequirement, c CandidateProfile) (float64, string) {
	jobMax, okJob := parseAmount(job.SalaryMax)
	candidateMin, okCandidate := parseAmount(c.MinSalaryExpectation)
	if !okJob || !okCandidate {
		return NeutralScore, salaryNotSpecified
	}

	// Currencies are not reconciled; amounts compare as raw magnitudes.
	if candidateMin <= jobMax {
		return maxScore, salaryWithin(c.SalaryCurrency, candidateMin)
	}
	// candidateMin > jobMax >= 0 here, so the division is safe.
	score := math.Max(salaryFloor, jobMax/candidateMin*100)
	return score, salaryAbove(c.SalaryCurrency, candidateMin, job.SalaryCurrency, jobMax)
}

func scoreIndustry(job JobRequirement, c CandidateProfile) (float64, string) {
	industry := strings.TrimSpace(job.Industry)
	field := strings.TrimSpace(c.FieldOfWork)
	if industry == "" || field == "" {
		return NeutralScore, industryNotSpecified
	}

	if strings.EqualFold(industry, field) {
		return maxScore, industryMatch(field, industry)
	}
	return industryMismatch, industryDiffers(field, industry)
}

func highlights(f factors) []string {
	out := make([]string, 0, 4)
	if f.skills >= highlightThreshold {
		out = append(out, HighlightSkills)
	}
	if f.experience >= highlightThreshold {
		out = append(out, HighlightExperience)
	}
	if f.education >= highlightThreshold {
		out = append(out, HighlightEducation)
	}
	if f.location >= highlightThreshold {
		out = append(out, HighlightLocation)
	}
	return out
}

func gaps(f factors) []string {
	out := make([]string, 0, 4)
	if f.skills < gapThreshold {
		out = append(out, GapSkills)
	}
	if f.experience < gapThreshold {
		out = append(out, GapExperience)
	}
	if f.education < gapThreshold {
		out = append(out, GapEducation)
	}
	if f.salary < gapThreshold {
		out = append(out, GapSalary)
	}
	return out
}

// DegreeRank maps a degree name to its rank. Case, spaces, hyphens and
// apostrophes are ignored, so "High School" and "Master's" resolve.
// Unknown degrees rank 0.
func DegreeRank(degree string) int {
	return degreeRank[degreeKey(degree)]
}

func degreeKey(degree string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(degree) {
		switch r {
		case ' ', '-', '_', '\'', '’', '.':
			continue
		}
		b.WriteRune(r)
	}
	key := b.String()
	// "masters", "bachelors" and "associates" are common spellings.
	if trimmed, ok := strings.CutSuffix(key, "s"); ok {
		if _, known := degreeRank[trimmed]; known {
			return trimmed
		}
	}
	return key
}

// normalizeSkills trims skills, drops empty entries and removes
// case-insensitive duplicates, keeping the first spelling.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// parseAmount reads a non-negative decimal string. Blank, malformed and
// negative values count as absent.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// roundScore rounds half up and clamps to [0,100].
func roundScore(v float64) int {
	r := math.Floor(v + 0.5)
	switch {
	case r < 0:
		return 0
	case r > maxScore:
		return int(maxScore)
	}
	return int(r)
}
