package matching

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const overallSentence = "Overall match score based on weighted criteria: " +
	"Skills (30%), Experience (25%), Education (15%), Location (10%), Salary (10%), Industry (10%)."

const (
	educationNotSpecified  = "No education requirements specified."
	experienceNotSpecified = "No experience requirements specified."
	skillsNotSpecified     = "No skills requirements specified."
	locationNotSpecified   = "No location requirements specified."
	locationRemote         = "Job is remote, location is flexible."
	salaryNotSpecified     = "No salary information available."
	industryNotSpecified   = "No industry requirements specified."
)

// Highlights are emitted for factors scoring at least 80.
const (
	HighlightSkills     = "Strong skill match with job requirements"
	HighlightExperience = "Meets or exceeds experience requirements"
	HighlightEducation  = "Education qualifications align well"
	HighlightLocation   = "Location is compatible"
)

// Gaps are emitted for factors scoring below 60.
const (
	GapSkills     = "Some required skills may be missing"
	GapExperience = "Experience level below requirements"
	GapEducation  = "Education level below requirements"
	GapSalary     = "Salary expectations may exceed budget"
)

var amountPrinter = message.NewPrinter(language.English)

func educationMeets(degree, required string) string {
	return fmt.Sprintf("Candidate has %s degree, meeting or exceeding the %s requirement.", degree, required)
}

func educationBelow(degree, required string) string {
	return fmt.Sprintf("Candidate has %s degree, below the %s requirement.", degree, required)
}

func educationFieldMatch(study string) string {
	return fmt.Sprintf(" Field of study (%s) matches requirement.", study)
}

func experienceMeets(years, required int) string {
	return fmt.Sprintf("Candidate has %d years of experience, meeting the %d+ year requirement.", years, required)
}

func experienceBelow(years, required int) string {
	return fmt.Sprintf("Candidate has %d years of experience, below the %d year requirement.", years, required)
}

func skillsMatched(matched []string, required int) string {
	list := "none"
	if len(matched) > 0 {
		list = strings.Join(matched, ", ")
	}
	return fmt.Sprintf("Candidate matches %d of %d required skills: %s.", len(matched), required, list)
}

func locationMatch(city, location string) string {
	return fmt.Sprintf("Candidate is located in %s, matching job location (%s).", city, location)
}

func locationRelocate(city, location string) string {
	return fmt.Sprintf("Candidate is in %s but willing to relocate to %s.", city, location)
}

func locationMismatchText(city, location string) string {
	return fmt.Sprintf("Candidate is in %s, job is in %s, and candidate is not open to relocation.", city, location)
}

func salaryWithin(currency string, candidateMin float64) string {
	return fmt.Sprintf("Candidate's minimum salary expectation (%s) is within the job's budget.",
		FormatMoney(currency, candidateMin))
}

func salaryAbove(currency string, candidateMin float64, jobCurrency string, jobMax float64) string {
	return fmt.Sprintf("Candidate's minimum salary expectation (%s) exceeds the job's maximum (%s).",
		FormatMoney(currency, candidateMin), FormatMoney(jobCurrency, jobMax))
}

func industryMatch(field, industry string) string {
	return fmt.Sprintf("Candidate's field of work (%s) matches the job industry (%s).", field, industry)
}

func industryDiffers(field, industry string) string {
	return fmt.Sprintf("Candidate's field of work (%s) differs from job industry (%s).", field, industry)
}

// FormatMoney renders an amount with thousands separators and at most three
// fraction digits, prefixed by the currency code when one is known.
// FormatMoney("USD", 90000) == "USD 90,000".
func FormatMoney(currency string, amount float64) string {
	s := amountPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(3)))
	if currency = strings.TrimSpace(currency); currency != "" {
		return currency + " " + s
	}
	return s
}

// qualificationSummary describes the candidate in one or two sentences.
// Parts that have no data are left out instead of printed empty.
func qualificationSummary(c CandidateProfile) string {
	years := 0
	if c.YearsOfExperience != nil {
		years = *c.YearsOfExperience
	}
	field := strings.TrimSpace(c.FieldOfWork)
	if field == "" {
		field = "their field"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Candidate with %d years of experience in %s.", years, field)

	degree := strings.TrimSpace(c.HighestDegree)
	study := strings.TrimSpace(c.FieldOfStudy)
	switch {
	case degree != "" && study != "":
		fmt.Fprintf(&b, " Holds a %s degree in %s.", degree, study)
	case degree != "":
		fmt.Fprintf(&b, " Holds a %s degree.", degree)
	case study != "":
		fmt.Fprintf(&b, " Studied %s.", study)
	}
	return b.String()
}
