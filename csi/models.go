// Package csi records Customer Satisfaction Index surveys collected by
// Marketing after a project is delivered.
package csi

import (
	"fmt"
	"math"

	"backoffice/records"
)

const Module = "csi"

const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusReviewed  = "Reviewed"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Aspect is one rated question. Rating 0 means not yet rated.
type Aspect struct {
	Aspect string `json:"aspect"`
	Rating int    `json:"rating"`
}

type Survey struct {
	ID           string       `json:"id"`
	NoSO         string       `json:"noSO"`
	CustomerName string       `json:"customerName"`
	Project      string       `json:"project"`
	SurveyDate   records.Date `json:"surveyDate"`
	Respondent   string       `json:"respondent"`
	Email        string       `json:"email"`
	Aspects      []Aspect     `json:"aspects"`
	Index        float64      `json:"index"`
	Comment      string       `json:"comment"`
	Status       string       `json:"status"`
}

var defaultAspects = []string{
	"Quality of work",
	"Timeliness of delivery",
	"Safety performance",
	"Communication and responsiveness",
	"Documentation and reporting",
	"Value for money",
}

// DefaultTemplate returns the standard questionnaire with every aspect unrated.
func DefaultTemplate() []Aspect {
	out := make([]Aspect, 0, len(defaultAspects))
	for _, name := range defaultAspects {
		out = append(out, Aspect{Aspect: name})
	}
	return out
}

// Index is the mean of the rated aspects scaled to 0..100 and rounded to two
// decimals. Unrated aspects are ignored.
func Index(aspects []Aspect) float64 {
	sum, n := 0, 0
	for _, a := range aspects {
		if a.Rating >= MinRating && a.Rating <= MaxRating {
			sum += a.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := float64(sum) / float64(n)
	return math.Round(mean/MaxRating*100*100) / 100
}

func Schema() records.Schema[Survey] {
	return records.Schema[Survey]{
		Name:  Module,
		Title: "Customer Satisfaction Index",
		Fields: []records.Field[Survey]{
			records.TextField("noSO", "No. SO", func(s Survey) string { return s.NoSO }),
			records.TextField("customerName", "Customer", func(s Survey) string { return s.CustomerName }),
			records.TextField("project", "Project", func(s Survey) string { return s.Project }),
			records.DateField("surveyDate", "Survey Date", func(s Survey) records.Date { return s.SurveyDate }),
			records.TextField("respondent", "Respondent", func(s Survey) string { return s.Respondent }),
			records.TextField("email", "Email", func(s Survey) string { return s.Email }),
			records.FloatField("index", "CSI", func(s Survey) float64 { return s.Index }),
			records.TextField("comment", "Comment", func(s Survey) string { return s.Comment }),
			records.TextField("status", "Status", func(s Survey) string { return s.Status }),
		},
		SearchFields:  []string{"noSO", "customerName", "project", "respondent"},
		DateField:     "surveyDate",
		DefaultSort:   "surveyDate",
		DefaultOrder:  records.OrderDesc,
		ID:            func(s Survey) string { return s.ID },
		SetID:         func(s *Survey, id string) { s.ID = id },
		Status:        func(s Survey) string { return s.Status },
		SetStatus:     func(s *Survey, st string) { s.Status = st },
		InitialStatus: StatusDraft,
		Transitions: map[string][]string{
			StatusDraft:     {StatusSubmitted},
			StatusSubmitted: {StatusReviewed, StatusDraft},
		},
		Normalize: normalize,
		Validate:  validate,
	}
}

func normalize(s *Survey) {
	records.TrimSpace(&s.NoSO, &s.CustomerName, &s.Project, &s.Respondent, &s.Email, &s.Comment)
	if len(s.Aspects) == 0 {
		s.Aspects = DefaultTemplate()
	}
	for i := range s.Aspects {
		records.TrimSpace(&s.Aspects[i].Aspect)
	}
	s.Index = Index(s.Aspects)
}

func validate(s Survey) error {
	v := records.NewValidator()
	v.Required("noSO", s.NoSO)
	v.Required("customerName", s.CustomerName)
	v.Required("project", s.Project)
	v.RequiredDate("surveyDate", s.SurveyDate)
	v.Email("email", s.Email)

	submitted := s.Status != StatusDraft
	for i, a := range s.Aspects {
		field := fmt.Sprintf("aspects[%d]", i)
		v.Check(a.Aspect != "", field, "aspect name is required")
		v.Check(a.Rating >= 0 && a.Rating <= MaxRating, field, fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
		if submitted {
			v.Check(a.Rating >= MinRating, field, "must be rated before submission")
		}
	}
	return v.Err()
}
