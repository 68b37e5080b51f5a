// Package wizard implements the three-step symptom report form.
//
// The controller only moves forward when the active step's required fields
// are filled in. Blocked transitions are silent no-ops: callers re-render
// the same step rather than surfacing an error.
package wizard

import (
	"slices"
	"strings"
)

type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Submitted
)

// Steps is the number of input steps before submission.
const Steps = 3

func (s Step) String() string {
	switch s {
	case Step1:
		return "basic_information"
	case Step2:
		return "symptom_details"
	case Step3:
		return "contact_information"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var SymptomOptions = []Option{
	{"fever", "Fever"},
	{"diarrhea", "Diarrhea"},
	{"vomiting", "Vomiting"},
	{"nausea", "Nausea"},
	{"headache", "Headache"},
	{"fatigue", "Fatigue"},
	{"stomach_pain", "Stomach Pain"},
	{"dehydration", "Dehydration"},
}

var SeverityOptions = []Option{
	{"mild", "Mild"},
	{"moderate", "Moderate"},
	{"severe", "Severe"},
}

var DurationOptions = []Option{
	{"less_than_day", "Less than 24 hours"},
	{"1_3_days", "1-3 days"},
	{"4_7_days", "4-7 days"},
	{"more_than_week", "More than a week"},
}

func hasOption(opts []Option, id string) bool {
	return slices.ContainsFunc(opts, func(o Option) bool { return o.ID == id })
}

// Answer accumulates the form fields across all three steps.
type Answer struct {
	PatientCount   string   `json:"patient_count"`
	Symptoms       []string `json:"symptoms"`
	Location       string   `json:"location"`
	Severity       string   `json:"severity"`
	Duration       string   `json:"duration"`
	AdditionalInfo string   `json:"additional_info"`
	ContactName    string   `json:"contact_name"`
	ContactPhone   string   `json:"contact_phone"`
	Photo          string   `json:"photo,omitempty"`
}

func (a Answer) HasSymptom(id string) bool {
	return slices.Contains(a.Symptoms, id)
}

func (a Answer) clone() Answer {
	a.Symptoms = slices.Clone(a.Symptoms)
	return a
}

type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notifier presents a toast to the user.
type Notifier interface {
	Notify(n Notification)
}

var SubmittedNotification = Notification{
	Title:       "Report Submitted Successfully",
	Description: "Health authorities have been notified. You will receive updates via SMS.",
}

// Controller is not safe for concurrent use; Drafts serialises access.
type Controller struct {
	step     Step
	answer   Answer
	notifier Notifier
}

func New(notifier Notifier) *Controller {
	return &Controller{
		step:     Step1,
		notifier: notifier,
	}
}

func (c *Controller) Step() Step {
	return c.step
}

func (c *Controller) Answer() Answer {
	return c.answer.clone()
}

// Progress is the completed share of the form as a whole percentage.
func (c *Controller) Progress() int {
	step := min(int(c.step), Steps)
	return (step*100 + Steps/2) / Steps
}

// Update applies fn to the in-progress answer. It does nothing once the
// report has been submitted.
func (c *Controller) Update(fn func(a *Answer)) {
	if c.step == Submitted {
		return
	}
	fn(&c.answer)
}

// ToggleSymptom selects or deselects a catalogued symptom. Unknown ids are
// ignored.
func (c *Controller) ToggleSymptom(id string) {
	if !hasOption(SymptomOptions, id) {
		return
	}
	c.Update(func(a *Answer) {
		if i := slices.Index(a.Symptoms, id); i >= 0 {
			a.Symptoms = slices.Delete(a.Symptoms, i, i+1)
			return
		}
		a.Symptoms = append(a.Symptoms, id)
	})
}

// SetSymptoms replaces the selection with the catalogued ids in ids,
// dropping duplicates and unknown values.
func (c *Controller) SetSymptoms(ids []string) {
	c.Update(func(a *Answer) {
		a.Symptoms = a.Symptoms[:0]
		for _, id := range ids {
			if hasOption(SymptomOptions, id) && !slices.Contains(a.Symptoms, id) {
				a.Symptoms = append(a.Symptoms, id)
			}
		}
	})
}

// Valid reports whether the active step's required fields are filled in.
func (c *Controller) Valid() bool {
	return StepValid(c.step, c.answer)
}

func StepValid(step Step, a Answer) bool {
	switch step {
	case Step1:
		return strings.TrimSpace(a.PatientCount) != "" && len(a.Symptoms) > 0
	case Step2:
		return hasOption(SeverityOptions, a.Severity) && hasOption(DurationOptions, a.Duration)
	case Step3:
		return strings.TrimSpace(a.ContactName) != "" && strings.TrimSpace(a.ContactPhone) != ""
	default:
		return false
	}
}

// Next advances to the following input step. It never leaves Step3; use
// Submit for that.
func (c *Controller) Next() bool {
	if c.step >= Step3 || !c.Valid() {
		return false
	}
	c.step++
	return true
}

func (c *Controller) Previous() bool {
	if c.step <= Step1 || c.step == Submitted {
		return false
	}
	c.step--
	return true
}

// Submit completes the report from Step3. The notifier is told exactly once
// and the final answer is returned for the caller to hand off.
func (c *Controller) Submit() (Answer, bool) {
	if c.step != Step3 || !c.Valid() {
		return Answer{}, false
	}
	c.step = Submitted
	if c.notifier != nil {
		c.notifier.Notify(SubmittedNotification)
	}
	return c.answer.clone(), true
}

// Reset discards every answer and returns to Step1.
func (c *Controller) Reset() {
	c.step = Step1
	c.answer = Answer{}
}
