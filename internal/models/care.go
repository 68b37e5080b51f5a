package models

type Facility struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	Specialty    string   `json:"specialty" yaml:"specialty"`
	Facility     string   `json:"facility" yaml:"facility"`
	Distance     string   `json:"distance" yaml:"distance"`
	Rating       float64  `json:"rating" yaml:"rating"`
	Availability string   `json:"availability" yaml:"availability"`
	Phone        string   `json:"phone" yaml:"phone"`
	Address      string   `json:"address" yaml:"address"`
	Languages    []string `json:"languages" yaml:"languages"`
	Experience   string   `json:"experience" yaml:"experience"`
	Status       string   `json:"status" yaml:"status"`
}

type TreatmentAdvice struct {
	Symptom        string   `json:"symptom" yaml:"symptom"`
	Severity       string   `json:"severity" yaml:"severity"` // Common, Monitor, Concerning
	ImmediateSteps []string `json:"immediate_steps" yaml:"immediate_steps"`
	WhenToSeekHelp []string `json:"when_to_seek_help" yaml:"when_to_seek_help"`
	Prevention     []string `json:"prevention" yaml:"prevention"`
}

type EmergencyContact struct {
	Title       string `json:"title" yaml:"title"`
	Number      string `json:"number" yaml:"number"`
	Description string `json:"description" yaml:"description"`
}

// SensorSample is one point of the citizen dashboard's water quality series.
type SensorSample struct {
	Time        string  `json:"time" yaml:"time"`
	Turbidity   float64 `json:"turbidity" yaml:"turbidity"`
	PH          float64 `json:"ph" yaml:"ph"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Chlorine    float64 `json:"chlorine" yaml:"chlorine"`
}

type LandingStat struct {
	Label      string `json:"label" yaml:"label"`
	LocalLabel string `json:"local_label" yaml:"local_label"`
	Value      string `json:"value" yaml:"value"`
}

type WeeklyActivity struct {
	Day      string `json:"day" yaml:"day"`
	Alerts   int    `json:"alerts" yaml:"alerts"`
	Cases    int    `json:"cases" yaml:"cases"`
	Resolved int    `json:"resolved" yaml:"resolved"`
}

// Disease is a waterborne disease card on the landing page.
type Disease struct {
	Title            string `json:"title" yaml:"title"`
	LocalTitle       string `json:"local_title" yaml:"local_title"`
	Description      string `json:"description" yaml:"description"`
	LocalDescription string `json:"local_description" yaml:"local_description"`
}

type Tip struct {
	Text      string `json:"text" yaml:"text"`
	LocalText string `json:"local_text" yaml:"local_text"`
}

type PreventionTips struct {
	Dos   []Tip `json:"dos" yaml:"dos"`
	Donts []Tip `json:"donts" yaml:"donts"`
}
