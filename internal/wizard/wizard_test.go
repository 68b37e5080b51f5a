package wizard

import (
	"testing"
	"time"
)

type recordingNotifier struct {
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.got = append(r.got, n)
}

func TestController_NextBlockedWhenStepInvalid(t *testing.T) {
	c := New(nil)

	if c.Next() {
		t.Fatal("expected Next to be blocked on an empty Step1")
	}
	if c.Step() != Step1 {
		t.Errorf("expected Step1, got %v", c.Step())
	}

	c.Update(func(a *Answer) { a.PatientCount = "2" })
	if c.Next() {
		t.Fatal("expected Next to be blocked without symptoms")
	}

	c.Update(func(a *Answer) { a.PatientCount = "" })
	c.ToggleSymptom("fever")
	if c.Next() {
		t.Fatal("expected Next to be blocked without patient count")
	}
	if c.Step() != Step1 {
		t.Errorf("expected Step1, got %v", c.Step())
	}
}

func TestController_EndToEnd(t *testing.T) {
	n := &recordingNotifier{}
	c := New(n)

	c.Update(func(a *Answer) { a.PatientCount = "3" })
	c.ToggleSymptom("fever")
	if !c.Next() {
		t.Fatal("expected to advance from Step1")
	}

	c.Update(func(a *Answer) {
		a.Severity = "moderate"
		a.Duration = "1_3_days"
	})
	if !c.Next() {
		t.Fatal("expected to advance from Step2")
	}

	if c.Next() {
		t.Fatal("Next must not leave Step3")
	}

	c.Update(func(a *Answer) {
		a.ContactName = "Jane Doe"
		a.ContactPhone = "555-0000"
	})
	answer, ok := c.Submit()
	if !ok {
		t.Fatal("expected submit to succeed")
	}
	if c.Step() != Submitted {
		t.Errorf("expected Submitted, got %v", c.Step())
	}
	if len(n.got) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(n.got))
	}
	if n.got[0] != SubmittedNotification {
		t.Errorf("unexpected notification: %+v", n.got[0])
	}
	if answer.PatientCount != "3" || !answer.HasSymptom("fever") || answer.ContactName != "Jane Doe" {
		t.Errorf("unexpected answer: %+v", answer)
	}

	// Terminal state
	if _, ok := c.Submit(); ok {
		t.Error("expected second submit to be rejected")
	}
	if c.Previous() {
		t.Error("expected Previous to be a no-op after submission")
	}
	c.Update(func(a *Answer) { a.ContactName = "changed" })
	if c.Answer().ContactName != "Jane Doe" {
		t.Error("answer must be frozen after submission")
	}
	if len(n.got) != 1 {
		t.Errorf("expected notifier to stay at 1 call, got %d", len(n.got))
	}
}

func TestController_SubmitOnlyFromValidStep3(t *testing.T) {
	n := &recordingNotifier{}
	c := New(n)
	if _, ok := c.Submit(); ok {
		t.Fatal("submit from Step1 must be rejected")
	}

	c.Update(func(a *Answer) { a.PatientCount = "1" })
	c.ToggleSymptom("nausea")
	c.Next()
	c.Update(func(a *Answer) { a.Severity = "mild"; a.Duration = "less_than_day" })
	c.Next()

	c.Update(func(a *Answer) { a.ContactName = "Jane Doe" })
	if _, ok := c.Submit(); ok {
		t.Fatal("submit without phone must be rejected")
	}
	if c.Step() != Step3 {
		t.Errorf("expected Step3, got %v", c.Step())
	}
	if len(n.got) != 0 {
		t.Errorf("expected no notifications, got %d", len(n.got))
	}
}

func TestController_PhotoIsOptional(t *testing.T) {
	c := New(&recordingNotifier{})
	c.Update(func(a *Answer) { a.PatientCount = "1" })
	c.ToggleSymptom("fever")
	c.Next()
	c.Update(func(a *Answer) { a.Severity = "mild"; a.Duration = "less_than_day" })
	c.Next()
	c.Update(func(a *Answer) { a.ContactName = "Jane Doe"; a.ContactPhone = "555-0100" })
	if !c.Valid() {
		t.Fatal("step 3 must be valid without a photo")
	}

	c.Update(func(a *Answer) { a.Photo = "well.jpg" })
	got, ok := c.Submit()
	if !ok {
		t.Fatal("expected submit to succeed")
	}
	if got.Photo != "well.jpg" {
		t.Errorf("expected photo well.jpg, got %q", got.Photo)
	}
}

func TestController_Previous(t *testing.T) {
	c := New(nil)
	if c.Previous() {
		t.Error("Previous must be a no-op at Step1")
	}

	c.Update(func(a *Answer) { a.PatientCount = "4" })
	c.ToggleSymptom("diarrhea")
	c.Next()
	if !c.Previous() {
		t.Fatal("expected to go back to Step1")
	}
	if c.Step() != Step1 {
		t.Errorf("expected Step1, got %v", c.Step())
	}
	// Answers survive moving back.
	if c.Answer().PatientCount != "4" {
		t.Errorf("expected patient count to be kept, got %q", c.Answer().PatientCount)
	}
}

func TestController_Step2RequiresKnownOptions(t *testing.T) {
	c := New(nil)
	c.Update(func(a *Answer) { a.PatientCount = "1" })
	c.ToggleSymptom("fever")
	c.Next()

	c.Update(func(a *Answer) { a.Severity = "extreme"; a.Duration = "1_3_days" })
	if c.Next() {
		t.Error("unknown severity must not validate")
	}
	c.Update(func(a *Answer) { a.Severity = "severe"; a.Duration = "" })
	if c.Next() {
		t.Error("missing duration must not validate")
	}
}

func TestController_ToggleSymptom(t *testing.T) {
	c := New(nil)
	c.ToggleSymptom("fever")
	c.ToggleSymptom("headache")
	c.ToggleSymptom("fever")
	c.ToggleSymptom("sneezing")

	got := c.Answer().Symptoms
	if len(got) != 1 || got[0] != "headache" {
		t.Errorf("expected [headache], got %v", got)
	}

	c.SetSymptoms([]string{"vomiting", "vomiting", "bogus", "fatigue"})
	got = c.Answer().Symptoms
	if len(got) != 2 || got[0] != "vomiting" || got[1] != "fatigue" {
		t.Errorf("expected [vomiting fatigue], got %v", got)
	}
}

func TestController_ResetDiscardsAnswers(t *testing.T) {
	c := New(nil)
	c.Update(func(a *Answer) { a.PatientCount = "2" })
	c.ToggleSymptom("fever")
	c.Next()
	c.Reset()

	if c.Step() != Step1 {
		t.Errorf("expected Step1, got %v", c.Step())
	}
	if a := c.Answer(); a.PatientCount != "" || len(a.Symptoms) != 0 {
		t.Errorf("expected empty answer, got %+v", a)
	}
}

func TestController_Progress(t *testing.T) {
	c := New(nil)
	if p := c.Progress(); p != 33 {
		t.Errorf("expected 33, got %d", p)
	}
	c.Update(func(a *Answer) { a.PatientCount = "2" })
	c.ToggleSymptom("fever")
	c.Next()
	if p := c.Progress(); p != 67 {
		t.Errorf("expected 67, got %d", p)
	}
}

func TestDrafts_OpenWithDiscard(t *testing.T) {
	d := NewDrafts(nil, time.Minute)

	id := d.Open("")
	if id == "" {
		t.Fatal("expected a draft id")
	}
	if again := d.Open(id); again != id {
		t.Errorf("expected existing draft %s, got %s", id, again)
	}

	ok := d.With(id, func(c *Controller) {
		c.Update(func(a *Answer) { a.PatientCount = "5" })
	})
	if !ok {
		t.Fatal("expected draft to exist")
	}

	var count string
	d.With(id, func(c *Controller) { count = c.Answer().PatientCount })
	if count != "5" {
		t.Errorf("expected answers to persist within the draft, got %q", count)
	}

	d.Discard(id)
	if d.With(id, func(*Controller) {}) {
		t.Error("expected discarded draft to be gone")
	}
	if d.Len() != 0 {
		t.Errorf("expected 0 drafts, got %d", d.Len())
	}
}

func TestDrafts_ExpireIdle(t *testing.T) {
	d := NewDrafts(nil, time.Minute)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	stale := d.Open("")
	now = now.Add(2 * time.Minute)

	fresh := d.Open(stale)
	if fresh == stale {
		t.Fatal("expected expired draft to be replaced")
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 draft after sweep, got %d", d.Len())
	}
}
