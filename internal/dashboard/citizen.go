package dashboard

import (
	"context"
	"fmt"

	"github.com/mr1hm/hydrosense/internal/filter"
	"github.com/mr1hm/hydrosense/internal/models"
	"github.com/mr1hm/hydrosense/internal/summary"
)

type LandingView struct {
	Stats      []models.LandingStat  `json:"stats"`
	Diseases   []models.Disease      `json:"diseases"`
	Prevention models.PreventionTips `json:"prevention"`
}

func (s *Service) Landing(ctx context.Context) (*LandingView, error) {
	stats, err := s.repo.ListLandingStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing landing stats: %w", err)
	}
	diseases, err := s.repo.ListDiseases(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing diseases: %w", err)
	}
	tips, err := s.repo.GetPrevention(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching prevention tips: %w", err)
	}
	return &LandingView{Stats: stats, Diseases: diseases, Prevention: tips}, nil
}

type SignInView struct {
	Search   string           `json:"search"`
	Villages []models.Village `json:"villages"`
}

// SignIn lists the villages a citizen can pick, narrowed by name or
// district.
func (s *Service) SignIn(ctx context.Context, search string) (*SignInView, error) {
	villages, err := s.repo.ListVillages(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing villages: %w", err)
	}
	return &SignInView{
		Search:   search,
		Villages: filter.Apply(villages, signInSpec, filter.Criteria{Search: search}),
	}, nil
}

// ResolveVillage looks up the village a citizen selected. An empty id falls
// back to DefaultVillageID.
func (s *Service) ResolveVillage(ctx context.Context, id string) (*models.Village, error) {
	if id == "" {
		id = DefaultVillageID
	}
	v, err := s.repo.GetVillage(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

type CitizenDashboardView struct {
	Village          models.Village        `json:"village"`
	Readings         []models.SensorSample `json:"readings"`
	Latest           *models.SensorSample  `json:"latest,omitempty"`
	Advisories       []models.Advisory     `json:"advisories"`
	ActiveAdvisories int                   `json:"active_advisories"`
}

func (s *Service) CitizenDashboard(ctx context.Context, villageID string) (*CitizenDashboardView, error) {
	village, err := s.ResolveVillage(ctx, villageID)
	if err != nil {
		return nil, err
	}
	readings, err := s.repo.ListReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing readings: %w", err)
	}
	advisories, err := s.repo.ListAdvisories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing advisories: %w", err)
	}

	view := &CitizenDashboardView{
		Village:    *village,
		Readings:   readings,
		Advisories: advisories,
		ActiveAdvisories: summary.Count(advisories, func(a models.Advisory) bool {
			return a.Status == string(models.AlertStatusActive)
		}),
	}
	if n := len(readings); n > 0 {
		view.Latest = &readings[n-1]
	}
	return view, nil
}

// SpecialtyOptions narrow the facility list by a specialty substring.
var SpecialtyOptions = []Option{
	{Value: filter.All, Label: "All Specialties"},
	{Value: "general", Label: "General Medicine"},
	{Value: "infectious", Label: "Infectious Diseases"},
	{Value: "primary", Label: "Primary Care"},
	{Value: "community", Label: "Community Health"},
}

type TreatmentView struct {
	Search      string                    `json:"search"`
	Specialty   string                    `json:"specialty"`
	Specialties []Option                  `json:"specialties"`
	Facilities  []models.Facility         `json:"facilities"`
	Advice      []models.TreatmentAdvice  `json:"advice"`
	Contacts    []models.EmergencyContact `json:"emergency_contacts"`
}

func (s *Service) Treatment(ctx context.Context, search, specialty string) (*TreatmentView, error) {
	facilities, err := s.repo.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing facilities: %w", err)
	}
	advice, err := s.repo.ListAdvice(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing treatment advice: %w", err)
	}
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing emergency contacts: %w", err)
	}

	if specialty == "" {
		specialty = filter.All
	}
	c := filter.Criteria{
		Search:     search,
		Categories: map[string]string{"specialty": specialty},
	}
	return &TreatmentView{
		Search:      search,
		Specialty:   specialty,
		Specialties: SpecialtyOptions,
		Facilities:  filter.Apply(facilities, facilitySpec, c),
		Advice:      advice,
		Contacts:    contacts,
	}, nil
}
