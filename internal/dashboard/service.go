// Package dashboard composes the view models behind every page of the
// citizen portal and the admin dashboard. Views are computed fresh from the
// data provider on each call.
package dashboard

import (
	"errors"
	"maps"
	"time"

	"github.com/mr1hm/hydrosense/internal/filter"
	"github.com/mr1hm/hydrosense/internal/repository"
	"github.com/mr1hm/hydrosense/internal/wizard"
)

var ErrNotFound = errors.New("not found")

// DefaultVillageID is used when the citizen dashboard is opened without a
// village.
const DefaultVillageID = "1"

type Notification = wizard.Notification

type Service struct {
	repo     repository.Provider
	notifier wizard.Notifier
	now      func() time.Time
}

func NewService(repo repository.Provider, notifier wizard.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) notify(n Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// withDefault returns a copy of c whose category key is set to def when the
// caller left it empty.
func withDefault(c filter.Criteria, key, def string) filter.Criteria {
	cats := maps.Clone(c.Categories)
	if cats == nil {
		cats = make(map[string]string)
	}
	if cats[key] == "" {
		cats[key] = def
	}
	return filter.Criteria{Search: c.Search, Categories: cats}
}
