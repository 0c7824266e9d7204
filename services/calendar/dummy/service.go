package dummycal

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
)

// Service is an in-memory core.CalendarService for tests. Authorization
// status, prompt outcome and operation failures are all scriptable.
type Service struct {
	mu     sync.RWMutex
	events map[string]core.CalendarEvent

	Status         core.AuthorizationStatus
	GrantOnRequest bool

	// NextIdentifier, when set, is returned by the next CreateEvent and
	// then cleared.
	NextIdentifier string

	// injected failures; returned as-is when set
	CreateErr error
	UpdateErr error
	DeleteErr error

	// call counters
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	FindCalls   int
}

var _ core.CalendarService = (*Service)(nil)

func NewService() *Service {
	return &Service{
		events: make(map[string]core.CalendarEvent),
		Status: core.AuthAuthorized,
	}
}

func (svc *Service) AuthorizationStatus(ctx context.Context) core.AuthorizationStatus {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.Status
}

func (svc *Service) RequestAccess(ctx context.Context) (bool, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.GrantOnRequest, nil
}

func (svc *Service) CreateEvent(ctx context.Context, ev core.CalendarEvent) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.CreateCalls++
	if svc.CreateErr != nil {
		return "", svc.CreateErr
	}
	for _, existing := range svc.events {
		if eventsIdentical(existing, ev) {
			return "", core.ErrEventExists
		}
	}

	id := svc.NextIdentifier
	svc.NextIdentifier = ""
	if id == "" {
		id = uuid.New().String()
	}
	svc.events[id] = ev
	return id, nil
}

func (svc *Service) UpdateEvent(ctx context.Context, identifier string, ev core.CalendarEvent) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.UpdateCalls++
	if svc.UpdateErr != nil {
		return svc.UpdateErr
	}
	if _, ok := svc.events[identifier]; !ok {
		return core.ErrEventNotFound
	}
	svc.events[identifier] = ev
	return nil
}

func (svc *Service) DeleteEvent(ctx context.Context, identifier string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.DeleteCalls++
	if svc.DeleteErr != nil {
		return svc.DeleteErr
	}
	if _, ok := svc.events[identifier]; !ok {
		return core.ErrEventNotFound
	}
	delete(svc.events, identifier)
	return nil
}

func (svc *Service) FindEvent(ctx context.Context, identifier string) (core.CalendarEvent, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.FindCalls++
	ev, ok := svc.events[identifier]
	if !ok {
		return core.CalendarEvent{}, core.ErrEventNotFound
	}
	return ev, nil
}

// HasEvent reports whether the identifier resolves to a stored event,
// without counting as a FindEvent call.
func (svc *Service) HasEvent(identifier string) bool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	_, ok := svc.events[identifier]
	return ok
}

// SeedEvent stores an event under the given identifier.
func (svc *Service) SeedEvent(identifier string, ev core.CalendarEvent) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.events[identifier] = ev
}

// TotalCalls is the number of calendar API operations invoked so far,
// authorization checks excluded.
func (svc *Service) TotalCalls() int {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.CreateCalls + svc.UpdateCalls + svc.DeleteCalls + svc.FindCalls
}

// eventsIdentical applies the duplicate-detection identity:
// title, start, end, notes and alarm count.
func eventsIdentical(a, b core.CalendarEvent) bool {
	return a.Title == b.Title &&
		a.Start.Equal(b.Start) &&
		a.End.Equal(b.End) &&
		a.Notes == b.Notes &&
		a.Alarm.AlarmCount() == b.Alarm.AlarmCount()
}
