package core

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrEventExists              = errors.New("an identical event already exists in the calendar")
	ErrEventNotFound            = errors.New("no event matching the identifier")
	ErrEventNotAdded            = errors.New("event could not be added to the calendar")
	ErrEventUpdateFailed        = errors.New("event failed to update")
	ErrAccessDeniedOrRestricted = errors.New("calendar access denied or restricted")
)

// AuthorizationStatus mirrors the platform calendar permission states.
type AuthorizationStatus int

const (
	AuthNotDetermined AuthorizationStatus = iota
	AuthRestricted
	AuthDenied
	AuthAuthorized
)

func ParseAuthorizationStatus(s string) AuthorizationStatus {
	switch s {
	case "authorized":
		return AuthAuthorized
	case "denied":
		return AuthDenied
	case "restricted":
		return AuthRestricted
	case "notDetermined":
		return AuthNotDetermined
	}
	return AuthorizationStatus(-1)
}

// AlarmOffset is a fixed lead time before an event at which a reminder
// alarm fires. The raw values are the ones persisted on entities.
type AlarmOffset string

const (
	AlarmNone                 AlarmOffset = "-"
	AlarmAtTimeOfEvent        AlarmOffset = "@"
	AlarmFiveMinutesBefore    AlarmOffset = "5M"
	AlarmTenMinutesBefore     AlarmOffset = "10M"
	AlarmFifteenMinutesBefore AlarmOffset = "15M"
	AlarmThirtyMinutesBefore  AlarmOffset = "30M"
	AlarmOneHourBefore        AlarmOffset = "1H"
	AlarmTwoHoursBefore       AlarmOffset = "2H"
	AlarmOneDayBefore         AlarmOffset = "1D"
	AlarmTwoDaysBefore        AlarmOffset = "2D"
	AlarmOneWeekBefore        AlarmOffset = "1W"
)

func AlarmOffsets() []AlarmOffset {
	return []AlarmOffset{
		AlarmNone,
		AlarmAtTimeOfEvent,
		AlarmFiveMinutesBefore,
		AlarmTenMinutesBefore,
		AlarmFifteenMinutesBefore,
		AlarmThirtyMinutesBefore,
		AlarmOneHourBefore,
		AlarmTwoHoursBefore,
		AlarmOneDayBefore,
		AlarmTwoDaysBefore,
		AlarmOneWeekBefore,
	}
}

// AlarmOffsetFromRaw maps a raw value back to an AlarmOffset; unknown
// values map to AlarmNone.
func AlarmOffsetFromRaw(s string) AlarmOffset {
	for _, off := range AlarmOffsets() {
		if string(off) == s {
			return off
		}
	}
	return AlarmNone
}

// Minutes is the lead time in minutes before the event start.
// Both AlarmNone and AlarmAtTimeOfEvent are 0; they are distinguished by
// alarm count (none vs an absolute-time alarm at the start instant).
func (o AlarmOffset) Minutes() int {
	switch o {
	case AlarmFiveMinutesBefore:
		return 5
	case AlarmTenMinutesBefore:
		return 10
	case AlarmFifteenMinutesBefore:
		return 15
	case AlarmThirtyMinutesBefore:
		return 30
	case AlarmOneHourBefore:
		return 60
	case AlarmTwoHoursBefore:
		return 60 * 2
	case AlarmOneDayBefore:
		return 60 * 24
	case AlarmTwoDaysBefore:
		return 60 * 24 * 2
	case AlarmOneWeekBefore:
		return 60 * 24 * 7
	}
	return 0
}

func (o AlarmOffset) Label() string {
	switch o {
	case AlarmAtTimeOfEvent:
		return "At the Time of Event"
	case AlarmFiveMinutesBefore:
		return "5 Minutes Before"
	case AlarmTenMinutesBefore:
		return "10 Minutes Before"
	case AlarmFifteenMinutesBefore:
		return "15 Minutes Before"
	case AlarmThirtyMinutesBefore:
		return "30 Minutes Before"
	case AlarmOneHourBefore:
		return "1 Hour Before"
	case AlarmTwoHoursBefore:
		return "2 Hours Before"
	case AlarmOneDayBefore:
		return "1 Day Before"
	case AlarmTwoDaysBefore:
		return "2 Days Before"
	case AlarmOneWeekBefore:
		return "1 Week Before"
	}
	return "None"
}

// AlarmCount is the number of alarms attached to an event carrying this
// offset. Part of the duplicate-detection identity.
func (o AlarmOffset) AlarmCount() int {
	if o == AlarmNone {
		return 0
	}
	return 1
}

// CalendarEvent is the reminder payload handed to the external calendar.
type CalendarEvent struct {
	Title string
	Start time.Time
	End   time.Time
	Notes string
	Alarm AlarmOffset
}

// CalendarService is the external event store keyed by opaque identifiers.
//
// CreateEvent must treat an event with identical title, start, end, notes
// and alarm count within the default calendar scope as a duplicate and
// return ErrEventExists. This is a heuristic identity, not an
// identifier-based one.
type CalendarService interface {
	AuthorizationStatus(ctx context.Context) AuthorizationStatus
	RequestAccess(ctx context.Context) (granted bool, err error)
	CreateEvent(ctx context.Context, ev CalendarEvent) (identifier string, err error)
	UpdateEvent(ctx context.Context, identifier string, ev CalendarEvent) error
	DeleteEvent(ctx context.Context, identifier string) error
	FindEvent(ctx context.Context, identifier string) (CalendarEvent, error)
}
