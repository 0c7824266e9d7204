package calsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/calsync"
	dummycal "github.com/trezcool/planner/services/calendar/dummy"
	testutil "github.com/trezcool/planner/tests"
)

var ctx = context.Background()

func setup() (*calsync.Service, *dummycal.Service) {
	cal := dummycal.NewService()
	return calsync.NewService(cal, testutil.NewLogger(), 10*time.Millisecond), cal
}

func sampleEvent() core.CalendarEvent {
	return core.CalendarEvent{
		Title: "Final Report",
		Start: time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 4, 30, 13, 0, 0, 0, time.UTC),
		Notes: "hand in via portal",
		Alarm: core.AlarmOneDayBefore,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestService_CheckPermissions(t *testing.T) {
	tests := []struct {
		name    string
		status  core.AuthorizationStatus
		grant   bool
		wantErr error
		anyErr  bool
	}{
		{name: "authorized", status: core.AuthAuthorized},
		{name: "not determined, granted", status: core.AuthNotDetermined, grant: true},
		{name: "not determined, refused", status: core.AuthNotDetermined, wantErr: core.ErrAccessDeniedOrRestricted},
		{name: "denied", status: core.AuthDenied, wantErr: core.ErrAccessDeniedOrRestricted},
		{name: "restricted", status: core.AuthRestricted, wantErr: core.ErrAccessDeniedOrRestricted},
		{name: "unknown status", status: core.AuthorizationStatus(-1), anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cal := setup()
			cal.Status = tt.status
			cal.GrantOnRequest = tt.grant

			err := svc.CheckPermissions(ctx)
			if tt.anyErr {
				if err == nil {
					t.Error("CheckPermissions() expected an error")
				}
			} else if err != tt.wantErr {
				t.Errorf("CheckPermissions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_CreateEvent(t *testing.T) {
	t.Run("gate failure skips the calendar", func(t *testing.T) {
		svc, cal := setup()
		cal.Status = core.AuthDenied

		if _, err := svc.CreateEvent(ctx, sampleEvent()); err != core.ErrAccessDeniedOrRestricted {
			t.Errorf("CreateEvent() error = %v, want %v", err, core.ErrAccessDeniedOrRestricted)
		}
		if cal.CreateCalls != 0 {
			t.Errorf("CreateEvent() reached the calendar %d times", cal.CreateCalls)
		}
	})

	t.Run("ok", func(t *testing.T) {
		svc, cal := setup()

		id, err := svc.CreateEvent(ctx, sampleEvent())
		if err != nil {
			t.Fatalf("CreateEvent() failed: %v", err)
		}
		if id == "" || !cal.HasEvent(id) {
			t.Errorf("CreateEvent() returned identifier %q with no stored event", id)
		}
	})

	t.Run("identical event exists", func(t *testing.T) {
		svc, cal := setup()
		cal.SeedEvent("evt-1", sampleEvent())

		if _, err := svc.CreateEvent(ctx, sampleEvent()); err != core.ErrEventExists {
			t.Errorf("CreateEvent() error = %v, want %v", err, core.ErrEventExists)
		}
	})
}

func TestService_UpdateEvent(t *testing.T) {
	t.Run("in place", func(t *testing.T) {
		svc, cal := setup()
		cal.SeedEvent("evt-1", sampleEvent())

		ev := sampleEvent()
		ev.Notes = "extended deadline"
		id, err := svc.UpdateEvent(ctx, "evt-1", ev)
		if err != nil {
			t.Fatalf("UpdateEvent() failed: %v", err)
		}
		if id != "evt-1" {
			t.Errorf("UpdateEvent() identifier = %q, want evt-1", id)
		}
	})

	t.Run("vanished event is recreated", func(t *testing.T) {
		svc, cal := setup()

		id, err := svc.UpdateEvent(ctx, "gone", sampleEvent())
		if err != nil {
			t.Fatalf("UpdateEvent() failed: %v", err)
		}
		if id == "" || id == "gone" {
			t.Errorf("UpdateEvent() identifier = %q, want a fresh one", id)
		}
		if !cal.HasEvent(id) {
			t.Error("UpdateEvent() did not recreate the event")
		}
	})
}

func TestService_IsEventLive(t *testing.T) {
	svc, cal := setup()
	cal.SeedEvent("evt-1", sampleEvent())

	if !svc.IsEventLive(ctx, "evt-1") {
		t.Error("IsEventLive() = false for a stored event")
	}
	if svc.IsEventLive(ctx, "gone") {
		t.Error("IsEventLive() = true for a missing event")
	}
}

func TestService_DeleteEventAsync(t *testing.T) {
	t.Run("empty identifier is a no-op", func(t *testing.T) {
		svc, cal := setup()

		svc.DeleteEventAsync("")
		time.Sleep(50 * time.Millisecond)
		if n := cal.TotalCalls(); n != 0 {
			t.Errorf("DeleteEventAsync(\"\") reached the calendar %d times", n)
		}
	})

	t.Run("removes after the delay", func(t *testing.T) {
		svc, cal := setup()
		cal.SeedEvent("evt-1", sampleEvent())

		svc.DeleteEventAsync("evt-1")
		waitFor(t, "event removal", func() bool { return !cal.HasEvent("evt-1") })
	})

	t.Run("missing event stays quiet", func(t *testing.T) {
		svc, cal := setup()

		svc.DeleteEventAsync("gone")
		waitFor(t, "delete attempt", func() bool { return cal.TotalCalls() == 1 })
	})

	t.Run("gate failure leaves the event alone", func(t *testing.T) {
		svc, cal := setup()
		cal.SeedEvent("evt-1", sampleEvent())
		cal.Status = core.AuthDenied

		svc.DeleteEventAsync("evt-1")
		time.Sleep(50 * time.Millisecond)
		if !cal.HasEvent("evt-1") {
			t.Error("DeleteEventAsync() removed the event despite a failing permission check")
		}
	})
}
