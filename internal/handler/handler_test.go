package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/config"
	"github.com/trainbook/core/internal/notify"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
	"github.com/trainbook/core/internal/scheduler"
	"github.com/trainbook/core/internal/service"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schemaStmts := []string{
		`CREATE TABLE trainers (id TEXT PRIMARY KEY, chat_id INTEGER NOT NULL UNIQUE, display_name TEXT NOT NULL, time_zone TEXT NOT NULL, created_at DATETIME, updated_at DATETIME);`,
		`CREATE TABLE clients (id TEXT PRIMARY KEY, chat_id INTEGER NOT NULL UNIQUE, display_name TEXT NOT NULL, created_at DATETIME, updated_at DATETIME);`,
		`CREATE TABLE enrollments (trainer_id TEXT NOT NULL, client_id TEXT NOT NULL, credits INTEGER NOT NULL DEFAULT 0, created_at DATETIME, updated_at DATETIME, PRIMARY KEY (trainer_id, client_id));`,
		`CREATE TABLE weekly_shifts (id TEXT PRIMARY KEY, trainer_id TEXT NOT NULL, ordinal INTEGER NOT NULL, hours TEXT NOT NULL, created_at DATETIME, updated_at DATETIME, UNIQUE (trainer_id, ordinal));`,
		`CREATE TABLE date_overrides (id TEXT PRIMARY KEY, trainer_id TEXT NOT NULL, date DATETIME NOT NULL, hours TEXT NOT NULL, created_at DATETIME, updated_at DATETIME, UNIQUE (trainer_id, date));`,
		`CREATE TABLE bookings (id TEXT PRIMARY KEY, trainer_id TEXT NOT NULL, client_id TEXT NOT NULL, date DATETIME NOT NULL, hour INTEGER NOT NULL, created_at DATETIME, UNIQUE (trainer_id, date, hour));`,
		`CREATE TABLE events (id TEXT PRIMARY KEY, event_type TEXT NOT NULL, created_at DATETIME, trainer_id TEXT, client_id TEXT, details TEXT);`,
	}
	for _, stmt := range schemaStmts {
		require.NoError(t, db.Exec(stmt).Error)
	}

	trainers := repository.NewGormTrainerRepository(db)
	clients := repository.NewGormClientRepository(db)
	enrollments := repository.NewGormEnrollmentRepository(db)
	shiftRepo := repository.NewGormShiftRepository(db)
	overrides := repository.NewGormOverrideRepository(db)
	bookings := repository.NewGormBookingRepository(db)

	reminders := service.NewReminderBridge(scheduler.NewMemoryScheduler(), service.DefaultReminderHour)
	notifier := notify.FuncNotifier(func(context.Context, int64, string) error { return nil })

	h, err := NewHandler(
		&config.Config{},
		service.NewIdentityService(db, trainers, clients, enrollments),
		service.NewAvailabilityService(trainers, overrides, bookings),
		service.NewBookingService(db, trainers, clients, enrollments, overrides, bookings, reminders),
		service.NewCancelService(db, trainers, clients, enrollments, overrides, bookings, reminders, notifier),
		service.NewShiftService(db, trainers, shiftRepo, overrides),
	)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) (int, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHandler_BookingFlow(t *testing.T) {
	h := testHandler(t)

	// Trainer onboarding (UTC keeps "today" deterministic).
	code, resp := doJSON(t, h, http.MethodPost, "/trainers", map[string]any{
		"chatId": 100, "displayName": "Анна", "timeZone": "UTC",
	})
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Message)
	trainerID := resp.Data.(map[string]any)["id"].(string)

	// Client enrollment plus two prepaid workouts.
	code, resp = doJSON(t, h, http.MethodPost, "/trainers/"+trainerID+"/clients", map[string]any{
		"chatId": 200, "displayName": "Иван",
	})
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Message)
	clientID := resp.Data.(map[string]any)["id"].(string)

	_, resp = doJSON(t, h, http.MethodPatch,
		fmt.Sprintf("/trainers/%s/clients/%s/credits", trainerID, clientID),
		map[string]any{"delta": 2})
	require.True(t, resp.Success, resp.Message)
	require.EqualValues(t, 2, resp.Data.(map[string]any)["credits"])

	// Publish shift 1 onto a future date.
	date := schedule.Today(nil).AddDays(2).ISO()
	_, resp = doJSON(t, h, http.MethodPost, "/trainers/"+trainerID+"/schedule", map[string]any{
		"ordinal": 1, "dates": []string{date},
	})
	require.True(t, resp.Success, resp.Message)

	// The published hours show up as open slots.
	_, resp = doJSON(t, h, http.MethodGet, "/trainers/"+trainerID+"/slots", nil)
	require.True(t, resp.Success, resp.Message)
	days := resp.Data.([]any)
	require.Len(t, days, 1)
	require.Equal(t, date, days[0].(map[string]any)["date"])

	// Book one of them.
	_, resp = doJSON(t, h, http.MethodPost, "/trainers/"+trainerID+"/bookings", map[string]any{
		"clientId": clientID, "date": date, "hour": 9,
	})
	require.True(t, resp.Success, resp.Message)
	require.EqualValues(t, 1, resp.Data.(map[string]any)["creditsLeft"])

	// Same slot again: business refusal inside a 200 envelope.
	code, resp = doJSON(t, h, http.MethodPost, "/trainers/"+trainerID+"/bookings", map[string]any{
		"clientId": clientID, "date": date, "hour": 9,
	})
	require.Equal(t, http.StatusOK, code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "занят")
}

func TestHandler_Validation(t *testing.T) {
	h := testHandler(t)

	// Missing displayName is caught before any service call.
	code, resp := doJSON(t, h, http.MethodPost, "/trainers", map[string]any{"chatId": 100})
	require.Equal(t, http.StatusOK, code)
	require.False(t, resp.Success)

	// Broken trainer id in the path.
	_, resp = doJSON(t, h, http.MethodGet, "/trainers/not-a-uuid/slots", nil)
	require.False(t, resp.Success)

	// Unknown trainer is a business error, not a 500.
	code, resp = doJSON(t, h, http.MethodGet, "/trainers/00000000-0000-0000-0000-000000000001/slots", nil)
	require.Equal(t, http.StatusOK, code)
	require.False(t, resp.Success)
}

func TestHandler_UpdateShift(t *testing.T) {
	h := testHandler(t)

	_, resp := doJSON(t, h, http.MethodPost, "/trainers", map[string]any{
		"chatId": 100, "displayName": "Анна", "timeZone": "UTC",
	})
	require.True(t, resp.Success, resp.Message)
	trainerID := resp.Data.(map[string]any)["id"].(string)

	// Duplicated hours are tolerated and normalized.
	_, resp = doJSON(t, h, http.MethodPatch, "/trainers/"+trainerID+"/shifts/1", map[string]any{
		"hours": []int{15, 14, 15, 16},
	})
	require.True(t, resp.Success, resp.Message)
	hours := resp.Data.(map[string]any)["hours"].([]any)
	require.Len(t, hours, 3)
	require.EqualValues(t, 14, hours[0])

	_, resp = doJSON(t, h, http.MethodPatch, "/trainers/"+trainerID+"/shifts/1", map[string]any{
		"hours": []int{},
	})
	require.False(t, resp.Success)
}
