package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
	"github.com/medas/intern-tracker-go/internal/pkg/jwt"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/medas/intern-tracker-go/internal/repository/memory"
	authService "github.com/medas/intern-tracker-go/internal/service/auth"
	internService "github.com/medas/intern-tracker-go/internal/service/intern"
	leaveService "github.com/medas/intern-tracker-go/internal/service/leave"
	reportService "github.com/medas/intern-tracker-go/internal/service/report"
	timesheetService "github.com/medas/intern-tracker-go/internal/service/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAdmin     = "admin@example.com"
	handlerTestAdminPass = "admin-password"
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	store := memory.NewStore()
	calendar := workday.Calendar{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")

	timesheetSvc := timesheetService.NewTimesheetService(store.Transactor(), store.Timesheets(), store.TimesheetDetails(), store.Interns(), store.LeaveRequests(), store.ApprovalHistory(), calendar)
	leaveSvc := leaveService.NewLeaveService(store.Transactor(), store.LeaveRequests(), store.Interns(), store.ApprovalHistory(), timesheetSvc, calendar)
	authSvc := authService.NewAuthService(store.Users(), store.Interns(), jwtSvc)
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), handlerTestAdmin, handlerTestAdminPass, "Admin"))

	return NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		[]string{"http://localhost:3000"},
		jwtSvc,
		NewAuthHandler(authSvc),
		NewInternHandler(internService.NewInternService(store.Interns())),
		NewLeaveHandler(leaveSvc),
		NewTimesheetHandler(timesheetSvc),
		NewReportHandler(reportService.NewReportService(store.Interns(), store.LeaveRequests(), store.Timesheets(), store.TimesheetDetails())),
	)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func createID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	return created.ID
}

// seedIntern creates an intern record plus a linked intern account and a
// supervisor account, returning the intern id and both tokens.
func seedIntern(t *testing.T, router http.Handler, adminToken string) (internID, internToken, supervisorToken string) {
	t.Helper()

	internID = createID(t, doRequest(t, router, http.MethodPost, "/api/v1/interns", adminToken, map[string]string{
		"full_name":       "Ayse Yilmaz",
		"email":           "ayse@example.com",
		"internship_type": "summer_internship",
	}))

	createID(t, doRequest(t, router, http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"email":     "ayse@example.com",
		"password":  "intern-password",
		"full_name": "Ayse Yilmaz",
		"roles":     []string{"intern"},
	}))
	createID(t, doRequest(t, router, http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"email":     "mehmet@example.com",
		"password":  "supervisor-password",
		"full_name": "Mehmet Kaya",
		"roles":     []string{"supervisor"},
	}))

	return internID,
		login(t, router, "ayse@example.com", "intern-password"),
		login(t, router, "mehmet@example.com", "supervisor-password")
}

func fullDayLeave(internID string) map[string]interface{} {
	return map[string]interface{}{
		"intern_id":  internID,
		"leave_type": "exam",
		"start_at":   "2025-03-12T08:30:00Z",
		"end_at":     "2025-03-12T16:30:00Z",
		"reason":     "Final exam",
	}
}

// ===== AUTH TESTS =====

func TestRouter_Login_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    handlerTestAdmin,
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, response.CodeUnauthorized, env.Error.Code)
}

func TestRouter_Login_ValidationError(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
}

func TestRouter_Login_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/interns", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/interns", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Me(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, handlerTestAdmin, handlerTestAdminPass)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
	assert.Equal(t, handlerTestAdmin, me.Email)
	assert.Equal(t, []string{"admin"}, me.Roles)
}

func TestRouter_Logout_RevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, handlerTestAdmin, handlerTestAdminPass)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CreateUser_AdminOnly(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)
	_, internToken, _ := seedIntern(t, router, adminToken)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/users", internToken, map[string]interface{}{
		"email":     "other@example.com",
		"password":  "password123",
		"full_name": "Other",
		"roles":     []string{"hr"},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"email":     "ayse@example.com",
		"password":  "password123",
		"full_name": "Duplicate",
		"roles":     []string{"intern"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ===== LEAVE AND TIMESHEET TESTS =====

func TestRouter_LeaveApproval_ReflectsToTimesheet(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)
	internID, internToken, supervisorToken := seedIntern(t, router, adminToken)

	leaveID := createID(t, doRequest(t, router, http.MethodPost, "/api/v1/leave-requests", internToken, fullDayLeave(internID)))

	// Interns cannot decide.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/leave-requests/"+leaveID+"/approve", internToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/leave-requests/"+leaveID+"/approve", supervisorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &approved))
	assert.Equal(t, "approved", approved.Status)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timesheets?year=2025&month=3", internToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	var sheets []struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		TotalLeaveDays int    `json:"total_leave_days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sheets))
	require.Len(t, sheets, 1)
	assert.Equal(t, "pending", sheets[0].Status)
	assert.Equal(t, 1, sheets[0].TotalLeaveDays)

	// A terminal request cannot be decided again.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/leave-requests/"+leaveID+"/reject", supervisorToken, map[string]string{"note": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/leave-requests/"+leaveID+"/history", internToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		NewStatus string `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "approved", history[0].NewStatus)
}

func TestRouter_OverlappingLeave_IsFormError(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)
	internID, internToken, _ := seedIntern(t, router, adminToken)

	firstID := createID(t, doRequest(t, router, http.MethodPost, "/api/v1/leave-requests", internToken, fullDayLeave(internID)))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/leave-requests", internToken, fullDayLeave(internID))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error.Details, "form")
	assert.Equal(t, firstID, env.Error.Details["conflicting_id"])
}

func TestRouter_Timesheet_NotFound(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)

	for _, path := range []string{
		"/api/v1/timesheets/missing",
		"/api/v1/timesheets/0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"/api/v1/leave-requests/not-a-uuid",
		"/api/v1/interns/123e4567-e89b-12d3-a456-426614174000",
	} {
		rec := doRequest(t, router, http.MethodGet, path, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, response.CodeNotFound, decodeEnvelope(t, rec).Error.Code, path)
	}

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/timesheets/details/not-an-id", adminToken, map[string]bool{"is_present": false})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Timesheet_CreateAndDecide(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)
	internID, internToken, supervisorToken := seedIntern(t, router, adminToken)

	// Interns do not create their own sheets.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/timesheets", internToken, map[string]interface{}{
		"intern_id": internID, "year": 2025, "month": 4,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	sheetID := createID(t, doRequest(t, router, http.MethodPost, "/api/v1/timesheets", supervisorToken, map[string]interface{}{
		"intern_id": internID, "year": 2025, "month": 4,
	}))

	rec = doRequest(t, router, http.MethodPost, "/api/v1/timesheets/"+sheetID+"/reject", supervisorToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "reject needs a note")

	rec = doRequest(t, router, http.MethodPost, "/api/v1/timesheets/"+sheetID+"/approve", supervisorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/timesheets/"+sheetID, supervisorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/timesheets/"+sheetID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== REPORT TESTS =====

func TestRouter_Reports(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, handlerTestAdmin, handlerTestAdminPass)
	internID, internToken, supervisorToken := seedIntern(t, router, adminToken)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/reports/summary", internToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/timesheets/export?year=2025&month=3", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createID(t, doRequest(t, router, http.MethodPost, "/api/v1/timesheets", supervisorToken, map[string]interface{}{
		"intern_id": internID, "year": 2025, "month": 3,
	}))

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		ActiveInterns     int64 `json:"active_interns"`
		PendingTimesheets int64 `json:"pending_timesheets"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	assert.Equal(t, int64(1), summary.ActiveInterns)
	assert.Equal(t, int64(1), summary.PendingTimesheets)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/timesheets/export?year=2025&month=3", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timesheets-2025-03.xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/timesheets/export?year=2025", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/interns/export", internToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/interns/export?internship_type=bogus", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/interns/export", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `interns-\d{8}-\d{4}\.xlsx`, rec.Header().Get("Content-Disposition"))
	assert.NotZero(t, rec.Body.Len())
}
