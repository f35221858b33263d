package create_reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	"github.com/m04kA/TTA-ReservationService/internal/domain"
	createReservation "github.com/m04kA/TTA-ReservationService/internal/usecase/create_reservation"
)

type fakeUseCase struct {
	resp    *createReservation.Response
	err     error
	lastReq *createReservation.Request
}

func (uc *fakeUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	uc.lastReq = req
	if uc.err != nil {
		return nil, uc.err
	}
	return uc.resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newRequest(t *testing.T, body interface{}) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(data))
	req.Header.Set("X-User-ID", "10")
	return req
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createReservation.Response{
		ID:              7,
		UserID:          10,
		FacilityID:      1,
		ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:00",
		Status:          "active",
		FacilityLabel:   "Bus 42",
	}}
	h := NewHandler(uc, noopLogger{})

	req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "2026-09-02", SlotStart: "10:00"})
	rec := serve(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "10:00", resp.SlotStart)
	assert.Equal(t, "11:00", resp.SlotEnd)

	// Actor собран из заголовков запроса
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, domain.Actor{UserID: 10, Role: domain.RoleUser}, uc.lastReq.Actor)
}

func TestHandle_MissingUserHeader(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, noopLogger{})

	req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "2026-09-02", SlotStart: "10:00"})
	req.Header.Del("X-User-ID")
	rec := serve(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, noopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-User-ID", "10")
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidDateFormat(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, noopLogger{})

	// Дата той же длины, что и валидная: ошибка определяется парсингом,
	// а не формой строки
	req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "02.09.2026", SlotStart: "10:00"})
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgInvalidDate, body.Message)
}

func TestHandle_InvalidTimeFormat(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, noopLogger{})

	req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "2026-09-02", SlotStart: "10am"})
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgInvalidTime, body.Message)
}

func TestHandle_ConflictCodes(t *testing.T) {
	testCases := []struct {
		name         string
		useCaseErr   error
		expectedCode string
	}{
		{name: "user already holds a reservation", useCaseErr: createReservation.ErrAlreadyReserved, expectedCode: codeUserHasActive},
		{name: "facility lost to a concurrent session", useCaseErr: createReservation.ErrFacilityUnavailable, expectedCode: codeFacilityUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tc.useCaseErr}, noopLogger{})

			req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "2026-09-02", SlotStart: "10:00"})
			rec := serve(h, req)

			require.Equal(t, http.StatusConflict, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tc.expectedCode, errResp.Code)
		})
	}
}

func TestHandle_ErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name       string
		useCaseErr error
		expected   int
	}{
		{name: "facility not found", useCaseErr: createReservation.ErrFacilityNotFound, expected: http.StatusNotFound},
		{name: "user not found", useCaseErr: createReservation.ErrUserNotFound, expected: http.StatusNotFound},
		{name: "user not approved", useCaseErr: createReservation.ErrUserNotApproved, expected: http.StatusForbidden},
		{name: "slot not permitted", useCaseErr: createReservation.ErrInvalidSlot, expected: http.StatusBadRequest},
		{name: "date in past", useCaseErr: createReservation.ErrInvalidDate, expected: http.StatusBadRequest},
		{name: "internal error", useCaseErr: createReservation.ErrInternal, expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tc.useCaseErr}, noopLogger{})

			req := newRequest(t, CreateReservationRequest{FacilityID: 1, Date: "2026-09-02", SlotStart: "10:00"})
			rec := serve(h, req)

			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}
