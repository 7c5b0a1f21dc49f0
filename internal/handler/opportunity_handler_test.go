package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/handler"
	"github.com/bidflow/bidflow-api/internal/service"
)

type mockOpportunityService struct {
	response      dto.OpportunityResponse
	createErr     error
	transitionErr error
	lastStatus    string
	lastForce     bool
}

func (m *mockOpportunityService) Create(_ context.Context, payload dto.OpportunityCreateRequest) (dto.OpportunityResponse, error) {
	if m.createErr != nil {
		return dto.OpportunityResponse{}, m.createErr
	}
	return dto.OpportunityResponse{ID: 1, TenderID: payload.TenderID, Status: "qualifying"}, nil
}

func (m *mockOpportunityService) Get(_ context.Context, _ uint) (dto.OpportunityResponse, error) {
	return m.response, m.transitionErr
}

func (m *mockOpportunityService) List(_ context.Context, _ dto.OpportunityListRequest) (dto.OpportunityListResponse, error) {
	return dto.OpportunityListResponse{Items: []dto.OpportunityResponse{m.response}}, nil
}

func (m *mockOpportunityService) Transition(_ context.Context, _ uint, payload dto.OpportunityTransitionRequest, _ uint) (dto.OpportunityResponse, error) {
	m.lastStatus = payload.Status
	m.lastForce = payload.Force
	if m.transitionErr != nil {
		return dto.OpportunityResponse{}, m.transitionErr
	}
	return dto.OpportunityResponse{ID: 1, Status: payload.Status}, nil
}

func (m *mockOpportunityService) Delete(_ context.Context, _ uint) error {
	return m.transitionErr
}

func newOpportunityTestApp(svc service.OpportunityService) *fiber.App {
	app := fiber.New()
	handler.NewOpportunityHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/opportunities"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestOpportunityHandlerCreate(t *testing.T) {
	app := newOpportunityTestApp(&mockOpportunityService{})

	resp := postJSON(t, app, http.MethodPost, "/api/v1/opportunities", `{"tender_id":7}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data dto.OpportunityResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, uint(7), body.Data.TenderID)
	require.Equal(t, "qualifying", body.Data.Status)
}

func TestOpportunityHandlerCreateConflicts(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "duplicate active opportunity", err: service.ErrDuplicateOpportunity, status: fiber.StatusConflict},
		{name: "unknown tender", err: service.ErrTenderNotFound, status: fiber.StatusNotFound},
		{name: "foreign qualification", err: service.ErrQualificationNotFound, status: fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newOpportunityTestApp(&mockOpportunityService{createErr: tc.err})

			resp := postJSON(t, app, http.MethodPost, "/api/v1/opportunities", `{"tender_id":7}`)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestOpportunityHandlerTransition(t *testing.T) {
	svc := &mockOpportunityService{}
	app := newOpportunityTestApp(svc)

	resp := postJSON(t, app, http.MethodPatch, "/api/v1/opportunities/1/status", `{"status":"review","force":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "review", svc.lastStatus)
	require.True(t, svc.lastForce)
}

func TestOpportunityHandlerTransitionErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unknown stage", err: service.ErrUnknownStage, status: fiber.StatusBadRequest},
		{name: "illegal transition", err: service.ErrIllegalTransition, status: fiber.StatusConflict},
		{name: "open high priority tasks", err: service.ErrIncompleteTasks, status: fiber.StatusConflict},
		{name: "missing qualification", err: service.ErrQualificationRequired, status: fiber.StatusConflict},
		{name: "not found", err: service.ErrOpportunityNotFound, status: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newOpportunityTestApp(&mockOpportunityService{transitionErr: tc.err})

			resp := postJSON(t, app, http.MethodPatch, "/api/v1/opportunities/1/status", `{"status":"won"}`)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestOpportunityHandlerListParsesAssignee(t *testing.T) {
	app := newOpportunityTestApp(&mockOpportunityService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/opportunities?assignedTo=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/opportunities?assignedTo=9", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOpportunityHandlerDeleteNotFound(t *testing.T) {
	app := newOpportunityTestApp(&mockOpportunityService{transitionErr: service.ErrOpportunityNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/opportunities/42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
