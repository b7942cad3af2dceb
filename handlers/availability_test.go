package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"slotline/models"
	"slotline/services/availability"
	"slotline/utils"
)

func availabilityRouter(svc availability.Service) *gin.Engine {
	r := testRouter()
	h := &AvailabilityHandler{Service: svc}
	api := r.Group("/api/availability", withPrincipal(providerP))
	api.POST("/settings", h.InitSettings)
	api.POST("/rules", h.CreateRule)
	api.DELETE("/rules/:id", h.DeleteRule)
	return r
}

func TestInitSettingsCreated(t *testing.T) {
	var gotProvider string
	svc := &fakeAvailabilitySvc{
		initSettings: func(ctx context.Context, providerID string, in availability.SettingsInput) (*models.AvailabilitySettings, error) {
			gotProvider = providerID
			return &models.AvailabilitySettings{ProviderID: providerID,
				SlotDurationMinutes: in.SlotDurationMinutes, BreakMinutes: in.BreakMinutes, Timezone: in.Timezone}, nil
		},
	}

	body := `{"slot_duration_minutes":60,"break_minutes":15,"timezone":"Europe/Berlin"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/settings", strings.NewReader(body))
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, providerP.ID, gotProvider, "settings are scoped to the authenticated provider")
	assert.Contains(t, w.Body.String(), "Europe/Berlin")
}

func TestInitSettingsDuplicate(t *testing.T) {
	svc := &fakeAvailabilitySvc{
		initSettings: func(ctx context.Context, providerID string, in availability.SettingsInput) (*models.AvailabilitySettings, error) {
			return nil, utils.Conflictf("availability settings", "already initialized; use update")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/settings",
		strings.NewReader(`{"slot_duration_minutes":60,"break_minutes":15,"timezone":"UTC"}`))
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already initialized")
}

func TestCreateRuleOverlapConflict(t *testing.T) {
	svc := &fakeAvailabilitySvc{
		createRule: func(ctx context.Context, providerID string, in availability.RuleInput) (*models.AvailabilityRule, error) {
			return nil, utils.Conflictf("availability rule", "window 09:00-12:00 overlaps active rule 10:00-14:00 on monday")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/rules",
		strings.NewReader(`{"day_of_week":"monday","start_time":"09:00","end_time":"12:00"}`))
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "overlaps")
}

func TestCreateRuleValidation(t *testing.T) {
	svc := &fakeAvailabilitySvc{
		createRule: func(ctx context.Context, providerID string, in availability.RuleInput) (*models.AvailabilityRule, error) {
			return nil, utils.Validationf("start_time must be before end_time")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/rules",
		strings.NewReader(`{"day_of_week":"monday","start_time":"17:00","end_time":"09:00"}`))
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_time must be before end_time")
}

func TestDeleteRule(t *testing.T) {
	var gotRuleID string
	svc := &fakeAvailabilitySvc{
		deleteRule: func(ctx context.Context, providerID, ruleID string) error {
			gotRuleID = ruleID
			return nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/availability/rules/rule-7", nil)
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rule-7", gotRuleID)
}

func TestDeleteRuleNotFound(t *testing.T) {
	svc := &fakeAvailabilitySvc{
		deleteRule: func(ctx context.Context, providerID, ruleID string) error {
			return utils.NotFound("availability rule")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/availability/rules/other-providers-rule", nil)
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
