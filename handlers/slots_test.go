package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"slotline/models"
	"slotline/services/slots"
	"slotline/utils"
)

func slotRouter(svc slots.Service) *gin.Engine {
	r := testRouter()
	h := &SlotHandler{Service: svc}
	r.GET("/api/providers/:providerID/slots", withPrincipal(requesterP), h.GetProviderSlots)
	return r
}

func TestGetProviderSlots(t *testing.T) {
	var gotProvider, gotDate string
	svc := &fakeSlotSvc{
		getSlots: func(ctx context.Context, providerID, date string) (*models.SlotList, error) {
			gotProvider, gotDate = providerID, date
			return &models.SlotList{
				ProviderID: providerID,
				Date:       date,
				Slots:      []models.Slot{{Date: date, StartTime: "09:00", EndTime: "10:00"}},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots?date=2026-09-07", nil)
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "prov-1", gotProvider)
	assert.Equal(t, "2026-09-07", gotDate)
	assert.Contains(t, w.Body.String(), `"09:00"`)
}

func TestGetProviderSlotsRequiresDate(t *testing.T) {
	svc := &fakeSlotSvc{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots", nil)
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestGetProviderSlotsPastDate(t *testing.T) {
	svc := &fakeSlotSvc{
		getSlots: func(ctx context.Context, providerID, date string) (*models.SlotList, error) {
			return nil, utils.Validationf("date %s is in the past", date)
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots?date=2020-01-01", nil)
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "in the past")
}
