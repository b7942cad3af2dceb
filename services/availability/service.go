package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	availabilityRepo "slotline/database/repository/availability"
	"slotline/models"
	"slotline/utils"
)

// Service manages a provider's availability configuration: the one-time
// settings record, the weekly rules, and date overrides. Every operation is
// scoped to the calling provider; resources of other providers are simply
// invisible here.
type Service interface {
	InitSettings(ctx context.Context, providerID string, in SettingsInput) (*models.AvailabilitySettings, error)
	GetSettings(ctx context.Context, providerID string) (*models.AvailabilitySettings, error)
	UpdateSettings(ctx context.Context, providerID string, in SettingsInput) (*models.AvailabilitySettings, error)

	CreateRule(ctx context.Context, providerID string, in RuleInput) (*models.AvailabilityRule, error)
	ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
	GetRule(ctx context.Context, providerID, ruleID string) (*models.AvailabilityRule, error)
	UpdateRule(ctx context.Context, providerID, ruleID string, in RuleInput) (*models.AvailabilityRule, error)
	DeleteRule(ctx context.Context, providerID, ruleID string) error

	CreateOverride(ctx context.Context, providerID string, in OverrideInput) (*models.AvailabilityOverride, error)
	ListOverrides(ctx context.Context, providerID string) ([]models.AvailabilityOverride, error)
	GetOverride(ctx context.Context, providerID, overrideID string) (*models.AvailabilityOverride, error)
	UpdateOverride(ctx context.Context, providerID, overrideID string, in OverrideInput) (*models.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, providerID, overrideID string) error
}

// SettingsInput carries the provider-editable settings fields.
type SettingsInput struct {
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	BreakMinutes        int    `json:"break_minutes"`
	Timezone            string `json:"timezone"`
}

// RuleInput carries the provider-editable weekly rule fields.
type RuleInput struct {
	DayOfWeek models.Weekday `json:"day_of_week"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	IsActive  *bool          `json:"is_active"` // nil defaults to true
}

// OverrideInput carries the provider-editable override fields.
type OverrideInput struct {
	Date      string              `json:"date"`
	Type      models.OverrideType `json:"type"`
	StartTime string              `json:"start_time"`
	EndTime   string              `json:"end_time"`
	Reason    string              `json:"reason"`
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo  availabilityRepo.Repository
	Cache *redis.Client // nil disables slot-cache invalidation
	Clock func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

const (
	minSlotDuration = 15
	maxSlotDuration = 480
	maxBreak        = 60
)

func validateSettingsInput(in SettingsInput) (*time.Location, error) {
	if in.SlotDurationMinutes < minSlotDuration || in.SlotDurationMinutes > maxSlotDuration {
		return nil, utils.Validationf("slot_duration_minutes must be between %d and %d", minSlotDuration, maxSlotDuration)
	}
	if in.BreakMinutes < 0 || in.BreakMinutes > maxBreak {
		return nil, utils.Validationf("break_minutes must be between 0 and %d", maxBreak)
	}
	if in.Timezone == "" {
		return nil, utils.Validationf("timezone is required")
	}
	loc, err := time.LoadLocation(in.Timezone)
	if err != nil {
		return nil, utils.Validationf("unknown timezone %q", in.Timezone)
	}
	return loc, nil
}

func (s *DefaultAvailabilityService) InitSettings(ctx context.Context, providerID string, in SettingsInput) (*models.AvailabilitySettings, error) {
	if _, err := validateSettingsInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	settings := &models.AvailabilitySettings{
		ProviderID:          providerID,
		SlotDurationMinutes: in.SlotDurationMinutes,
		BreakMinutes:        in.BreakMinutes,
		Timezone:            in.Timezone,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.Repo.CreateSettings(ctx, settings); err != nil {
		if errors.Is(err, availabilityRepo.ErrSettingsExist) {
			return nil, utils.Conflictf("availability settings", "already initialized; use update")
		}
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return settings, nil
}

func (s *DefaultAvailabilityService) GetSettings(ctx context.Context, providerID string) (*models.AvailabilitySettings, error) {
	settings, err := s.Repo.GetSettings(ctx, providerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability settings")
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return settings, nil
}

func (s *DefaultAvailabilityService) UpdateSettings(ctx context.Context, providerID string, in SettingsInput) (*models.AvailabilitySettings, error) {
	if _, err := validateSettingsInput(in); err != nil {
		return nil, err
	}

	settings := &models.AvailabilitySettings{
		ProviderID:          providerID,
		SlotDurationMinutes: in.SlotDurationMinutes,
		BreakMinutes:        in.BreakMinutes,
		Timezone:            in.Timezone,
		UpdatedAt:           s.now().UTC(),
	}
	if err := s.Repo.UpdateSettings(ctx, settings); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability settings")
		}
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.invalidateProvider(providerID)
	return s.GetSettings(ctx, providerID)
}

// settingsLocation loads the provider's timezone; rules and overrides cannot
// exist without settings, so a miss maps to not-found.
func (s *DefaultAvailabilityService) settingsLocation(ctx context.Context, providerID string) (*time.Location, error) {
	settings, err := s.GetSettings(ctx, providerID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("stored timezone %q is unusable: %w", settings.Timezone, err)
	}
	return loc, nil
}

// invalidateProvider drops every cached slot list for the provider. Settings
// and weekly rules shape all dates, so everything goes.
func (s *DefaultAvailabilityService) invalidateProvider(providerID string) {
	if s.Cache == nil {
		return
	}
	if err := utils.InvalidateProviderSlots(s.Cache, providerID); err != nil {
		utils.GetLogger().Warn("slot cache invalidation failed",
			zap.String("providerID", providerID), zap.Error(err))
	}
}

// invalidateDate drops the cached slot list for a single provider date.
func (s *DefaultAvailabilityService) invalidateDate(providerID, date string) {
	if s.Cache == nil {
		return
	}
	if err := utils.InvalidateSlotDate(s.Cache, providerID, date); err != nil {
		utils.GetLogger().Warn("slot cache invalidation failed",
			zap.String("providerID", providerID), zap.String("date", date), zap.Error(err))
	}
}
