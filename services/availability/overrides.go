package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	availabilityRepo "slotline/database/repository/availability"
	"slotline/models"
	"slotline/utils"
)

func (s *DefaultAvailabilityService) CreateOverride(ctx context.Context, providerID string, in OverrideInput) (*models.AvailabilityOverride, error) {
	loc, err := s.settingsLocation(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.validateOverrideInput(in, loc); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	override := &models.AvailabilityOverride{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		Date:       in.Date,
		Type:       in.Type,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Reason:     in.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.CreateOverride(ctx, override); err != nil {
		if errors.Is(err, availabilityRepo.ErrDuplicateOverride) {
			return nil, utils.Conflictf("availability override", "an override already exists for %s; use update", in.Date)
		}
		return nil, fmt.Errorf("failed to create override: %w", err)
	}

	s.invalidateDate(providerID, in.Date)
	return override, nil
}

func (s *DefaultAvailabilityService) ListOverrides(ctx context.Context, providerID string) ([]models.AvailabilityOverride, error) {
	overrides, err := s.Repo.ListOverrides(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return overrides, nil
}

func (s *DefaultAvailabilityService) GetOverride(ctx context.Context, providerID, overrideID string) (*models.AvailabilityOverride, error) {
	override, err := s.Repo.GetOverride(ctx, providerID, overrideID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability override")
		}
		return nil, fmt.Errorf("failed to fetch override: %w", err)
	}
	return override, nil
}

func (s *DefaultAvailabilityService) UpdateOverride(ctx context.Context, providerID, overrideID string, in OverrideInput) (*models.AvailabilityOverride, error) {
	override, err := s.GetOverride(ctx, providerID, overrideID)
	if err != nil {
		return nil, err
	}

	// The date is the override's identity; moving a day means delete and
	// recreate.
	if in.Date != "" && in.Date != override.Date {
		return nil, utils.Validationf("override date cannot be changed; delete and recreate instead")
	}
	in.Date = override.Date

	loc, err := s.settingsLocation(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.validateOverrideInput(in, loc); err != nil {
		return nil, err
	}

	override.Type = in.Type
	override.StartTime = in.StartTime
	override.EndTime = in.EndTime
	override.Reason = in.Reason
	override.UpdatedAt = s.now().UTC()

	if err := s.Repo.UpdateOverride(ctx, override); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability override")
		}
		return nil, fmt.Errorf("failed to update override: %w", err)
	}

	s.invalidateDate(providerID, override.Date)
	return override, nil
}

func (s *DefaultAvailabilityService) DeleteOverride(ctx context.Context, providerID, overrideID string) error {
	override, err := s.GetOverride(ctx, providerID, overrideID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteOverride(ctx, providerID, overrideID); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return utils.NotFound("availability override")
		}
		return fmt.Errorf("failed to delete override: %w", err)
	}

	s.invalidateDate(providerID, override.Date)
	return nil
}

func (s *DefaultAvailabilityService) validateOverrideInput(in OverrideInput, loc *time.Location) error {
	day, err := utils.ParseDate(in.Date, loc)
	if err != nil {
		return utils.Validationf("%v", err)
	}

	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return utils.Validationf("override date %s is in the past", in.Date)
	}

	switch in.Type {
	case models.OverrideOff:
		if in.StartTime != "" || in.EndTime != "" {
			return utils.Validationf("an OFF override does not take a time window")
		}
	case models.OverrideCustom:
		if err := utils.ClockRangeValid(in.StartTime, in.EndTime); err != nil {
			return utils.Validationf("%v", err)
		}
	default:
		return utils.Validationf("override type must be %s or %s", models.OverrideOff, models.OverrideCustom)
	}
	return nil
}
