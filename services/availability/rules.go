package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	availabilityRepo "slotline/database/repository/availability"
	"slotline/models"
	"slotline/utils"
)

func (s *DefaultAvailabilityService) CreateRule(ctx context.Context, providerID string, in RuleInput) (*models.AvailabilityRule, error) {
	// Settings must exist before rules: slot sizing is meaningless without
	// them.
	if _, err := s.GetSettings(ctx, providerID); err != nil {
		return nil, err
	}
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	active := in.IsActive == nil || *in.IsActive
	if active {
		if err := s.checkRuleOverlap(ctx, providerID, in, ""); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	rule := &models.AvailabilityRule{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		DayOfWeek:  in.DayOfWeek,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.CreateRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	s.invalidateProvider(providerID)
	return rule, nil
}

func (s *DefaultAvailabilityService) ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	rules, err := s.Repo.ListRules(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (s *DefaultAvailabilityService) GetRule(ctx context.Context, providerID, ruleID string) (*models.AvailabilityRule, error) {
	rule, err := s.Repo.GetRule(ctx, providerID, ruleID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability rule")
		}
		return nil, fmt.Errorf("failed to fetch rule: %w", err)
	}
	return rule, nil
}

func (s *DefaultAvailabilityService) UpdateRule(ctx context.Context, providerID, ruleID string, in RuleInput) (*models.AvailabilityRule, error) {
	rule, err := s.GetRule(ctx, providerID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	active := in.IsActive == nil || *in.IsActive
	if active {
		// Validate against the target day's other active rules, excluding
		// this rule itself.
		if err := s.checkRuleOverlap(ctx, providerID, in, ruleID); err != nil {
			return nil, err
		}
	}

	rule.DayOfWeek = in.DayOfWeek
	rule.StartTime = in.StartTime
	rule.EndTime = in.EndTime
	rule.IsActive = active
	rule.UpdatedAt = s.now().UTC()

	if err := s.Repo.UpdateRule(ctx, rule); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability rule")
		}
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	s.invalidateProvider(providerID)
	return rule, nil
}

func (s *DefaultAvailabilityService) DeleteRule(ctx context.Context, providerID, ruleID string) error {
	if err := s.Repo.DeleteRule(ctx, providerID, ruleID); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return utils.NotFound("availability rule")
		}
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	s.invalidateProvider(providerID)
	return nil
}

func validateRuleInput(in RuleInput) error {
	if !in.DayOfWeek.Valid() {
		return utils.Validationf("day_of_week %q is not a weekday", in.DayOfWeek)
	}
	if err := utils.ClockRangeValid(in.StartTime, in.EndTime); err != nil {
		return utils.Validationf("%v", err)
	}
	return nil
}

// checkRuleOverlap enforces the no-overlap invariant among a provider's
// active rules for one weekday. excludeID skips the rule being updated.
func (s *DefaultAvailabilityService) checkRuleOverlap(ctx context.Context, providerID string, in RuleInput, excludeID string) error {
	existing, err := s.Repo.ListActiveRulesForDay(ctx, providerID, in.DayOfWeek)
	if err != nil {
		return fmt.Errorf("failed to list rules for overlap check: %w", err)
	}

	start, _ := utils.ParseClock(in.StartTime)
	end, _ := utils.ParseClock(in.EndTime)
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		oStart, err := utils.ParseClock(other.StartTime)
		if err != nil {
			return fmt.Errorf("stored rule %s has unparseable hours: %w", other.ID, err)
		}
		oEnd, err := utils.ParseClock(other.EndTime)
		if err != nil {
			return fmt.Errorf("stored rule %s has unparseable hours: %w", other.ID, err)
		}
		if utils.IntervalsOverlap(start, end, oStart, oEnd) {
			return utils.Conflictf("availability rule",
				"window %s-%s overlaps active rule %s-%s on %s",
				in.StartTime, in.EndTime, other.StartTime, other.EndTime, in.DayOfWeek)
		}
	}
	return nil
}
