package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	availabilityRepo "slotline/database/repository/availability"
	requestRepo "slotline/database/repository/request"
	sessionRepo "slotline/database/repository/session"
	"slotline/models"
	"slotline/utils"
)

// Service computes the bookable slots for a provider and date.
type Service interface {
	GetSlots(ctx context.Context, providerID, date string) (*models.SlotList, error)
}

// DefaultSlotService resolves the day's hours from the availability store,
// subtracts reservations, and serves the result through a short-TTL Redis
// cache. Cached lists may be momentarily stale; request creation re-checks
// against the store, so staleness only ever costs the requester a conflict.
type DefaultSlotService struct {
	AvailabilityRepo availabilityRepo.Repository
	RequestRepo      requestRepo.Repository
	SessionRepo      sessionRepo.Repository
	Cache            *redis.Client // nil disables caching
	CacheTTL         time.Duration
	Clock            func() time.Time
}

func (s *DefaultSlotService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultSlotService) GetSlots(ctx context.Context, providerID, date string) (*models.SlotList, error) {
	logger := utils.GetLogger()

	settings, err := s.AvailabilityRepo.GetSettings(ctx, providerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, utils.NotFound("availability settings for provider")
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("stored timezone %q is unusable: %w", settings.Timezone, err)
	}

	day, err := utils.ParseDate(date, loc)
	if err != nil {
		return nil, utils.Validationf("%v", err)
	}

	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, utils.Validationf("date %s is in the past", date)
	}

	if s.Cache != nil {
		cached, err := utils.GetSlotList(s.Cache, providerID, date)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn("slot cache read failed", zap.String("providerID", providerID), zap.Error(err))
		}
	}

	list, err := s.build(ctx, providerID, date, settings, day, today, now)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := utils.SaveSlotList(s.Cache, list, s.cacheTTL()); err != nil {
			logger.Warn("slot cache write failed", zap.String("providerID", providerID), zap.Error(err))
		}
	}
	return list, nil
}

func (s *DefaultSlotService) build(ctx context.Context, providerID, date string, settings *models.AvailabilitySettings, day, today, now time.Time) (*models.SlotList, error) {
	weekday := models.WeekdayFromTime(day.Weekday())

	rules, err := s.AvailabilityRepo.ListActiveRulesForDay(ctx, providerID, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}

	override, err := s.AvailabilityRepo.GetOverrideByDate(ctx, providerID, date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch override: %w", err)
	}

	source, err := ResolveDaySource(rules, override)
	if err != nil {
		return nil, fmt.Errorf("stored hours are unparseable: %w", err)
	}

	sessions, err := s.SessionRepo.ListByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed sessions: %w", err)
	}
	locks, err := s.RequestRepo.ListActiveLocks(ctx, providerID, date, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked slots: %w", err)
	}

	taken := make([]models.Slot, 0, len(sessions)+len(locks))
	for _, cs := range sessions {
		taken = append(taken, models.Slot{Date: date, StartTime: cs.StartTime, EndTime: cs.EndTime})
	}
	for _, lock := range locks {
		taken = append(taken, models.Slot{Date: date, StartTime: lock.StartTime, EndTime: lock.EndTime})
	}

	generated := Generate(GenerateInput{
		Date:            date,
		DurationMinutes: settings.SlotDurationMinutes,
		BreakMinutes:    settings.BreakMinutes,
		Source:          source,
		IsToday:         day.Equal(today),
		NowMinutes:      now.Hour()*60 + now.Minute(),
		Taken:           taken,
	})

	list := &models.SlotList{
		ProviderID: providerID,
		Date:       date,
		Slots:      generated,
	}
	if len(generated) == 0 {
		list.Slots = []models.Slot{}
		list.Reason = source.EmptyReason()
	}
	return list, nil
}

func (s *DefaultSlotService) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return 30 * time.Second
}
