package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "slotline/database/repository/session"
	"slotline/models"
	"slotline/utils"
)

// Service reads the durable booking records. Sessions are only ever written
// by the approval transaction, so this side is lookup and listing.
type Service interface {
	GetSession(ctx context.Context, p models.Principal, id string) (*models.ConfirmedSession, error)
	ListSessions(ctx context.Context, p models.Principal, page, pageSize int) ([]models.ConfirmedSession, int64, error)
	AdminListSessions(ctx context.Context, p models.Principal, filter sessionRepo.AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error)
}

type DefaultSessionService struct {
	Repo sessionRepo.Repository
}

func NewDefaultSessionService(repo sessionRepo.Repository) *DefaultSessionService {
	return &DefaultSessionService{Repo: repo}
}

func (s *DefaultSessionService) GetSession(ctx context.Context, p models.Principal, id string) (*models.ConfirmedSession, error) {
	session, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, utils.NotFound("session")
		}
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	if !session.VisibleTo(p) {
		return nil, utils.Forbidden("you do not have access to this session")
	}
	return session, nil
}

// ListSessions is the caller's own view: requesters see sessions they booked,
// providers see sessions booked with them.
func (s *DefaultSessionService) ListSessions(ctx context.Context, p models.Principal, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	switch p.Role {
	case models.RoleRequester:
		return s.Repo.ListByRequester(ctx, p.ID, page, pageSize)
	case models.RoleProvider:
		return s.Repo.ListByProvider(ctx, p.ID, page, pageSize)
	case models.RoleAdmin:
		return nil, 0, utils.Forbidden("admins list sessions through the admin endpoint")
	}
	return nil, 0, utils.Forbidden("unknown role")
}

func (s *DefaultSessionService) AdminListSessions(ctx context.Context, p models.Principal, filter sessionRepo.AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	if p.Role != models.RoleAdmin {
		return nil, 0, utils.Forbidden("only admins can list all sessions")
	}
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.Repo.ListAdmin(ctx, filter, page, pageSize)
}

func validateFilter(filter sessionRepo.AdminFilter) error {
	for _, d := range []string{filter.FromDate, filter.ToDate} {
		if d == "" {
			continue
		}
		if _, err := utils.ParseDate(d, time.UTC); err != nil {
			return utils.Validationf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	if filter.FromDate != "" && filter.ToDate != "" && filter.FromDate > filter.ToDate {
		return utils.Validationf("from date %s is after to date %s", filter.FromDate, filter.ToDate)
	}
	return nil
}
