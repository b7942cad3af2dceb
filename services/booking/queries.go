package booking

import (
	"context"

	"slotline/models"
	"slotline/utils"
)

func (s *DefaultBookingService) GetRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error) {
	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.VisibleTo(p) {
		return nil, utils.Forbidden("this request is not visible to you")
	}
	return req, nil
}

// ListRequests returns the caller's own view: a requester sees requests they
// opened, a provider sees requests targeting them.
func (s *DefaultBookingService) ListRequests(ctx context.Context, p models.Principal, page, pageSize int) ([]models.SessionRequest, int64, error) {
	switch p.Role {
	case models.RoleRequester:
		return s.Requests.ListByRequester(ctx, p.ID, page, pageSize)
	case models.RoleProvider:
		return s.Requests.ListByProvider(ctx, p.ID, page, pageSize)
	case models.RoleAdmin:
		return nil, 0, utils.Forbidden("admins review requests through the admin queue")
	}
	return nil, 0, utils.Forbidden("unknown role")
}
