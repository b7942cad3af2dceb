package models

import "time"

// RequestStatus is the lifecycle state of a session request.
type RequestStatus string

const (
	StatusPendingPayment  RequestStatus = "PENDING_PAYMENT"
	StatusPendingApproval RequestStatus = "PENDING_APPROVAL"
	StatusConfirmed       RequestStatus = "CONFIRMED"
	StatusRejected        RequestStatus = "REJECTED"
	StatusCancelled       RequestStatus = "CANCELLED"
	StatusExpired         RequestStatus = "EXPIRED"
)

// requestTransitions is the full set of legal status edges. Terminal states
// have no outgoing edges.
var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusPendingPayment:  {StatusPendingApproval, StatusCancelled, StatusExpired},
	StatusPendingApproval: {StatusConfirmed, StatusRejected, StatusExpired},
}

// Terminal reports whether no further transition can leave s.
func (s RequestStatus) Terminal() bool {
	return len(requestTransitions[s]) == 0
}

// CanTransitionTo reports whether the edge s -> to is legal.
func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// SessionRequest is the booking lifecycle record a requester creates when
// picking a slot. Rows are never deleted; terminal states are kept as history.
type SessionRequest struct {
	ID              string        `bson:"id" json:"id"`
	ProviderID      string        `bson:"provider_id" json:"provider_id"`
	RequesterID     string        `bson:"requester_id" json:"requester_id"`
	Date            string        `bson:"date" json:"date"`             // "YYYY-MM-DD", provider-local
	StartTime       string        `bson:"start_time" json:"start_time"` // "HH:MM"
	EndTime         string        `bson:"end_time" json:"end_time"`     // "HH:MM"
	Amount          float64       `bson:"amount" json:"amount"`
	Currency        string        `bson:"currency" json:"currency"`
	Status          RequestStatus `bson:"status" json:"status"`
	PaymentProofRef string        `bson:"payment_proof_ref,omitempty" json:"payment_proof_ref,omitempty"`
	ExpiresAt       time.Time     `bson:"expires_at" json:"expires_at"`
	RejectionReason string        `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	BlockedSlotID   string        `bson:"blocked_slot_id,omitempty" json:"blocked_slot_id,omitempty"`
	SessionTitle    string        `bson:"session_title" json:"session_title"`
	SessionType     string        `bson:"session_type" json:"session_type"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// VisibleTo reports whether a principal may read this request: its requester,
// its target provider, and admins.
func (r *SessionRequest) VisibleTo(p Principal) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleProvider:
		return p.ID == r.ProviderID
	case RoleRequester:
		return p.ID == r.RequesterID
	}
	return false
}

// BlockedSlot is a time-boxed soft lock removing an exact interval from
// availability while its owning request is in flight. It is created in the
// same transaction as the request and deleted when the request resolves or
// its deadline passes.
type BlockedSlot struct {
	ID               string    `bson:"id" json:"id"`
	ProviderID       string    `bson:"provider_id" json:"provider_id"`
	Date             string    `bson:"date" json:"date"`
	StartTime        string    `bson:"start_time" json:"start_time"`
	EndTime          string    `bson:"end_time" json:"end_time"`
	ExpiresAt        time.Time `bson:"expires_at" json:"expires_at"`
	SessionRequestID string    `bson:"session_request_id" json:"session_request_id"` // 1:1, unique
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// Active reports whether the lock still suppresses its interval at t.
func (b *BlockedSlot) Active(t time.Time) bool {
	return b.ExpiresAt.After(t)
}
