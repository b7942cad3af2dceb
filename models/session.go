package models

import "time"

// ConfirmedSession is the durable booking record. Created exactly once, only
// when an admin approves a session request; the interval is immutable after
// creation.
type ConfirmedSession struct {
	ID           string    `bson:"id" json:"id"`
	RequestID    string    `bson:"request_id" json:"request_id"` // back-reference, unique
	ProviderID   string    `bson:"provider_id" json:"provider_id"`
	RequesterID  string    `bson:"requester_id" json:"requester_id"`
	Date         string    `bson:"date" json:"date"`
	StartTime    string    `bson:"start_time" json:"start_time"`
	EndTime      string    `bson:"end_time" json:"end_time"`
	Amount       float64   `bson:"amount" json:"amount"`
	Currency     string    `bson:"currency" json:"currency"`
	SessionTitle string    `bson:"session_title" json:"session_title"`
	SessionType  string    `bson:"session_type" json:"session_type"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// VisibleTo mirrors the request visibility rule for the durable record.
func (s *ConfirmedSession) VisibleTo(p Principal) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleProvider:
		return p.ID == s.ProviderID
	case RoleRequester:
		return p.ID == s.RequesterID
	}
	return false
}

// ProviderRate is the per-provider session price used when a request is
// created. Providers without a rate document fall back to the configured
// default.
type ProviderRate struct {
	ProviderID       string    `bson:"provider_id" json:"provider_id"`
	AmountPerSession float64   `bson:"amount_per_session" json:"amount_per_session"`
	Currency         string    `bson:"currency" json:"currency"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
