package models

// Notification is the payload handed to the notification sink. Delivery is an
// external concern; this subsystem only triggers it.
type Notification struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Category string            `json:"category"` // e.g. "session_request"
	Metadata map[string]string `json:"metadata,omitempty"`
	Link     string            `json:"link,omitempty"`
}

// NotificationTask is the queued form of a notification: payload plus the
// addressing needed by the background worker.
type NotificationTask struct {
	RecipientID   string       `json:"recipient_id"`
	RecipientRole Role         `json:"recipient_role"`
	Notification  Notification `json:"notification"`
}
