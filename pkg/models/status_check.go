package models

import "time"

// StatusCheck is a heartbeat record naming the calling client. Never updated or deleted.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// StatusCheckCreate requires client_name to be present. An empty name is accepted.
type StatusCheckCreate struct {
	ClientName *string `json:"client_name" validate:"required"`
}

func NewStatusCheck(input StatusCheckCreate, id string, createdAt time.Time) StatusCheck {
	return StatusCheck{
		ID:         id,
		ClientName: deref(input.ClientName),
		Timestamp:  StoredTime(createdAt),
	}
}
