package models

import (
	"time"
)

// RequestStatus represents the status of a mentorship request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// IsValid reports whether the status is one of the known statuses
func (s RequestStatus) IsValid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusDeclined
}

// IsTerminal returns true if the status permits no further transitions.
// Both accepted and declined are terminal; the guard is symmetric.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// CanTransitionTo checks if a status transition is valid
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	if s.IsTerminal() {
		return false
	}
	return s == StatusPending && (newStatus == StatusAccepted || newStatus == StatusDeclined)
}

// MentorshipRequest is a directed connection proposal from a mentee to a
// mentor. The (RequestorID, AcceptorID) pair is unique; only the acceptor may
// transition it out of pending.
type MentorshipRequest struct {
	ID          string        `json:"id"`
	RequestorID string        `json:"requestorId"`
	AcceptorID  string        `json:"acceptorId"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsAuthorizedActor reports whether callerID may accept or decline the
// request. Only the acceptor (the mentor the request targets) is authorized.
func (r *MentorshipRequest) IsAuthorizedActor(callerID string) bool {
	return r.AcceptorID == callerID
}

// CreateRequestPayload is the payload for creating a mentorship request
type CreateRequestPayload struct {
	RequestorID string `json:"requestorId" binding:"required,uuid"`
	AcceptorID  string `json:"acceptorId" binding:"required,uuid"`
}

// RequestStatusResponse is the pair status lookup response
type RequestStatusResponse struct {
	RequestorID string        `json:"requestorId"`
	AcceptorID  string        `json:"acceptorId"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IncomingRequest is a request in a mentor's inbox, enriched with the
// requestor's display attributes.
type IncomingRequest struct {
	ID                 string        `json:"id"`
	RequestorID        string        `json:"requestorId"`
	RequestorUsername  string        `json:"requestorUsername"`
	RequestorRole      Role          `json:"requestorRole"`
	RequestorSkills    []string      `json:"requestorSkills"`
	RequestorAvatarURL string        `json:"requestorAvatarUrl"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// IncomingRequestsResponse is the response for listing a mentor's inbox
type IncomingRequestsResponse struct {
	Requests []IncomingRequest `json:"requests"`
	Total    int               `json:"total"`
}
