package models

import (
	"strings"
	"time"
)

type MentorshipStatus string

const (
	MentorshipPending   MentorshipStatus = "pending"
	MentorshipActive    MentorshipStatus = "active"
	MentorshipRejected  MentorshipStatus = "rejected"
	MentorshipCompleted MentorshipStatus = "completed"
)

var mentorshipTransitions = map[MentorshipStatus][]MentorshipStatus{
	MentorshipPending: {MentorshipActive, MentorshipRejected},
	MentorshipActive:  {MentorshipCompleted},
}

func (s MentorshipStatus) Valid() bool {
	switch s {
	case MentorshipPending, MentorshipActive, MentorshipRejected, MentorshipCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// rejected and completed are terminal.
func (s MentorshipStatus) CanTransitionTo(next MentorshipStatus) bool {
	for _, allowed := range mentorshipTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Mentorship struct {
	ID          string           `json:"id"`
	MentorID    string           `json:"mentorId"`
	MenteeID    string           `json:"menteeId"`
	RequestedBy string           `json:"requestedBy"`
	Status      MentorshipStatus `json:"status"`
	Field       *string          `json:"field"`
	PairKey     string           `json:"-"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (m Mentorship) HasParty(userID string) bool {
	return userID != "" && (m.MentorID == userID || m.MenteeID == userID)
}

// Counterparty returns the other party, or "" when userID is not a party.
func (m Mentorship) Counterparty(userID string) string {
	switch userID {
	case m.MentorID:
		return m.MenteeID
	case m.MenteeID:
		return m.MentorID
	}
	return ""
}

// PairKey canonicalises an unordered pair of user ids.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

type MentorshipView struct {
	Mentorship
	Mentor UserSummary `json:"mentor"`
	Mentee UserSummary `json:"mentee"`
}

type MentorshipFilter struct {
	MentorID string
	MenteeID string
}
