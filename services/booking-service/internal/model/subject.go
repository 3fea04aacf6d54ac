package model

import (
	"fmt"
	"strings"
)

type subjectKind uint8

const (
	subjectNone subjectKind = iota
	subjectUser
	subjectGuest
)

// Guest identifies an unauthenticated booker.
type Guest struct {
	Name  string
	Phone string
}

// Subject is the party an appointment is booked for: exactly one of a registered user or
// a guest. Build it with UserSubject or GuestSubject; the zero value is invalid.
type Subject struct {
	kind   subjectKind
	userID string
	guest  Guest
}

func UserSubject(userID string) (Subject, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Subject{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return Subject{kind: subjectUser, userID: userID}, nil
}

func GuestSubject(name, phone string) (Subject, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return Subject{}, fmt.Errorf("%w: guest name and guest phone are required", ErrValidation)
	}
	return Subject{kind: subjectGuest, guest: Guest{Name: name, Phone: phone}}, nil
}

// ResolveSubject attaches the authenticated user when there is one, otherwise falls back
// to guest details.
func ResolveSubject(userID, guestName, guestPhone string) (Subject, error) {
	if strings.TrimSpace(userID) != "" {
		return UserSubject(userID)
	}
	return GuestSubject(guestName, guestPhone)
}

func (s Subject) Valid() bool {
	return s.kind != subjectNone
}

func (s Subject) UserID() (string, bool) {
	return s.userID, s.kind == subjectUser
}

func (s Subject) Guest() (Guest, bool) {
	return s.guest, s.kind == subjectGuest
}

func (s Subject) IsGuest() bool {
	return s.kind == subjectGuest
}
