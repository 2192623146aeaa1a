package models

import (
	"github.com/samber/lo"
	"github.com/stackmatch/stackmatch/internal/database"
)

// ToUser converts a database.User to its JSON representation.
func ToUser(u database.User) User {
	return User{
		ID:              u.ID,
		User:            u.Username,
		Mail:            u.Mail,
		Password:        u.Password,
		FullName:        u.FullName,
		Stack:           u.Stack,
		WantedStack:     u.WantedStack,
		AbtMe:           u.AbtMe,
		AdditionalLinks: u.AdditionalLinks,
		SwipeRate:       u.SwipeRate,
		FeedAppearances: u.FeedAppearances,
		SwipesYes:       u.SwipesYes,
		SwipedOn:        u.SwipedOn,
	}
}

// ToUsers converts a slice of database.User. The result is never nil.
func ToUsers(users []database.User) []User {
	return lo.Map(users, func(u database.User, _ int) User { return ToUser(u) })
}

// ToDatabaseUser builds the record to insert. Counters that were not sent default to 0.
func (r RegisterUserRequest) ToDatabaseUser() *database.User {
	return &database.User{
		ID:              lo.FromPtr(r.ID),
		Username:        lo.FromPtr(r.User),
		Mail:            lo.FromPtr(r.Mail),
		Password:        lo.FromPtr(r.Password),
		FullName:        lo.FromPtr(r.FullName),
		Stack:           lo.FromPtr(r.Stack),
		WantedStack:     lo.FromPtr(r.WantedStack),
		AbtMe:           lo.FromPtr(r.AbtMe),
		AdditionalLinks: lo.FromPtr(r.AdditionalLinks),
		SwipeRate:       lo.FromPtr(r.SwipeRate),
		FeedAppearances: lo.FromPtr(r.FeedAppearances),
		SwipesYes:       lo.FromPtr(r.SwipesYes),
		SwipedOn:        lo.FromPtr(r.SwipedOn),
	}
}

// ToMessages converts a slice of database.Message. The result is never nil.
func ToMessages(messages []database.Message) []Message {
	return lo.Map(messages, func(m database.Message, _ int) Message {
		return Message{
			ID:         m.ID,
			SenderID:   m.SenderID,
			ReceiverID: m.ReceiverID,
			Text:       m.Text,
		}
	})
}

// ToProfiles converts a slice of database.Profile. The result is never nil.
func ToProfiles(profiles []database.Profile) []Profile {
	return lo.Map(profiles, func(p database.Profile, _ int) Profile {
		return Profile{
			ID:              p.ID,
			User:            p.Username,
			Stack:           p.Stack,
			AbtMe:           p.AbtMe,
			AdditionalLinks: p.AdditionalLinks,
		}
	})
}
