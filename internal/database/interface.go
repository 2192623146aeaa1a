package database

import "context"

// DB defines the store operations used by the API.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByCredentials(ctx context.Context, mail, password string) (*User, error)
	UpdateUser(ctx context.Context, id string, changes UserChanges) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)

	// Messages
	CreateMessage(ctx context.Context, message *Message) error
	GetMessagesForUser(ctx context.Context, userID int64) ([]Message, error)

	// Swipes
	SaveSwipe(ctx context.Context, swiperID, swipedID int64) error
	GetSwipedProfiles(ctx context.Context, swiperID int64) ([]Profile, error)

	// Utility
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
