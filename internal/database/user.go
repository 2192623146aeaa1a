package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User represents a registered user.
// The id is supplied by the client, mail is unique. The password is stored as plain text.
// The counters are plain columns, no endpoint derives them from swipe or message activity.
type User struct {
	ID              string `gorm:"primaryKey"`
	Username        string `gorm:"column:user;not null"`
	Mail            string `gorm:"uniqueIndex;not null"`
	Password        string `gorm:"not null"`
	FullName        string
	Stack           string
	WantedStack     string
	AbtMe           string
	AdditionalLinks string
	SwipeRate       int
	FeedAppearances int
	SwipesYes       int
	SwipedOn        int
}

// CreateUser inserts a new user.
// ErrUserExists is returned if the mail or the id is already taken.
func (c *Client) CreateUser(ctx context.Context, user *User) (*User, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Where("mail = ?", user.Mail).Count(&count).Error; err != nil {
		log.Error("failed to check for existing user", "error", err)
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrUserExists
		}
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return user, nil
}

func (c *Client) GetUserByID(ctx context.Context, id string) (*User, error) {
	return getUserByID(c.db.WithContext(ctx), id)
}

func getUserByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error("failed to get user by ID", "error", err)
		return nil, err
	}
	return &user, nil
}

// GetUserByCredentials returns the user whose mail and password match exactly.
func (c *Client) GetUserByCredentials(ctx context.Context, mail, password string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("mail = ? AND password = ?", mail, password).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to get user by credentials", "error", err)
		return nil, err
	}
	return &user, nil
}

// UpdateUser overwrites the given fields of the user with the given id and returns the updated record.
// id and mail may be changed as well; a collision with another user yields ErrUserExists.
func (c *Client) UpdateUser(ctx context.Context, id string, changes UserChanges) (*User, error) {
	var updated *User
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := getUserByID(tx, id)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			updated = user
			return nil
		}

		if err := tx.Model(&User{}).Where("id = ?", id).Updates(changes.columns()).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrUserExists
			}
			log.Error("failed to update user", "error", err)
			return err
		}

		newID := id
		if v, ok := changes[UserFieldID].(string); ok {
			newID = v
		}
		updated, err = getUserByID(tx, newID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}
