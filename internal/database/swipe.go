package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm/clause"
)

// Swipe records that the swiper is interested in the swiped user.
// There is at most one swipe per (swiper, swiped) pair.
type Swipe struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	SwiperID int64 `gorm:"not null;uniqueIndex:idx_swipes_pair"`
	SwipedID int64 `gorm:"not null;uniqueIndex:idx_swipes_pair"`
}

// Profile is the public part of a user shown to swipers.
type Profile struct {
	ID              string
	Username        string `gorm:"column:user"`
	Stack           string
	AbtMe           string
	AdditionalLinks string
}

// SaveSwipe records a swipe. Saving an existing pair again is a no-op.
func (c *Client) SaveSwipe(ctx context.Context, swiperID, swipedID int64) error {
	swipe := Swipe{SwiperID: swiperID, SwipedID: swipedID}
	if err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "swiped_id"}},
			DoNothing: true,
		}).
		Create(&swipe).Error; err != nil {
		log.Error("failed to save swipe", "error", err)
		return err
	}
	return nil
}

// GetSwipedProfiles returns the profiles of all users the swiper has swiped, in swipe order.
// Swipes reference users by integer while user ids are strings, so the join compares text.
func (c *Client) GetSwipedProfiles(ctx context.Context, swiperID int64) ([]Profile, error) {
	profiles := []Profile{}
	if err := c.db.WithContext(ctx).
		Table("swipes").
		Select(`users.id, users."user", users.stack, users.abt_me, users.additional_links`).
		Joins("JOIN users ON users.id = CAST(swipes.swiped_id AS TEXT)").
		Where("swipes.swiper_id = ?", swiperID).
		Order("swipes.id ASC").
		Scan(&profiles).Error; err != nil {
		log.Error("failed to get swiped profiles", "swiper_id", swiperID, "error", err)
		return nil, err
	}
	return profiles, nil
}
