package database

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/spf13/cast"
)

// UserField is the column name of an updatable user field.
type UserField string

const (
	UserFieldID              UserField = "id"
	UserFieldUser            UserField = "user"
	UserFieldMail            UserField = "mail"
	UserFieldPassword        UserField = "password"
	UserFieldFullName        UserField = "full_name"
	UserFieldStack           UserField = "stack"
	UserFieldWantedStack     UserField = "wanted_stack"
	UserFieldAbtMe           UserField = "abt_me"
	UserFieldAdditionalLinks UserField = "additional_links"
	UserFieldSwipeRate       UserField = "swipe_rate"
	UserFieldFeedAppearances UserField = "feed_appearances"
	UserFieldSwipesYes       UserField = "swipes_yes"
	UserFieldSwipedOn        UserField = "swiped_on"
)

// UserChanges maps user fields to their new, already converted values.
type UserChanges map[UserField]any

// ParseUserChanges converts a decoded JSON object into UserChanges.
// Keys that are not user fields are ignored. Values are converted to the column type,
// an error wrapping ErrInvalidValue names the first (by key order) field that could not be converted.
// String columns accept any scalar except null. Counter columns accept integral numbers
// and base 10 integer strings within the int32 range.
func ParseUserChanges(raw map[string]any) (UserChanges, error) {
	changes := make(UserChanges, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		field := UserField(key)
		value := raw[key]

		switch field {
		case UserFieldID, UserFieldUser, UserFieldMail, UserFieldPassword,
			UserFieldFullName, UserFieldStack, UserFieldWantedStack,
			UserFieldAbtMe, UserFieldAdditionalLinks:
			if value == nil {
				return nil, fmt.Errorf("%w for %s", ErrInvalidValue, key)
			}
			s, err := cast.ToStringE(value)
			if err != nil {
				return nil, fmt.Errorf("%w for %s", ErrInvalidValue, key)
			}
			changes[field] = s
		case UserFieldSwipeRate, UserFieldFeedAppearances, UserFieldSwipesYes, UserFieldSwipedOn:
			n, err := toCounter(value)
			if err != nil {
				return nil, fmt.Errorf("%w for %s", ErrInvalidValue, key)
			}
			changes[field] = n
		}
	}
	return changes, nil
}

// toCounter converts a decoded JSON value to a counter without truncating,
// wrapping or reinterpreting it.
func toCounter(value any) (int, error) {
	var (
		n   int32
		err error
	)
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		n, err = safecast.Convert[int32](v)
	case string:
		var parsed int64
		parsed, err = strconv.ParseInt(v, 10, 32)
		n = int32(parsed)
	case int:
		n, err = safecast.Convert[int32](v)
	case int64:
		n, err = safecast.Convert[int32](v)
	case int32:
		n = v
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c UserChanges) columns() map[string]any {
	columns := make(map[string]any, len(c))
	for field, value := range c {
		columns[string(field)] = value
	}
	return columns
}

// Apply writes the changes into u.
func (c UserChanges) Apply(u *User) {
	for field, value := range c {
		switch field {
		case UserFieldID:
			u.ID = value.(string)
		case UserFieldUser:
			u.Username = value.(string)
		case UserFieldMail:
			u.Mail = value.(string)
		case UserFieldPassword:
			u.Password = value.(string)
		case UserFieldFullName:
			u.FullName = value.(string)
		case UserFieldStack:
			u.Stack = value.(string)
		case UserFieldWantedStack:
			u.WantedStack = value.(string)
		case UserFieldAbtMe:
			u.AbtMe = value.(string)
		case UserFieldAdditionalLinks:
			u.AdditionalLinks = value.(string)
		case UserFieldSwipeRate:
			u.SwipeRate = value.(int)
		case UserFieldFeedAppearances:
			u.FeedAppearances = value.(int)
		case UserFieldSwipesYes:
			u.SwipesYes = value.(int)
		case UserFieldSwipedOn:
			u.SwipedOn = value.(int)
		}
	}
}
