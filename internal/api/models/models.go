package models

// User is the JSON representation of a user, including the password.
type User struct {
	ID              string `json:"id"`
	User            string `json:"user"`
	Mail            string `json:"mail"`
	Password        string `json:"password"`
	FullName        string `json:"full_name"`
	Stack           string `json:"stack"`
	WantedStack     string `json:"wanted_stack"`
	AbtMe           string `json:"abt_me"`
	AdditionalLinks string `json:"additional_links"`
	SwipeRate       int    `json:"swipe_rate"`
	FeedAppearances int    `json:"feed_appearances"`
	SwipesYes       int    `json:"swipes_yes"`
	SwipedOn        int    `json:"swiped_on"`
}

// RegisterUserRequest is the body of POST /users.
// Pointers distinguish an absent key from an empty string, only absent keys are rejected.
type RegisterUserRequest struct {
	ID              *string `json:"id" binding:"required"`
	User            *string `json:"user" binding:"required"`
	Mail            *string `json:"mail" binding:"required"`
	Password        *string `json:"password" binding:"required"`
	FullName        *string `json:"full_name" binding:"required"`
	Stack           *string `json:"stack" binding:"required"`
	WantedStack     *string `json:"wanted_stack" binding:"required"`
	AbtMe           *string `json:"abt_me" binding:"required"`
	AdditionalLinks *string `json:"additional_links" binding:"required"`
	SwipeRate       *int    `json:"swipe_rate"`
	FeedAppearances *int    `json:"feed_appearances"`
	SwipesYes       *int    `json:"swipes_yes"`
	SwipedOn        *int    `json:"swiped_on"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Mail     *string `json:"mail" binding:"required"`
	Password *string `json:"password" binding:"required"`
}

// SendMessageRequest is the body of POST /send.
type SendMessageRequest struct {
	SenderID   int64  `json:"sender_id" binding:"required"`
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// SendMessageResponse echoes the sent message.
type SendMessageResponse struct {
	Status  string             `json:"status"`
	Message SendMessageRequest `json:"message"`
}

// Message is the JSON representation of a stored message.
type Message struct {
	ID         int64  `json:"id"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Text       string `json:"text"`
}

// SwipeRequest is the body of POST /swipe.
type SwipeRequest struct {
	SwiperID int64 `json:"swiper_id" binding:"required"`
	SwipedID int64 `json:"swiped_id" binding:"required"`
}

// SwipeResponse echoes the saved swipe.
type SwipeResponse struct {
	Status   string `json:"status"`
	SwiperID int64  `json:"swiper_id"`
	SwipedID int64  `json:"swiped_id"`
}

// Profile is the public projection of a swiped user.
type Profile struct {
	ID              string `json:"id"`
	User            string `json:"user"`
	Stack           string `json:"stack"`
	AbtMe           string `json:"abt_me"`
	AdditionalLinks string `json:"additional_links"`
}

// StatusResponse is returned by the health check.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
