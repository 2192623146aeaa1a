package mock

import (
	"context"
	"strconv"
	"sync"

	"github.com/stackmatch/stackmatch/internal/database"
)

var _ database.DB = (*MockDB)(nil)

type swipeKey struct {
	swiperID int64
	swipedID int64
}

// MockDB is an in-memory implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	// users keeps insertion order
	users []database.User

	messages      []database.Message
	nextMessageID int64

	swipes     []swipeKey
	swipeIndex map[swipeKey]struct{}

	// Error simulation
	CreateUserError           error
	GetUserByIDError          error
	GetUserByCredentialsError error
	UpdateUserError           error
	GetAllUsersError          error
	CreateMessageError        error
	GetMessagesForUserError   error
	SaveSwipeError            error
	GetSwipedProfilesError    error
	GetStatsError             error

	// SaveSwipeCalls counts calls to SaveSwipe, including ignored duplicates.
	SaveSwipeCalls int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		nextMessageID: 1,
		swipeIndex:    make(map[swipeKey]struct{}),
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = nil
	m.messages = nil
	m.nextMessageID = 1
	m.swipes = nil
	m.swipeIndex = make(map[swipeKey]struct{})
	m.SaveSwipeCalls = 0

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.GetUserByCredentialsError = nil
	m.UpdateUserError = nil
	m.GetAllUsersError = nil
	m.CreateMessageError = nil
	m.GetMessagesForUserError = nil
	m.SaveSwipeError = nil
	m.GetSwipedProfilesError = nil
	m.GetStatsError = nil
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Mail == user.Mail || u.ID == user.ID {
			return nil, database.ErrUserExists
		}
	}
	m.users = append(m.users, *user)

	return user, nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id string) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, database.ErrNotFound
	}
	user := m.users[i]
	return &user, nil
}

func (m *MockDB) GetUserByCredentials(ctx context.Context, mail, password string) (*database.User, error) {
	if m.GetUserByCredentialsError != nil {
		return nil, m.GetUserByCredentialsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Mail == mail && u.Password == password {
			user := u
			return &user, nil
		}
	}
	return nil, database.ErrInvalidCredentials
}

func (m *MockDB) UpdateUser(ctx context.Context, id string, changes database.UserChanges) (*database.User, error) {
	if m.UpdateUserError != nil {
		return nil, m.UpdateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, database.ErrNotFound
	}

	updated := m.users[i]
	changes.Apply(&updated)
	for j, u := range m.users {
		if j != i && (u.ID == updated.ID || u.Mail == updated.Mail) {
			return nil, database.ErrUserExists
		}
	}
	m.users[i] = updated

	return &updated, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, len(m.users))
	copy(users, m.users)
	return users, nil
}

// must be called with the lock held
func (m *MockDB) indexOf(id string) int {
	for i, u := range m.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// Message operations

func (m *MockDB) CreateMessage(ctx context.Context, message *database.Message) error {
	if m.CreateMessageError != nil {
		return m.CreateMessageError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	message.ID = m.nextMessageID
	m.nextMessageID++
	m.messages = append(m.messages, *message)

	return nil
}

func (m *MockDB) GetMessagesForUser(ctx context.Context, userID int64) ([]database.Message, error) {
	if m.GetMessagesForUserError != nil {
		return nil, m.GetMessagesForUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := []database.Message{}
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// Swipe operations

func (m *MockDB) SaveSwipe(ctx context.Context, swiperID, swipedID int64) error {
	if m.SaveSwipeError != nil {
		return m.SaveSwipeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveSwipeCalls++
	key := swipeKey{swiperID: swiperID, swipedID: swipedID}
	if _, ok := m.swipeIndex[key]; ok {
		return nil
	}
	m.swipeIndex[key] = struct{}{}
	m.swipes = append(m.swipes, key)

	return nil
}

func (m *MockDB) GetSwipedProfiles(ctx context.Context, swiperID int64) ([]database.Profile, error) {
	if m.GetSwipedProfilesError != nil {
		return nil, m.GetSwipedProfilesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := []database.Profile{}
	for _, s := range m.swipes {
		if s.swiperID != swiperID {
			continue
		}
		i := m.indexOf(strconv.FormatInt(s.swipedID, 10))
		if i < 0 {
			continue
		}
		u := m.users[i]
		profiles = append(profiles, database.Profile{
			ID:              u.ID,
			Username:        u.Username,
			Stack:           u.Stack,
			AbtMe:           u.AbtMe,
			AdditionalLinks: u.AdditionalLinks,
		})
	}
	return profiles, nil
}

// SwipeCount returns the number of stored swipes.
func (m *MockDB) SwipeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.swipes)
}

// Utility

func (m *MockDB) GetStats(ctx context.Context) (*database.Stats, error) {
	if m.GetStatsError != nil {
		return nil, m.GetStatsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return &database.Stats{
		Users:    int64(len(m.users)),
		Messages: int64(len(m.messages)),
		Swipes:   int64(len(m.swipes)),
	}, nil
}

func (m *MockDB) Close() error {
	return nil
}
