package storage

import (
	"context"

	"lostcityforum/internal/domain"
)

// NewForum holds the fields required to create a forum.
type NewForum struct {
	Title       string
	Description string
	SortOrder   int
	CategoryID  int64
}

// NewTopic holds the fields required to create a topic together with its
// initiating post.
type NewTopic struct {
	Title    string
	Content  string
	ForumID  int64
	AuthorID int64
	IsSticky bool
	IsLocked bool
}

// NewPost holds the fields required to create a post. ParentID marks the
// post as a threaded reply to another post in the same topic.
type NewPost struct {
	Content  string
	TopicID  int64
	AuthorID int64
	ParentID *int64
}

// NewMessage holds the fields required to send a private message.
type NewMessage struct {
	Subject    string
	Content    string
	SenderID   int64
	ReceiverID int64
}

// Storage defines the contract every store backend implements.
//
// Reads that target a single entity return (nil, nil) when the entity does
// not exist; callers must check for absence explicitly. Writes that
// reference a missing entity return ErrNotFound.
type Storage interface {
	// Users.
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, id int64, avatarURL, signature *string) (*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Categories and forums.
	CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error)
	GetCategories(ctx context.Context) ([]*domain.Category, error)
	CreateForum(ctx context.Context, params NewForum) (*domain.Forum, error)
	GetForumByID(ctx context.Context, id int64) (*domain.Forum, error)

	// Topics.
	CreateTopic(ctx context.Context, params NewTopic) (*domain.Topic, error)
	GetTopicByID(ctx context.Context, id int64) (*domain.Topic, error)
	IncrementTopicViews(ctx context.Context, id int64) error
	ToggleTopicSticky(ctx context.Context, id int64) (*domain.Topic, error)
	ToggleTopicLocked(ctx context.Context, id int64) (*domain.Topic, error)

	// Posts.
	CreatePost(ctx context.Context, params NewPost) (*domain.Post, error)
	GetPostByID(ctx context.Context, id int64) (*domain.Post, error)
	GetUserPosts(ctx context.Context, userID int64) ([]*domain.Post, error)
	EditPost(ctx context.Context, id int64, content string) (*domain.Post, error)

	// Private messages.
	CreateMessage(ctx context.Context, params NewMessage) (*domain.Message, error)
	GetInbox(ctx context.Context, userID int64) ([]*domain.Message, error)
	GetSent(ctx context.Context, userID int64) ([]*domain.Message, error)
	GetMessage(ctx context.Context, id, userID int64) (*domain.Message, error)

	// Notifications.
	GetNotifications(ctx context.Context, userID int64) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) error
	CountUnreadNotifications(ctx context.Context, userID int64) (int64, error)

	// Ping probes store connectivity for diagnostics.
	Ping(ctx context.Context) error
}
