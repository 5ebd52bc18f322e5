package domain

import "time"

// Notification types emitted by the data layer.
const (
	NotificationReply   = "reply"
	NotificationMessage = "message"
)

// User represents a registered forum member.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	Signature    *string   `json:"signature,omitempty"`
	PostsCount   int       `json:"postsCount" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Category groups forums on the index page.
type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	SortOrder int       `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Forums []*Forum `json:"forums,omitempty" gorm:"foreignKey:CategoryID"`
}

// Forum is a named discussion board within a category. TopicsCount and
// PostsCount are maintained by the topic and post create operations.
type Forum struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	SortOrder   int       `json:"sortOrder" gorm:"not null;default:0"`
	TopicsCount int       `json:"topicsCount" gorm:"not null;default:0"`
	PostsCount  int       `json:"postsCount" gorm:"not null;default:0"`
	CategoryID  int64     `json:"categoryId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Topics []*Topic `json:"topics,omitempty" gorm:"foreignKey:ForumID"`
}

// Topic is a discussion thread within a forum.
//
// UpdatedAt tracks the latest post's timestamp rather than the last write to
// the row, so gorm's automatic update tracking is disabled for it and the
// data layer touches it explicitly on post creation.
type Topic struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Views     int       `json:"views" gorm:"not null;default:0"`
	IsSticky  bool      `json:"isSticky" gorm:"not null;default:false"`
	IsLocked  bool      `json:"isLocked" gorm:"not null;default:false"`
	ForumID   int64     `json:"forumId" gorm:"not null;index"`
	AuthorID  int64     `json:"authorId" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`

	Forum  *Forum  `json:"forum,omitempty" gorm:"foreignKey:ForumID"`
	Author *User   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Posts  []*Post `json:"posts,omitempty" gorm:"foreignKey:TopicID"`

	// LastPost is filled in by forum listings, not stored.
	LastPost *Post `json:"lastPost,omitempty" gorm:"-"`
}

// Post is a single message within a topic. ParentID links a threaded reply
// to another post in the same topic.
type Post struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	IsEdited  bool       `json:"isEdited" gorm:"not null;default:false"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	AuthorID  int64      `json:"authorId" gorm:"not null;index"`
	TopicID   int64      `json:"topicId" gorm:"not null;index"`
	ParentID  *int64     `json:"parentId,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Author *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Topic  *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
}

// Message is a private message between two users.
type Message struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Subject    string    `json:"subject" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false"`
	SenderID   int64     `json:"senderId" gorm:"not null;index"`
	ReceiverID int64     `json:"receiverId" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`

	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

// Notification is a per-user record of an event requiring their attention.
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Type      string    `json:"type" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	IsRead    bool      `json:"isRead" gorm:"not null;default:false"`
	Link      *string   `json:"link,omitempty"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}
