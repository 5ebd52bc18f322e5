package inmemory

import (
	"context"
	"fmt"
	"testing"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with one user, one category and one forum.
func newTestStore(t *testing.T) (storage.Storage, *domain.User, *domain.Forum) {
	t.Helper()
	store := New()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	category, err := store.CreateCategory(ctx, "General", 1)
	require.NoError(t, err)

	forum, err := store.CreateForum(ctx, storage.NewForum{
		Title:       "General Discussion",
		Description: "Talk about anything",
		SortOrder:   1,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	return store, user, forum
}

func addUser(t *testing.T, store storage.Storage, name string) *domain.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), name, name+"@example.com", "password")
	require.NoError(t, err)
	return user
}

func TestCreateUser(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, 0, user.PostsCount)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("secret124"))
	assert.False(t, user.CheckPassword(""))
}

func TestCreateUser_Validation(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name                      string
		username, email, password string
	}{
		{"missing username", "", "x@example.com", "pw"},
		{"missing email", "x", "", "pw"},
		{"missing password", "x", "x@example.com", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateUser(ctx, tc.username, tc.email, tc.password)
			var verr *storage.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, "alice", "other@example.com", "pw")
	var conflict *storage.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)

	_, err = store.CreateUser(ctx, "alice2", "alice@example.com", "pw")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestGetUser_NotFound(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetUserByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = store.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateTopic_CountsEndToEnd(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	require.Equal(t, 0, forum.TopicsCount)
	require.Equal(t, 0, forum.PostsCount)

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Hello",
		Content:  "World",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)
	require.Len(t, topic.Posts, 1)
	assert.Equal(t, "World", topic.Posts[0].Content)

	updatedForum, err := store.GetForumByID(ctx, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updatedForum.TopicsCount)
	assert.Equal(t, 1, updatedForum.PostsCount)

	updatedAuthor, err := store.GetUserByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updatedAuthor.PostsCount)

	full, err := store.GetTopicByID(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, full.Posts, 1)
	assert.Equal(t, "World", full.Posts[0].Content)
}

func TestCreateTopic_MissingForum(t *testing.T) {
	store, author, _ := newTestStore(t)

	_, err := store.CreateTopic(context.Background(), storage.NewTopic{
		Title:    "Hello",
		Content:  "World",
		ForumID:  9999,
		AuthorID: author.ID,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreatePost_LockedTopic(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Locked thread",
		Content:  "First",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	_, err = store.ToggleTopicLocked(ctx, topic.ID)
	require.NoError(t, err)

	replier := addUser(t, store, "bob")
	_, err = store.CreatePost(ctx, storage.NewPost{
		Content:  "Should be rejected",
		TopicID:  topic.ID,
		AuthorID: replier.ID,
	})
	require.ErrorIs(t, err, storage.ErrTopicLocked)

	// No post, no counter change, no notification.
	full, err := store.GetTopicByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Len(t, full.Posts, 1)

	updatedForum, err := store.GetForumByID(ctx, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updatedForum.PostsCount)

	updatedReplier, err := store.GetUserByID(ctx, replier.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updatedReplier.PostsCount)

	notifications, err := store.GetNotifications(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestCreatePost_ReplyNotifications(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Discussion",
		Content:  "Opening post",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	// A reply from another user notifies the topic author.
	replier := addUser(t, store, "bob")
	_, err = store.CreatePost(ctx, storage.NewPost{
		Content:  "Nice topic",
		TopicID:  topic.ID,
		AuthorID: replier.ID,
	})
	require.NoError(t, err)

	notifications, err := store.GetNotifications(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationReply, notifications[0].Type)
	assert.False(t, notifications[0].IsRead)

	// The author replying to their own topic notifies nobody.
	_, err = store.CreatePost(ctx, storage.NewPost{
		Content:  "Bump",
		TopicID:  topic.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	notifications, err = store.GetNotifications(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestCreatePost_ThreadedReply(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Thread",
		Content:  "Opening post",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	bob := addUser(t, store, "bob")
	parent, err := store.CreatePost(ctx, storage.NewPost{
		Content:  "A question",
		TopicID:  topic.ID,
		AuthorID: bob.ID,
	})
	require.NoError(t, err)

	carol := addUser(t, store, "carol")
	child, err := store.CreatePost(ctx, storage.NewPost{
		Content:  "An answer",
		TopicID:  topic.ID,
		AuthorID: carol.ID,
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// Bob is notified about the reply to his post.
	notifications, err := store.GetNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationReply, notifications[0].Type)
}

func TestCreatePost_ParentFromOtherTopic(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "First", Content: "a", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)
	second, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "Second", Content: "b", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)

	foreignParent := first.Posts[0].ID
	_, err = store.CreatePost(ctx, storage.NewPost{
		Content:  "Cross-topic reply",
		TopicID:  second.ID,
		AuthorID: author.ID,
		ParentID: &foreignParent,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestToggleFlags(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Toggle me",
		Content:  "body",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	once, err := store.ToggleTopicSticky(ctx, topic.ID)
	require.NoError(t, err)
	assert.True(t, once.IsSticky)
	assert.False(t, once.IsLocked)
	assert.Equal(t, topic.Title, once.Title)
	assert.Equal(t, topic.Views, once.Views)
	assert.Equal(t, topic.UpdatedAt, once.UpdatedAt)

	twice, err := store.ToggleTopicSticky(ctx, topic.ID)
	require.NoError(t, err)
	assert.False(t, twice.IsSticky)

	locked, err := store.ToggleTopicLocked(ctx, topic.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	assert.False(t, locked.IsSticky)

	unlocked, err := store.ToggleTopicLocked(ctx, topic.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)
}

func TestIncrementTopicViews(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Views",
		Content:  "body",
		ForumID:  forum.ID,
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	// Repeat views are all counted; there is no de-duplication.
	require.NoError(t, store.IncrementTopicViews(ctx, topic.ID))
	require.NoError(t, store.IncrementTopicViews(ctx, topic.ID))

	full, err := store.GetTopicByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, full.Views)

	assert.ErrorIs(t, store.IncrementTopicViews(ctx, 9999), storage.ErrNotFound)
}

func TestForumTopicOrdering(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	// B is sticky and oldest; A and C are newer, C newest of all.
	b, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "B", Content: "b", ForumID: forum.ID, AuthorID: author.ID, IsSticky: true,
	})
	require.NoError(t, err)
	a, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "A", Content: "a", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)
	c, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "C", Content: "c", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)

	listing, err := store.GetForumByID(ctx, forum.ID)
	require.NoError(t, err)
	require.Len(t, listing.Topics, 3)
	assert.Equal(t, b.ID, listing.Topics[0].ID)
	assert.Equal(t, c.ID, listing.Topics[1].ID)
	assert.Equal(t, a.ID, listing.Topics[2].ID)

	// Every listed topic carries its author and latest post.
	for _, topic := range listing.Topics {
		require.NotNil(t, topic.Author)
		require.NotNil(t, topic.LastPost)
		require.NotNil(t, topic.LastPost.Author)
	}

	// A reply bumps A past C.
	_, err = store.CreatePost(ctx, storage.NewPost{
		Content: "bump", TopicID: a.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)

	listing, err = store.GetForumByID(ctx, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, listing.Topics[0].ID)
	assert.Equal(t, a.ID, listing.Topics[1].ID)
	assert.Equal(t, c.ID, listing.Topics[2].ID)
}

func TestGetUserPosts(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "Long thread", Content: "post 0", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)

	for i := 1; i <= 11; i++ {
		_, err := store.CreatePost(ctx, storage.NewPost{
			Content:  fmt.Sprintf("post %d", i),
			TopicID:  topic.ID,
			AuthorID: author.ID,
		})
		require.NoError(t, err)
	}

	posts, err := store.GetUserPosts(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 10)
	assert.Equal(t, "post 11", posts[0].Content)
	assert.Equal(t, "post 2", posts[9].Content)
	for _, p := range posts {
		require.NotNil(t, p.Topic)
		assert.Equal(t, topic.ID, p.Topic.ID)
	}
}

func TestEditPost(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "Edit me", Content: "typo", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)
	original := topic.Posts[0]
	require.False(t, original.IsEdited)
	require.Nil(t, original.EditedAt)

	edited, err := store.EditPost(ctx, original.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)
	assert.True(t, edited.IsEdited)
	require.NotNil(t, edited.EditedAt)

	_, err = store.EditPost(ctx, 9999, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPostByID(t *testing.T) {
	store, author, forum := newTestStore(t)
	ctx := context.Background()

	topic, err := store.CreateTopic(ctx, storage.NewTopic{
		Title: "Lookup", Content: "body", ForumID: forum.ID, AuthorID: author.ID,
	})
	require.NoError(t, err)

	post, err := store.GetPostByID(ctx, topic.Posts[0].ID)
	require.NoError(t, err)
	require.NotNil(t, post)
	require.NotNil(t, post.Author)
	assert.Equal(t, author.ID, post.Author.ID)
	require.NotNil(t, post.Topic)
	assert.Equal(t, topic.ID, post.Topic.ID)

	missing, err := store.GetPostByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMessages(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()
	bob := addUser(t, store, "bob")

	message, err := store.CreateMessage(ctx, storage.NewMessage{
		Subject:    "Hi",
		Content:    "How are you?",
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
	})
	require.NoError(t, err)
	assert.False(t, message.IsRead)

	// The receiver gets a "new message" notification.
	notifications, err := store.GetNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationMessage, notifications[0].Type)

	inbox, err := store.GetInbox(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].Sender)
	assert.Equal(t, alice.ID, inbox[0].Sender.ID)

	sent, err := store.GetSent(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Receiver)
	assert.Equal(t, bob.ID, sent[0].Receiver.ID)
}

func TestGetMessage_AccessControl(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()
	bob := addUser(t, store, "bob")
	eve := addUser(t, store, "eve")

	message, err := store.CreateMessage(ctx, storage.NewMessage{
		Subject:    "Private",
		Content:    "Secret",
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
	})
	require.NoError(t, err)

	// A third party gets the not-found result and causes no mutation.
	got, err := store.GetMessage(ctx, message.ID, eve.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The sender reading it does not mark it read.
	got, err = store.GetMessage(ctx, message.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsRead)

	// The receiver's first read flips it.
	got, err = store.GetMessage(ctx, message.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsRead)

	// And it stays read.
	got, err = store.GetMessage(ctx, message.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
}

func TestNotificationReadOps(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()
	bob := addUser(t, store, "bob")

	for i := 0; i < 3; i++ {
		_, err := store.CreateMessage(ctx, storage.NewMessage{
			Subject:    fmt.Sprintf("msg %d", i),
			Content:    "body",
			SenderID:   alice.ID,
			ReceiverID: bob.ID,
		})
		require.NoError(t, err)
	}

	count, err := store.CountUnreadNotifications(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	notifications, err := store.GetNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "msg 2", notifications[0].Content[len(notifications[0].Content)-5:])

	require.NoError(t, store.MarkNotificationRead(ctx, notifications[0].ID))
	count, err = store.CountUnreadNotifications(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.MarkAllNotificationsRead(ctx, bob.ID))
	count, err = store.CountUnreadNotifications(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, store.MarkNotificationRead(ctx, 9999), storage.ErrNotFound)
}

func TestGetCategories(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	second, err := store.CreateCategory(ctx, "Community", 2)
	require.NoError(t, err)
	_, err = store.CreateForum(ctx, storage.NewForum{
		Title: "Off-Topic", Description: "Anything else", SortOrder: 2, CategoryID: second.ID,
	})
	require.NoError(t, err)
	_, err = store.CreateForum(ctx, storage.NewForum{
		Title: "Introductions", Description: "Say hello", SortOrder: 1, CategoryID: second.ID,
	})
	require.NoError(t, err)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "General", categories[0].Name)
	assert.Equal(t, "Community", categories[1].Name)
	require.Len(t, categories[1].Forums, 2)
	assert.Equal(t, "Introductions", categories[1].Forums[0].Title)
	assert.Equal(t, "Off-Topic", categories[1].Forums[1].Title)
}

func TestUpdateUserProfile(t *testing.T) {
	store, alice, _ := newTestStore(t)
	ctx := context.Background()

	avatar := "/images/avatars/alice.png"
	signature := "veteran adventurer"
	updated, err := store.UpdateUserProfile(ctx, alice.ID, &avatar, &signature)
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)
	require.NotNil(t, updated.Signature)
	assert.Equal(t, signature, *updated.Signature)

	// Nil fields are left alone.
	updated, err = store.UpdateUserProfile(ctx, alice.ID, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)

	_, err = store.UpdateUserProfile(ctx, 9999, &avatar, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	addUser(t, store, "bob")
	count, err = store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
