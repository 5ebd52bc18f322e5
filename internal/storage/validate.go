package storage

import (
	"sort"
	"strings"

	"lostcityforum/internal/domain"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

func requiredID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "must be set"}
	}
	return nil
}

// ValidateNewUser checks the required fields for user creation.
func ValidateNewUser(username, email, password string) error {
	if err := required("username", username); err != nil {
		return err
	}
	if err := required("email", email); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	return nil
}

// Validate checks the required fields for forum creation.
func (p NewForum) Validate() error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	return requiredID("categoryId", p.CategoryID)
}

// Validate checks the required fields for topic creation.
func (p NewTopic) Validate() error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	if err := required("content", p.Content); err != nil {
		return err
	}
	if err := requiredID("forumId", p.ForumID); err != nil {
		return err
	}
	return requiredID("authorId", p.AuthorID)
}

// Validate checks the required fields for post creation.
func (p NewPost) Validate() error {
	if err := required("content", p.Content); err != nil {
		return err
	}
	if err := requiredID("topicId", p.TopicID); err != nil {
		return err
	}
	return requiredID("authorId", p.AuthorID)
}

// Validate checks the required fields for message creation.
func (p NewMessage) Validate() error {
	if err := required("subject", p.Subject); err != nil {
		return err
	}
	if err := required("content", p.Content); err != nil {
		return err
	}
	if err := requiredID("senderId", p.SenderID); err != nil {
		return err
	}
	return requiredID("receiverId", p.ReceiverID)
}

// SortTopics orders a forum's topic listing: sticky topics first, then by
// most recent activity. The sort happens here in the access layer so every
// backend lists identically.
func SortTopics(topics []*domain.Topic) {
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].IsSticky != topics[j].IsSticky {
			return topics[i].IsSticky
		}
		return topics[i].UpdatedAt.After(topics[j].UpdatedAt)
	})
}
