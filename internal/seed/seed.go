// Package seed bootstraps a fresh forum database with the administrator
// account, the default categories and forums, and the welcome topic. It is
// a setup path, not something the running site calls.
package seed

import (
	"context"
	"fmt"
	"log"

	"lostcityforum/internal/storage"
)

const adminPassword = "adminpassword"

const welcomeContent = `Welcome to the Lost City Forum! This is a place to discuss all things related to the Lost City quest and the 2004 era of RuneScape.

Please read the forum rules before posting:

1. Be respectful to other members
2. No spamming or advertising
3. Use the search function before creating new topics
4. Stay on topic

Enjoy your stay!`

// Run populates an empty store. It is idempotent: when the administrator
// account already exists the store is assumed seeded and nothing is done.
func Run(ctx context.Context, store storage.Storage) error {
	existing, err := store.GetUserByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		log.Println("seed: database already seeded, skipping")
		return nil
	}

	admin, err := store.CreateUser(ctx, "admin", "admin@example.com", adminPassword)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	avatar := "/images/avatars/admin.png"
	signature := "Forum Administrator"
	if _, err := store.UpdateUserProfile(ctx, admin.ID, &avatar, &signature); err != nil {
		return fmt.Errorf("set admin profile: %w", err)
	}
	log.Printf("seed: created admin user %q", admin.Username)

	main, err := store.CreateCategory(ctx, "Lost City Forum", 1)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	community, err := store.CreateCategory(ctx, "Community", 2)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	forums := []storage.NewForum{
		{Title: "General Discussion", Description: "General discussion about Lost City", SortOrder: 1, CategoryID: main.ID},
		{Title: "Quest Help", Description: "Get help with the Lost City quest", SortOrder: 2, CategoryID: main.ID},
		{Title: "Guides & Strategies", Description: "Guides and strategies for all aspects of the game", SortOrder: 3, CategoryID: main.ID},
		{Title: "Introductions", Description: "Introduce yourself to the community", SortOrder: 1, CategoryID: community.ID},
		{Title: "Off-Topic", Description: "Discussions not related to the game", SortOrder: 2, CategoryID: community.ID},
	}
	var general int64
	for i, params := range forums {
		forum, err := store.CreateForum(ctx, params)
		if err != nil {
			return fmt.Errorf("create forum %q: %w", params.Title, err)
		}
		if i == 0 {
			general = forum.ID
		}
	}

	// CreateTopic maintains the forum and user counters itself, so no
	// fixup pass is needed afterwards.
	_, err = store.CreateTopic(ctx, storage.NewTopic{
		Title:    "Welcome to the Lost City Forum",
		Content:  welcomeContent,
		ForumID:  general,
		AuthorID: admin.ID,
		IsSticky: true,
	})
	if err != nil {
		return fmt.Errorf("create welcome topic: %w", err)
	}

	log.Println("seed: database seeded successfully")
	return nil
}
