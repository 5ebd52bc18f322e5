package postgres

import (
	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"gorm.io/gorm"
)

// Counter maintenance uses store-side atomic increments so concurrent
// requests cannot lose updates. All helpers run inside the caller's
// transaction and report ErrNotFound when the target row is absent.

func incrementForumCounts(tx *gorm.DB, forumID int64, includeTopics bool) error {
	updates := map[string]interface{}{
		"posts_count": gorm.Expr("posts_count + 1"),
	}
	if includeTopics {
		updates["topics_count"] = gorm.Expr("topics_count + 1")
	}
	res := tx.Model(&domain.Forum{}).Where("id = ?", forumID).UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func incrementUserPostCount(tx *gorm.DB, userID int64) error {
	res := tx.Model(&domain.User{}).Where("id = ?", userID).
		UpdateColumn("posts_count", gorm.Expr("posts_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
