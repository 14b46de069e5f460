package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/repository/mysql/model"
)

const dayBucketLayout = "2006-01-02"

type engagementRepository struct {
	DB *gorm.DB
}

var _ domain.EngagementRepository = (*engagementRepository)(nil)

// NewEngagementRepository creates the gorm-backed counter store.
func NewEngagementRepository(db *gorm.DB) *engagementRepository {
	return &engagementRepository{db}
}

// RecordView runs the dedup check and the conditional insert+increment in
// one transaction. The rolling-window check handles the common case; the
// unique key on (post_id, visitor_id, day_bucket) plus the ignored
// duplicate-key conflict is what actually closes the race between
// concurrent calls.
func (m *engagementRepository) RecordView(ctx context.Context, postID int64, visitorID string, at time.Time) (bool, error) {
	counted := false
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recent int64
		err := tx.Model(&model.PostView{}).
			Where("post_id = ? AND visitor_id = ? AND created_at > ?", postID, visitorID, at.Add(-domain.ViewDedupWindow)).
			Count(&recent).Error
		if err != nil {
			return err
		}
		if recent > 0 {
			return nil
		}

		view := model.PostView{
			PostID:    postID,
			VisitorID: visitorID,
			DayBucket: at.Format(dayBucketLayout),
			CreatedAt: at,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&view)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent request; that one counted.
			return nil
		}

		err = tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
		if err != nil {
			return err
		}
		counted = true
		return nil
	})
	return counted, err
}

func (m *engagementRepository) AddLike(ctx context.Context, postID, userID int64) (bool, error) {
	like := model.PostLike{
		PostID: postID,
		UserID: userID,
	}
	result := m.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (m *engagementRepository) RemoveLike(ctx context.Context, postID, userID int64) (bool, error) {
	result := m.DB.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (m *engagementRepository) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (m *engagementRepository) CountLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// IncrementShares bumps the counter and reads the new value in the same
// transaction so the returned total reflects this call.
func (m *engagementRepository) IncrementShares(ctx context.Context, postID int64) (int64, error) {
	var shares int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("shares", gorm.Expr("shares + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Model(&model.Post{}).Where("id = ?", postID).
			Pluck("shares", &shares).Error
	})
	return shares, err
}

// PostAnalytics returns ErrNotFound for a post owned by someone else, so
// non-owners can't tell a foreign post from a missing one.
func (m *engagementRepository) PostAnalytics(ctx context.Context, postID, ownerID int64) (domain.PostAnalytics, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).
		First(&post, "id = ? AND user_id = ?", postID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PostAnalytics{}, domain.ErrNotFound
		}
		return domain.PostAnalytics{}, err
	}

	res := domain.PostAnalytics{
		PostID: post.ID,
		Views:  post.Views,
		Shares: post.Shares,
	}

	err = m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&res.TotalLikes).Error
	if err != nil {
		return domain.PostAnalytics{}, err
	}

	err = m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Distinct("user_id").
		Count(&res.UniqueLikers).Error
	if err != nil {
		return domain.PostAnalytics{}, err
	}

	err = m.DB.WithContext(ctx).Model(&model.PostView{}).
		Where("post_id = ?", postID).
		Count(&res.TotalViewEvents).Error
	if err != nil {
		return domain.PostAnalytics{}, err
	}

	err = m.DB.WithContext(ctx).Model(&model.PostView{}).
		Where("post_id = ?", postID).
		Distinct("visitor_id").
		Count(&res.UniqueVisitors).Error
	if err != nil {
		return domain.PostAnalytics{}, err
	}

	return res, nil
}

func (m *engagementRepository) LikeAnalytics(ctx context.Context, postID int64, since time.Time) (domain.LikeAnalytics, error) {
	var res domain.LikeAnalytics
	err := m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&res.TotalLikes).Error
	if err != nil {
		return domain.LikeAnalytics{}, err
	}

	var rows []struct {
		Day   string
		Count int64
	}
	err = m.DB.WithContext(ctx).Model(&model.PostLike{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("post_id = ? AND created_at >= ?", postID, since).
		Group("DATE(created_at)").
		Order("day DESC").
		Scan(&rows).Error
	if err != nil {
		return domain.LikeAnalytics{}, err
	}

	res.DailyBreakdown = make([]domain.DailyLikes, len(rows))
	for i, row := range rows {
		res.DailyBreakdown[i] = domain.DailyLikes{
			Date:  row.Day,
			Count: row.Count,
		}
	}
	return res, nil
}

// ReconcileViewCounts rewrites every drifted view counter from the event
// table. The denormalized column is a cache of a derivable quantity; this
// is the recompute path for it.
func (m *engagementRepository) ReconcileViewCounts(ctx context.Context) (int64, error) {
	result := m.DB.WithContext(ctx).Exec(
		"UPDATE posts p SET p.views = " +
			"(SELECT COUNT(*) FROM post_views v WHERE v.post_id = p.id) " +
			"WHERE p.views <> (SELECT COUNT(*) FROM post_views v WHERE v.post_id = p.id)")
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
