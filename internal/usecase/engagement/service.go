package engagement

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qalamhq/qalam/domain"
)

// Service implements the view/like/share counter subsystem. It holds no
// state of its own; every counter lives in the store and every
// multi-statement sequence is atomic at the repository.
type Service struct {
	repo domain.EngagementRepository

	// now is swapped out in tests to move through the dedup window.
	now func() time.Time
}

var _ domain.EngagementUsecase = (*Service)(nil)

// NewService will create a new engagement service object
func NewService(repo domain.EngagementRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) RecordView(ctx context.Context, postID int64, visitorID string) (bool, error) {
	if postID <= 0 || visitorID == "" {
		return false, domain.ErrBadParamInput
	}
	return s.repo.RecordView(ctx, postID, visitorID, s.now())
}

// ToggleLike flips the membership for (postID, userID). The insert side
// tolerates a duplicate-key conflict, so two racing toggles still leave
// at most one row; the loser's reported action is best effort.
func (s *Service) ToggleLike(ctx context.Context, postID, userID int64) (domain.LikeResult, error) {
	if postID <= 0 || userID <= 0 {
		return domain.LikeResult{}, domain.ErrBadParamInput
	}

	liked, err := s.repo.HasLiked(ctx, postID, userID)
	if err != nil {
		return domain.LikeResult{}, err
	}

	res := domain.LikeResult{}
	if liked {
		if _, err := s.repo.RemoveLike(ctx, postID, userID); err != nil {
			return domain.LikeResult{}, err
		}
		res.Liked = false
		res.Action = domain.LikeActionUnliked
	} else {
		if _, err := s.repo.AddLike(ctx, postID, userID); err != nil {
			return domain.LikeResult{}, err
		}
		res.Liked = true
		res.Action = domain.LikeActionLiked
	}

	count, err := s.repo.CountLikes(ctx, postID)
	if err != nil {
		return domain.LikeResult{}, err
	}
	res.LikesCount = count
	return res, nil
}

// AddLike is insert-if-absent; liking an already-liked post is a no-op
// success, not a conflict.
func (s *Service) AddLike(ctx context.Context, postID, userID int64) error {
	if postID <= 0 || userID <= 0 {
		return domain.ErrBadParamInput
	}
	inserted, err := s.repo.AddLike(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		logrus.Debugf("like already present, post %d user %d", postID, userID)
	}
	return nil
}

func (s *Service) RemoveLike(ctx context.Context, postID, userID int64) (bool, error) {
	if postID <= 0 || userID <= 0 {
		return false, domain.ErrBadParamInput
	}
	return s.repo.RemoveLike(ctx, postID, userID)
}

func (s *Service) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	if postID <= 0 || userID <= 0 {
		return false, domain.ErrBadParamInput
	}
	return s.repo.HasLiked(ctx, postID, userID)
}

func (s *Service) CountLikes(ctx context.Context, postID int64) (int64, error) {
	if postID <= 0 {
		return 0, domain.ErrBadParamInput
	}
	return s.repo.CountLikes(ctx, postID)
}

func (s *Service) RecordShare(ctx context.Context, postID int64) (int64, error) {
	if postID <= 0 {
		return 0, domain.ErrBadParamInput
	}
	return s.repo.IncrementShares(ctx, postID)
}

func (s *Service) PostAnalytics(ctx context.Context, postID, ownerID int64) (domain.PostAnalytics, error) {
	if postID <= 0 || ownerID <= 0 {
		return domain.PostAnalytics{}, domain.ErrBadParamInput
	}
	return s.repo.PostAnalytics(ctx, postID, ownerID)
}

func (s *Service) LikeAnalytics(ctx context.Context, postID int64) (domain.LikeAnalytics, error) {
	if postID <= 0 {
		return domain.LikeAnalytics{}, domain.ErrBadParamInput
	}
	since := s.now().AddDate(0, 0, -domain.LikeHistoryDays)
	return s.repo.LikeAnalytics(ctx, postID, since)
}
