package service

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	"strconv"
	"time"
)

type UserFollowService interface {
	Follow(ctx context.Context, followerID, followingID uint64) error
	Unfollow(ctx context.Context, followerID, followingID uint64) error
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
}

type userFollowServiceImpl struct {
	followRepo repository.UserFollowRepo
	userRepo   repository.UserRepo
}

func NewUserFollowService(followRepo repository.UserFollowRepo, userRepo repository.UserRepo) UserFollowService {
	return &userFollowServiceImpl{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

func (s *userFollowServiceImpl) Follow(ctx context.Context, followerID, followingID uint64) error {
	if followerID == followingID {
		return ErrFollowSelf
	}

	target, err := s.userRepo.GetUserById(ctx, followingID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	exists, err := s.followRepo.CheckFollowExists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return ErrFollowExist
	}

	if err = s.followRepo.CreateFollow(ctx, &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}); err != nil {
		return err
	}

	s.evictProfileCache(ctx, followerID, followingID)
	return nil
}

func (s *userFollowServiceImpl) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	if err := s.followRepo.DeleteFollow(ctx, followerID, followingID); err != nil {
		return err
	}
	s.evictProfileCache(ctx, followerID, followingID)
	return nil
}

func (s *userFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	return s.followRepo.CheckFollowExists(ctx, followerID, followingID)
}

func (s *userFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.followRepo.GetFollowerCount(ctx, userID)
}

func (s *userFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.followRepo.GetFollowingCount(ctx, userID)
}

// evictProfileCache 关注关系变化影响双方主页的计数缓存
func (s *userFollowServiceImpl) evictProfileCache(ctx context.Context, ids ...uint64) {
	for _, id := range ids {
		_ = redis.DeleteKey(ctx, consts.UserProfileKey+strconv.FormatUint(id, 10))
	}
}
