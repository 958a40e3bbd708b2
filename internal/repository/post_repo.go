package repository

import (
	"Ripple/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, postID uint64) (*model.Post, error)
	GetFeed(ctx context.Context, limit, offset int) ([]*model.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	DeletePost(ctx context.Context, postID uint64) error
	UpdateCounters(ctx context.Context, postID uint64, likesCount, commentsCount int64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPostByID(ctx context.Context, postID uint64) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).
		Where("is_deleted = 0").
		First(post, postID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

// GetFeed 最新在前的全站流
func (s *PostRepoImpl) GetFeed(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Preload("User").
		Where("is_deleted = 0").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) GetPostsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND is_deleted = 0", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, postID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Update("is_deleted", 1).Error
}

// UpdateCounters 写回对账后的点赞与评论计数
func (s *PostRepoImpl) UpdateCounters(ctx context.Context, postID uint64, likesCount, commentsCount int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"likes_count":    likesCount,
			"comments_count": commentsCount,
		}).Error
}
