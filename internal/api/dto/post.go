package dto

import "time"

// CreatePostDTO 发布帖子
type CreatePostDTO struct {
	Description string `json:"description" binding:"required"`
}

// PostDTO 帖子明细
type PostDTO struct {
	ID            uint64        `json:"id"`
	User          *UserBriefDTO `json:"user"`
	Description   string        `json:"description"`
	LikesCount    int           `json:"likesCount"`
	CommentsCount int           `json:"commentsCount"`
	Liked         bool          `json:"liked"`
	CreatedAt     time.Time     `json:"createdAt"`
	Comments      []*CommentDTO `json:"comments,omitempty"`
}

// CommentCreateDTO 发表评论
type CommentCreateDTO struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required" validate:"max=1000"`
}

// CommentDTO 评论明细
type CommentDTO struct {
	ID        uint64        `json:"id"`
	PostID    uint64        `json:"postId"`
	Sender    *UserBriefDTO `json:"sender"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
}
