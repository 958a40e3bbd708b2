package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) error
	CancelLikePost(ctx context.Context, userID, postID uint64) error
	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetComments(ctx context.Context, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	userRepo   repository.UserRepo
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
	}
}

func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) error {
	if err := s.checkPost(ctx, postID); err != nil {
		return err
	}

	err := s.actionRepo.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()})
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrActionDuplicate
		}
		return err
	}

	s.markPostDirty(ctx, postID)
	return nil
}

func (s *postActionServiceImpl) CancelLikePost(ctx context.Context, userID, postID uint64) error {
	if err := s.checkPost(ctx, postID); err != nil {
		return err
	}
	if err := s.actionRepo.DeleteLike(ctx, userID, postID); err != nil {
		return err
	}
	s.markPostDirty(ctx, postID)
	return nil
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrParamInvalid
	}
	if err := s.checkPost(ctx, req.PostID); err != nil {
		return nil, err
	}

	comment := &model.PostComment{
		PostID:    req.PostID,
		SenderID:  userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.markPostDirty(ctx, req.PostID)

	sender, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &dto.CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if sender != nil {
		res.Sender = toUserBrief(sender)
	}
	return res, nil
}

func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return ErrCommentNotFound
	}
	if comment.SenderID != userID {
		return UnauthorizedError
	}
	if err = s.actionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.markPostDirty(ctx, comment.PostID)
	return nil
}

func (s *postActionServiceImpl) GetComments(ctx context.Context, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetCommentsByPostID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		d := &dto.CommentDTO{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
		if c.Sender.ID != 0 {
			d.Sender = toUserBrief(&c.Sender)
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *postActionServiceImpl) checkPost(ctx context.Context, postID uint64) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return nil
}

// markPostDirty 登记待对账的帖子，计数由定时任务统一回写
func (s *postActionServiceImpl) markPostDirty(ctx context.Context, postID uint64) {
	if err := redis.SAdd(ctx, consts.PostDirtyKey, postID); err != nil {
		log.WarnContext(ctx, "登记脏帖子失败", "postID", postID, "err", err)
	}
}
