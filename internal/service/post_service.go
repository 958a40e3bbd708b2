package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/ws"
	"Ripple/internal/repository"
	"context"
	"strings"
	"time"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error)
	GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	GetPostsByUser(ctx context.Context, viewerID, userID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	registry   *ws.Registry
}

func NewPostService(postRepo repository.PostRepo, actionRepo repository.PostActionRepo, registry *ws.Registry) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		registry:   registry,
	}
}

// CreatePost 发布帖子并向全部在线用户广播 newPost 事件
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrParamInvalid
	}

	post := &model.Post{
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	res := s.toPostDTO(post, nil, false)
	s.registry.Broadcast(ws.NewEvent(consts.EventNewPost, res))
	return res, nil
}

func (s *postServiceImpl) GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetFeed(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewerID, posts)
}

func (s *postServiceImpl) GetPostsByUser(ctx context.Context, viewerID, userID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	posts, err := s.postRepo.GetPostsByUserID(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewerID, posts)
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	return s.postRepo.DeletePost(ctx, postID)
}

// assemble 批量装配评论与点赞状态
func (s *postServiceImpl) assemble(ctx context.Context, viewerID uint64, posts []*model.Post) ([]*dto.PostDTO, error) {
	res := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		comments, err := s.actionRepo.GetCommentsByPostID(ctx, post.ID, 50, 0)
		if err != nil {
			return nil, err
		}

		liked := false
		if viewerID != 0 {
			liked, _ = s.actionRepo.CheckLikeExists(ctx, viewerID, post.ID)
		}

		res = append(res, s.toPostDTO(post, comments, liked))
	}
	return res, nil
}

func (s *postServiceImpl) toPostDTO(post *model.Post, comments []*model.PostComment, liked bool) *dto.PostDTO {
	d := &dto.PostDTO{
		ID:            post.ID,
		Description:   post.Description,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		Liked:         liked,
		CreatedAt:     post.CreatedAt,
	}
	if post.User.ID != 0 {
		d.User = toUserBrief(&post.User)
	}
	for _, c := range comments {
		cd := &dto.CommentDTO{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
		if c.Sender.ID != 0 {
			cd.Sender = toUserBrief(&c.Sender)
		}
		d.Comments = append(d.Comments, cd)
	}
	return d
}
