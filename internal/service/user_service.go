package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/pkg/security"
	"Ripple/internal/repository"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (uint64, error)
	Login(ctx context.Context, dto *dto.CredentialDTO) (string, uint64, error)
	Logout(ctx context.Context, token string) error
	GetUserProfile(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetAllUsers(ctx context.Context) ([]*dto.UserBriefDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, req *dto.UpdateUserDTO) error
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	followRepo repository.UserFollowRepo
}

func NewUserService(userRepo repository.UserRepo, followRepo repository.UserFollowRepo) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (uint64, error) {
	findUser, err := s.userRepo.GetUserByEmail(ctx, regDTO.Email)
	if err != nil {
		return 0, err
	}
	if findUser != nil {
		return 0, ErrUserEmailExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Email:     regDTO.Email,
		FullName:  strings.TrimSpace(regDTO.FullName),
		Password:  passwordHash,
		AvatarURL: consts.DefaultAvatarURL,
	}

	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return 0, err
	}

	return user.ID, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (string, uint64, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, credDTO.Email)
	if err != nil {
		return "", 0, err
	}
	if user == nil {
		return "", 0, ErrUserNotFound
	}

	if err = security.CheckPasswordHash(credDTO.Password, user.Password); err != nil {
		return "", 0, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return "", 0, err
	}
	return token, user.ID, nil
}

// Logout 将 Token 签名拉黑到过期为止
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

// GetUserProfile 个人主页信息，Redis 缓存一小时
func (s *UserServiceImpl) GetUserProfile(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	key := consts.UserProfileKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != "" {
		var userDTO *dto.UserDTO
		if err = json.Unmarshal([]byte(value), &userDTO); err != nil {
			return nil, err
		}
		return userDTO, nil
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	userDTO.UserID = user.ID

	userDTO.FollowersCount, err = s.followRepo.GetFollowerCount(ctx, id)
	if err != nil {
		return nil, err
	}
	userDTO.FollowingCount, err = s.followRepo.GetFollowingCount(ctx, id)
	if err != nil {
		return nil, err
	}

	jsonStr, err := json.Marshal(userDTO)
	if err != nil {
		return nil, err
	}
	_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour)

	return userDTO, nil
}

func (s *UserServiceImpl) GetAllUsers(ctx context.Context) ([]*dto.UserBriefDTO, error) {
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.UserBriefDTO, 0, len(users))
	for _, u := range users {
		res = append(res, toUserBrief(u))
	}
	return res, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, req *dto.UpdateUserDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	// 资料变更后淘汰缓存
	_ = redis.DeleteKey(ctx, consts.UserProfileKey+strconv.FormatUint(id, 10))
	return nil
}
