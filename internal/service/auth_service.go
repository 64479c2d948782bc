package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/minio"
	"Homeport/internal/pkg/redis"
	"Homeport/internal/pkg/security"
	"Homeport/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterReq) error
	Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uint64) (*dto.ProfileDTO, error)
}

type authServiceImpl struct {
	profileRepo repository.ProfileRepo
}

func NewAuthService(profileRepo repository.ProfileRepo) AuthService {
	return &authServiceImpl{profileRepo: profileRepo}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterReq) error {
	existing, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = model.RoleTenant
	}

	return s.profileRepo.Create(ctx, &model.Profile{
		Email:       req.Email,
		Password:    hashed,
		DisplayName: req.DisplayName,
		Role:        role,
		Phone:       req.Phone,
	})
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingLoginCredentials
	}

	profile, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	if err := security.CheckPasswordHash(req.Password, profile.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(profile.ID, []string{profile.Role})
	if err != nil {
		return nil, err
	}

	profileDTO, err := toProfileDTO(profile)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResp{Token: token, Profile: profileDTO}, nil
}

// Logout 把 token 签名记入黑名单直到自然过期
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

func (s *authServiceImpl) GetProfile(ctx context.Context, userID uint64) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	return toProfileDTO(profile)
}

func toProfileDTO(profile *model.Profile) (*dto.ProfileDTO, error) {
	profileDTO := &dto.ProfileDTO{}
	if err := copier.Copy(profileDTO, profile); err != nil {
		return nil, err
	}
	profileDTO.AvatarURL = minio.GetPublicURL(profile.AvatarURL)
	return profileDTO, nil
}
