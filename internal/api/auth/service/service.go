package authService

import (
	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth"
	authRepository "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth/repository"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/bcrypt"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/redis"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/s3"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/utils"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterUser(c context.Context, req auth.RegisterUserRequest) error
	GetByID(c context.Context, id string) (entity.User, error)
	UpdateProfilePhoto(c context.Context, userID string, photoFile *multipart.FileHeader) (*auth.ProfilePhotoResponse, error)
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
	Logout(c context.Context, token string) error
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	redisServer    redis.IRedis
	s3Client       s3.ItfS3
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	userDomain UserDomain
	authDomain AuthDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	s3Client    s3.ItfS3
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	redisServer redis.IRedis
	bcryptUtils bcrypt.IBcrypt
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		redisServer:    redisServer,
		s3Client:       s3Client,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		userDomain: &userDomainImpl{log: log, repo: authRepo, s3Client: s3Client, bcryptUtils: bcryptUtils, utils: utils},
		authDomain: &authDomainImpl{log: log, repo: authRepo, redisServer: redisServer, bcryptUtils: bcryptUtils},
	}
}
