package authService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth"
	contextPkg "github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/context"
	jwtPkg "github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/jwt"
)

func (s *authDomainImpl) Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to get user by email")

			return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get user by email")

		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Password comparison failed")
		return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
	}

	userData := MakeUserData(user)

	token, expired, err := jwtPkg.Sign(userData, time.Hour*1)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Token created")

	res := auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}

	return res, nil
}

func (s *authDomainImpl) Logout(c context.Context, token string) error {
	requestID := contextPkg.GetRequestID(c)

	parsed, err := jwtPkg.Parse(token)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to parse token on logout")
		return auth.ErrorInvalidToken
	}

	expiration, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiration == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Token has no expiration claim")
		return auth.ErrorInvalidToken
	}

	ttl := time.Until(expiration.Time)
	if ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("revoked:%s", token)
	if err := s.redisServer.Set(c, key, "1", ttl); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store revoked token in Redis")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Token revoked")

	return nil
}
