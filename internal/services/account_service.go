package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/models"
	"github.com/murmurchat/murmur-backend/pkg/auth"
)

// Mailer delivers transactional email. Implemented by the mail package.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, html string) error
}

// AvatarUploader puts the default profile image on the image host and returns
// its public URL. Implemented by the imagehost package.
type AvatarUploader interface {
	UploadDefault(ctx context.Context, userID string) (string, error)
}

type AccountService struct {
	users     UserStore
	jwt       *auth.JWTManager
	mailer    Mailer
	avatars   AvatarUploader
	clientURL string
	log       *zap.Logger
}

func NewAccountService(users UserStore, jwt *auth.JWTManager, mailer Mailer, avatars AvatarUploader, clientURL string, log *zap.Logger) *AccountService {
	return &AccountService{
		users:     users,
		jwt:       jwt,
		mailer:    mailer,
		avatars:   avatars,
		clientURL: clientURL,
		log:       log,
	}
}

// GetStarted mails a registration link carrying a signed token for the
// pending email. The token is the only state between this call and Register.
func (s *AccountService) GetStarted(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.Validation("email is required")
	}

	if _, err := s.users.FindUserByEmail(email); err == nil {
		return apperrors.Conflict("email is already registered")
	} else if apperrors.KindOf(err) != apperrors.KindNotFound {
		return err
	}

	token, err := s.jwt.GenerateRegistration(email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/register?email=%s&token=%s",
		s.clientURL, url.QueryEscape(email), url.QueryEscape(token))
	html := fmt.Sprintf(`
	<html>
	  <body>
	    <h1>Welcome to Murmur</h1>
	    <p>We are excited to have you on board!</p>
	    <a href=%q>Click here to register</a>
	  </body>
	</html>`, link)

	if err := s.mailer.Send(ctx, email, "Welcome to Murmur!", html); err != nil {
		s.log.Error("invite mail failed", zap.String("email", email), zap.Error(err))
		return apperrors.Internal("could not send invite mail")
	}

	return nil
}

// Register verifies the registration token against the submitted email and
// creates the account with a hosted default avatar.
func (s *AccountService) Register(ctx context.Context, token, email, username, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	switch {
	case email == "":
		return nil, "", apperrors.Validation("email is required")
	case token == "":
		return nil, "", apperrors.Validation("token is required")
	case username == "":
		return nil, "", apperrors.Validation("username is required")
	case password == "":
		return nil, "", apperrors.Validation("password is required")
	}

	tokenEmail, err := s.jwt.VerifyRegistration(token)
	if err != nil || tokenEmail != email {
		return nil, "", apperrors.Auth("invalid or expired registration token")
	}

	if _, err := s.users.FindUserByEmail(email); err == nil {
		return nil, "", apperrors.Conflict("email is already registered")
	} else if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	imageURL, err := s.avatars.UploadDefault(ctx, user.ID)
	if err != nil {
		s.log.Error("default avatar upload failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", apperrors.Internal("could not upload default image")
	}
	user.ImageURL = imageURL

	if err := s.users.SaveUser(user); err != nil {
		return nil, "", err
	}

	accessToken, err := s.jwt.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, accessToken, nil
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperrors.Validation("email and password are required")
	}

	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return nil, "", apperrors.Auth("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Auth("invalid credentials")
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Me returns the caller's own profile, flipping them online on first sight
// after login.
func (s *AccountService) Me(userID string) (*models.User, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if !user.Online {
		if err := s.users.SetOnline(userID, true); err != nil {
			return nil, err
		}
		user.Online = true
	}
	return user, nil
}

// Logout flips the caller offline. Token invalidation happens at the request
// layer (redis blacklist).
func (s *AccountService) Logout(userID string) error {
	return s.users.SetOnline(userID, false)
}

// Search finds other users by username or email substring.
func (s *AccountService) Search(callerID, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validation("search query is required")
	}
	return s.users.SearchUsers(query, callerID)
}
