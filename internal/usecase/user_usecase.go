package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"marketplace_api/internal/clients"
	"marketplace_api/internal/domain"
	"marketplace_api/internal/mailer"
	"marketplace_api/internal/token"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo  domain.UserRepository
	media     clients.MediaClient
	mail      mailer.Mailer
	tokens    *token.Manager
	clientURL string
	log       *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, media clients.MediaClient, mail mailer.Mailer, tokens *token.Manager, clientURL string, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo:  repo,
		media:     media,
		mail:      mail,
		tokens:    tokens,
		clientURL: clientURL,
		log:       logger,
	}
}

// Signup does not create the account. It uploads the avatar, hashes the
// password and mails an activation link carrying the pending account inside a
// short-lived token. The account only exists once Activate succeeds.
func (uc *userUseCase) Signup(ctx context.Context, input domain.SignupInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return fmt.Errorf("%w: please provide name, email and password", domain.ErrBadRequest)
	}

	if existing, err := uc.userRepo.GetByEmail(input.Email); err == nil && existing != nil {
		uc.log.Warnf("Use Case: Signup rejected, user %s already exists", input.Email)
		return fmt.Errorf("%w: user already exists", domain.ErrBadRequest)
	}

	avatar, err := uc.media.Upload(ctx, input.Avatar, clients.FolderAvatars, nil)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	activationToken, err := uc.tokens.SignUserActivation(token.PendingUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Avatar:       avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to sign activation token: %w", err)
	}

	activationURL := fmt.Sprintf("%s/activation/%s", uc.clientURL, activationToken)
	body := fmt.Sprintf("Hello %s, please click on the link to activate your account: %s", input.Name, activationURL)
	if err := uc.mail.Send(input.Email, "Activate your account", body); err != nil {
		return err
	}

	uc.log.Infof("Use Case: Sent activation email to %s", input.Email)
	return nil
}

func (uc *userUseCase) Activate(activationToken string) (*domain.User, string, error) {
	pending, err := uc.tokens.VerifyUserActivation(activationToken)
	if err != nil {
		return nil, "", err
	}

	if existing, err := uc.userRepo.GetByEmail(pending.Email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: user already exists", domain.ErrBadRequest)
	}

	user, err := uc.userRepo.Create(&domain.User{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.RoleUser,
		Avatar:       pending.Avatar,
	})
	if err != nil {
		return nil, "", err
	}

	session, err := uc.tokens.SignSession(user.ID, token.KindUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	uc.log.Infof("Use Case: Activated user account %s (%s)", user.ID, user.Email)
	return user, session, nil
}

func (uc *userUseCase) Login(email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide email and password", domain.ErrBadRequest)
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: user doesn't exist", domain.ErrBadRequest)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.log.Warnf("Use Case: Wrong password attempt for %s", email)
		return nil, "", fmt.Errorf("%w: incorrect credentials", domain.ErrBadRequest)
	}

	session, err := uc.tokens.SignSession(user.ID, token.KindUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return user, session, nil
}

func (uc *userUseCase) GetByID(id string) (*domain.User, error) {
	return uc.userRepo.GetByID(id)
}

// UpdateInfo looks the account up by email and requires the current password,
// mirroring the original profile form.
func (uc *userUseCase) UpdateInfo(email, password, name, phone string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: incorrect credentials", domain.ErrBadRequest)
	}

	user.Name = name
	user.Phone = phone
	return uc.userRepo.UpdateInfo(user)
}

func (uc *userUseCase) UpdateAvatar(ctx context.Context, id, avatar string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if user.Avatar.PublicID != "" {
		if err := uc.media.Delete(ctx, []string{user.Avatar.PublicID}); err != nil {
			return nil, err
		}
	}

	uploaded, err := uc.media.Upload(ctx, avatar, clients.FolderAvatars, &clients.UploadOptions{Width: 150})
	if err != nil {
		return nil, err
	}
	return uc.userRepo.UpdateAvatar(id, uploaded)
}

func (uc *userUseCase) AddAddress(userID string, address domain.Address) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	for _, existing := range user.Addresses {
		if existing.AddressType == address.AddressType {
			return nil, fmt.Errorf("%w: %s address already exists", domain.ErrBadRequest, address.AddressType)
		}
	}
	return uc.userRepo.AddAddress(userID, address)
}

func (uc *userUseCase) DeleteAddress(userID, addressID string) (*domain.User, error) {
	return uc.userRepo.DeleteAddress(userID, addressID)
}

func (uc *userUseCase) ListAll() ([]domain.User, error) {
	return uc.userRepo.ListAll()
}

func (uc *userUseCase) Delete(ctx context.Context, id string) error {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.Avatar.PublicID != "" {
		if err := uc.media.Delete(ctx, []string{user.Avatar.PublicID}); err != nil {
			return err
		}
	}
	if err := uc.userRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Deleted user account %s", id)
	return nil
}
