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

var _ domain.ShopUseCase = (*shopUseCase)(nil)

type shopUseCase struct {
	shopRepo  domain.ShopRepository
	media     clients.MediaClient
	mail      mailer.Mailer
	tokens    *token.Manager
	clientURL string
	log       *logrus.Logger
}

func NewShopUseCase(repo domain.ShopRepository, media clients.MediaClient, mail mailer.Mailer, tokens *token.Manager, clientURL string, logger *logrus.Logger) domain.ShopUseCase {
	return &shopUseCase{
		shopRepo:  repo,
		media:     media,
		mail:      mail,
		tokens:    tokens,
		clientURL: clientURL,
		log:       logger,
	}
}

func (uc *shopUseCase) Signup(ctx context.Context, input domain.ShopSignupInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return fmt.Errorf("%w: please provide name, email and password", domain.ErrBadRequest)
	}

	if existing, err := uc.shopRepo.GetByEmail(input.Email); err == nil && existing != nil {
		uc.log.Warnf("Use Case: Shop signup rejected, %s already exists", input.Email)
		return fmt.Errorf("%w: seller already exists", domain.ErrBadRequest)
	}

	avatar, err := uc.media.Upload(ctx, input.Avatar, clients.FolderShops, nil)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	activationToken, err := uc.tokens.SignShopActivation(token.PendingShop{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Avatar:       avatar,
		Address:      input.Address,
		Phone:        input.Phone,
		ZipCode:      input.ZipCode,
	})
	if err != nil {
		return fmt.Errorf("failed to sign activation token: %w", err)
	}

	activationURL := fmt.Sprintf("%s/seller/activation/%s", uc.clientURL, activationToken)
	body := fmt.Sprintf("Hello %s, please click on the link to activate your shop: %s", input.Name, activationURL)
	if err := uc.mail.Send(input.Email, "Activate your shop", body); err != nil {
		return err
	}

	uc.log.Infof("Use Case: Sent shop activation email to %s", input.Email)
	return nil
}

func (uc *shopUseCase) Activate(activationToken string) (*domain.Shop, string, error) {
	pending, err := uc.tokens.VerifyShopActivation(activationToken)
	if err != nil {
		return nil, "", err
	}

	if existing, err := uc.shopRepo.GetByEmail(pending.Email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: seller already exists", domain.ErrBadRequest)
	}

	shop, err := uc.shopRepo.Create(&domain.Shop{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Avatar:       pending.Avatar,
		Address:      pending.Address,
		Phone:        pending.Phone,
		ZipCode:      pending.ZipCode,
	})
	if err != nil {
		return nil, "", err
	}

	session, err := uc.tokens.SignSession(shop.ID, token.KindShop)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	uc.log.Infof("Use Case: Activated shop %s (%s)", shop.ID, shop.Email)
	return shop, session, nil
}

func (uc *shopUseCase) Login(email, password string) (*domain.Shop, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide email and password", domain.ErrBadRequest)
	}

	shop, err := uc.shopRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: seller doesn't exist", domain.ErrBadRequest)
	}
	if bcrypt.CompareHashAndPassword([]byte(shop.PasswordHash), []byte(password)) != nil {
		uc.log.Warnf("Use Case: Wrong password attempt for shop %s", email)
		return nil, "", fmt.Errorf("%w: incorrect credentials", domain.ErrBadRequest)
	}

	session, err := uc.tokens.SignSession(shop.ID, token.KindShop)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return shop, session, nil
}

func (uc *shopUseCase) GetByID(id string) (*domain.Shop, error) {
	return uc.shopRepo.GetByID(id)
}

func (uc *shopUseCase) UpdateInfo(id, name, description, address, phone, zipCode string) (*domain.Shop, error) {
	shop, err := uc.shopRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	shop.Name = name
	shop.Description = description
	shop.Address = address
	shop.Phone = phone
	shop.ZipCode = zipCode
	return uc.shopRepo.UpdateInfo(shop)
}

func (uc *shopUseCase) UpdateAvatar(ctx context.Context, id, avatar string) (*domain.Shop, error) {
	shop, err := uc.shopRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if shop.Avatar.PublicID != "" {
		if err := uc.media.Delete(ctx, []string{shop.Avatar.PublicID}); err != nil {
			return nil, err
		}
	}

	uploaded, err := uc.media.Upload(ctx, avatar, clients.FolderShops, &clients.UploadOptions{Width: 150})
	if err != nil {
		return nil, err
	}
	return uc.shopRepo.UpdateAvatar(id, uploaded)
}

func (uc *shopUseCase) SetWithdrawMethod(id string, method *domain.WithdrawMethod) (*domain.Shop, error) {
	if method == nil || method.BankName == "" || method.BankAccountNumber == "" {
		return nil, fmt.Errorf("%w: please provide bank details", domain.ErrBadRequest)
	}
	return uc.shopRepo.SetWithdrawMethod(id, method)
}

func (uc *shopUseCase) DeleteWithdrawMethod(id string) (*domain.Shop, error) {
	return uc.shopRepo.SetWithdrawMethod(id, nil)
}

func (uc *shopUseCase) ListAll() ([]domain.Shop, error) {
	return uc.shopRepo.ListAll()
}

func (uc *shopUseCase) Delete(id string) error {
	if _, err := uc.shopRepo.GetByID(id); err != nil {
		return err
	}
	if err := uc.shopRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Deleted shop %s", id)
	return nil
}
