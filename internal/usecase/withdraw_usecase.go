package usecase

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/mailer"
)

var _ domain.WithdrawUseCase = (*withdrawUseCase)(nil)

type withdrawUseCase struct {
	withdrawRepo domain.WithdrawRepository
	shopRepo     domain.ShopRepository
	mail         mailer.Mailer
	log          *logrus.Logger
}

func NewWithdrawUseCase(withdrawRepo domain.WithdrawRepository, shopRepo domain.ShopRepository, mail mailer.Mailer, logger *logrus.Logger) domain.WithdrawUseCase {
	return &withdrawUseCase{
		withdrawRepo: withdrawRepo,
		shopRepo:     shopRepo,
		mail:         mail,
		log:          logger,
	}
}

// Create debits the shop balance at request time. The debit is a conditional
// update that fails on insufficient funds, so two concurrent requests can
// never overdraw; a later failure credits the amount back.
func (uc *withdrawUseCase) Create(shop *domain.Shop, amount float64) (*domain.Withdraw, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrBadRequest)
	}
	if shop.WithdrawMethod == nil {
		return nil, fmt.Errorf("%w: please add a withdraw method first", domain.ErrBadRequest)
	}

	if err := uc.shopRepo.DebitBalance(shop.ID, amount); err != nil {
		return nil, err
	}

	withdraw, err := uc.withdrawRepo.Create(&domain.Withdraw{
		ShopID: shop.ID,
		Amount: amount,
		Status: domain.WithdrawPending,
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to record withdraw for shop %s: %v. Crediting %.2f back.", shop.ID, err, amount)
		if creditErr := uc.shopRepo.CreditBalance(shop.ID, amount); creditErr != nil {
			uc.log.Errorf("Use Case: CRITICAL! Failed to credit %.2f back to shop %s: %v. Manual intervention required!", amount, shop.ID, creditErr)
		}
		return nil, err
	}

	body := fmt.Sprintf("Hello %s, your withdraw request of %.2f$ is processing. It usually takes 3 to 7 days.", shop.Name, amount)
	if err := uc.mail.Send(shop.Email, "Withdraw Request", body); err != nil {
		uc.log.Warnf("Use Case: Withdraw %s created but confirmation email failed: %v", withdraw.ID, err)
	}

	uc.log.Infof("Use Case: Shop %s requested withdraw of %.2f (id %s)", shop.ID, amount, withdraw.ID)
	return withdraw, nil
}

func (uc *withdrawUseCase) ListAll() ([]domain.Withdraw, error) {
	return uc.withdrawRepo.ListAll()
}

// Approve flips the request to succeeded, appends the payout to the shop's
// transaction history and notifies the seller. The balance was already
// debited when the request was created.
func (uc *withdrawUseCase) Approve(withdrawID, sellerID string) (*domain.Withdraw, error) {
	withdraw, err := uc.withdrawRepo.GetByID(withdrawID)
	if err != nil {
		return nil, err
	}
	if withdraw.ShopID != sellerID {
		return nil, fmt.Errorf("%w: withdraw belongs to another shop", domain.ErrBadRequest)
	}

	approved, err := uc.withdrawRepo.Approve(withdrawID)
	if err != nil {
		return nil, err
	}

	shop, err := uc.shopRepo.AppendTransaction(sellerID, domain.Transaction{
		Amount: approved.Amount,
		Status: domain.WithdrawSucceeded,
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s, your withdraw request of %.2f$ is on the way. Delivery time depends on your bank's rules, it usually takes 3 to 7 days.", shop.Name, approved.Amount)
	if err := uc.mail.Send(shop.Email, "Payment confirmation", body); err != nil {
		uc.log.Warnf("Use Case: Withdraw %s approved but email failed: %v", withdrawID, err)
	}

	uc.log.Infof("Use Case: Approved withdraw %s (%.2f) for shop %s", withdrawID, approved.Amount, sellerID)
	return approved, nil
}
