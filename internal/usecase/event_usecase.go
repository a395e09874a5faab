package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/clients"
	"marketplace_api/internal/domain"
)

var _ domain.EventUseCase = (*eventUseCase)(nil)

type eventUseCase struct {
	eventRepo domain.EventRepository
	shopRepo  domain.ShopRepository
	media     clients.MediaClient
	log       *logrus.Logger
}

func NewEventUseCase(eventRepo domain.EventRepository, shopRepo domain.ShopRepository, media clients.MediaClient, logger *logrus.Logger) domain.EventUseCase {
	return &eventUseCase{
		eventRepo: eventRepo,
		shopRepo:  shopRepo,
		media:     media,
		log:       logger,
	}
}

func (uc *eventUseCase) Create(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	if input.Name == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: please provide event name and category", domain.ErrBadRequest)
	}
	if !input.FinishDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: finish date must be after start date", domain.ErrBadRequest)
	}
	if _, err := uc.shopRepo.GetByID(input.ShopID); err != nil {
		return nil, err
	}

	images, err := uc.media.UploadMany(ctx, input.Images, clients.FolderEvents)
	if err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.Create(&domain.Event{
		ShopID:        input.ShopID,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		StartDate:     input.StartDate,
		FinishDate:    input.FinishDate,
		OriginalPrice: input.OriginalPrice,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		Images:        images,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Created event %s for shop %s", event.ID, input.ShopID)
	return event, nil
}

func (uc *eventUseCase) ListAll() ([]domain.Event, error) {
	return uc.eventRepo.ListAll()
}

func (uc *eventUseCase) ListByShop(shopID string) ([]domain.Event, error) {
	return uc.eventRepo.ListByShop(shopID)
}

func (uc *eventUseCase) Delete(ctx context.Context, shopID, eventID string) error {
	event, err := uc.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.ShopID != shopID {
		return fmt.Errorf("%w: event belongs to another shop", domain.ErrForbidden)
	}

	publicIDs := make([]string, 0, len(event.Images))
	for _, image := range event.Images {
		if image.PublicID != "" {
			publicIDs = append(publicIDs, image.PublicID)
		}
	}
	if err := uc.media.Delete(ctx, publicIDs); err != nil {
		return err
	}

	if err := uc.eventRepo.Delete(eventID); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Deleted event %s (shop %s)", eventID, shopID)
	return nil
}
