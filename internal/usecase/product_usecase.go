package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/clients"
	"marketplace_api/internal/domain"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	shopRepo    domain.ShopRepository
	media       clients.MediaClient
	log         *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, orderRepo domain.OrderRepository, shopRepo domain.ShopRepository, media clients.MediaClient, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		shopRepo:    shopRepo,
		media:       media,
		log:         logger,
	}
}

func (uc *productUseCase) Create(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	if input.Name == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: please provide product name and category", domain.ErrBadRequest)
	}
	if input.DiscountPrice <= 0 || input.Stock < 0 {
		return nil, fmt.Errorf("%w: invalid price or stock", domain.ErrBadRequest)
	}
	if _, err := uc.shopRepo.GetByID(input.ShopID); err != nil {
		return nil, err
	}

	images, err := uc.media.UploadMany(ctx, input.Images, clients.FolderProducts)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.Create(&domain.Product{
		ShopID:        input.ShopID,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Tags:          input.Tags,
		OriginalPrice: input.OriginalPrice,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		Images:        images,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Created product %s for shop %s", product.ID, input.ShopID)
	return product, nil
}

func (uc *productUseCase) ListAll() ([]domain.Product, error) {
	return uc.productRepo.ListAll()
}

func (uc *productUseCase) ListByShop(shopID string) ([]domain.Product, error) {
	return uc.productRepo.ListByShop(shopID)
}

func (uc *productUseCase) Delete(ctx context.Context, shopID, productID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product.ShopID != shopID {
		return fmt.Errorf("%w: product belongs to another shop", domain.ErrForbidden)
	}

	publicIDs := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		if image.PublicID != "" {
			publicIDs = append(publicIDs, image.PublicID)
		}
	}
	if err := uc.media.Delete(ctx, publicIDs); err != nil {
		return err
	}

	if err := uc.productRepo.Delete(productID); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Deleted product %s (shop %s)", productID, shopID)
	return nil
}

// Review replaces any earlier review by the same buyer, recomputes the mean
// rating from all remaining reviews and flags the originating order line so
// the storefront stops prompting for a review.
func (uc *productUseCase) Review(user *domain.User, input domain.ReviewInput) (*domain.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrBadRequest)
	}

	order, err := uc.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}

	err = uc.productRepo.UpsertReview(input.ProductID, domain.Review{
		UserID:   user.ID,
		UserName: user.Name,
		Rating:   input.Rating,
		Comment:  input.Comment,
	})
	if err != nil {
		return nil, err
	}

	reviews, err := uc.productRepo.ListReviews(input.ProductID)
	if err != nil {
		return nil, err
	}
	var total int
	for _, review := range reviews {
		total += review.Rating
	}
	ratings := float64(total) / float64(len(reviews))
	if err := uc.productRepo.SetRatings(input.ProductID, ratings); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.MarkItemReviewed(input.OrderID, input.ProductID); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: User %s reviewed product %s (rating %d, mean %.2f)", user.ID, input.ProductID, input.Rating, ratings)
	return uc.productRepo.GetByID(input.ProductID)
}
