package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace_api/internal/clients"
	"marketplace_api/internal/domain"
)

// In-memory collaborators for exercising the use cases without postgres or
// the external services.

type fakeMedia struct {
	uploads int
	deleted []string
}

func (m *fakeMedia) Upload(_ context.Context, _, folder string, _ *clients.UploadOptions) (domain.Image, error) {
	m.uploads++
	return domain.Image{
		PublicID: fmt.Sprintf("%s/asset-%d", folder, m.uploads),
		URL:      fmt.Sprintf("https://media.test/%s/asset-%d", folder, m.uploads),
	}, nil
}

func (m *fakeMedia) UploadMany(ctx context.Context, images []string, folder string) ([]domain.Image, error) {
	uploaded := make([]domain.Image, 0, len(images))
	for range images {
		img, _ := m.Upload(ctx, "", folder, nil)
		uploaded = append(uploaded, img)
	}
	return uploaded, nil
}

func (m *fakeMedia) Delete(_ context.Context, publicIDs []string) error {
	m.deleted = append(m.deleted, publicIDs...)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, fmt.Errorf("%w: user already exists", domain.ErrBadRequest)
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateInfo(user *domain.User) (*domain.User, error) {
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateAvatar(id string, avatar domain.Image) (*domain.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Avatar = avatar
	return user, nil
}

func (r *fakeUserRepo) AddAddress(userID string, address domain.Address) (*domain.User, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	address.ID = fmt.Sprintf("addr-%d", len(user.Addresses)+1)
	user.Addresses = append(user.Addresses, address)
	return user, nil
}

func (r *fakeUserRepo) DeleteAddress(userID, addressID string) (*domain.User, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	kept := user.Addresses[:0]
	for _, address := range user.Addresses {
		if address.ID != addressID {
			kept = append(kept, address)
		}
	}
	user.Addresses = kept
	return user, nil
}

func (r *fakeUserRepo) ListAll() ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(id string) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

type fakeShopRepo struct {
	shops  map[string]*domain.Shop
	nextID int
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: map[string]*domain.Shop{}}
}

func (r *fakeShopRepo) seed(shop *domain.Shop) *domain.Shop {
	r.shops[shop.ID] = shop
	return shop
}

func (r *fakeShopRepo) Create(shop *domain.Shop) (*domain.Shop, error) {
	for _, existing := range r.shops {
		if existing.Email == shop.Email {
			return nil, fmt.Errorf("%w: seller already exists", domain.ErrBadRequest)
		}
	}
	r.nextID++
	shop.ID = fmt.Sprintf("shop-%d", r.nextID)
	r.shops[shop.ID] = shop
	return shop, nil
}

func (r *fakeShopRepo) GetByEmail(email string) (*domain.Shop, error) {
	for _, shop := range r.shops {
		if shop.Email == email {
			return shop, nil
		}
	}
	return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
}

func (r *fakeShopRepo) GetByID(id string) (*domain.Shop, error) {
	shop, ok := r.shops[id]
	if !ok {
		return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	return shop, nil
}

func (r *fakeShopRepo) UpdateInfo(shop *domain.Shop) (*domain.Shop, error) {
	r.shops[shop.ID] = shop
	return shop, nil
}

func (r *fakeShopRepo) UpdateAvatar(id string, avatar domain.Image) (*domain.Shop, error) {
	shop, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	shop.Avatar = avatar
	return shop, nil
}

func (r *fakeShopRepo) SetWithdrawMethod(id string, method *domain.WithdrawMethod) (*domain.Shop, error) {
	shop, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	shop.WithdrawMethod = method
	return shop, nil
}

func (r *fakeShopRepo) SetAvailableBalance(id string, balance float64) error {
	shop, err := r.GetByID(id)
	if err != nil {
		return err
	}
	shop.AvailableBalance = balance
	return nil
}

func (r *fakeShopRepo) DebitBalance(id string, amount float64) error {
	shop, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if shop.AvailableBalance < amount {
		return fmt.Errorf("%w: insufficient balance", domain.ErrBadRequest)
	}
	shop.AvailableBalance -= amount
	return nil
}

func (r *fakeShopRepo) CreditBalance(id string, amount float64) error {
	shop, err := r.GetByID(id)
	if err != nil {
		return err
	}
	shop.AvailableBalance += amount
	return nil
}

func (r *fakeShopRepo) AppendTransaction(id string, txn domain.Transaction) (*domain.Shop, error) {
	shop, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	txn.ID = fmt.Sprintf("txn-%d", len(shop.Transactions)+1)
	txn.CreatedAt = time.Now()
	shop.Transactions = append(shop.Transactions, txn)
	return shop, nil
}

func (r *fakeShopRepo) ListAll() ([]domain.Shop, error) {
	shops := make([]domain.Shop, 0, len(r.shops))
	for _, shop := range r.shops {
		shops = append(shops, *shop)
	}
	return shops, nil
}

func (r *fakeShopRepo) Delete(id string) error {
	delete(r.shops, id)
	return nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
	reviews  map[string][]domain.Review
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[string]*domain.Product{},
		reviews:  map[string][]domain.Review{},
	}
}

func (r *fakeProductRepo) seed(product *domain.Product) *domain.Product {
	r.products[product.ID] = product
	return product
}

func (r *fakeProductRepo) Create(product *domain.Product) (*domain.Product, error) {
	product.ID = fmt.Sprintf("product-%d", len(r.products)+1)
	r.products[product.ID] = product
	return product, nil
}

func (r *fakeProductRepo) GetByID(id string) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	copied := *product
	copied.Reviews = r.reviews[id]
	return &copied, nil
}

func (r *fakeProductRepo) ListAll() ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, *product)
	}
	return products, nil
}

func (r *fakeProductRepo) ListByShop(shopID string) ([]domain.Product, error) {
	var products []domain.Product
	for _, product := range r.products {
		if product.ShopID == shopID {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DeductStock(id string, qty int) error {
	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	if product.Stock < qty {
		return fmt.Errorf("%w: insufficient stock", domain.ErrBadRequest)
	}
	product.Stock -= qty
	product.SoldOut += qty
	return nil
}

func (r *fakeProductRepo) RestoreStock(id string, qty int) error {
	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	if product.SoldOut < qty {
		return fmt.Errorf("%w: nothing to restore", domain.ErrBadRequest)
	}
	product.Stock += qty
	product.SoldOut -= qty
	return nil
}

func (r *fakeProductRepo) UpsertReview(productID string, review domain.Review) error {
	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	reviews := r.reviews[productID]
	for i, existing := range reviews {
		if existing.UserID == review.UserID {
			reviews[i] = review
			return nil
		}
	}
	r.reviews[productID] = append(reviews, review)
	return nil
}

func (r *fakeProductRepo) ListReviews(productID string) ([]domain.Review, error) {
	return r.reviews[productID], nil
}

func (r *fakeProductRepo) SetRatings(productID string, ratings float64) error {
	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("%w: product not found", domain.ErrNotFound)
	}
	product.Ratings = ratings
	return nil
}

type fakeOrderRepo struct {
	orders   map[string]*domain.Order
	nextID   int
	reviewed map[string]bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[string]*domain.Order{},
		reviewed: map[string]bool{},
	}
}

func (r *fakeOrderRepo) Create(order *domain.Order) (*domain.Order, error) {
	r.nextID++
	order.ID = fmt.Sprintf("order-%d", r.nextID)
	order.CreatedAt = time.Now()
	r.orders[order.ID] = order
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetByID(id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var orders []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) ListByShop(shopID string) ([]domain.Order, error) {
	var orders []domain.Order
	for _, order := range r.orders {
		for _, item := range order.Cart {
			if item.ShopID == shopID {
				orders = append(orders, *order)
				break
			}
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) ListAll() ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *fakeOrderRepo) UpdateStatus(id string, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkDelivered(id string, deliveredAt time.Time, paymentStatus string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	order.Status = domain.StatusDelivered
	if order.DeliveredAt == nil {
		order.DeliveredAt = &deliveredAt
	}
	order.PaymentInfo.Status = paymentStatus
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkItemReviewed(orderID, productID string) error {
	if _, ok := r.orders[orderID]; !ok {
		return fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	r.reviewed[orderID+"/"+productID] = true
	return nil
}

type fakeCouponRepo struct {
	coupons map[string]*domain.Coupon
	nextID  int
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: map[string]*domain.Coupon{}}
}

func (r *fakeCouponRepo) Create(coupon *domain.Coupon) (*domain.Coupon, error) {
	for _, existing := range r.coupons {
		if existing.Name == coupon.Name {
			return nil, fmt.Errorf("%w: coupon already exists", domain.ErrBadRequest)
		}
	}
	r.nextID++
	coupon.ID = fmt.Sprintf("coupon-%d", r.nextID)
	r.coupons[coupon.ID] = coupon
	return coupon, nil
}

func (r *fakeCouponRepo) GetByName(name string) (*domain.Coupon, error) {
	for _, coupon := range r.coupons {
		if coupon.Name == name {
			return coupon, nil
		}
	}
	return nil, fmt.Errorf("%w: coupon not found", domain.ErrNotFound)
}

func (r *fakeCouponRepo) GetByID(id string) (*domain.Coupon, error) {
	coupon, ok := r.coupons[id]
	if !ok {
		return nil, fmt.Errorf("%w: coupon not found", domain.ErrNotFound)
	}
	return coupon, nil
}

func (r *fakeCouponRepo) ListByShop(shopID string) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	for _, coupon := range r.coupons {
		if coupon.ShopID == shopID {
			coupons = append(coupons, *coupon)
		}
	}
	return coupons, nil
}

func (r *fakeCouponRepo) Delete(id string) error {
	if _, ok := r.coupons[id]; !ok {
		return fmt.Errorf("%w: coupon not found", domain.ErrNotFound)
	}
	delete(r.coupons, id)
	return nil
}

type fakeWithdrawRepo struct {
	withdraws  map[string]*domain.Withdraw
	nextID     int
	failCreate error
}

func newFakeWithdrawRepo() *fakeWithdrawRepo {
	return &fakeWithdrawRepo{withdraws: map[string]*domain.Withdraw{}}
}

func (r *fakeWithdrawRepo) Create(withdraw *domain.Withdraw) (*domain.Withdraw, error) {
	if r.failCreate != nil {
		return nil, r.failCreate
	}
	r.nextID++
	withdraw.ID = fmt.Sprintf("withdraw-%d", r.nextID)
	withdraw.CreatedAt = time.Now()
	r.withdraws[withdraw.ID] = withdraw
	return withdraw, nil
}

func (r *fakeWithdrawRepo) GetByID(id string) (*domain.Withdraw, error) {
	withdraw, ok := r.withdraws[id]
	if !ok {
		return nil, fmt.Errorf("%w: withdraw not found", domain.ErrNotFound)
	}
	return withdraw, nil
}

func (r *fakeWithdrawRepo) ListAll() ([]domain.Withdraw, error) {
	withdraws := make([]domain.Withdraw, 0, len(r.withdraws))
	for _, withdraw := range r.withdraws {
		withdraws = append(withdraws, *withdraw)
	}
	return withdraws, nil
}

func (r *fakeWithdrawRepo) Approve(id string) (*domain.Withdraw, error) {
	withdraw, ok := r.withdraws[id]
	if !ok {
		return nil, fmt.Errorf("%w: withdraw not found", domain.ErrNotFound)
	}
	if withdraw.Status != domain.WithdrawPending {
		return nil, fmt.Errorf("%w: withdraw request is not pending", domain.ErrBadRequest)
	}
	withdraw.Status = domain.WithdrawSucceeded
	return withdraw, nil
}
