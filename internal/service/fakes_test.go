package service

import (
	"context"

	"eshop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes of the repository interfaces. They return
// gorm.ErrRecordNotFound on misses, like the real ones.

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) add(user *model.User) *model.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.State.IsActive() {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.State = model.StateInactive
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (f *fakeCategoryRepo) add(c *model.Category) *model.Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.State == "" {
		c.State = model.StateActive
	}
	f.categories[c.ID] = c
	return c
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	f.add(category)
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	if c, ok := f.categories[id]; ok && c.State.IsActive() {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(f.categories))
	for _, c := range f.categories {
		if c.State.IsActive() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, ok := f.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.State = model.StateInactive
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (f *fakeProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.State == "" {
		p.State = model.StateActive
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) Create(ctx context.Context, product *model.Product) error {
	f.add(product)
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *model.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := f.products[id]; ok && p.State.IsActive() {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindActiveByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.FindActiveByID(ctx, id)
}

func (f *fakeProductRepo) ListActive(ctx context.Context, page, limit int) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		if p.State.IsActive() {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range f.products {
		if p.State.IsActive() && p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Rating = rating
	return nil
}

func (f *fakeProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (f *fakeProductRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.State = model.StateInactive
	return nil
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (f *fakeReviewRepo) add(r *model.Review) *model.Review {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.State == "" {
		r.State = model.StateActive
	}
	f.reviews[r.ID] = r
	return r
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *model.Review) error {
	f.add(review)
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	if r, ok := f.reviews[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) ListActive(ctx context.Context, page, limit int) ([]model.Review, int64, error) {
	out := make([]model.Review, 0, len(f.reviews))
	for _, r := range f.reviews {
		if r.State.IsActive() {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepo) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	out := make([]model.Review, 0)
	for _, r := range f.reviews {
		if r.State.IsActive() && r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r, ok := f.reviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.State = model.StateInactive
	return nil
}

func (f *fakeReviewRepo) AverageGrade(ctx context.Context, productID uuid.UUID) (float64, error) {
	sum, n := 0, 0
	for _, r := range f.reviews {
		if r.State.IsActive() && r.ProductID == productID {
			sum += r.Grade
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

type fakeCartRepo struct {
	items map[uuid.UUID]*model.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]*model.CartItem)}
}

func (f *fakeCartRepo) add(item *model.CartItem) *model.CartItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*model.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindItemByID(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error) {
	if item, ok := f.items[itemID]; ok && item.UserID == userID {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0)
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) CreateItem(ctx context.Context, item *model.CartItem) error {
	f.add(item)
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	item, ok := f.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	items  []model.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) CreateItem(ctx context.Context, item *model.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeOrderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.TotalAmount = total
	return nil
}

func (f *fakeOrderRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *order
	out.Items = nil
	for _, item := range f.items {
		if item.OrderID == id {
			out.Items = append(out.Items, item)
		}
	}
	return &out, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	out := make([]model.Order, 0)
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}
