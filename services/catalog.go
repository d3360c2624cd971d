package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductSearcher is a full-text engine returning product ids by relevance.
type ProductSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]uint, error)
}

type ProductFilter struct {
	Query      string
	CategoryID uint
	SellerID   uint
	MinPrice   float64
	MaxPrice   float64
	Size       string
	Color      string
	Gender     string
	Status     string
	Sort       string
	Page       int
	Limit      int
}

func (f *ProductFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// PublicProducts scopes a query to products a shopper may see: enabled products of
// enabled sellers.
func PublicProducts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Product{}).
		Joins("JOIN sellers ON sellers.id = products.seller_id AND sellers.status = ?", models.SellerEnabled).
		Where("products.status = ?", models.ProductEnabled)
}

func applyFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	if f.Query != "" {
		q = likeAny(q, f.Query)
	}
	if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.SellerID != 0 {
		q = q.Where("products.seller_id = ?", f.SellerID)
	}
	if f.MinPrice > 0 {
		q = q.Where("products.discounted_price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("products.discounted_price <= ?", f.MaxPrice)
	}
	// sizes and colors are JSON arrays of strings; match the quoted element.
	if f.Size != "" {
		q = q.Where("products.sizes LIKE ?", `%"`+f.Size+`"%`)
	}
	if f.Color != "" {
		q = q.Where("products.colors LIKE ?", `%"`+f.Color+`"%`)
	}
	if f.Gender != "" {
		q = q.Where("products.gender = ?", f.Gender)
	}
	if f.Status != "" {
		q = q.Where("products.status = ?", f.Status)
	}
	return q
}

func likeAny(q *gorm.DB, term string) *gorm.DB {
	like := "%" + strings.ToLower(term) + "%"
	return q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?", like, like, like)
}

func applySort(q *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "price_asc":
		return q.Order("products.discounted_price ASC")
	case "price_desc":
		return q.Order("products.discounted_price DESC")
	default:
		return q.Order("products.created_at DESC").Order("products.id DESC")
	}
}

// ListProducts returns one page of products from base (PublicProducts for shoppers, a
// seller or admin scope otherwise) and the total match count.
func ListProducts(base *gorm.DB, f ProductFilter) ([]models.Product, int64, error) {
	f.normalize()
	q := applyFilter(base, f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := applySort(q, f.Sort).
		Preload("Category").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// SearchProducts asks the search engine first and falls back to a LIKE query on any error.
func SearchProducts(ctx context.Context, db *gorm.DB, engine ProductSearcher, query string, limit int) ([]models.Product, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if engine != nil {
		ids, err := engine.Search(ctx, query, limit)
		if err == nil {
			return productsInOrder(PublicProducts(db.WithContext(ctx)), ids)
		}
		entry := logrus.WithError(err).WithField("query", query)
		if errors.Is(err, utils.ErrSearchUnavailable) {
			entry.Debug("search engine unavailable, falling back to database")
		} else {
			entry.Warn("search engine failed, falling back to database")
		}
	}

	var products []models.Product
	err := likeAny(PublicProducts(db.WithContext(ctx)), query).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func productsInOrder(q *gorm.DB, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := q.Where("products.id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// GetPublicProduct loads one product visible to shoppers.
func GetPublicProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := PublicProducts(db).Preload("Category").Preload("Seller").Where("products.id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	if err := MarkSponsored(db, []*models.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkSponsored fills the derived IsSponsored flag.
func MarkSponsored(db *gorm.DB, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	var sponsored []uint
	if err := db.Model(&models.SponsoredProduct{}).Where("product_id IN ?", ids).Pluck("product_id", &sponsored).Error; err != nil {
		return err
	}
	set := make(map[uint]bool, len(sponsored))
	for _, id := range sponsored {
		set[id] = true
	}
	for _, p := range products {
		p.IsSponsored = set[p.ID]
	}
	return nil
}

func Pointers(products []models.Product) []*models.Product {
	ptrs := make([]*models.Product, len(products))
	for i := range products {
		ptrs[i] = &products[i]
	}
	return ptrs
}

// RecordRecentSearch keeps the user's latest distinct searches, newest first.
func RecordRecentSearch(db *gorm.DB, userID uint, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND term = ?", userID, term).Delete(&models.RecentSearch{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.RecentSearch{UserID: userID, Term: term}).Error; err != nil {
			return err
		}
		return trimRecent(tx, &models.RecentSearch{}, userID, "id DESC", models.MaxRecentSearches)
	})
}

// RecordRecentView moves productID to the front of the user's recently viewed list.
func RecordRecentView(db *gorm.DB, userID, productID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		view := models.RecentView{UserID: userID, ProductID: productID}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&view).Error
		if err != nil {
			return err
		}
		return trimRecent(tx, &models.RecentView{}, userID, "updated_at DESC, id DESC", models.MaxRecentlyViewed)
	})
}

func trimRecent(tx *gorm.DB, model any, userID uint, order string, keep int) error {
	var stale []uint
	err := tx.Model(model).
		Where("user_id = ?", userID).
		Order(order).
		Offset(keep).
		Limit(1000).
		Pluck("id", &stale).Error
	if err != nil || len(stale) == 0 {
		return err
	}
	return tx.Where("id IN ?", stale).Delete(model).Error
}

// GetPublicSeller returns an enabled seller with their public products.
func GetPublicSeller(db *gorm.DB, id uint) (*models.Seller, []models.Product, error) {
	var seller models.Seller
	err := db.Where("id = ? AND status = ?", id, models.SellerEnabled).First(&seller).Error
	if err != nil {
		return nil, nil, err
	}
	var products []models.Product
	if err := PublicProducts(db).Where("products.seller_id = ?", id).Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, nil, err
	}
	return &seller, products, nil
}

// SponsoredProducts lists public sponsored products in position order.
func SponsoredProducts(db *gorm.DB) ([]models.Product, error) {
	var ids []uint
	err := db.Model(&models.SponsoredProduct{}).Order("position ASC").Order("id ASC").Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	products, err := productsInOrder(PublicProducts(db), ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].IsSponsored = true
	}
	return products, nil
}

// requirePublicProduct loads a product a shopper may buy or cart.
func requirePublicProduct(tx *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := PublicProducts(tx).Where("products.id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrProductUnavailable
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
