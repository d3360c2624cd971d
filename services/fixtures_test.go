package services

import (
	"fmt"
	"testing"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var fixtureSeq int

func next() int {
	fixtureSeq++
	return fixtureSeq
}

func createSeller(t *testing.T, db *gorm.DB, status string) *models.Seller {
	t.Helper()
	n := next()
	s := &models.Seller{
		Name:     fmt.Sprintf("Seller %d", n),
		ShopName: fmt.Sprintf("Shop %d", n),
		Phone:    fmt.Sprintf("90000%05d", n),
		Email:    fmt.Sprintf("seller%d@shop.test", n),
		Password: "x",
		Status:   status,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func createCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	n := next()
	c := &models.Category{Name: fmt.Sprintf("Category %d", n), Slug: fmt.Sprintf("category-%d", n)}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createProduct(t *testing.T, db *gorm.DB, seller *models.Seller, category *models.Category, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID:                seller.ID,
		CategoryID:              category.ID,
		Name:                    fmt.Sprintf("Product %d", next()),
		Description:             "cotton kurta",
		Brand:                   "Loom",
		Price:                   price,
		Stock:                   stock,
		Sizes:                   datatypes.JSONSlice[string]{"M", "L"},
		Colors:                  datatypes.JSONSlice[string]{"Red"},
		CODAvailable:            true,
		OnlinePaymentPercentage: 0,
		Status:                  models.ProductEnabled,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createUser(t *testing.T, db *gorm.DB) (*models.User, *models.Address) {
	t.Helper()
	u := &models.User{Phone: fmt.Sprintf("80000%05d", next())}
	require.NoError(t, db.Create(u).Error)
	a := &models.Address{UserID: u.ID, Name: "Asha", Phone: u.Phone, Line1: "1 MG Road", City: "Pune", State: "MH", Pincode: "411001", IsDefault: true}
	require.NoError(t, db.Create(a).Error)
	return u, a
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func reloadSeller(t *testing.T, db *gorm.DB, id uint) models.Seller {
	t.Helper()
	var s models.Seller
	require.NoError(t, db.First(&s, id).Error)
	return s
}
