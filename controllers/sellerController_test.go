package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSellerProfileLeavesStatusAlone(t *testing.T) {
	db := testutil.NewDB(t)
	seller := models.Seller{Name: "Meera", ShopName: "Meera Weaves", Phone: "9000000001", Email: "meera@shop.test", Password: "hash", Status: models.SellerEnabled}
	require.NoError(t, db.Create(&seller).Error)

	// the copy loaded for the request predates an admin disabling the seller
	stale := seller
	require.NoError(t, db.Model(&models.Seller{}).Where("id = ?", seller.ID).UpdateColumn("status", models.SellerDisabled).Error)
	require.NoError(t, db.Model(&models.Seller{}).Where("id = ?", seller.ID).UpdateColumn("revenue_total", 1200).Error)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	c := &Controller{DB: db}
	shop := "Meera Handlooms"
	ifsc := "sbin0001234"
	require.True(t, c.saveSellerProfile(ctx, &stale, &sellerProfileInput{
		ShopName:    &shop,
		BankDetails: &bankDetailsInput{IFSC: &ifsc},
	}))

	var saved models.Seller
	require.NoError(t, db.First(&saved, seller.ID).Error)
	assert.Equal(t, "Meera Handlooms", saved.ShopName)
	assert.Equal(t, "SBIN0001234", saved.Bank.IFSC)
	assert.Equal(t, models.SellerDisabled, saved.Status)
	assert.Equal(t, "hash", saved.Password)
	assert.Equal(t, 1200.0, saved.Revenue.Total)
}
