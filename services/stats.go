package services

import (
	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
)

type CountByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type AdminStats struct {
	Users           int64           `json:"users"`
	Products        int64           `json:"products"`
	Categories      int64           `json:"categories"`
	SellersByStatus []CountByStatus `json:"sellersByStatus"`
	OrdersByStatus  []CountByStatus `json:"ordersByStatus"`
	Revenue         models.Revenue  `json:"revenue"`
}

func LoadAdminStats(db *gorm.DB) (*AdminStats, error) {
	var s AdminStats
	if err := db.Model(&models.User{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&s.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Category{}).Count(&s.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Seller{}).Select("status, COUNT(*) AS count").Group("status").Order("status").Scan(&s.SellersByStatus).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Order("status").Scan(&s.OrdersByStatus).Error; err != nil {
		return nil, err
	}
	err := db.Model(&models.Seller{}).Select(`COALESCE(SUM(revenue_total), 0) AS total,
		COALESCE(SUM(revenue_online), 0) AS online,
		COALESCE(SUM(revenue_cod), 0) AS cod,
		COALESCE(SUM(revenue_pending_cod), 0) AS pending_cod`).Scan(&s.Revenue).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
