package services

import (
	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
)

// RecomputeSellerRevenue rebuilds the seller's revenue from their orders in one aggregate
// query. Cancelled and returned orders are excluded; COD is collected once delivered and
// pending before that.
func RecomputeSellerRevenue(tx *gorm.DB, sellerID uint) error {
	var rev models.Revenue
	err := tx.Model(&models.Order{}).
		Select(`COALESCE(SUM(total), 0) AS total,
			COALESCE(SUM(online_amount), 0) AS online,
			COALESCE(SUM(CASE WHEN status = ? THEN cod_amount ELSE 0 END), 0) AS cod,
			COALESCE(SUM(CASE WHEN status <> ? THEN cod_amount ELSE 0 END), 0) AS pending_cod`,
			models.StatusDelivered, models.StatusDelivered).
		Where("seller_id = ? AND status NOT IN ?", sellerID, []string{models.StatusCancelled, models.StatusReturned}).
		Scan(&rev).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Seller{}).Where("id = ?", sellerID).Updates(map[string]any{
		"revenue_total":       models.RoundMoney(rev.Total),
		"revenue_online":      models.RoundMoney(rev.Online),
		"revenue_cod":         models.RoundMoney(rev.COD),
		"revenue_pending_cod": models.RoundMoney(rev.PendingCOD),
	}).Error
}
