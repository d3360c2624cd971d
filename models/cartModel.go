package models

// CartItem is one cart line. A user holds at most one line per (product, size, color).
type CartItem struct {
	Base
	UserID    uint     `gorm:"uniqueIndex:idx_cart_line;not null" json:"userId"`
	ProductID uint     `gorm:"uniqueIndex:idx_cart_line;not null" json:"productId"`
	Size      string   `gorm:"uniqueIndex:idx_cart_line;size:10;not null" json:"size"`
	Color     string   `gorm:"uniqueIndex:idx_cart_line;size:30;not null" json:"color"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type WishlistItem struct {
	Base
	UserID    uint     `gorm:"uniqueIndex:idx_wishlist_line;not null" json:"userId"`
	ProductID uint     `gorm:"uniqueIndex:idx_wishlist_line;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
}

// SavedItem is a cart line parked for later.
type SavedItem struct {
	Base
	UserID    uint     `gorm:"index;not null" json:"userId"`
	ProductID uint     `gorm:"not null" json:"productId"`
	Size      string   `gorm:"size:10" json:"size"`
	Color     string   `gorm:"size:30" json:"color"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID uint   `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// ItemRequest is a (product, size, color, quantity) tuple coming from a client.
type ItemRequest struct {
	LineKey
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// MergeItems collapses repeated (product, size, color) tuples, the last quantity winning,
// and keeps first-seen order.
func MergeItems(items []ItemRequest) []ItemRequest {
	index := make(map[LineKey]int, len(items))
	merged := make([]ItemRequest, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.LineKey]; ok {
			merged[i].Quantity = it.Quantity
			continue
		}
		index[it.LineKey] = len(merged)
		merged = append(merged, it)
	}
	return merged
}
