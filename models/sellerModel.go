package models

const (
	SellerPending  = "pending"
	SellerEnabled  = "enabled"
	SellerDisabled = "disabled"
)

type Seller struct {
	Base
	Name        string      `gorm:"size:100;not null" json:"name"`
	ShopName    string      `gorm:"size:150;not null" json:"shopName"`
	Phone       string      `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email       string      `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"size:255;not null" json:"-"`
	Status      string      `gorm:"size:20;not null;index" json:"status"`
	Description string      `gorm:"type:text" json:"description"`
	Address     string      `gorm:"size:255" json:"address"`
	City        string      `gorm:"size:100" json:"city"`
	State       string      `gorm:"size:100" json:"state"`
	Pincode     string      `gorm:"size:10" json:"pincode"`
	GSTIN       string      `gorm:"column:gstin;size:20" json:"gstin"`
	Logo        string      `gorm:"size:500" json:"logo"`
	Bank        BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bankDetails"`
	Revenue     Revenue     `gorm:"embedded;embeddedPrefix:revenue_" json:"revenue"`
}

// BankDetails holds the payout coordinates a seller is settled to.
type BankDetails struct {
	AccountHolderName string `gorm:"size:100" json:"accountHolderName"`
	AccountNumber     string `gorm:"size:30" json:"accountNumber"`
	IFSC              string `gorm:"column:ifsc;size:15" json:"ifsc"`
	BankName          string `gorm:"size:100" json:"bankName"`
	UPIID             string `gorm:"column:upi_id;size:100" json:"upiId"`
	RazorpayAccountID string `gorm:"size:50" json:"razorpayAccountId"`
}

// Revenue is derived from the seller's orders; see services.RecomputeSellerRevenue.
type Revenue struct {
	Total      float64 `json:"total"`
	Online     float64 `json:"online"`
	COD        float64 `gorm:"column:cod" json:"cod"`
	PendingCOD float64 `gorm:"column:pending_cod" json:"pendingCod"`
}

func IsSellerStatus(s string) bool {
	return s == SellerPending || s == SellerEnabled || s == SellerDisabled
}
