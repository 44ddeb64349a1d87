package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number accepts JSON numbers, numeric strings and null. SQL aggregates
// (SUM over DECIMAL) frequently arrive as strings.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("apiclient: number %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

func (n Number) Int() int64 { return int64(n) }

// Ack is the body of mutations whose response the console does not inspect.
type Ack struct {
	Message string `json:"message"`
}

// --- auth ---

type Credentials struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

type RegisterRequest struct {
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
	Phone    string `json:"Phone"`
	Address  string `json:"Address"`
}

type ResetPasswordRequest struct {
	Token       string `json:"Token"`
	NewPassword string `json:"NewPassword"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"OldPassword"`
	NewPassword string `json:"NewPassword"`
}

// --- catalog ---

type Product struct {
	ProductID   Number `json:"ProductID"`
	ProductName string `json:"ProductName"`
	Description string `json:"Description,omitempty"`
	Price       Number `json:"Price"`
	Stock       Number `json:"Stock"`
	CategoryID  Number `json:"CategoryID"`
	ImageURL    string `json:"ImageURL,omitempty"`
}

type ProductInput struct {
	ProductName string  `json:"ProductName"`
	Description string  `json:"Description,omitempty"`
	Price       float64 `json:"Price"`
	Stock       int64   `json:"Stock"`
	CategoryID  int64   `json:"CategoryID"`
	ImageURL    string  `json:"ImageURL,omitempty"`
}

type Category struct {
	CategoryID   Number `json:"CategoryID"`
	CategoryName string `json:"CategoryName"`
	Description  string `json:"Description,omitempty"`
}

// --- cart ---

type CartItem struct {
	CartID      Number `json:"CartID"`
	ProductID   Number `json:"ProductID"`
	ProductName string `json:"ProductName"`
	Price       Number `json:"Price"`
	Quantity    Number `json:"Quantity"`
}

type CartAddRequest struct {
	ProductID int64 `json:"ProductID"`
	Quantity  int64 `json:"Quantity"`
}

type cartEditRequest struct {
	Quantity int64 `json:"Quantity"`
}

// --- orders ---

type OrderItem struct {
	ProductID   Number `json:"ProductID"`
	ProductName string `json:"ProductName,omitempty"`
	Quantity    Number `json:"Quantity"`
	Price       Number `json:"Price"`
}

type Order struct {
	OrderID       Number      `json:"OrderID"`
	UserID        Number      `json:"UserID"`
	FullName      string      `json:"FullName,omitempty"`
	TotalAmount   Number      `json:"TotalAmount"`
	Status        string      `json:"Status"`
	PaymentMethod string      `json:"PaymentMethod,omitempty"`
	Address       string      `json:"Address,omitempty"`
	CreatedAt     string      `json:"CreatedAt,omitempty"`
	Items         []OrderItem `json:"Items,omitempty"`
}

type CreateOrderRequest struct {
	Items         []OrderItem `json:"Items"`
	Address       string      `json:"Address"`
	PaymentMethod string      `json:"PaymentMethod"`
	VoucherCode   string      `json:"VoucherCode,omitempty"`
}

type PaymentRequest struct {
	OrderID int64   `json:"OrderID"`
	Method  string  `json:"Method"`
	Amount  float64 `json:"Amount"`
}

type OrderUpdate struct {
	Status string `json:"Status"`
}

// --- loyalty ---

type LoyaltyPoint struct {
	PointID     Number `json:"PointID"`
	UserID      Number `json:"UserID"`
	Points      Number `json:"Points"`
	Description string `json:"Description,omitempty"`
	CreatedAt   string `json:"CreatedAt,omitempty"`
}

type LoyaltyPointUpdate struct {
	Points      int64  `json:"Points"`
	Description string `json:"Description,omitempty"`
}

// --- users ---

type User struct {
	UserID   Number `json:"UserID"`
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Phone    string `json:"Phone,omitempty"`
	Address  string `json:"Address,omitempty"`
	RoleName string `json:"RoleName,omitempty"`
}

type ProfileUpdate struct {
	FullName string `json:"FullName,omitempty"`
	Email    string `json:"Email,omitempty"`
	Phone    string `json:"Phone,omitempty"`
	Address  string `json:"Address,omitempty"`
	RoleName string `json:"RoleName,omitempty"`
}

// --- wishlist ---

type WishlistItem struct {
	WishlistID  Number `json:"WishlistID"`
	ProductID   Number `json:"ProductID"`
	ProductName string `json:"ProductName"`
	Price       Number `json:"Price"`
	ImageURL    string `json:"ImageURL,omitempty"`
}

type WishlistAddRequest struct {
	ProductID int64 `json:"ProductID"`
}

// --- notifications ---

type Notification struct {
	NotificationID Number `json:"NotificationID"`
	UserID         Number `json:"UserID"`
	Title          string `json:"Title"`
	Message        string `json:"Message"`
	IsRead         bool   `json:"IsRead"`
	CreatedAt      string `json:"CreatedAt,omitempty"`
}

type NotificationInput struct {
	UserID  int64  `json:"UserID"`
	Title   string `json:"Title"`
	Message string `json:"Message"`
}

// --- vouchers ---

type Voucher struct {
	VoucherID      Number `json:"VoucherID"`
	Code           string `json:"Code"`
	Description    string `json:"Description,omitempty"`
	DiscountAmount Number `json:"DiscountAmount"`
	PointsRequired Number `json:"PointsRequired"`
	Quantity       Number `json:"Quantity"`
	ExpiryDate     string `json:"ExpiryDate,omitempty"`
}

type VoucherInput struct {
	Code           string  `json:"Code"`
	Description    string  `json:"Description,omitempty"`
	DiscountAmount float64 `json:"DiscountAmount"`
	PointsRequired int64   `json:"PointsRequired"`
	Quantity       int64   `json:"Quantity"`
	ExpiryDate     string  `json:"ExpiryDate,omitempty"`
}

type RedeemVoucherRequest struct {
	VoucherID int64 `json:"VoucherID"`
}

type ApplyVoucherRequest struct {
	Code       string  `json:"Code"`
	OrderTotal float64 `json:"OrderTotal"`
}

type ApplyVoucherResponse struct {
	Discount   Number `json:"discount"`
	FinalTotal Number `json:"finalTotal"`
	Message    string `json:"message"`
}

// --- reviews ---

type Review struct {
	ReviewID    Number `json:"ReviewID"`
	ProductID   Number `json:"ProductID"`
	ProductName string `json:"ProductName,omitempty"`
	UserID      Number `json:"UserID"`
	FullName    string `json:"FullName,omitempty"`
	Rating      Number `json:"Rating"`
	Comment     string `json:"Comment"`
	CreatedAt   string `json:"CreatedAt,omitempty"`
}

type ReviewInput struct {
	ProductID int64  `json:"ProductID,omitempty"`
	Rating    int64  `json:"Rating"`
	Comment   string `json:"Comment"`
}

// --- statistics ---

// ProductStatistic is one bar of the revenue chart.
type ProductStatistic struct {
	ProductName   string `json:"ProductName"`
	TotalRevenue  Number `json:"totalRevenue"`
	TotalQuantity Number `json:"totalQuantity"`
}

// Statistics is the body of GET /statistics/static.
type Statistics struct {
	Products        []ProductStatistic `json:"products"`
	TotalOrders     Number             `json:"totalOrders"`
	TotalRevenueAll Number             `json:"totalRevenueAll"`
	TotalUsers      Number             `json:"totalUsers"`
	TotalProducts   Number             `json:"totalProducts"`
}
