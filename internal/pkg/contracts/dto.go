// Package contracts holds the transfer shapes exchanged between services and
// returned by the gateway. They are the wire messages of the gRPC JSON codec.
package contracts

import "time"

type User struct {
	UserID     int         `json:"userId,omitempty"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	ImageURL   string      `json:"imageUrl"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone"`
	Addresses  []Address   `json:"addresses"`
	Credential *Credential `json:"credential,omitempty"`
}

type Address struct {
	AddressID   int    `json:"addressId,omitempty"`
	FullAddress string `json:"fullAddress"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
}

type Credential struct {
	CredentialID            int    `json:"credentialId,omitempty"`
	Username                string `json:"username"`
	Password                string `json:"password,omitempty"`
	RoleBasedAuthority      string `json:"roleBasedAuthority"`
	IsEnabled               bool   `json:"isEnabled"`
	IsAccountNonExpired     bool   `json:"isAccountNonExpired"`
	IsAccountNonLocked      bool   `json:"isAccountNonLocked"`
	IsCredentialsNonExpired bool   `json:"isCredentialsNonExpired"`
}

type Product struct {
	ProductID    int     `json:"productId,omitempty"`
	ProductTitle string  `json:"productTitle"`
	ImageURL     string  `json:"imageUrl"`
	SKU          string  `json:"sku"`
	PriceUnit    float64 `json:"priceUnit"`
	Quantity     int     `json:"quantity"`
}

// Order carries its items only after composition; OrderItems is nil on the
// Lookup path and a non-nil slice once the items were fetched.
type Order struct {
	OrderID    int         `json:"orderId,omitempty"`
	OrderDate  time.Time   `json:"orderDate"`
	OrderDesc  string      `json:"orderDesc"`
	OrderFee   float64     `json:"orderFee"`
	OrderItems []OrderItem `json:"orderItems"`
}

type OrderItem struct {
	OrderID         int           `json:"orderId"`
	ProductID       int           `json:"productId"`
	OrderedQuantity int           `json:"orderedQuantity"`
	Order           *Ref[Order]   `json:"order,omitempty"`
	Product         *Ref[Product] `json:"product,omitempty"`
}

type Payment struct {
	PaymentID     int         `json:"paymentId,omitempty"`
	IsPayed       bool        `json:"isPayed"`
	PaymentStatus string      `json:"paymentStatus"`
	OrderID       int         `json:"orderId"`
	Order         *Ref[Order] `json:"order,omitempty"`
}

type Favourite struct {
	FavouriteID int           `json:"favouriteId,omitempty"`
	UserID      int           `json:"userId"`
	ProductID   int           `json:"productId"`
	LikeDate    time.Time     `json:"likeDate"`
	User        *Ref[User]    `json:"user,omitempty"`
	Product     *Ref[Product] `json:"product,omitempty"`
}
