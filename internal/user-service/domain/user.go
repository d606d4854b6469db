package domain

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

// User owns its addresses and at most one credential; both are deleted
// with the user.
type User struct {
	ID         int `gorm:"primaryKey"`
	FirstName  string
	LastName   string
	ImageURL   string
	Email      string
	Phone      string
	Addresses  []Address   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Credential *Credential `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Address struct {
	ID          int `gorm:"primaryKey"`
	UserID      int `gorm:"index;not null"`
	FullAddress string
	PostalCode  string
	City        string
}

type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

type Credential struct {
	ID                      int    `gorm:"primaryKey"`
	UserID                  int    `gorm:"index;not null"`
	Username                string `gorm:"index"`
	Password                string
	RoleBasedAuthority      Role
	IsEnabled               bool
	IsAccountNonExpired     bool
	IsAccountNonLocked      bool
	IsCredentialsNonExpired bool
}

func UserKey(u User) int { return u.ID }

// Clone copies the owned address slice and credential.
func (u User) Clone() User {
	if u.Addresses != nil {
		u.Addresses = append([]Address(nil), u.Addresses...)
	}
	if u.Credential != nil {
		c := *u.Credential
		u.Credential = &c
	}
	return u
}

// ByUsername selects the user whose credential carries username.
func ByUsername(username string) store.Filter[User] {
	return store.Where(
		func(u User) bool { return u.Credential != nil && u.Credential.Username == username },
		func(db *gorm.DB) *gorm.DB {
			sub := db.Session(&gorm.Session{NewDB: true}).
				Model(&Credential{}).Select("user_id").Where("username = ?", username)
			return db.Where("id IN (?)", sub)
		},
	)
}
