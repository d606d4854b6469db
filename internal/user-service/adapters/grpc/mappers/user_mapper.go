package mappers

import (
	"cmp"
	"slices"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/domain"
)

// UserToDTO maps a stored user. Addresses come out sorted by id and never
// nil; a missing credential stays nil.
func UserToDTO(u domain.User) contracts.User {
	addrs := make([]contracts.Address, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		addrs = append(addrs, contracts.Address{
			AddressID:   a.ID,
			FullAddress: a.FullAddress,
			PostalCode:  a.PostalCode,
			City:        a.City,
		})
	}
	slices.SortStableFunc(addrs, func(a, b contracts.Address) int {
		return cmp.Compare(a.AddressID, b.AddressID)
	})

	return contracts.User{
		UserID:     u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ImageURL:   u.ImageURL,
		Email:      u.Email,
		Phone:      u.Phone,
		Addresses:  addrs,
		Credential: credentialToDTO(u.Credential),
	}
}

func UserFromDTO(d contracts.User) domain.User {
	addrs := make([]domain.Address, 0, len(d.Addresses))
	for _, a := range d.Addresses {
		addrs = append(addrs, domain.Address{
			ID:          a.AddressID,
			UserID:      d.UserID,
			FullAddress: a.FullAddress,
			PostalCode:  a.PostalCode,
			City:        a.City,
		})
	}

	return domain.User{
		ID:         d.UserID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		ImageURL:   d.ImageURL,
		Email:      d.Email,
		Phone:      d.Phone,
		Addresses:  addrs,
		Credential: credentialFromDTO(d.Credential, d.UserID),
	}
}

func credentialToDTO(c *domain.Credential) *contracts.Credential {
	if c == nil {
		return nil
	}
	return &contracts.Credential{
		CredentialID:            c.ID,
		Username:                c.Username,
		Password:                c.Password,
		RoleBasedAuthority:      string(c.RoleBasedAuthority),
		IsEnabled:               c.IsEnabled,
		IsAccountNonExpired:     c.IsAccountNonExpired,
		IsAccountNonLocked:      c.IsAccountNonLocked,
		IsCredentialsNonExpired: c.IsCredentialsNonExpired,
	}
}

func credentialFromDTO(c *contracts.Credential, userID int) *domain.Credential {
	if c == nil {
		return nil
	}
	return &domain.Credential{
		ID:                      c.CredentialID,
		UserID:                  userID,
		Username:                c.Username,
		Password:                c.Password,
		RoleBasedAuthority:      domain.Role(c.RoleBasedAuthority),
		IsEnabled:               c.IsEnabled,
		IsAccountNonExpired:     c.IsAccountNonExpired,
		IsAccountNonLocked:      c.IsAccountNonLocked,
		IsCredentialsNonExpired: c.IsCredentialsNonExpired,
	}
}
