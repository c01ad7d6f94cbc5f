// Package identity supplies the acting user. It is a demo directory: users
// are looked up by email and any password is accepted, which mirrors the
// reference deployment this system ships with. Do not mistake it for an
// authentication layer.
package identity

import (
	"context"
	"strings"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// User is a directory record.
type User struct {
	entity.Base

	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`

	// BusinessIDs the user is assigned to; ignored for admin.
	BusinessIDs []id.ID `json:"businessIds,omitempty"`
}

// Directory is the persisted user list.
type Directory struct {
	users *store.Collection[User]
}

// Open binds the directory to its collection.
func Open(st *store.Store) (*Directory, error) {
	users, err := store.NewCollection[User](st, store.ColUsers)
	if err != nil {
		return nil, err
	}
	return &Directory{users: users}, nil
}

// Register adds a user. Emails are unique, compared case-insensitively.
func (d *Directory) Register(ctx context.Context, email, name string, role security.Role, businessIDs ...id.ID) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if name == "" {
		return nil, apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	switch role {
	case security.RoleAdmin, security.RoleBusinessManager, security.RoleStaff:
	default:
		return nil, apperror.NewValidation("unknown role").WithDetail("role", string(role))
	}
	if d.byEmail(email) != nil {
		return nil, apperror.NewValidation("email is already registered").
			WithDetail("email", email)
	}

	u := User{
		Base:        entity.NewBase(appctx.GetUserID(ctx)),
		Email:       email,
		Name:        name,
		Role:        string(role),
		BusinessIDs: businessIDs,
	}
	if err := d.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate resolves a user by email. The password is accepted as-is;
// this directory carries no credentials.
func (d *Directory) Authenticate(ctx context.Context, email, _ string) (*appctx.UserContext, error) {
	u := d.byEmail(strings.ToLower(strings.TrimSpace(email)))
	if u == nil {
		return nil, apperror.NewNotFound("user", email)
	}

	logger.Debug(ctx, "user authenticated", "user_id", u.ID, "role", u.Role)
	return &appctx.UserContext{
		UserID:      u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		BusinessIDs: u.BusinessIDs,
	}, nil
}

// AssignBusiness adds a business to the user's visibility set.
func (d *Directory) AssignBusiness(ctx context.Context, userID, businessID id.ID) error {
	return d.users.Modify(ctx, userID, func(u *User) error {
		for _, bid := range u.BusinessIDs {
			if bid == businessID {
				return nil
			}
		}
		u.BusinessIDs = append(u.BusinessIDs, businessID)
		return nil
	})
}

// List returns every directory record.
func (d *Directory) List() []User {
	return d.users.All()
}

func (d *Directory) byEmail(email string) *User {
	for _, u := range d.users.All() {
		if u.Email == email {
			return &u
		}
	}
	return nil
}
