package seed

import (
	"context"
	"errors"
	"fmt"

	"edumatch/internal/store"
	"edumatch/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserSeed struct {
	Email    string
	Password string
	Role     types.Role
}

// Well-known dev accounts. The password is printable on purpose; never seed
// a production database.
var fakeUsers = []fakeUserSeed{
	{Email: "greenfield.primary+seed@example.com", Password: "seed-password", Role: types.RoleSchool},
	{Email: "riverside.high+seed@example.com", Password: "seed-password", Role: types.RoleSchool},
	{Email: "hillcrest.elementary+seed@example.com", Password: "seed-password", Role: types.RoleSchool},
	{Email: "brightworks.tech+seed@example.com", Password: "seed-password", Role: types.RoleCompany},
	{Email: "northway.logistics+seed@example.com", Password: "seed-password", Role: types.RoleCompany},
}

// SeedUsers creates the dev accounts, skipping any email already present,
// and returns all seeded users keyed by email.
func SeedUsers(ctx context.Context, userRepo *store.UserRepository) (map[string]*types.User, error) {
	users := make(map[string]*types.User, len(fakeUsers))

	for _, fakeUser := range fakeUsers {
		existing, err := userRepo.UserByEmail(ctx, fakeUser.Email)
		if err == nil {
			users[fakeUser.Email] = existing
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to fetch seed user %s: %w", fakeUser.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(fakeUser.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}

		user := &types.User{
			Email:        fakeUser.Email,
			PasswordHash: string(hash),
			Role:         fakeUser.Role,
		}

		if err := userRepo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create seed user %s: %w", fakeUser.Email, err)
		}

		users[fakeUser.Email] = user
	}

	return users, nil
}

func schoolIDs(users map[string]*types.User) []string {
	var ids []string
	for _, user := range users {
		if user.Role == types.RoleSchool {
			ids = append(ids, user.ID)
		}
	}
	return ids
}
