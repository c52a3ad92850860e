package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/requestdata"
	"github.com/shadeapp/shade-backend/internal/types"
)

// CtxFor returns a context carrying the given user as the authenticated
// caller, the same way the auth middleware does for real requests.
func CtxFor(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
	})
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.UserProfile {
	tb.Helper()
	p := &types.UserProfile{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: "Test User",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, category string) *types.WardrobeItem {
	tb.Helper()
	i := &types.WardrobeItem{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "test item",
		Category: category,
	}
	if err := tx.WithContext(ctx).Create(i).Error; err != nil {
		tb.Fatalf("seed wardrobe item: %v", err)
	}
	return i
}

func SeedOutfit(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemIDs []uuid.UUID) *types.SavedOutfit {
	tb.Helper()
	o := &types.SavedOutfit{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "test outfit",
	}
	o.ItemIDs = itemIDs
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed outfit: %v", err)
	}
	return o
}

func PtrTime(v time.Time) *time.Time { return &v }

func PtrFloat(v float64) *float64 { return &v }
