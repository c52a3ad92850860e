package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestDeleteAccountCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	profileRepo := repos.NewUserProfileRepo(tx, log)
	userRepo := repos.NewUserRepo(tx, log)
	tokenRepo := repos.NewUserTokenRepo(tx, log)
	svc := NewProfileService(tx, log, profileRepo, userRepo, tokenRepo)

	alice := testutil.SeedUser(t, ctx, tx, "alice-cascade@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-cascade@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)

	item := testutil.SeedItem(t, ctx, tx, alice.ID, "top")
	testutil.SeedOutfit(t, ctx, tx, alice.ID, []uuid.UUID{item.ID})
	bobItem := testutil.SeedItem(t, ctx, tx, bob.ID, "bottom")

	rec := &types.UserRecommendation{
		ID:                 uuid.New(),
		UserID:             alice.ID,
		OutfitID:           uuid.New(),
		RecommendationDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		t.Fatalf("seed recommendation: %v", err)
	}

	token := &types.UserToken{
		UserID:       alice.ID,
		AccessToken:  "acc-cascade",
		RefreshToken: "ref-cascade",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := tx.WithContext(ctx).Create(token).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := svc.DeleteAccount(testutil.CtxFor(alice.ID)); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"user_profile", &types.UserProfile{}},
		{"wardrobe_item", &types.WardrobeItem{}},
		{"saved_outfit", &types.SavedOutfit{}},
		{"user_recommendation", &types.UserRecommendation{}},
		{"user_token", &types.UserToken{}},
	} {
		var count int64
		if err := tx.WithContext(ctx).Model(check.model).Where("user_id = ?", alice.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", check.name, err)
		}
		if count != 0 {
			t.Errorf("%s rows survived account deletion: %d", check.name, count)
		}
	}

	var users int64
	if err := tx.WithContext(ctx).Model(&types.User{}).Where("id = ?", alice.ID).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 0 {
		t.Errorf("user row survived account deletion")
	}

	// bob's data is untouched
	var bobItems int64
	if err := tx.WithContext(ctx).Model(&types.WardrobeItem{}).Where("id = ?", bobItem.ID).Count(&bobItems).Error; err != nil {
		t.Fatalf("count bob items: %v", err)
	}
	if bobItems != 1 {
		t.Errorf("cascade deleted another user's item")
	}
}
