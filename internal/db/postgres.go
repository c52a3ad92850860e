package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
	"github.com/shadeapp/shade-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := utils.GetEnv("DATABASE_URL", "", log)
	if dsn == "" {
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
		postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
		postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		postgresName := utils.GetEnv("POSTGRES_NAME", "shade", log)
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
	}

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		serviceLog.Error("Failed to enable pgvector extension", "error", err)
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.UserProfile{},
		&types.WardrobeItem{},
		&types.SavedOutfit{},
		&types.ExternalProduct{},
		&types.OutfitSearch{},
		&types.UserRecommendation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	cascades := []struct {
		constraint string
		table      string
		column     string
		refTable   string
	}{
		{"fk_user_token_user_id", "user_token", "user_id", "user"},
		{"fk_user_profile_user_id", "user_profile", "user_id", "user"},
		{"fk_wardrobe_item_user_id", "wardrobe_item", "user_id", "user"},
		{"fk_saved_outfit_user_id", "saved_outfit", "user_id", "user"},
		{"fk_outfit_search_user_id", "outfit_search", "user_id", "user"},
		{"fk_user_recommendation_user_id", "user_recommendation", "user_id", "user"},
	}
	for _, c := range cascades {
		stmt := fmt.Sprintf(`
			ALTER TABLE %q
			DROP CONSTRAINT IF EXISTS %q,
			ADD CONSTRAINT %q
			FOREIGN KEY (%q)
			REFERENCES %q("id")
			ON DELETE CASCADE
		`, c.table, c.constraint, c.constraint, c.column, c.refTable)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.constraint, err)
		}
	}

	s.log.Info("Creating jsonb and vector indexes...")
	indexDDL := []string{
		`CREATE INDEX IF NOT EXISTS idx_wardrobe_item_tags ON "wardrobe_item" USING GIN ("tags" jsonb_path_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_external_product_tags ON "external_product" USING GIN ("tags" jsonb_path_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_wardrobe_item_embedding ON "wardrobe_item" USING ivfflat ("embedding" vector_cosine_ops) WITH (lists = 100)`,
		`CREATE INDEX IF NOT EXISTS idx_external_product_embedding ON "external_product" USING ivfflat ("embedding" vector_cosine_ops) WITH (lists = 100)`,
	}
	for _, ddl := range indexDDL {
		if err := s.db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
