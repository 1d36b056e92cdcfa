// review_repository_test.go exercises the review repository against a real
// PostgreSQL instance. Tests are skipped if the database is not available.
package postgres

import (
	"context"
	"os"
	"testing"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDSN builds the PostgreSQL connection string for testing.
// Environment variables override the local-development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USERNAME", "postgres")
	pass := envOr("POSTGRES_PASSWORD", "postgres")
	name := envOr("POSTGRES_DBNAME", "storefront_test")

	return "host=" + host + " port=" + port + " user=" + user +
		" password=" + pass + " dbname=" + name + " sslmode=disable TimeZone=UTC"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// testDB opens a GORM connection to the test database and migrates the
// schema. The test is skipped when the database cannot be reached.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(pgDriver.Open(testDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("skipping integration test: cannot get sql.DB: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// ratingFixture seeds a seller, three buyers, a category and a product, and
// removes them again when the test finishes. Rows are keyed by test-specific
// names so a crashed earlier run cannot collide with the active-row indexes.
type ratingFixture struct {
	product *model.ProductModel
	buyers  []*model.UserModel
}

func seedRatingFixture(t *testing.T, db *gorm.DB) *ratingFixture {
	t.Helper()

	const productName = "rating-test-keyboard"
	emails := []string{
		"rating-test-seller@example.com",
		"rating-test-buyer1@example.com",
		"rating-test-buyer2@example.com",
		"rating-test-buyer3@example.com",
	}

	cleanup := func() {
		db.Exec("DELETE FROM reviews WHERE product_id IN (SELECT id FROM products WHERE name = ?)", productName)
		db.Exec("DELETE FROM products WHERE name = ?", productName)
		db.Exec("DELETE FROM categories WHERE name = ?", "rating-test-category")
		db.Exec("DELETE FROM users WHERE email IN ?", emails)
	}
	cleanup()
	t.Cleanup(cleanup)

	seller := &model.UserModel{Email: emails[0], HashedPassword: "x", Role: "seller", IsActive: true}
	require.NoError(t, db.Create(seller).Error)

	buyers := make([]*model.UserModel, 0, 3)
	for _, email := range emails[1:] {
		buyer := &model.UserModel{Email: email, HashedPassword: "x", Role: "buyer", IsActive: true}
		require.NoError(t, db.Create(buyer).Error)
		buyers = append(buyers, buyer)
	}

	category := &model.CategoryModel{Name: "rating-test-category", IsActive: true}
	require.NoError(t, db.Create(category).Error)

	product := &model.ProductModel{
		Name:       productName,
		CategoryID: category.ID,
		SellerID:   seller.ID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)

	return &ratingFixture{product: product, buyers: buyers}
}

func storedRating(t *testing.T, db *gorm.DB, productID int64) float64 {
	t.Helper()

	var productM model.ProductModel
	require.NoError(t, db.First(&productM, productID).Error)

	return productM.Rating
}

func TestReviewRepository_RecomputeProductRating(t *testing.T) {
	db := testDB(t)
	fx := seedRatingFixture(t, db)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	// A product without reviews has a rating of zero.
	rating, err := repo.RecomputeProductRating(ctx, fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)

	reviews := make([]*entity.Review, 0, 3)
	for i, grade := range []int{4, 5, 5} {
		review := &entity.Review{
			UserID:    fx.buyers[i].ID,
			ProductID: fx.product.ID,
			Grade:     grade,
			IsActive:  true,
		}
		require.NoError(t, repo.Create(ctx, review))
		reviews = append(reviews, review)
	}

	// AVG(4, 5, 5) = 4.666..., stored with two decimal places.
	rating, err = repo.RecomputeProductRating(ctx, fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.67, rating)
	assert.Equal(t, 4.67, storedRating(t, db, fx.product.ID))

	// Soft-deleting a five drops the average to 4.5.
	require.NoError(t, repo.SoftDelete(ctx, reviews[2].ID))
	rating, err = repo.RecomputeProductRating(ctx, fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating)

	// Soft-deleting the other five leaves only the four.
	require.NoError(t, repo.SoftDelete(ctx, reviews[1].ID))
	rating, err = repo.RecomputeProductRating(ctx, fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 4.0, storedRating(t, db, fx.product.ID))

	// With every review soft-deleted the rating falls back to zero.
	require.NoError(t, repo.SoftDelete(ctx, reviews[0].ID))
	rating, err = repo.RecomputeProductRating(ctx, fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0.0, storedRating(t, db, fx.product.ID))
}

func TestReviewRepository_RecomputeProductRating_UnknownProduct(t *testing.T) {
	db := testDB(t)
	repo := NewReviewRepository(db)

	_, err := repo.RecomputeProductRating(context.Background(), 987654321)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}
