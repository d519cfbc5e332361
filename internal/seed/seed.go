// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"moneta/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles     int
	NumPosts        int
	NumTransactions int
	ShouldClean     bool
	// MaxDays is how far back in time generated timestamps are spread.
	MaxDays int
	// DryRun builds entities without touching the database. Used by tests.
	DryRun bool
}

// defaultCategories are the global categories every install starts with.
// They have no profile ID and are visible to all profiles.
var defaultCategories = []models.Category{
	{Name: "Salary", Type: models.TransactionIncome, IconName: "briefcase", Color: "#2e7d32"},
	{Name: "Freelance", Type: models.TransactionIncome, IconName: "laptop", Color: "#388e3c"},
	{Name: "Investments", Type: models.TransactionIncome, IconName: "trending-up", Color: "#43a047"},
	{Name: "Groceries", Type: models.TransactionExpense, IconName: "shopping-cart", Color: "#c62828"},
	{Name: "Rent", Type: models.TransactionExpense, IconName: "home", Color: "#ad1457"},
	{Name: "Transport", Type: models.TransactionExpense, IconName: "bus", Color: "#6a1b9a"},
	{Name: "Dining Out", Type: models.TransactionExpense, IconName: "utensils", Color: "#ef6c00"},
	{Name: "Health", Type: models.TransactionExpense, IconName: "heart", Color: "#d84315"},
	{Name: "Entertainment", Type: models.TransactionExpense, IconName: "film", Color: "#4527a0"},
	{Name: "Education", Type: models.TransactionExpense, IconName: "book", Color: "#283593"},
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d profiles and %d posts...", opts.NumProfiles, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	categories, err := createOrGetCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d global categories available", len(categories))

	profiles, err := createProfiles(factory, opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}
	log.Printf("✓ %d test profiles created", len(profiles))

	if err := createFollowMesh(factory, profiles); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}
	log.Println("✓ follow mesh created")

	if err := createFinances(factory, profiles, categories, opts.NumTransactions); err != nil {
		return fmt.Errorf("failed to create finance data: %w", err)
	}
	log.Println("✓ accounts, transactions, and targets created")

	posts, err := createPosts(factory, profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createEngagement(factory, profiles, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}
	log.Println("✓ likes and comments created")

	log.Println("🌱 Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// child tables first
	tables := []string{
		"post_comments", "post_likes", "feed_posts",
		"budgets", "user_financial_targets", "transactions", "accounts",
		"followers", "profiles",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createOrGetCategories(db *gorm.DB) ([]models.Category, error) {
	var existing []models.Category
	if err := db.Where("profile_id IS NULL").Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	categories := make([]models.Category, len(defaultCategories))
	copy(categories, defaultCategories)
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func createProfiles(f *Factory, count int) ([]*models.Profile, error) {
	if count <= 0 {
		count = 20
	}
	profiles := make([]*models.Profile, 0, count)
	for i := 0; i < count; i++ {
		profile, err := f.CreateProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// createFollowMesh links every profile to a handful of others so personal
// feeds have content from followed profiles.
func createFollowMesh(f *Factory, profiles []*models.Profile) error {
	n := len(profiles)
	if n < 2 {
		return nil
	}
	for i, follower := range profiles {
		followCount := 3 + f.rng.Intn(5)
		for j := 0; j < followCount; j++ {
			target := profiles[f.rng.Intn(n)]
			if target.ID == follower.ID {
				continue
			}
			if err := f.CreateFollow(follower, target); err != nil {
				return err
			}
		}
		_ = i
	}
	return nil
}

func createFinances(f *Factory, profiles []*models.Profile, categories []models.Category, numTransactions int) error {
	if numTransactions <= 0 {
		numTransactions = 40
	}
	for _, profile := range profiles {
		accountCount := 1 + f.rng.Intn(3)
		accounts := make([]*models.Account, 0, accountCount)
		for i := 0; i < accountCount; i++ {
			account, err := f.CreateAccount(profile)
			if err != nil {
				return err
			}
			accounts = append(accounts, account)
		}

		txs := make([]*models.Transaction, 0, numTransactions)
		for i := 0; i < numTransactions; i++ {
			account := accounts[f.rng.Intn(len(accounts))]
			var category *models.Category
			if len(categories) > 0 && f.rng.Intn(5) > 0 {
				category = &categories[f.rng.Intn(len(categories))]
			}
			txs = append(txs, f.BuildTransaction(profile, account, category))
		}
		if err := f.CreateTransactionsBatch(txs); err != nil {
			return err
		}

		if _, err := f.CreateTarget(profile); err != nil {
			return err
		}
	}
	return nil
}

func createPosts(f *Factory, profiles []*models.Profile, count int) ([]*models.Post, error) {
	if count <= 0 {
		count = 100
	}
	postTypes := []models.PostType{
		models.PostTypeManual, models.PostTypeManual, models.PostTypeManual,
		models.PostTypeAchievement, models.PostTypeMetricSnapshot,
		models.PostTypeTransactionShare,
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		profile := profiles[f.rng.Intn(len(profiles))]
		postType := postTypes[f.rng.Intn(len(postTypes))]
		posts = append(posts, f.BuildPost(profile, postType))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createEngagement(f *Factory, profiles []*models.Profile, posts []*models.Post) error {
	for _, post := range posts {
		likeCount := f.rng.Intn(len(profiles))
		for i := 0; i < likeCount; i++ {
			if err := f.CreateLike(profiles[f.rng.Intn(len(profiles))], post); err != nil {
				return err
			}
		}

		commentCount := f.rng.Intn(4)
		for i := 0; i < commentCount; i++ {
			if _, err := f.CreateComment(profiles[f.rng.Intn(len(profiles))], post); err != nil {
				return err
			}
		}
	}
	return nil
}
