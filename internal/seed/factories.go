// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"moneta/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// pastTime returns a timestamp spread over the configured MaxDays window so
// seeded data does not all land on "now".
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateProfile persists a profile with realistic fake identity data.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Seed$Password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Name:     fmt.Sprintf("%s %s", first, last),
		Nickname: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Slug:     fmt.Sprintf("%s-%s", gofakeit.Adverb(), gofakeit.NounAbstract()),
		Bio:      gofakeit.Quote(),
		IsPublic: f.rng.Intn(10) > 1,
	}
	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		profile.ID = f.assignID()
		return profile, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildPost constructs an unsaved post for the given profile and type.
func (f *Factory) BuildPost(profile *models.Profile, postType models.PostType, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		ProfileID:    profile.ID,
		Title:        gofakeit.Sentence(5),
		Description:  gofakeit.Paragraph(1, 3, 5, "\n"),
		PostType:     postType,
		PrivacyLevel: randomPrivacy(f.rng),
		CreatedAt:    f.pastTime(),
	}

	switch postType {
	case models.PostTypeAchievement:
		post.Title = fmt.Sprintf("Reached target: %s savings", gofakeit.AdjectiveDescriptive())
		post.SharedData = models.SharedData{
			"metric_name":  "monthly_savings",
			"target_value": decimal.NewFromInt(int64(100 + f.rng.Intn(2000))).String(),
			"target_type":  string(models.TargetCurrency),
			"timescale":    string(models.TimescaleMonthly),
		}
	case models.PostTypeMetricSnapshot:
		post.Title = "Savings rate this month"
		post.SharedData = models.SharedData{
			"metric_name": "savings_rate",
			"value":       fmt.Sprintf("0.%02d", f.rng.Intn(60)),
			"month":       post.CreatedAt.Format("2006-01"),
		}
	case models.PostTypeTransactionShare:
		post.Title = gofakeit.ProductName()
		post.SharedData = models.SharedData{
			"amount": decimal.NewFromFloat(gofakeit.Price(5, 900)).Round(2).String(),
			"type":   string(models.TransactionExpense),
			"date":   post.CreatedAt.Format("2006-01-02"),
		}
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a post built by BuildPost.
func (f *Factory) CreatePost(profile *models.Profile, postType models.PostType, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(profile, postType, overrides...)
	if f.opts.DryRun {
		post.ID = f.assignID()
		return post, nil
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.assignID()
		}
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}

// CreateComment persists a comment by the profile on the post.
func (f *Factory) CreateComment(profile *models.Profile, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		ProfileID: profile.ID,
		PostID:    post.ID,
		Content:   gofakeit.Sentence(8),
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(comment)
	}
	if f.opts.DryRun {
		comment.ID = f.assignID()
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like; duplicate likes are ignored.
func (f *Factory) CreateLike(profile *models.Profile, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Exec(
		`INSERT INTO post_likes (profile_id, post_id, created_at) VALUES (?, ?, NOW())
		 ON CONFLICT (profile_id, post_id) DO NOTHING`,
		profile.ID, post.ID,
	).Error
}

// CreateFollow records a follow edge; duplicates are ignored.
func (f *Factory) CreateFollow(follower, following *models.Profile) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Exec(
		`INSERT INTO followers (follower_id, following_id, created_at) VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		follower.ID, following.ID,
	).Error
}

// CreateAccount persists a financial account for the profile.
func (f *Factory) CreateAccount(profile *models.Profile, overrides ...func(*models.Account)) (*models.Account, error) {
	types := []models.AccountType{
		models.AccountChecking, models.AccountSavings,
		models.AccountCreditCard, models.AccountCash,
	}
	account := &models.Account{
		ProfileID:      profile.ID,
		Name:           fmt.Sprintf("%s %s", gofakeit.Company(), "account"),
		Type:           types[f.rng.Intn(len(types))],
		Currency:       "BRL",
		InitialBalance: decimal.NewFromFloat(gofakeit.Price(0, 10000)).Round(2),
		Color:          gofakeit.HexColor(),
	}
	for _, override := range overrides {
		override(account)
	}
	if f.opts.DryRun {
		account.ID = f.assignID()
		return account, nil
	}
	if err := f.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// BuildTransaction constructs an unsaved transaction against the account.
func (f *Factory) BuildTransaction(profile *models.Profile, account *models.Account, category *models.Category, overrides ...func(*models.Transaction)) *models.Transaction {
	txType := models.TransactionExpense
	if f.rng.Intn(4) == 0 {
		txType = models.TransactionIncome
	}
	if category != nil {
		txType = category.Type
	}

	tx := &models.Transaction{
		ProfileID:       profile.ID,
		AccountID:       account.ID,
		Type:            txType,
		Amount:          decimal.NewFromFloat(gofakeit.Price(2, 1500)).Round(2),
		Description:     gofakeit.ProductName(),
		TransactionDate: f.pastTime(),
	}
	if category != nil {
		tx.CategoryID = &category.ID
	}
	for _, override := range overrides {
		override(tx)
	}
	return tx
}

// CreateTransactionsBatch persists many transactions at once.
func (f *Factory) CreateTransactionsBatch(txs []*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, tx := range txs {
			tx.ID = f.assignID()
		}
		return nil
	}
	return f.db.CreateInBatches(txs, 200).Error
}

// CreateTarget persists a financial target for the profile.
func (f *Factory) CreateTarget(profile *models.Profile, overrides ...func(*models.FinancialTarget)) (*models.FinancialTarget, error) {
	target := &models.FinancialTarget{
		ProfileID:   profile.ID,
		MetricName:  "monthly_savings",
		TargetValue: decimal.NewFromInt(int64(100 + f.rng.Intn(3000))),
		TargetType:  models.TargetCurrency,
		Timescale:   models.TimescaleMonthly,
	}
	for _, override := range overrides {
		override(target)
	}
	if f.opts.DryRun {
		target.ID = f.assignID()
		return target, nil
	}
	if err := f.db.Create(target).Error; err != nil {
		return nil, err
	}
	return target, nil
}

func randomPrivacy(rng *rand.Rand) models.PrivacyLevel {
	switch rng.Intn(10) {
	case 0:
		return models.PrivacyPrivate
	case 1, 2, 3:
		return models.PrivacyFollowersOnly
	default:
		return models.PrivacyPublic
	}
}
