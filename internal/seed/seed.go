// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"questlog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:    gofakeit.Email(),
		Nickname: gofakeit.Username(),
		Role:     models.RoleStudent,
		Status:   models.StatusActive,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a quest report for the user, with a
// realistic created_at spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:          user.ID,
		QuestID:         fmt.Sprintf("quest-%d", f.rng.Intn(40)+1),
		Title:           gofakeit.Sentence(5),
		Body:            gofakeit.Paragraph(1, 3, 5, "\n"),
		EffortScore:     f.rng.Intn(models.MaxScore) + 1,
		ExcitementScore: f.rng.Intn(models.MaxScore) + 1,
		IsPublic:        true,
		AllowPromotion:  f.rng.Intn(2) == 0,
	}
	if f.rng.Intn(3) == 0 {
		post.ImageURLList = []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
	}
	daysBack := f.rng.Intn(90)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(f.rng.Intn(24))*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateStamp stamps the post on behalf of the user. Ignores duplicate
// pairs so random stamping cannot collide.
func (f *Factory) CreateStamp(post *models.Post, user *models.User) error {
	types := []string{models.StampClap, models.StampHeart, models.StampEye}
	stamp := &models.Stamp{
		PostID:    post.ID,
		UserID:    user.ID,
		StampType: types[f.rng.Intn(len(types))],
	}
	err := f.db.Create(stamp).Error
	if err != nil {
		log.Printf("skipping duplicate stamp for post=%s user=%s: %v", post.ID, user.ID, err)
	}
	return nil
}

// Seeder populates the database with a cross-linked set of users, posts,
// stamps and follows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Stamp{}, &models.Follow{}, &models.PostLimit{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	log.Println("Database cleared")
	return nil
}

// Seed creates numUsers users with posts, then sprinkles stamps and
// follows between them.
func (s *Seeder) Seed(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, u)
	}
	// One moderator so the moderation flow is exercisable out of the box.
	if len(users) > 0 {
		if err := s.db.Model(users[0]).Update("role", models.RoleModerator).Error; err != nil {
			return err
		}
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		p, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, p)
	}

	for _, p := range posts {
		stampers := s.factory.rng.Intn(len(users)/2 + 1)
		for i := 0; i < stampers; i++ {
			_ = s.factory.CreateStamp(p, users[s.factory.rng.Intn(len(users))])
		}
	}

	for _, u := range users {
		follows := s.factory.rng.Intn(5)
		for i := 0; i < follows; i++ {
			target := users[s.factory.rng.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			if err := s.db.Create(&models.Follow{FollowerID: u.ID, FolloweeID: target.ID}).Error; err != nil {
				log.Printf("skipping duplicate follow %s -> %s", u.ID, target.ID)
			}
		}
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}
