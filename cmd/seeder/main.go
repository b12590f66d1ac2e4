package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"osiedle/internal/db"
	"osiedle/internal/models"
	"osiedle/internal/utils"
)

// Seeds the database with fake community content for local development.
func main() {
	n := flag.Int("n", 30, "rows to create per content type")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, reading env vars from system")
	}
	db.Init(log)

	gofakeit.Seed(time.Now().UnixNano())

	users := seedUsers(*n / 3)
	log.Info("seeded users", zap.Int("count", len(users)))

	seedAnnouncements(*n, users)
	seedEvents(*n, users)
	seedGalleries(*n/3, users)
	seedPolls(*n/3, users)

	log.Info("seeding done")
}

func seedUsers(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
			Role:     models.RoleUser,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			continue
		}
		users = append(users, user)
	}
	return users
}

func randomCreator(users []models.User) *uint {
	// A fifth of submissions come in anonymously.
	if len(users) == 0 || rand.Intn(5) == 0 {
		return nil
	}
	return &users[rand.Intn(len(users))].ID
}

func seedAnnouncements(n int, users []models.User) {
	places := []string{"Mokotow", "Ursynow", "Wola", "Praga", "Bemowo"}
	for i := 0; i < n; i++ {
		creator := randomCreator(users)
		a := models.Announcement{
			Title:       gofakeit.Sentence(4),
			Place:       places[rand.Intn(len(places))],
			Rooms:       uint(rand.Intn(5) + 1),
			Price:       gofakeit.Price(800, 6000),
			Description: gofakeit.Paragraph(2, 4, 10, " "),
			CreatorID:   creator,
			IsVerified:  rand.Intn(4) != 0,
			IsPinned:    rand.Intn(10) == 0,
		}
		if rand.Intn(5) == 0 {
			a.SetArchived(true)
		}
		db.DB.Create(&a)
	}
}

func seedEvents(n int, users []models.User) {
	locations := []string{"Community Hall", "Playground", "Parking Lot", "Garden"}
	for i := 0; i < n; i++ {
		e := models.Event{
			Name:        gofakeit.Sentence(3),
			EventDate:   gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now().AddDate(0, 2, 0)),
			Location:    locations[rand.Intn(len(locations))],
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			CreatorID:   randomCreator(users),
			IsVerified:  rand.Intn(4) != 0,
			IsPinned:    rand.Intn(10) == 0,
		}
		e.IsArchived = e.EventDate.Before(time.Now())
		db.DB.Create(&e)
	}
}

func seedGalleries(n int, users []models.User) {
	if len(users) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		title := gofakeit.Sentence(3)
		g := models.Gallery{
			Title:       title,
			Description: gofakeit.Sentence(10),
			Slug:        utils.Slugify(fmt.Sprintf("%s-%d", title, i)),
			CreatorID:   users[rand.Intn(len(users))].ID,
		}
		if err := db.DB.Create(&g).Error; err != nil {
			continue
		}
		for p := 0; p < rand.Intn(8)+2; p++ {
			db.DB.Create(&models.Photo{
				GalleryID:   g.ID,
				Title:       gofakeit.Sentence(2),
				Image:       gofakeit.ImageURL(640, 480),
				Description: gofakeit.Sentence(6),
			})
		}
	}
}

func seedPolls(n int, users []models.User) {
	if len(users) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		poll := models.Poll{
			Question:  gofakeit.Question(),
			EndDate:   gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now().AddDate(0, 1, 0)),
			CreatorID: users[rand.Intn(len(users))].ID,
		}
		for c := 0; c < rand.Intn(3)+2; c++ {
			poll.Choices = append(poll.Choices, models.Choice{Text: gofakeit.Word()})
		}
		if err := db.DB.Create(&poll).Error; err != nil {
			continue
		}
		for _, u := range users {
			if rand.Intn(3) == 0 {
				choice := poll.Choices[rand.Intn(len(poll.Choices))]
				db.DB.Create(&models.PollVote{PollID: poll.ID, ChoiceID: choice.ID, UserID: u.ID})
			}
		}
	}
}
