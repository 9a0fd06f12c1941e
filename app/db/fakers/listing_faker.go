package fakers

import (
	"fmt"
	"math/rand"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var cities = []string{"Москва", "Санкт-Петербург", "Казань", "Новосибирск", "Екатеринбург"}

var streets = []string{"ул. Ленина", "пр. Мира", "ул. Гагарина", "ул. Садовая", "Невский пр."}

func fakeAddress() string {
	city := cities[rand.Intn(len(cities))]
	if rand.Intn(2) == 0 {
		city = "г. " + city
	}
	return fmt.Sprintf("%s, %s, %d", city, streets[rand.Intn(len(streets))], rand.Intn(150)+1)
}

func fakePrice() decimal.Decimal {
	return decimal.New(int64(rand.Intn(20_000_000)+100), -2)
}

// ListingFaker builds a listing owned by userID in the given category, with
// one to three externally hosted placeholder images.
func ListingFaker(userID uint, category *models.Category) *models.Listing {
	description := faker.Paragraph()
	address := fakeAddress()

	attributes := datatypes.JSONMap{}
	for _, f := range category.Filters {
		switch f.AttributeType {
		case models.FilterSelect:
			if len(f.Options) > 0 {
				attributes[f.Name] = f.Options[rand.Intn(len(f.Options))]
			}
		case models.FilterRange, models.FilterNumber:
			lo, hi := 0.0, 1000.0
			if f.MinValue != nil {
				lo = *f.MinValue
			}
			if f.MaxValue != nil {
				hi = *f.MaxValue
			}
			attributes[f.Name] = lo + rand.Float64()*(hi-lo)
		case models.FilterCheckbox:
			attributes[f.Name] = rand.Intn(2) == 0
		}
	}

	images := make([]models.Image, rand.Intn(3)+1)
	for i := range images {
		images[i] = models.Image{
			URL:        fmt.Sprintf("https://picsum.photos/seed/%s/800/600", uuid.NewString()),
			IsExternal: true,
		}
	}

	return &models.Listing{
		UserID:      userID,
		CategoryID:  category.ID,
		Title:       faker.Sentence(),
		Description: &description,
		Price:       fakePrice(),
		Address:     &address,
		Attributes:  attributes,
		Images:      images,
	}
}
