package fakers

import (
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const DemoPassword = "sellup-demo"

// UserFaker builds a verified, active user that can log in with DemoPassword.
func UserFaker() (*models.User, error) {
	hash, err := helpers.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	username := slug.Make(faker.Name()) + "-" + uuid.NewString()[:6]
	phone := faker.Phonenumber()
	return &models.User{
		Email:           username + "@example.com",
		Username:        username,
		Password:        hash,
		RoleID:          models.RoleUserID,
		PhoneNumber:     &phone,
		IsActive:        true,
		IsEmailVerified: true,
	}, nil
}
