package model

import (
	"time"
)

type User struct {
	ID            uint64    `gorm:"primaryKey"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_email" json:"email"`
	Password      *string   `gorm:"type:varchar(255)" json:"-"`
	Name          string    `gorm:"type:varchar(100)" json:"name"`
	OAuthProvider *string   `gorm:"type:varchar(50);column:oauth_provider" json:"oauthProvider,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
