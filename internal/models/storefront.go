package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storefront is one configured store view: the (base URL, locale, country,
// currency) combination a catalog feed is registered for.
type Storefront struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	StoreCode string    `json:"store_code" gorm:"unique;not null"`
	BaseURL   string    `json:"base_url" gorm:"not null"`
	Locale    string    `json:"locale" gorm:"not null"`
	Country   string    `json:"country" gorm:"not null"`
	Currency  string    `json:"currency" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Language returns the language half of the locale ("en" for "en_US").
// Falls back to the full locale when it has no country suffix.
func (s *Storefront) Language() string {
	for i := 0; i < len(s.Locale); i++ {
		if s.Locale[i] == '_' || s.Locale[i] == '-' {
			return s.Locale[:i]
		}
	}
	return s.Locale
}

func (s *Storefront) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
