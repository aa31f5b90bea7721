package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardType identifies the card network.
type CardType string

const (
	CardTypeVisa       CardType = "visa"
	CardTypeMastercard CardType = "mastercard"
	CardTypeAmex       CardType = "amex"
	CardTypeDiscover   CardType = "discover"
	CardTypeOther      CardType = "other"
)

// Valid reports whether t is a known card network.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeVisa, CardTypeMastercard, CardTypeAmex, CardTypeDiscover, CardTypeOther:
		return true
	}
	return false
}

// Card represents a payment card stored in a user's wallet.
//
// Cashback and Perks are partial maps: a category missing from the map has no
// explicit rate or perk list, which is not the same as a rate of zero. The
// suggestion engine relies on that distinction for its fallback lookup.
type Card struct {
	ID             uuid.UUID             `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID      uuid.UUID             `json:"account_id" gorm:"type:char(36);not null;index"`
	Name           string                `json:"name" gorm:"size:255;not null"`
	CardholderName string                `json:"cardholder_name" gorm:"size:255;not null"`
	Number         string                `json:"number" gorm:"size:23;not null"`
	Expiry         string                `json:"expiry" gorm:"size:5;not null"` // MM/YY format
	CVV            string                `json:"cvv" gorm:"size:4;not null"`
	Type           CardType              `json:"type" gorm:"type:varchar(20);not null;default:'other'"`
	Categories     []Category            `json:"categories" gorm:"serializer:json"`
	Cashback       map[Category]float64  `json:"cashback" gorm:"serializer:json"`
	Perks          map[Category][]string `json:"perks" gorm:"serializer:json"`
	LastUsed       *time.Time            `json:"last_used,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	DeletedAt      gorm.DeletedAt        `json:"-" gorm:"index"`

	// Relations
	Account Account `json:"-" gorm:"foreignKey:AccountID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasCategory reports whether the cardholder declared cat as one of the
// card's preferred categories.
func (c *Card) HasCategory(cat Category) bool {
	for _, declared := range c.Categories {
		if declared == cat {
			return true
		}
	}
	return false
}
