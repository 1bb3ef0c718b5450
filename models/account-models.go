package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FreeUploadLimitMB = 10
	ProUploadLimitMB  = 100
)

type Account struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username           string    `json:"username" gorm:"not null;uniqueIndex"`
	Email              string    `json:"email" gorm:"not null;uniqueIndex"`
	Password           string    `json:"-" gorm:"not null"`
	IsPro              bool      `json:"isPro" gorm:"not null;default:false"`
	SubscriptionID     *string   `json:"subscriptionId"`
	SubscriptionStatus *string   `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt" gorm:"not null"`

	ProcessingLogs []ProcessingLog `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UploadLimitMB is the largest upload, in MB, the account's plan accepts.
func (a *Account) UploadLimitMB() int {
	if a.IsPro {
		return ProUploadLimitMB
	}
	return FreeUploadLimitMB
}

func (a *Account) PlanName() string {
	if a.IsPro {
		return "Pro"
	}
	return "Free"
}

// AccountSummary is the public view of an account returned by the API.
type AccountSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsPro    bool   `json:"isPro"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		IsPro:    a.IsPro,
	}
}
