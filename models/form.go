package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Form is a titled collection of questions owned by one user. The owner is
// carried on the wire as "userId".
type Form struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	OwnerID     string    `gorm:"column:owner_id;size:36;index" json:"userId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Questions []Question `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Responses []Response `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Form) TableName() string {
	return "forms"
}

func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID owns the form. An empty id never owns anything.
func (f Form) OwnedBy(userID string) bool {
	return userID != "" && f.OwnerID == userID
}
