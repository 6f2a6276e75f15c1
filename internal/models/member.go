package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Member carries the identity fields shown in the directory table.
// Everything else lives in the 1:1 MemberProfile.
type Member struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username  string         `gorm:"size:20;not null;uniqueIndex" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *MemberProfile `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MemberProfile holds the extended fields, one row per member.
type MemberProfile struct {
	MemberID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"member_id"`
	Mobile        string         `gorm:"size:10" json:"mobile"`
	CardLast4     string         `gorm:"size:4" json:"card_last4"`
	State         string         `gorm:"size:100" json:"state"`
	City          string         `gorm:"size:100" json:"city"`
	Gender        string         `gorm:"size:20" json:"gender"`
	Hobbies       datatypes.JSON `json:"hobbies"`
	TechInterests datatypes.JSON `json:"tech_interests"`
	Address       string         `gorm:"type:text" json:"address"`
	DOB           string         `gorm:"size:10" json:"dob"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *MemberProfile) SetHobbies(items []string) {
	p.Hobbies = marshalList(items)
}

func (p *MemberProfile) SetTechInterests(items []string) {
	p.TechInterests = marshalList(items)
}

func (p *MemberProfile) HobbiesList() []string {
	return unmarshalList(p.Hobbies)
}

func (p *MemberProfile) TechInterestsList() []string {
	return unmarshalList(p.TechInterests)
}

func marshalList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

func unmarshalList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}
