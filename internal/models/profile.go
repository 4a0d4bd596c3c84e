package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Templates a public profile can render with.
var ValidTemplates = []string{"default", "minimal", "professional"}

func IsValidTemplate(name string) bool {
	for _, t := range ValidTemplates {
		if t == name {
			return true
		}
	}
	return false
}

// Profile is the per-user portfolio document. The nested personal details
// and the embedded project list are stored as JSON columns so the whole
// portfolio stays a single row, owned 1:1 by a User.
type Profile struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"_id"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	Username  string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Template  string         `gorm:"size:30;not null;default:'default'" json:"template"`
	Details   ProfileDetails `gorm:"serializer:json" json:"profile"`
	Projects  ProjectList    `gorm:"serializer:json" json:"projects"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Template == "" {
		p.Template = "default"
	}
	if p.Projects == nil {
		p.Projects = ProjectList{}
	}
	return nil
}

// ProfileDetails holds the free-form portfolio content shown on the public
// page. It is replaced wholesale on update.
type ProfileDetails struct {
	Name           string          `json:"name"`
	PassionateText string          `json:"passionateText"`
	Bio            string          `json:"bio"`
	Avatar         string          `json:"avatar"`
	SocialLinks    SocialLinks     `json:"socialLinks"`
	Skills         []SkillGroup    `json:"skills"`
	Education      []Education     `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
}

type SocialLinks struct {
	Github          string `json:"github"`
	Linkedin        string `json:"linkedin"`
	Twitter         string `json:"twitter"`
	PersonalWebsite string `json:"personalWebsite"`
}

type SkillGroup struct {
	TechName   string   `json:"techName"`
	SkillsUsed []string `json:"skillsUsed"`
}

type Education struct {
	CollegeName   string `json:"collegeName"`
	Branch        string `json:"branch"`
	Course        string `json:"course"`
	YearOfPassout int    `json:"yearOfPassout"`
}

type WorkExperience struct {
	CompanyName      string `json:"companyName"`
	Position         string `json:"position"`
	Duration         string `json:"duration"`
	Description      string `json:"description"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
}

// Project is one entry in a profile's embedded project list. It has no
// identity outside its owning Profile row.
type Project struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	Images      []string  `json:"images"`
	LiveURL     string    `json:"liveUrl"`
	GithubURL   string    `json:"githubUrl"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProjectList []Project

// IndexOf returns the position of the project with the given id, or -1.
func (l ProjectList) IndexOf(id uuid.UUID) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
