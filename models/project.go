package models

import (
	"strings"
	"time"
)

// Project represents the projects table (showcase entries on the public site)
type Project struct {
	ProjectID    int       `gorm:"primaryKey;column:project_id" json:"project_id" form:"project_id"`
	Title        string    `gorm:"column:title;size:200" json:"title" form:"title" binding:"required,max=200"`
	Description  string    `gorm:"column:description;type:text" json:"description" form:"description" binding:"required"`
	PostDateTime time.Time `gorm:"column:post_date_time" json:"post_date_time"`

	Pictures []Picture `gorm:"foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE" json:"pictures,omitempty" form:"-"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Picture represents the project_pictures table
type Picture struct {
	PictureID   int    `gorm:"primaryKey;column:picture_id" json:"picture_id"`
	ProjectID   int    `gorm:"column:project_id;index" json:"project_id"`
	ImageName   string `gorm:"column:image_name" json:"image_name"`
	ContentType string `gorm:"column:content_type" json:"content_type"`
	Extension   string `gorm:"column:extension" json:"extension"`
	ImageData   []byte `gorm:"column:image_data;type:longblob" json:"-"`
}

// TableName overrides the table name for Picture
func (Picture) TableName() string {
	return "project_pictures"
}

// Cover returns the first picture of the gallery, used as thumbnail.
func (p *Project) Cover() *Picture {
	if p == nil || len(p.Pictures) == 0 {
		return nil
	}
	return &p.Pictures[0]
}

// Summary shortens the description for list views.
func (p *Project) Summary(limit int) string {
	desc := strings.TrimSpace(p.Description)
	runes := []rune(desc)
	if limit <= 0 || len(runes) <= limit {
		return desc
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
