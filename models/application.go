package models

import "time"

// Application is a job application sent from the careers page
type Application struct {
	ApplicationID    int       `gorm:"primaryKey;column:application_id" json:"application_id"`
	JobID            *int      `gorm:"column:job_id" json:"job_id,omitempty" form:"job_id"`
	FirstName        string    `gorm:"column:first_name;size:100" json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName         string    `gorm:"column:last_name;size:100" json:"last_name" form:"last_name" binding:"required,max=100"`
	Email            string    `gorm:"column:email;size:200" json:"email" form:"email" binding:"required,email"`
	Phone            string    `gorm:"column:phone;size:30" json:"phone" form:"phone" binding:"required,max=30"`
	Age              int       `gorm:"column:age" json:"age" form:"age" binding:"required,gte=16,lte=100"`
	CoverLetter      string    `gorm:"column:cover_letter;type:text" json:"cover_letter" form:"cover_letter" binding:"max=4000"`
	PostDateTime     time.Time `gorm:"column:post_date_time" json:"post_date_time"`
	ClassificationID int       `gorm:"column:classification_id" json:"classification_id"`

	Classification *Classification `gorm:"foreignKey:ClassificationID;references:ClassificationID" json:"classification,omitempty" form:"-"`
	Job            *Job            `gorm:"foreignKey:JobID;references:JobID" json:"job,omitempty" form:"-"`
	CV             *CV             `gorm:"foreignKey:ApplicationID;references:ApplicationID;constraint:OnDelete:CASCADE" json:"cv,omitempty" form:"-"`
}

func (Application) TableName() string { return "applications" }

// IsUnread reports whether the loaded classification marks the application as unread.
func (a *Application) IsUnread() bool {
	if a.Classification != nil {
		return a.Classification.ClassificationID == ClassificationUnread
	}
	return a.ClassificationID == ClassificationUnread
}

// FullName joins first and last name.
func (a *Application) FullName() string {
	return joinName(a.FirstName, a.LastName)
}

// CV is the PDF resume attached to an application
type CV struct {
	CVID          int    `gorm:"primaryKey;column:cv_id" json:"cv_id"`
	ApplicationID int    `gorm:"column:application_id;uniqueIndex" json:"application_id"`
	FileName      string `gorm:"column:file_name" json:"file_name"`
	ContentType   string `gorm:"column:content_type" json:"content_type"`
	Data          []byte `gorm:"column:data;type:longblob" json:"-"`
}

func (CV) TableName() string { return "application_cvs" }

// Job is an open position listed on the careers page
type Job struct {
	JobID       int       `gorm:"primaryKey;column:job_id" json:"job_id" form:"job_id"`
	JobName     string    `gorm:"column:job_name;size:150" json:"job_name" form:"job_name" binding:"required,max=150"`
	Description string    `gorm:"column:description;type:text" json:"description" form:"description" binding:"max=4000"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }

// Policy is an editable legal page (privacy, cookies, terms)
type Policy struct {
	PolicyID  int       `gorm:"primaryKey;column:policy_id" json:"policy_id" form:"policy_id" binding:"required,gt=0"`
	Name      string    `gorm:"column:name;size:150" json:"name" form:"name" binding:"required,max=150"`
	Content   string    `gorm:"column:content;type:longtext" json:"content" form:"content" binding:"required"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Policy) TableName() string { return "policies" }
