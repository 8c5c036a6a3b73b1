package models

import "time"

// Classification ids seeded at startup.
const (
	ClassificationRead   = 1
	ClassificationUnread = 2
)

// Classification represents the classifications table (Read / Unread)
type Classification struct {
	ClassificationID int    `gorm:"primaryKey;column:classification_id" json:"classification_id"`
	Name             string `gorm:"column:name;size:50" json:"name"`
}

func (Classification) TableName() string { return "classifications" }

// Message is a contact form submission
type Message struct {
	MessageID        int       `gorm:"primaryKey;column:message_id" json:"message_id"`
	FirstName        string    `gorm:"column:first_name;size:100" json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName         string    `gorm:"column:last_name;size:100" json:"last_name" form:"last_name" binding:"required,max=100"`
	Email            string    `gorm:"column:email;size:200" json:"email" form:"email" binding:"required,email"`
	Phone            string    `gorm:"column:phone;size:30" json:"phone" form:"phone" binding:"max=30"`
	ClientMessage    string    `gorm:"column:client_message;type:text" json:"client_message" form:"client_message" binding:"required,max=4000"`
	PostDateTime     time.Time `gorm:"column:post_date_time" json:"post_date_time"`
	ClassificationID int       `gorm:"column:classification_id" json:"classification_id"`

	Classification *Classification `gorm:"foreignKey:ClassificationID;references:ClassificationID" json:"classification,omitempty" form:"-"`
}

func (Message) TableName() string { return "messages" }

// IsUnread reports whether the loaded classification marks the message as unread.
func (m *Message) IsUnread() bool {
	if m.Classification != nil {
		return m.Classification.ClassificationID == ClassificationUnread
	}
	return m.ClassificationID == ClassificationUnread
}

// FullName joins first and last name.
func (m *Message) FullName() string {
	return joinName(m.FirstName, m.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
