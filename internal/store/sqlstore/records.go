package sqlstore

import (
	"time"

	"github.com/Gopher0727/StudyGroup/internal/domain"
)

type userRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"index;not null;type:varchar(128)"`
	Email     string    `gorm:"not null;type:varchar(255)"`
	CreatedAt time.Time `gorm:"not null"`
}

func (userRecord) TableName() string {
	return "users"
}

// credentialRecord maps a user name to its password hash. The latest saved
// user with a name owns the entry.
type credentialRecord struct {
	Name         string `gorm:"primaryKey;type:varchar(128)"`
	PasswordHash string `gorm:"not null;type:varchar(72)"`
	Email        string `gorm:"type:varchar(255)"`
}

func (credentialRecord) TableName() string {
	return "credentials"
}

type groupRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"uniqueIndex;not null;type:varchar(128)"`
	Course    string    `gorm:"not null;type:varchar(32)"`
	Location  string    `gorm:"not null;type:varchar(64)"`
	Date      time.Time `gorm:"not null"`
	MaxSize   int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (groupRecord) TableName() string {
	return "study_groups"
}

// memberRecord.Seq orders members by join time.
type memberRecord struct {
	Seq      uint64    `gorm:"primaryKey;autoIncrement"`
	GroupID  string    `gorm:"uniqueIndex:idx_group_user;not null;type:varchar(64)"`
	UserID   string    `gorm:"uniqueIndex:idx_group_user;index;not null;type:varchar(64)"`
	JoinedAt time.Time `gorm:"not null"`
}

func (memberRecord) TableName() string {
	return "group_members"
}

type messageRecord struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	SenderID      string    `gorm:"not null;type:varchar(64)"`
	SenderName    string    `gorm:"not null;type:varchar(128)"`
	RecipientID   string    `gorm:"type:varchar(64)"`
	RecipientName string    `gorm:"index;type:varchar(128)"`
	GroupID       string    `gorm:"index;type:varchar(64)"`
	GroupName     string    `gorm:"type:varchar(128)"`
	Content       string    `gorm:"type:text;not null"`
	SentAt        time.Time `gorm:"not null"`
}

func (messageRecord) TableName() string {
	return "messages"
}

func newUserRecord(u *domain.User) *userRecord {
	return &userRecord{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt}
}

func newGroupRecord(g *domain.StudyGroup) *groupRecord {
	return &groupRecord{
		ID:        g.ID,
		Name:      g.Name,
		Course:    g.Course,
		Location:  g.Location,
		Date:      g.Date,
		MaxSize:   g.MaxSize,
		CreatedAt: g.CreatedAt,
	}
}

func (r *groupRecord) toDomain() *domain.StudyGroup {
	return &domain.StudyGroup{
		ID:        r.ID,
		Name:      r.Name,
		Course:    r.Course,
		Location:  r.Location,
		Date:      r.Date,
		MaxSize:   r.MaxSize,
		CreatedAt: r.CreatedAt,
	}
}

func newMessageRecord(m *domain.Message) *messageRecord {
	return &messageRecord{
		ID:            m.ID,
		SenderID:      m.SenderID,
		SenderName:    m.SenderName,
		RecipientID:   m.RecipientID,
		RecipientName: m.RecipientName,
		GroupID:       m.GroupID,
		GroupName:     m.GroupName,
		Content:       m.Content,
		SentAt:        m.SentAt,
	}
}

func (r *messageRecord) toDomain() *domain.Message {
	return &domain.Message{
		ID:            r.ID,
		SenderID:      r.SenderID,
		SenderName:    r.SenderName,
		RecipientID:   r.RecipientID,
		RecipientName: r.RecipientName,
		GroupID:       r.GroupID,
		GroupName:     r.GroupName,
		Content:       r.Content,
		SentAt:        r.SentAt,
	}
}
