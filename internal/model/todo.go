package model

import (
	"strings"
	"time"
)

// Todo represents a single item in the list.
type Todo struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

// RemoteTodoResponse is the payload served by the seed endpoint.
type RemoteTodoResponse struct {
	Todos []RemoteTodo `json:"todos"`
}

// RemoteTodo is one element of the seed payload.
type RemoteTodo struct {
	ID        int64  `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// ToTodo maps a remote item to a local record created at now.
func (r RemoteTodo) ToTodo(now time.Time) Todo {
	return Todo{
		ID:        r.ID,
		Title:     r.Todo,
		Completed: r.Completed,
		CreatedAt: now.UTC(),
	}
}

// NormalizeDescription turns an empty description into nil.
func NormalizeDescription(description *string) *string {
	if description == nil || *description == "" {
		return nil
	}
	value := *description
	return &value
}

// DescriptionText returns the description or an empty string.
func (t Todo) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// StringPtr is a helper for optional descriptions.
func StringPtr(s string) *string {
	return &s
}

// ShareText renders the todo as plain text for sharing.
func (t Todo) ShareText(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	status := "🟢 В процессе"
	if t.Completed {
		status = "✅ Выполнено"
	}
	title := t.Title
	if strings.TrimSpace(title) == "" {
		title = "Без названия"
	}

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteByte('\n')
	sb.WriteString(title)
	if desc := t.DescriptionText(); desc != "" {
		sb.WriteByte('\n')
		sb.WriteString(desc)
	}
	if !t.CreatedAt.IsZero() {
		sb.WriteByte('\n')
		sb.WriteString(t.CreatedAt.In(loc).Format("02/01/06"))
	}
	return sb.String()
}
