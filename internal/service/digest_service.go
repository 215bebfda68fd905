package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"todolist/internal/model"
	"todolist/internal/repository"
)

const digestLimit = 20

// DigestService builds human-readable summaries for periodic notifications.
type DigestService struct {
	store repository.TodoStore
}

func NewDigestService(store repository.TodoStore) *DigestService {
	return &DigestService{store: store}
}

// Summary renders pending todos newest first and the number of completed ones.
func (s *DigestService) Summary(ctx context.Context, now time.Time) (string, error) {
	todos, err := s.store.Load(ctx, "")
	if err != nil {
		return "", err
	}
	return renderDigest(todos, now), nil
}

func renderDigest(todos []model.Todo, now time.Time) string {
	var pending []model.Todo
	completed := 0
	for _, todo := range todos {
		if todo.Completed {
			completed++
			continue
		}
		pending = append(pending, todo)
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Сводка задач</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString(fmt.Sprintf("🔥 <b>В процессе</b> (%d)\n", len(pending)))
	if len(pending) == 0 {
		builder.WriteString("— нет открытых задач\n")
	}
	for i, todo := range pending {
		if i == digestLimit {
			builder.WriteString(fmt.Sprintf("… и ещё %d\n", len(pending)-digestLimit))
			break
		}
		builder.WriteString(formatDigestItem(todo, now))
	}

	builder.WriteString(fmt.Sprintf("\n✅ Выполнено: %d", completed))
	return strings.TrimSpace(builder.String())
}

func formatDigestItem(todo model.Todo, now time.Time) string {
	var sb strings.Builder

	title := strings.TrimSpace(todo.Title)
	if title == "" {
		title = "Без названия"
	}
	sb.WriteString(fmt.Sprintf("🟢 %s", html.EscapeString(title)))

	age := now.Sub(todo.CreatedAt)
	if age >= 7*24*time.Hour {
		sb.WriteString(fmt.Sprintf(" <i>(%d дн.)</i>", int(age.Hours()/24)))
	}

	if desc := strings.TrimSpace(todo.DescriptionText()); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
	}

	sb.WriteByte('\n')
	return sb.String()
}
