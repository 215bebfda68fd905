package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todolist/internal/logging"
	"todolist/internal/model"
	"todolist/internal/repository"
	"todolist/internal/service"
)

const ownerChat int64 = 42

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests int
	updates  chan tgbotapi.Update
	stopOnce sync.Once
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 16)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.stopOnce.Do(func() { close(f.updates) })
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeAPI) texts() string {
	var sb strings.Builder
	for _, msg := range f.messages() {
		sb.WriteString(msg.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

type fixture struct {
	bot        *Bot
	api        *fakeAPI
	controller *service.Controller
}

func newFixture(t *testing.T, ownerID int64) fixture {
	t.Helper()
	store := repository.NewMemoryTodoRepository()
	controller := service.NewController(context.Background(), store, nil, logging.Discard())
	api := newFakeAPI()
	b := newBot(api, controller, service.NewDigestService(store), ownerID, logging.Discard())
	b.loc = time.UTC
	return fixture{bot: b, api: api, controller: controller}
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID, Type: "private"},
		From: &tgbotapi.User{ID: chatID, FirstName: "Аня"},
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.IndexByte(text, ' '); i > 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return msg
}

func (f fixture) say(t *testing.T, chatID int64, text string) {
	t.Helper()
	if err := f.bot.handleMessage(context.Background(), textMessage(chatID, text)); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
}

func TestNewTaskConversation(t *testing.T) {
	f := newFixture(t, ownerChat)

	f.say(t, ownerChat, "/newtask")
	f.say(t, ownerChat, "Купить молоко")
	f.say(t, ownerChat, "2 литра")

	todos := f.controller.Todos()
	if len(todos) != 1 {
		t.Fatalf("todos: got %d, want 1", len(todos))
	}
	if todos[0].Title != "Купить молоко" || todos[0].DescriptionText() != "2 литра" {
		t.Errorf("created: %+v", todos[0])
	}
	if !strings.Contains(f.api.texts(), "Задача сохранена") {
		t.Errorf("missing confirmation:\n%s", f.api.texts())
	}
	if f.bot.getConversation(ownerChat) != nil {
		t.Error("conversation should be finished")
	}
}

func TestNewTaskWithInlineTitleAndSkip(t *testing.T) {
	f := newFixture(t, ownerChat)

	f.say(t, ownerChat, "/newtask Позвонить маме")
	f.say(t, ownerChat, btnSkip)

	todos := f.controller.Todos()
	if len(todos) != 1 || todos[0].Title != "Позвонить маме" || todos[0].Description != nil {
		t.Fatalf("created: %+v", todos)
	}
}

func TestCancelDialog(t *testing.T) {
	f := newFixture(t, ownerChat)

	f.say(t, ownerChat, "/newtask")
	f.say(t, ownerChat, btnCancelDialog)
	f.say(t, ownerChat, "Не задача")

	if len(f.controller.Todos()) != 0 {
		t.Error("cancelled dialog must not create a todo")
	}
	if f.bot.getConversation(ownerChat) != nil {
		t.Error("conversation should be cleared")
	}
}

func TestForeignChatIsRejected(t *testing.T) {
	f := newFixture(t, ownerChat)

	f.say(t, 7, "/newtask Чужая")
	f.say(t, 7, "-")

	if len(f.controller.Todos()) != 0 {
		t.Error("foreign chat created a todo")
	}
	msgs := f.api.messages()
	if len(msgs) == 0 || msgs[len(msgs)-1].ChatID != 7 || !strings.Contains(msgs[len(msgs)-1].Text, "только владельцу") {
		t.Errorf("expected rejection reply, got %+v", msgs)
	}
}

func TestToggleCommand(t *testing.T) {
	f := newFixture(t, ownerChat)
	todo, _ := f.controller.AddTodo(context.Background(), "Вынести мусор", nil)

	f.say(t, ownerChat, "/toggle "+itoa(todo.ID))
	got, _ := f.controller.Get(context.Background(), todo.ID)
	if !got.Completed {
		t.Fatal("todo should be completed")
	}
	if !strings.Contains(f.api.texts(), "выполнена") {
		t.Errorf("reply: %s", f.api.texts())
	}

	f.say(t, ownerChat, "/toggle "+itoa(todo.ID))
	got, _ = f.controller.Get(context.Background(), todo.ID)
	if got.Completed {
		t.Fatal("second toggle should restore pending state")
	}

	f.api.reset()
	f.say(t, ownerChat, "/toggle abc")
	if !strings.Contains(f.api.texts(), "должен быть числом") {
		t.Errorf("bad id reply: %s", f.api.texts())
	}
	f.say(t, ownerChat, "/toggle 999")
	if !strings.Contains(f.api.texts(), "не найдена") {
		t.Errorf("missing id reply: %s", f.api.texts())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx := context.Background()
	todo, _ := f.controller.AddTodo(ctx, "Старое", nil)

	f.say(t, ownerChat, "/delete "+itoa(todo.ID))
	if _, ok := f.controller.Get(ctx, todo.ID); !ok {
		t.Fatal("todo deleted before confirmation")
	}
	f.say(t, ownerChat, btnCancel)
	if _, ok := f.controller.Get(ctx, todo.ID); !ok {
		t.Fatal("todo deleted after cancel")
	}

	f.say(t, ownerChat, "/delete "+itoa(todo.ID))
	f.say(t, ownerChat, btnConfirm)
	if _, ok := f.controller.Get(ctx, todo.ID); ok {
		t.Fatal("todo still present after confirmation")
	}
	if len(f.controller.Todos()) != 0 {
		t.Error("list should be empty")
	}
}

func TestEditConversation(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx := context.Background()
	todo, _ := f.controller.AddTodo(ctx, "Черновик", model.StringPtr("старое"))

	f.say(t, ownerChat, "/edit "+itoa(todo.ID))
	f.say(t, ownerChat, btnSkip)
	f.say(t, ownerChat, "новое описание")

	got, _ := f.controller.Get(ctx, todo.ID)
	if got.Title != "Черновик" || got.DescriptionText() != "новое описание" {
		t.Errorf("after edit: %+v", got)
	}

	f.say(t, ownerChat, "/edit "+itoa(todo.ID))
	f.say(t, ownerChat, "Чистовик")
	f.say(t, ownerChat, btnClear)

	got, _ = f.controller.Get(ctx, todo.ID)
	if got.Title != "Чистовик" || got.Description != nil {
		t.Errorf("after second edit: %+v", got)
	}
}

func TestSearchAndList(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx := context.Background()
	f.controller.AddTodo(ctx, "Купить Молоко", nil)
	f.controller.AddTodo(ctx, "Позвонить <Ивану>", nil)

	f.say(t, ownerChat, "/search молоко")
	msgs := f.api.messages()
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Text, "Купить Молоко") || strings.Contains(last.Text, "Ивану") {
		t.Errorf("search list:\n%s", last.Text)
	}
	markup, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(markup.InlineKeyboard) != 1 {
		t.Fatalf("expected one inline row, got %#v", last.ReplyMarkup)
	}

	f.say(t, ownerChat, "/search")
	msgs = f.api.messages()
	last = msgs[len(msgs)-1]
	if !strings.Contains(last.Text, "&lt;Ивану&gt;") {
		t.Errorf("full list should be escaped and complete:\n%s", last.Text)
	}
}

func TestCallbacks(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx := context.Background()
	todo, _ := f.controller.AddTodo(ctx, "Кнопка", nil)

	cb := &tgbotapi.CallbackQuery{
		ID:      "1",
		Data:    cbTogglePrefix + itoa(todo.ID),
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: ownerChat, Type: "private"}},
	}
	if err := f.bot.handleCallback(ctx, cb); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.controller.Get(ctx, todo.ID); !got.Completed {
		t.Error("toggle callback did not complete the todo")
	}

	cb.Data = cbDeletePrefix + itoa(todo.ID)
	if err := f.bot.handleCallback(ctx, cb); err != nil {
		t.Fatal(err)
	}
	if id, ok := f.bot.getConfirmation(ownerChat); !ok || id != todo.ID {
		t.Fatalf("delete callback should ask for confirmation")
	}
	f.say(t, ownerChat, "да")
	if _, ok := f.controller.Get(ctx, todo.ID); ok {
		t.Error("todo not deleted after confirmation")
	}
	if f.api.requests != 2 {
		t.Errorf("callback acks: got %d, want 2", f.api.requests)
	}
}

func TestShareAndReport(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx := context.Background()
	todo, _ := f.controller.AddTodo(ctx, "Поделиться", model.StringPtr("детали"))

	f.say(t, ownerChat, "/share "+itoa(todo.ID))
	msgs := f.api.messages()
	share := msgs[len(msgs)-1]
	if share.ParseMode != "" {
		t.Errorf("share text should be plain, got parse mode %q", share.ParseMode)
	}
	if !strings.HasPrefix(share.Text, "🟢 В процессе\nПоделиться\nдетали\n") {
		t.Errorf("share text:\n%s", share.Text)
	}

	f.say(t, ownerChat, "/report")
	msgs = f.api.messages()
	if !strings.Contains(msgs[len(msgs)-1].Text, "Сводка задач") {
		t.Errorf("report:\n%s", msgs[len(msgs)-1].Text)
	}
}

func TestSendDigests(t *testing.T) {
	f := newFixture(t, ownerChat)
	f.say(t, ownerChat, "/start")
	f.api.reset()

	if err := f.bot.SendDigests(context.Background()); err != nil {
		t.Fatal(err)
	}
	msgs := f.api.messages()
	if len(msgs) != 1 || msgs[0].ChatID != ownerChat {
		t.Fatalf("digest recipients: %+v", msgs)
	}

	open := newFixture(t, 0)
	open.say(t, 1, "/help")
	open.say(t, 2, "/help")
	open.api.reset()
	if err := open.bot.SendDigests(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(open.api.messages()); got != 2 {
		t.Errorf("digest without owner: got %d messages, want 2", got)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	f := newFixture(t, ownerChat)
	ctx, cancel := context.WithCancel(context.Background())

	f.api.updates <- tgbotapi.Update{Message: textMessage(ownerChat, "/newtask Из очереди")}
	f.api.updates <- tgbotapi.Update{Message: textMessage(ownerChat, "-")}

	done := make(chan error, 1)
	go func() { done <- f.bot.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(f.controller.Todos()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if len(f.controller.Todos()) != 1 {
		t.Errorf("queued updates not processed")
	}
}

func TestHelpers(t *testing.T) {
	if got := shortTitle("  очень длинное название задачи  ", 10); got != "Очень дли…" {
		t.Errorf("shortTitle: got %q", got)
	}
	if got := displayTitle("  "); got != noTitle {
		t.Errorf("displayTitle blank: got %q", got)
	}
	if id, err := parseTodoID("toggle:1712345678901", cbTogglePrefix); err != nil || id != 1712345678901 {
		t.Errorf("parseTodoID: %d, %v", id, err)
	}
	if !isSkipInput(" Пропустить ") || isSkipInput("текст") {
		t.Error("isSkipInput")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
