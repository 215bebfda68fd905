package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todolist/internal/model"
	"todolist/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageEditTitle
	stageEditDescription
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
)

const (
	btnSkip          = "⏭️ Пропустить"
	btnClear         = "🧹 Очистить"
	btnConfirm       = "✅ Подтвердить"
	btnCancel        = "↩️ Отмена"
	btnCancelDialog  = "⏪ Отменить ввод"
	noTitle          = "Без названия"
	iconPending      = "🟢"
	iconDone         = "✅"
	menuLabelNewTask = "➕ Новая задача"
	menuLabelTasks   = "📋 Задачи"
	menuLabelReport  = "🗓 Сводка"
	menuLabelHelp    = "ℹ️ Помощь"
	listLimit        = 30
)

type conversationState struct {
	stage       conversationStage
	todoID      int64
	title       string
	description *string
}

// messenger is the part of *tgbotapi.BotAPI the bot relies on.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot serves the todo list over Telegram.
type Bot struct {
	api        messenger
	controller *service.Controller
	digest     *service.DigestService
	logger     *log.Logger
	ownerID    int64
	loc        *time.Location

	mu            sync.Mutex
	conversations map[int64]*conversationState
	confirmations map[int64]int64
	chats         map[int64]struct{}
}

// New authorizes the token. When ownerID is non-zero only that chat is served.
func New(token string, controller *service.Controller, digest *service.DigestService, ownerID int64, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("bot authorized", "account", api.Self.UserName)
	return newBot(api, controller, digest, ownerID, logger), nil
}

func newBot(api messenger, controller *service.Controller, digest *service.DigestService, ownerID int64, logger *log.Logger) *Bot {
	return &Bot{
		api:           api,
		controller:    controller,
		digest:        digest,
		logger:        logger,
		ownerID:       ownerID,
		loc:           time.Local,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]int64),
		chats:         make(map[int64]struct{}),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.Error("handle callback", "err", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.Error("handle message", "err", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if !b.authorized(chatID) {
		b.logger.Warn("message from foreign chat ignored", "chat", chatID)
		return b.sendPlain(chatID, "Этот список задач доступен только владельцу.")
	}
	b.rememberChat(chatID)

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(chatID)
		b.clearConfirmation(chatID)
		return b.sendText(chatID, "⏪ Ввод отменён.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.logger.Info("command", "chat", chatID, "cmd", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if todoID, ok := b.getConfirmation(chatID); ok {
		return b.handleConfirmationResponse(ctx, chatID, msg.Text, todoID)
	}

	if state := b.getConversation(chatID); state != nil {
		b.logger.Debug("conversation step", "chat", chatID, "stage", state.stage)
		return b.handleConversation(ctx, chatID, msg.Text, state)
	}

	return b.sendText(chatID, "Я пока не понял сообщение. Набери /newtask, чтобы добавить задачу, или /help для списка команд.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "newtask":
		return b.startNewTask(chatID, args)
	case "tasks":
		return b.sendTodoList(chatID)
	case "search":
		b.controller.Search(ctx, args)
		return b.sendTodoList(chatID)
	case "toggle":
		id, ok, err := b.parseIDArg(chatID, args, "/toggle")
		if !ok {
			return err
		}
		return b.toggleAndReport(ctx, chatID, id)
	case "edit":
		id, ok, err := b.parseIDArg(chatID, args, "/edit")
		if !ok {
			return err
		}
		return b.startEdit(ctx, chatID, id)
	case "delete":
		id, ok, err := b.parseIDArg(chatID, args, "/delete")
		if !ok {
			return err
		}
		return b.askDeleteConfirmation(ctx, chatID, id)
	case "share":
		id, ok, err := b.parseIDArg(chatID, args, "/share")
		if !ok {
			return err
		}
		return b.handleShare(ctx, chatID, id)
	case "report":
		return b.handleReport(ctx, chatID)
	case "cancel":
		b.clearConversation(chatID)
		b.clearConfirmation(chatID)
		return b.sendText(chatID, "⏪ Ввод отменён.")
	default:
		return b.sendText(chatID, "Команда не поддерживается. Загляни в /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := ""
	if msg.From != nil {
		name = strings.TrimSpace(msg.From.FirstName)
	}
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n<b>Я веду твой список дел.</b>\n\n"+
			"• /newtask — добавить задачу\n"+
			"• /tasks — показать список\n"+
			"• /search &lt;текст&gt; — найти задачи (пустой запрос сбрасывает поиск)\n"+
			"• /help — все команды",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "ℹ️ <b>Подсказки</b>\n" +
		"• /newtask — добавить задачу пошагово\n" +
		"• /tasks — список задач с кнопками\n" +
		"• /search &lt;текст&gt; — поиск по названию и описанию\n" +
		"• /toggle &lt;id&gt; — отметить выполненной или вернуть в работу\n" +
		"• /edit &lt;id&gt; — изменить название и описание\n" +
		"• /delete &lt;id&gt; — удалить задачу\n" +
		"• /share &lt;id&gt; — текст задачи, чтобы переслать\n" +
		"• /report — сводка по задачам\n" +
		"• /cancel — отменить текущий ввод"
	return b.sendText(chatID, text)
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	text, err := b.digest.Summary(ctx, time.Now().In(b.loc))
	if err != nil {
		b.logger.Error("build digest", "err", err)
		return b.sendText(chatID, "Не удалось сформировать сводку.")
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleShare(ctx context.Context, chatID int64, id int64) error {
	todo, ok := b.controller.Get(ctx, id)
	if !ok {
		return b.sendText(chatID, "Задача не найдена.")
	}
	return b.sendPlain(chatID, todo.ShareText(b.loc))
}

func (b *Bot) startNewTask(chatID int64, title string) error {
	b.clearConfirmation(chatID)
	if title != "" {
		b.setConversation(chatID, &conversationState{stage: stageDescription, title: title})
		return b.sendWithReplyMarkup(chatID, "✏️ Добавь описание (или нажми «Пропустить»).", skipKeyboard())
	}
	b.setConversation(chatID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(chatID, "🆕 Создаём новую задачу.\n<b>Шаг 1:</b> как её назвать?", cancelKeyboard())
}

func (b *Bot) startEdit(ctx context.Context, chatID int64, id int64) error {
	todo, ok := b.controller.Get(ctx, id)
	if !ok {
		return b.sendText(chatID, "Задача не найдена.")
	}
	b.clearConfirmation(chatID)
	b.setConversation(chatID, &conversationState{
		stage:       stageEditTitle,
		todoID:      todo.ID,
		title:       todo.Title,
		description: todo.Description,
	})
	text := fmt.Sprintf("✏️ Текущее название: <b>%s</b>\nОтправь новое или нажми «Пропустить».", escape(displayTitle(todo.Title)))
	return b.sendWithReplyMarkup(chatID, text, skipKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, chatID int64, input string, state *conversationState) error {
	text := strings.TrimSpace(input)

	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "Название не может быть пустым. Как назвать задачу?", cancelKeyboard())
		}
		state.title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(chatID, "✏️ Добавь описание (или нажми «Пропустить»).", skipKeyboard())
	case stageDescription:
		var description *string
		if !isSkipInput(text) {
			description = model.StringPtr(text)
		}
		b.clearConversation(chatID)
		return b.finishCreate(ctx, chatID, state.title, description)
	case stageEditTitle:
		if !isSkipInput(text) && text != "" {
			state.title = text
		}
		state.stage = stageEditDescription
		current := "нет"
		if state.description != nil {
			current = escape(*state.description)
		}
		return b.sendWithReplyMarkup(chatID, fmt.Sprintf("📝 Текущее описание: %s\nОтправь новое, «Пропустить» или «Очистить».", current), editDescriptionKeyboard())
	case stageEditDescription:
		switch {
		case isClearInput(text):
			state.description = nil
		case !isSkipInput(text):
			state.description = model.StringPtr(text)
		}
		b.clearConversation(chatID)
		return b.finishEdit(ctx, chatID, state)
	default:
		b.clearConversation(chatID)
		return b.sendText(chatID, "Диалог сброшен. Попробуй ещё раз через /newtask.")
	}
}

func (b *Bot) finishCreate(ctx context.Context, chatID int64, title string, description *string) error {
	todo, ok := b.controller.AddTodo(ctx, title, description)
	if !ok {
		return b.sendText(chatID, "Не удалось сохранить задачу.")
	}

	var summary strings.Builder
	summary.WriteString("✅ <b>Задача сохранена</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", todo.ID))
	summary.WriteString(fmt.Sprintf("• <b>Название:</b> %s\n", escape(displayTitle(todo.Title))))
	if desc := todo.DescriptionText(); desc != "" {
		summary.WriteString(fmt.Sprintf("• <b>Описание:</b> %s\n", escape(desc)))
	}
	if err := b.sendText(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendTodoList(chatID)
}

func (b *Bot) finishEdit(ctx context.Context, chatID int64, state *conversationState) error {
	todo, ok := b.controller.Get(ctx, state.todoID)
	if !ok {
		return b.sendText(chatID, "Задача не найдена или уже удалена.")
	}
	todo.Title = state.title
	todo.Description = state.description
	if !b.controller.UpdateTodo(ctx, todo) {
		return b.sendText(chatID, "Не удалось сохранить изменения.")
	}
	if err := b.sendText(chatID, fmt.Sprintf("💾 Задача «%s» обновлена.", escape(displayTitle(todo.Title)))); err != nil {
		return err
	}
	return b.sendTodoList(chatID)
}

func (b *Bot) toggleAndReport(ctx context.Context, chatID int64, id int64) error {
	todo, ok := b.controller.Get(ctx, id)
	if !ok {
		return b.sendText(chatID, "Задача не найдена.")
	}
	if !b.controller.ToggleTodo(ctx, id) {
		return b.sendText(chatID, "Не удалось изменить задачу.")
	}

	title := escape(displayTitle(todo.Title))
	if todo.Completed {
		return b.sendText(chatID, fmt.Sprintf("%s Задача «%s» снова в работе.", iconPending, title))
	}
	return b.sendText(chatID, fmt.Sprintf("%s Задача «%s» выполнена.", iconDone, title))
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, id int64) error {
	todo, ok := b.controller.Get(ctx, id)
	if !ok {
		return b.sendText(chatID, "Задача не найдена.")
	}
	b.clearConversation(chatID)
	b.setConfirmation(chatID, todo.ID)
	text := fmt.Sprintf("Удалить задачу «%s» (#%d)?", escape(displayTitle(todo.Title)), todo.ID)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, chatID int64, input string, todoID int64) error {
	switch {
	case isConfirmInput(input):
		b.clearConfirmation(chatID)
		return b.deleteAndRefresh(ctx, chatID, todoID)
	case isCancelInput(input):
		b.clearConfirmation(chatID)
		return b.sendText(chatID, "Удаление отменено.")
	default:
		return b.sendWithReplyMarkup(chatID, "Подтверди или отмени удаление задачи.", confirmKeyboard())
	}
}

func (b *Bot) deleteAndRefresh(ctx context.Context, chatID int64, id int64) error {
	todo, ok := b.controller.Get(ctx, id)
	if !ok {
		return b.sendText(chatID, "Задача не найдена или уже удалена.")
	}
	if !b.controller.DeleteTodo(ctx, id) {
		return b.sendText(chatID, "Не удалось удалить задачу.")
	}
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Задача «%s» удалена.", escape(displayTitle(todo.Title)))); err != nil {
		return err
	}
	return b.sendTodoList(chatID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack", "err", err)
	}

	chatID := cb.Message.Chat.ID
	if !b.authorized(chatID) {
		b.logger.Warn("callback from foreign chat ignored", "chat", chatID)
		return nil
	}
	b.rememberChat(chatID)

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		id, err := parseTodoID(data, cbTogglePrefix)
		if err != nil {
			return nil
		}
		b.logger.Info("callback toggle", "chat", chatID, "id", id)
		if err := b.toggleAndReport(ctx, chatID, id); err != nil {
			return err
		}
		return b.sendTodoList(chatID)
	case strings.HasPrefix(data, cbDeletePrefix):
		id, err := parseTodoID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		b.logger.Info("callback delete", "chat", chatID, "id", id)
		return b.askDeleteConfirmation(ctx, chatID, id)
	default:
		return nil
	}
}

// SendDigests sends the summary to the owner and every chat seen since start.
func (b *Bot) SendDigests(ctx context.Context) error {
	text, err := b.digest.Summary(ctx, time.Now().In(b.loc))
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	for _, chatID := range b.recipients() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chatID, text); err != nil {
			b.logger.Error("send digest", "chat", chatID, "err", err)
		}
	}
	return nil
}

func (b *Bot) sendTodoList(chatID int64) error {
	todos := b.controller.Todos()
	query := strings.TrimSpace(b.controller.SearchText())

	if len(todos) == 0 {
		if query != "" {
			return b.sendText(chatID, fmt.Sprintf("🔎 По запросу «%s» ничего не найдено. Пустой /search сбрасывает поиск.", escape(query)))
		}
		return b.sendText(chatID, "Список пуст. Добавь задачу через /newtask.")
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Задачи</b>\n")
	if query != "" {
		builder.WriteString(fmt.Sprintf("🔎 Поиск: <i>%s</i>\n", escape(query)))
	}
	builder.WriteByte('\n')

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, todo := range todos {
		if i == listLimit {
			builder.WriteString(fmt.Sprintf("… и ещё %d\n", len(todos)-listLimit))
			break
		}
		builder.WriteString(formatTodo(todo, b.loc))

		toggleLabel := fmt.Sprintf("%s %s", iconDone, shortTitle(todo.Title, 24))
		if todo.Completed {
			toggleLabel = fmt.Sprintf("↩️ %s", shortTitle(todo.Title, 24))
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, fmt.Sprintf("%s%d", cbTogglePrefix, todo.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, todo.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTask(chatID, "")
	case strings.ToLower(menuLabelTasks):
		return true, b.sendTodoList(chatID)
	case strings.ToLower(menuLabelReport):
		return true, b.handleReport(ctx, chatID)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(chatID)
	default:
		return false, nil
	}
}

func (b *Bot) parseIDArg(chatID int64, args, command string) (int64, bool, error) {
	if args == "" {
		return 0, false, b.sendText(chatID, fmt.Sprintf("Укажи ID задачи: %s 1712345678901", command))
	}
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return 0, false, b.sendText(chatID, "ID задачи должен быть числом.")
	}
	return id, true, nil
}

func (b *Bot) authorized(chatID int64) bool {
	return b.ownerID == 0 || chatID == b.ownerID
}

func (b *Bot) rememberChat(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[chatID] = struct{}{}
}

func (b *Bot) recipients() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []int64
	if b.ownerID != 0 {
		out = append(out, b.ownerID)
	}
	for chatID := range b.chats {
		if chatID != b.ownerID {
			out = append(out, chatID)
		}
	}
	return out
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendPlain(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(chatID int64) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.confirmations[chatID]
	return id, ok
}

func (b *Bot) setConfirmation(chatID, todoID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[chatID] = todoID
}

func (b *Bot) clearConfirmation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, chatID)
}

func (b *Bot) setConversation(chatID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) getConversation(chatID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}

func parseTodoID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

func formatTodo(todo model.Todo, loc *time.Location) string {
	var b strings.Builder
	icon := iconPending
	if todo.Completed {
		icon = iconDone
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, todo.ID, escape(displayTitle(todo.Title))))
	if desc := strings.TrimSpace(todo.DescriptionText()); desc != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(desc)))
	}
	b.WriteString(fmt.Sprintf("   🗓 %s\n", todo.CreatedAt.In(loc).Format("02.01.2006 15:04")))
	return b.String()
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = displayTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func displayTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return noTitle
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelReport),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func editDescriptionKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnClear),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "пропустить" || value == "skip"
}

func isClearInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnClear) || value == "очистить"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "подтвердить" || value == "да"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "отмена" || value == "нет"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "отменить ввод"
}
