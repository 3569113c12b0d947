package notify

import "context"

// Notifier доставляет пользователю короткое текстовое сообщение.
// Доставка best-effort: ядро записи логирует неудачу и продолжает
// работу, транзакции от неё не зависят.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// FuncNotifier — адаптер для тестов и простых случаев.
type FuncNotifier func(ctx context.Context, chatID int64, text string) error

func (f FuncNotifier) Send(ctx context.Context, chatID int64, text string) error {
	return f(ctx, chatID, text)
}
