package entity

import "time"

// Subscriber чат оператора, получающий уведомления о браке
type Subscriber struct {
	ChatID    int64     // Telegram Chat ID
	UserName  string    // имя пользователя, подписавшего чат
	CreatedAt time.Time // момент подписки
}

// NewSubscriber создаёт подписчика
func NewSubscriber(chatID int64, userName string) *Subscriber {
	return &Subscriber{
		ChatID:    chatID,
		UserName:  userName,
		CreatedAt: time.Now(),
	}
}
