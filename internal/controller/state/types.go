package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния диалога записи на собеседование
	StateBookDate        UserState = "book_date"
	StateBookTime        UserState = "book_time"
	StateBookName        UserState = "book_name"
	StateBookTopic       UserState = "book_topic"
	StateBookChildGrowth UserState = "book_child_growth"
	StateBookMessage     UserState = "book_message"

	// Сообщение об отсутствии без причины в команде
	StateAbsentReason UserState = "absent_reason"
)

// Ключи временных данных диалога
const (
	KeyDate        = "date"
	KeyTime        = "time"
	KeyParentName  = "parent_name"
	KeyTopic       = "topic"
	KeyChildGrowth = "child_growth"
	KeyIdempotency = "idempotency_key"
)

// DefaultTTL время, после которого брошенный диалог сбрасывается
const DefaultTTL = 30 * time.Minute

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]string
	UpdatedAt time.Time
}
