// Package i18n holds the Russian text catalog used by API responses and
// notification emails.
package i18n

import "fmt"

// Catalog resolves message keys to localized strings. Boundary layers hold a
// Catalog value; the application core returns codes only and never sees one.
type Catalog struct {
	entries map[string]string
}

// Default returns the Russian catalog.
func Default() Catalog { return Catalog{entries: russian} }

var russian = map[string]string{
	// General
	"error_occurred": "Произошла ошибка",
	"success":        "Успешно",
	"not_found":      "Не найдено",
	"invalid_input":  "Неверный ввод",

	// API
	"api_welcome":     "Привет, Семейное Древо! API работает.",
	"health_check_ok": "Сервис работает нормально.",

	// Family tree
	"family_tree_retrieved": "Семейное древо успешно получено.",

	// Birthdays
	"upcoming_birthdays_retrieved": "Предстоящие дни рождения успешно получены.",
	"no_upcoming_birthdays":        "В ближайшее время дней рождения нет.",

	// Subscriptions
	"subscription_successful":  "Вы успешно подписались на уведомления.",
	"email_already_subscribed": "Этот email уже подписан.",
	"invalid_email":            "Неверный формат email.",

	// Authentication
	"auth_user_inactive":       "Учетная запись пользователя неактивна.",
	"auth_invalid_credentials": "Неверное имя пользователя или пароль.",
	"auth_token_invalid":       "Недействительный или просроченный токен.",
	"auth_unauthorized":        "Требуется аутентификация.",
}

// Get returns the string for key, or the key itself when no translation
// exists so missing entries stay visible.
func (c Catalog) Get(key string) string {
	if s, ok := c.entries[key]; ok {
		return s
	}
	return key
}

// RussianYears returns the Russian word for "year(s)" agreeing with age.
// 11-19 take "лет"; otherwise the last digit decides.
func RussianYears(age int) string {
	if n := age % 100; n >= 11 && n <= 19 {
		return "лет"
	}
	switch age % 10 {
	case 1:
		return "год"
	case 2, 3, 4:
		return "года"
	default:
		return "лет"
	}
}

// FormatBirthdayEmail builds the subject and plain-text body of a birthday
// notification for a member turning age today.
func (c Catalog) FormatBirthdayEmail(name string, age int) (subject, body string) {
	subject = fmt.Sprintf("🎉 С Днем Рождения, %s!", name)
	body = fmt.Sprintf(
		"Привет!\n\n"+
			"Сегодня особенный день! Нашему дорогому члену семьи, %s, исполняется %d %s!\n\n"+
			"Давайте все вместе поздравим %s и пожелаем здоровья, счастья и всего наилучшего!\n\n"+
			"С наилучшими пожеланиями,\n"+
			"Ваше Семейное Древо",
		name, age, RussianYears(age), name,
	)
	return subject, body
}
