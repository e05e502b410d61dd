package i18n

import (
	"strings"
	"testing"
)

func TestGet_FallsBackToKey(t *testing.T) {
	t.Parallel()

	cat := Default()
	if got := cat.Get("subscription_successful"); got != "Вы успешно подписались на уведомления." {
		t.Fatalf("got %q", got)
	}
	if got := cat.Get("no_such_key"); got != "no_such_key" {
		t.Fatalf("missing key must echo back, got %q", got)
	}
}

func TestRussianYears(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		1:   "год",
		2:   "года",
		4:   "года",
		5:   "лет",
		11:  "лет",
		12:  "лет",
		14:  "лет",
		19:  "лет",
		21:  "год",
		22:  "года",
		25:  "лет",
		100: "лет",
		101: "год",
		111: "лет",
	}
	for age, want := range cases {
		if got := RussianYears(age); got != want {
			t.Errorf("RussianYears(%d)=%q, want %q", age, got, want)
		}
	}
}

func TestFormatBirthdayEmail(t *testing.T) {
	t.Parallel()

	subject, body := Default().FormatBirthdayEmail("Анна Петрова", 41)
	if subject != "🎉 С Днем Рождения, Анна Петрова!" {
		t.Fatalf("subject=%q", subject)
	}
	if !strings.Contains(body, "Анна Петрова") {
		t.Fatalf("body does not mention the name: %q", body)
	}
	if !strings.Contains(body, "41 год") {
		t.Fatalf("body does not state the age with agreement: %q", body)
	}
}
