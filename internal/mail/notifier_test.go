package mail

import (
	"context"
	"strings"
	"testing"

	"ambidream/internal/models"
	"ambidream/internal/services"
)

type capturedMessage struct {
	subject   string
	plain     string
	html      string
	recipient string
}

func captureNotifier(delivered int) (*Notifier, *capturedMessage) {
	captured := &capturedMessage{}
	notifier := NewNotifierWithSendFunc(func(subject string, plainBody string, htmlBody string, recipient string) (int, error) {
		captured.subject = subject
		captured.plain = plainBody
		captured.html = htmlBody
		captured.recipient = recipient
		return delivered, nil
	})
	return notifier, captured
}

func TestSendBedtimeReminderContent(t *testing.T) {
	t.Parallel()

	notifier, captured := captureNotifier(1)
	recipient := models.User{Email: "ada@example.com", Name: "Ada"}

	delivered, err := notifier.SendBedtimeReminder(context.Background(), recipient, "22:30", "")
	if err != nil {
		t.Fatalf("SendBedtimeReminder: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if captured.subject != "Time for Bed!" {
		t.Fatalf("subject = %q", captured.subject)
	}
	if captured.recipient != "ada@example.com" {
		t.Fatalf("recipient = %q", captured.recipient)
	}
	if !strings.Contains(captured.plain, "Hi Ada!") {
		t.Fatalf("plain body missing greeting: %q", captured.plain)
	}
	if !strings.Contains(captured.plain, "10:30 PM") {
		t.Fatalf("plain body missing 12-hour clock: %q", captured.plain)
	}
}

func TestSendWakeReminderCustomMessageOverridesDefault(t *testing.T) {
	t.Parallel()

	notifier, captured := captureNotifier(1)
	recipient := models.User{Email: "ada@example.com"}

	if _, err := notifier.SendWakeReminder(context.Background(), recipient, "07:00", "Custom nudge"); err != nil {
		t.Fatalf("SendWakeReminder: %v", err)
	}
	if captured.subject != "Good Morning!" {
		t.Fatalf("subject = %q", captured.subject)
	}
	if !strings.Contains(captured.plain, "Custom nudge") {
		t.Fatalf("plain body missing custom message: %q", captured.plain)
	}
	if strings.Contains(captured.plain, "Don't forget to log your sleep session") {
		t.Fatal("default note must be replaced by the custom message")
	}
	// Without a name the greeting falls back to the email address.
	if !strings.Contains(captured.plain, "Good morning, ada@example.com!") {
		t.Fatalf("plain body greeting: %q", captured.plain)
	}
}

func TestSendLogReminderSubject(t *testing.T) {
	t.Parallel()

	notifier, captured := captureNotifier(1)

	if _, err := notifier.SendLogReminder(context.Background(), models.User{Email: "a@b.c"}, ""); err != nil {
		t.Fatalf("SendLogReminder: %v", err)
	}
	if captured.subject != "Don't Forget to Log Your Sleep!" {
		t.Fatalf("subject = %q", captured.subject)
	}
}

func TestSendWeeklyReportContent(t *testing.T) {
	t.Parallel()

	notifier, captured := captureNotifier(1)
	report := services.WeeklyReport{
		AverageHours:    7.42,
		SessionsCount:   6,
		AverageQuality:  4.2,
		GoalAchievement: 85,
	}

	if _, err := notifier.SendWeeklyReport(context.Background(), models.User{Email: "a@b.c", Name: "Ada"}, report); err != nil {
		t.Fatalf("SendWeeklyReport: %v", err)
	}
	if captured.subject != "Your Weekly Sleep Report" {
		t.Fatalf("subject = %q", captured.subject)
	}
	if !strings.Contains(captured.plain, "Average sleep: 7.4h") {
		t.Fatalf("plain body: %q", captured.plain)
	}
	if !strings.Contains(captured.plain, "Sleep sessions: 6") {
		t.Fatalf("plain body: %q", captured.plain)
	}
	if !strings.Contains(captured.plain, "Goal achievement: 85%") {
		t.Fatalf("plain body: %q", captured.plain)
	}
}

func TestNotifierEscapesHTMLMessage(t *testing.T) {
	t.Parallel()

	notifier, captured := captureNotifier(1)

	message := `<script>alert("x")</script>`
	if _, err := notifier.SendLogReminder(context.Background(), models.User{Email: "a@b.c"}, message); err != nil {
		t.Fatalf("SendLogReminder: %v", err)
	}
	if strings.Contains(captured.html, "<script>") {
		t.Fatal("html body must escape markup in user messages")
	}
	if !strings.Contains(captured.html, "&lt;script&gt;") {
		t.Fatalf("html body missing escaped message: %q", captured.html)
	}
	// The plain text part carries the message verbatim.
	if !strings.Contains(captured.plain, message) {
		t.Fatalf("plain body should keep the raw message: %q", captured.plain)
	}
}

func TestBuildMessageStructure(t *testing.T) {
	t.Parallel()

	message, err := buildMessage("noreply@ambidream.app", "ada@example.com", "Time for Bed!", "plain part", "<p>html part</p>")
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	text := string(message)

	for _, fragment := range []string{
		"From: noreply@ambidream.app",
		"To: ada@example.com",
		"MIME-Version: 1.0",
		"multipart/alternative",
		"Message-ID: <",
		"@ambidream.app>",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"plain part",
		"<p>html part</p>",
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("message missing %q:\n%s", fragment, text)
		}
	}
}
