package mail

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"ambidream/internal/models"
	"ambidream/internal/services"
)

// SendFunc matches Mailer.Send so tests can swap the SMTP round trip out.
type SendFunc func(subject string, plainBody string, htmlBody string, recipient string) (int, error)

// Notifier renders the reminder and report messages and pushes them through
// the dispatcher. It implements services.NotificationSender.
type Notifier struct {
	send SendFunc
}

func NewNotifier(mailer *Mailer) *Notifier {
	return &Notifier{send: mailer.Send}
}

func NewNotifierWithSendFunc(send SendFunc) *Notifier {
	return &Notifier{send: send}
}

func displayName(recipient models.User) string {
	name := strings.TrimSpace(recipient.Name)
	if name != "" {
		return name
	}
	return recipient.Email
}

func clockDisplay(clock string) string {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return parsed.Format("3:04 PM")
}

func (notifier *Notifier) SendBedtimeReminder(ctx context.Context, recipient models.User, clock string, message string) (int, error) {
	subject := "Time for Bed!"
	note := message
	if strings.TrimSpace(note) == "" {
		note = "Getting good sleep is important for your health and well-being. Consider winding down and preparing for bed soon."
	}

	plain := fmt.Sprintf(
		"Hi %s!\n\nIt's %s - your target bedtime is approaching.\n\n%s\n\nSleep tips: put away electronic devices, dim the lights, practice relaxation techniques, keep your bedroom cool and comfortable.\n\nThis is an automated reminder from AmbiDream.\n",
		displayName(recipient), clockDisplay(clock), note,
	)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; padding: 20px;">
<h2>Hi %s!</h2>
<p>It's %s - your target bedtime is approaching.</p>
<p>%s</p>
<h3>Sleep Tips:</h3>
<ul><li>Put away electronic devices</li><li>Dim the lights</li><li>Practice relaxation techniques</li><li>Keep your bedroom cool and comfortable</li></ul>
<p style="font-size: 12px; color: #718096;">This is an automated reminder from AmbiDream.</p>
</body></html>`, htmlEscape(displayName(recipient)), clockDisplay(clock), htmlEscape(note))

	return notifier.send(subject, plain, html, recipient.Email)
}

func (notifier *Notifier) SendWakeReminder(ctx context.Context, recipient models.User, clock string, message string) (int, error) {
	subject := "Good Morning!"
	note := message
	if strings.TrimSpace(note) == "" {
		note = "Don't forget to log your sleep session in the app."
	}

	plain := fmt.Sprintf(
		"Good morning, %s!\n\nIt's %s - time to wake up and start your day!\n\n%s\n\nMorning tips: expose yourself to natural light, hydrate with a glass of water, do some light stretching, eat a healthy breakfast.\n\nThis is an automated reminder from AmbiDream.\n",
		displayName(recipient), clockDisplay(clock), note,
	)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; padding: 20px;">
<h2>Good morning, %s!</h2>
<p>It's %s - time to wake up and start your day!</p>
<p>%s</p>
<h3>Morning Tips:</h3>
<ul><li>Expose yourself to natural light</li><li>Hydrate with a glass of water</li><li>Do some light stretching</li><li>Eat a healthy breakfast</li></ul>
<p style="font-size: 12px; color: #718096;">This is an automated reminder from AmbiDream.</p>
</body></html>`, htmlEscape(displayName(recipient)), clockDisplay(clock), htmlEscape(note))

	return notifier.send(subject, plain, html, recipient.Email)
}

func (notifier *Notifier) SendLogReminder(ctx context.Context, recipient models.User, message string) (int, error) {
	subject := "Don't Forget to Log Your Sleep!"
	note := message
	if strings.TrimSpace(note) == "" {
		note = "Tracking your sleep regularly helps you understand your sleep patterns and make improvements to your sleep quality."
	}

	plain := fmt.Sprintf(
		"Hi %s!\n\nHave you logged your sleep from last night yet?\n\n%s\n\nQuick reminder: log your bedtime, wake time, and how you felt!\n\nThis is an automated reminder from AmbiDream.\n",
		displayName(recipient), note,
	)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; padding: 20px;">
<h2>Hi %s!</h2>
<p>Have you logged your sleep from last night yet?</p>
<p>%s</p>
<p><strong>Quick reminder:</strong> log your bedtime, wake time, and how you felt!</p>
<p style="font-size: 12px; color: #718096;">This is an automated reminder from AmbiDream.</p>
</body></html>`, htmlEscape(displayName(recipient)), htmlEscape(note))

	return notifier.send(subject, plain, html, recipient.Email)
}

func (notifier *Notifier) SendWeeklyReport(ctx context.Context, recipient models.User, report services.WeeklyReport) (int, error) {
	subject := "Your Weekly Sleep Report"

	plain := fmt.Sprintf(
		"Weekly Sleep Report for %s\n\nAverage sleep: %.1fh\nSleep sessions: %d\nAverage quality: %.1f/5\nGoal achievement: %.0f%%\n\nConsistency is key to better sleep. Keep tracking your sleep patterns to identify what works best for you.\n\nThis is an automated weekly report from AmbiDream.\n",
		displayName(recipient), report.AverageHours, report.SessionsCount, report.AverageQuality, report.GoalAchievement,
	)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; padding: 20px;">
<h2>Weekly Sleep Report for %s</h2>
<h3>Your Sleep Stats This Week:</h3>
<ul>
<li>Average Sleep: <strong>%.1fh</strong></li>
<li>Sleep Sessions: <strong>%d</strong></li>
<li>Average Quality: <strong>%.1f/5</strong></li>
<li>Goal Achievement: <strong>%.0f%%</strong></li>
</ul>
<h3>Keep It Up!</h3>
<p>Consistency is key to better sleep. Keep tracking your sleep patterns to identify what works best for you.</p>
<p style="font-size: 12px; color: #718096;">This is an automated weekly report from AmbiDream.</p>
</body></html>`, htmlEscape(displayName(recipient)), report.AverageHours, report.SessionsCount, report.AverageQuality, report.GoalAchievement)

	return notifier.send(subject, plain, html, recipient.Email)
}

func htmlEscape(value string) string {
	return html.EscapeString(value)
}
