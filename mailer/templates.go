package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"
)

func (m *Mailer) layout(title, body string) string {
	brand := html.EscapeString(strings.ToUpper(m.appName))
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F2A44; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2A44; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3B82F6; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d %s. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, brand, html.EscapeString(title), body, time.Now().Year(), html.EscapeString(m.appName))
}

func (m *Mailer) SendWelcome(email, name, role string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>%s</strong>! Your %s account has been created.</p>
		<p>Complete your profile to get started.</p>
	`, html.EscapeString(name), html.EscapeString(m.appName), html.EscapeString(role))
	m.dispatch(Message{ToName: name, ToEmail: email, Subject: "Welcome to " + m.appName, HTML: m.layout("Welcome Onboard!", body)})
}

// SendEnrollmentConfirmation tells the student whether the course is open or awaits approval.
func (m *Mailer) SendEnrollmentConfirmation(email, name, courseTitle string, approved bool) {
	state := `<div class="info-box">Your enrollment is pending. You will get access once it is approved.</div>`
	if approved {
		state = `<div class="info-box">You have full access. Happy learning!</div>`
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are enrolled in <strong>%s</strong>.</p>
		%s
	`, html.EscapeString(name), html.EscapeString(courseTitle), state)
	m.dispatch(Message{ToName: name, ToEmail: email, Subject: "Enrollment: " + courseTitle, HTML: m.layout("Enrollment Received", body)})
}

func (m *Mailer) SendEnrollmentStatus(email, name, courseTitle, status string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment in <strong>%s</strong> is now <strong>%s</strong>.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(status))
	m.dispatch(Message{ToName: name, ToEmail: email, Subject: "Enrollment " + status + ": " + courseTitle, HTML: m.layout("Enrollment Update", body)})
}

func (m *Mailer) SendPaymentReceipt(email, name, courseTitle string, amount float64, currency, receiptURL string) {
	link := ""
	if receiptURL != "" {
		link = fmt.Sprintf(`<a href="%s" class="btn">View Receipt</a>`, html.EscapeString(receiptURL))
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>%.2f %s</strong> for <strong>%s</strong>.</p>
		<p>The course is now available in your dashboard.</p>
		%s
	`, html.EscapeString(name), amount, html.EscapeString(strings.ToUpper(currency)), html.EscapeString(courseTitle), link)
	m.dispatch(Message{ToName: name, ToEmail: email, Subject: "Payment Confirmed: " + courseTitle, HTML: m.layout("Payment Confirmed", body)})
}

func (m *Mailer) SendBadgeAwarded(email, name, badgeName string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have earned the <strong>%s</strong> badge.</p>
	`, html.EscapeString(name), html.EscapeString(badgeName))
	m.dispatch(Message{ToName: name, ToEmail: email, Subject: "New Badge: " + badgeName, HTML: m.layout("Badge Earned", body)})
}
