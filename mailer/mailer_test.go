package mailer

import (
	"testing"

	"coursehub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptIsEscapedAndAddressed(t *testing.T) {
	outbox := &Outbox{}
	m := NewWithSender(outbox, "CourseHub", false, logger.Nop())

	m.SendPaymentReceipt("ana@example.com", "Ana <script>", "Go & Friends", 40, "usd", "https://pay.test/r/1")

	require.Len(t, outbox.Messages, 1)
	msg := outbox.Messages[0]
	assert.Equal(t, "ana@example.com", msg.ToEmail)
	assert.Equal(t, "Payment Confirmed: Go & Friends", msg.Subject)
	assert.Contains(t, msg.HTML, "Ana &lt;script&gt;")
	assert.Contains(t, msg.HTML, "Go &amp; Friends")
	assert.Contains(t, msg.HTML, "40.00 USD")
	assert.Contains(t, msg.HTML, `href="https://pay.test/r/1"`)
}

func TestMessagesWithoutRecipientAreDropped(t *testing.T) {
	outbox := &Outbox{}
	m := NewWithSender(outbox, "", false, logger.Nop())

	m.SendWelcome("", "Nobody", "student")
	assert.Empty(t, outbox.Messages)

	m.SendEnrollmentConfirmation("sam@example.com", "Sam", "Intro", false)
	require.Len(t, outbox.Messages, 1)
	assert.Contains(t, outbox.Messages[0].HTML, "pending")
}
