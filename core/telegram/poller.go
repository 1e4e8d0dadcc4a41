package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// BuildLongPoller returns the poller used in long-polling mode. Webhook mode
// does not poll at all; updates arrive through the HTTP listener instead.
func BuildLongPoller(timeoutSeconds int) tele.Poller {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSeconds) * time.Second}
}
