package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SetWebhook registers the public update URL with the Bot API.
func SetWebhook(token, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return fmt.Errorf("empty webhook url")
	}
	form := url.Values{}
	form.Set("url", publicURL)
	return callBotAPI(token, "setWebhook", form)
}

// DeleteWebhook removes any registered webhook; required before long polling.
func DeleteWebhook(token string, dropPending bool) error {
	form := url.Values{}
	form.Set("drop_pending_updates", fmt.Sprintf("%t", dropPending))
	return callBotAPI(token, "deleteWebhook", form)
}

func callBotAPI(token, method string, form url.Values) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/%s", token, method)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s status: %s", method, resp.Status)
	}
	return nil
}
