package models

// SlackEventBody represents the inner event delivered by the Events API
type SlackEventBody struct {
	Type     string `json:"type"`
	User     string `json:"user"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
	BotID    string `json:"bot_id,omitempty"`
	SubType  string `json:"subtype,omitempty"`
}

// SlackEventCallback is the envelope for every Events API delivery.
// Challenge is only set for url_verification requests.
type SlackEventCallback struct {
	Type      string         `json:"type"`
	Challenge string         `json:"challenge"`
	Event     SlackEventBody `json:"event"`
}

// IsBotAuthored reports whether the event was produced by a bot, including this one
func (e SlackEventBody) IsBotAuthored() bool {
	return e.SubType == "bot_message" || e.BotID != ""
}

// ThreadRoot returns the timestamp replies should be posted under
func (e SlackEventBody) ThreadRoot() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}
