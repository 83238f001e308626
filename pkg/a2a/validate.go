package a2a

import (
	"net/url"

	v "github.com/cohesivestack/valgo"
)

/*
Validate checks the parts of a send request the task manager relies on: a
task id and a message with at least one part. A push notification config
riding along with the request is checked as well.
*/
func (params TaskSendParams) Validate() error {
	val := v.Is(
		v.String(params.ID, "id").Not().Blank(),
	).Is(
		v.Int(len(params.Message.Parts), "message.parts").GreaterThan(0),
	)

	if params.HistoryLength != nil {
		val = val.Is(v.Int(*params.HistoryLength, "historyLength").GreaterOrEqualTo(0))
	}

	if params.PushNotification != nil {
		val = val.Is(validURL(params.PushNotification.URL, "pushNotification.url"))
	}

	if !val.Valid() {
		return val.Error()
	}

	return nil
}

/*
Validate makes sure a callback can actually be delivered: the task id must be
set and the URL must be absolute http or https.
*/
func (cfg TaskPushNotificationConfig) Validate() error {
	val := v.Is(
		v.String(cfg.ID, "id").Not().Blank(),
	).Is(
		validURL(cfg.PushNotificationConfig.URL, "pushNotificationConfig.url"),
	)

	if !val.Valid() {
		return val.Error()
	}

	return nil
}

func validURL(raw string, name string) *v.ValidatorString[string] {
	return v.String(raw, name).Not().Blank().Passing(func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	}, "{{title}} must be an absolute http(s) URL")
}
