package a2a

// PushNotificationConfig represents the configuration for push notifications
type PushNotificationConfig struct {
	// URL is the endpoint where the agent should send notifications
	URL string `json:"url"`
	// Token is a token to be included in push notification requests for verification
	Token *string `json:"token,omitempty"`
	// Authentication is optional authentication details needed by the agent
	Authentication *AgentAuthentication `json:"authentication,omitempty"`
}

// TaskPushNotificationConfig represents the configuration for task-specific push notifications
type TaskPushNotificationConfig struct {
	// ID is the ID of the task the notification config is associated with
	ID string `json:"id"`
	// PushNotificationConfig is the push notification configuration details
	PushNotificationConfig PushNotificationConfig `json:"pushNotificationConfig"`
}

func (cfg *PushNotificationConfig) Copy() *PushNotificationConfig {
	if cfg == nil {
		return nil
	}

	out := *cfg

	if cfg.Token != nil {
		token := *cfg.Token
		out.Token = &token
	}

	if cfg.Authentication != nil {
		auth := *cfg.Authentication
		auth.Schemes = append([]string(nil), cfg.Authentication.Schemes...)
		out.Authentication = &auth
	}

	return &out
}
