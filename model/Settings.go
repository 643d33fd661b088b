package model

// Settings are the per-user preferences
type Settings struct {
	UserID             string `json:"user_id"`
	Theme              string `json:"theme"`
	Language           string `json:"language"`
	PrivateAccount     bool   `json:"private_account"`
	AllowNotifications bool   `json:"allow_notifications"`
}

// DefaultSettings are used until a user saves their own
func DefaultSettings(id string) Settings {
	return Settings{
		UserID:             id,
		Theme:              "light",
		Language:           "es",
		PrivateAccount:     false,
		AllowNotifications: true,
	}
}

// SettingsBody is a partial settings update
type SettingsBody struct {
	Theme              *string `json:"theme,omitempty"`
	Language           *string `json:"language,omitempty"`
	PrivateAccount     *bool   `json:"private_account,omitempty"`
	AllowNotifications *bool   `json:"allow_notifications,omitempty"`
}

// Apply returns s updated with every field set in the body
func (b SettingsBody) Apply(s Settings) Settings {
	if b.Theme != nil {
		s.Theme = *b.Theme
	}
	if b.Language != nil {
		s.Language = *b.Language
	}
	if b.PrivateAccount != nil {
		s.PrivateAccount = *b.PrivateAccount
	}
	if b.AllowNotifications != nil {
		s.AllowNotifications = *b.AllowNotifications
	}
	return s
}
