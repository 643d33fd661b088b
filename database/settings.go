package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gravitalia/nido/model"
)

var (
	themes    = map[string]bool{"light": true, "dark": true, "auto": true}
	languages = map[string]bool{"es": true, "en": true, "pt": true, "fr": true}
)

// ValidateSettings checks every enumerated value
func ValidateSettings(s model.Settings) error {
	if !themes[s.Theme] {
		return fmt.Errorf("%w: theme %q", ErrInvalid, s.Theme)
	}
	if !languages[s.Language] {
		return fmt.Errorf("%w: language %q", ErrInvalid, s.Language)
	}
	return nil
}

// GetSettings returns the settings of user, or the defaults when
// none were saved
func (db *Postgres) GetSettings(ctx context.Context, user string) (model.Settings, error) {
	s := model.Settings{UserID: user}
	err := db.pool.QueryRow(ctx,
		"SELECT theme, language, private_account, allow_notifications FROM settings WHERE user_id = $1;", user).
		Scan(&s.Theme, &s.Language, &s.PrivateAccount, &s.AllowNotifications)
	if errors.Is(notFound(err), ErrNotFound) {
		return model.DefaultSettings(user), nil
	} else if err != nil {
		return model.Settings{}, err
	}

	return s, nil
}

// UpdateSettings applies a partial update and saves the result
func (db *Postgres) UpdateSettings(ctx context.Context, user string, body model.SettingsBody) (model.Settings, error) {
	current, err := db.GetSettings(ctx, user)
	if err != nil {
		return model.Settings{}, err
	}

	s := body.Apply(current)
	if err := ValidateSettings(s); err != nil {
		return model.Settings{}, err
	}

	_, err = db.pool.Exec(ctx, `INSERT INTO settings (user_id, theme, language, private_account, allow_notifications)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET theme = $2, language = $3, private_account = $4, allow_notifications = $5;`,
		user, s.Theme, s.Language, s.PrivateAccount, s.AllowNotifications)
	if err != nil {
		return model.Settings{}, err
	}

	return s, nil
}
