package model

// SetBody define the struct of the body
type SetBody struct {
	ID string `json:"id"`
}

// UpdateBody define the body struct of patch route.
// Nil fields are left untouched
type UpdateBody struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Location  *string `json:"location,omitempty"`
	Website   *string `json:"website,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	CoverURL  *string `json:"cover_url,omitempty"`
}

// Empty reports whether the body changes nothing
func (b UpdateBody) Empty() bool {
	return b.Username == nil && b.Email == nil && b.Bio == nil && b.Location == nil &&
		b.Website == nil && b.AvatarURL == nil && b.CoverURL == nil
}

// Upload is the response of the storage route
type Upload struct {
	URL string `json:"url"`
}
