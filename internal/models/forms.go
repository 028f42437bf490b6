package models

// Account forms as posted by the storefront pages. The same fields are
// accepted as JSON.

type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type RegisterForm struct {
	Email            string `form:"email" json:"email"`
	Password         string `form:"password" json:"password"`
	PasswordConfirm  string `form:"passwordConfirm" json:"passwordConfirm"`
	FirstName        string `form:"firstName" json:"firstName"`
	LastName         string `form:"lastName" json:"lastName"`
	AcceptsMarketing string `form:"acceptsMarketing" json:"acceptsMarketing"`
}

type RecoverForm struct {
	Email string `form:"email" json:"email"`
}

// PasswordForm is used by both the reset and the activation pages.
type PasswordForm struct {
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"passwordConfirm" json:"passwordConfirm"`
}

// ProfileForm holds a profile edit. Empty strings mean "unchanged".
type ProfileForm struct {
	FirstName          string `form:"firstName" json:"firstName"`
	LastName           string `form:"lastName" json:"lastName"`
	Email              string `form:"email" json:"email" validate:"omitempty,email"`
	Phone              string `form:"phone" json:"phone"`
	AcceptsMarketing   string `form:"acceptsMarketing" json:"acceptsMarketing"`
	CurrentPassword    string `form:"currentPassword" json:"currentPassword"`
	NewPassword        string `form:"newPassword" json:"newPassword"`
	NewPasswordConfirm string `form:"newPasswordConfirm" json:"newPasswordConfirm"`
}

// Checkbox reads an HTML checkbox value. ok is false when the box was not
// part of the submission.
func Checkbox(value string) (checked, ok bool) {
	switch value {
	case "":
		return false, false
	case "on", "true", "1", "yes":
		return true, true
	default:
		return false, true
	}
}
