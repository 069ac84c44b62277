package directory

// User is an immutable directory account. Two users are equal when username,
// password and email (including whether one is set) all match.
type User struct {
	username string
	password string
	email    string
	hasEmail bool
}

// NewUser builds a user without an email address.
func NewUser(username, password string) User {
	return User{username: username, password: password}
}

// NewUserWithEmail builds a user carrying an email address.
func NewUserWithEmail(username, password, email string) User {
	return User{username: username, password: password, email: email, hasEmail: true}
}

// Username returns the primary key.
func (u User) Username() string {
	return u.username
}

// Password returns the stored password.
func (u User) Password() string {
	return u.password
}

// Email returns the email and whether one is set.
func (u User) Email() (string, bool) {
	return u.email, u.hasEmail
}

// WithEmail returns a copy of u with its email replaced.
func (u User) WithEmail(email string) User {
	u.email = email
	u.hasEmail = true
	return u
}

// View trims the password for display.
func (u User) View() UserView {
	view := UserView{Username: u.username}
	if u.hasEmail {
		email := u.email
		view.Email = &email
	}
	return view
}

// UserView is the password-free projection of a User.
type UserView struct {
	Username string
	Email    *string
}
