package directory

// Repository abstracts the uniqueness-constrained user store.
//
// Implementations keep a username index and an email index consistent across
// every mutation. Failed mutations report false and leave both untouched.
type Repository interface {
	GetByUsername(username string) (User, bool)
	GetByEmail(email string) (User, bool)
	Add(user User) bool
	Remove(username string) bool
	// Replace removes the user, applies mutate to the detached copy and adds
	// the result back as one atomic step. The original is restored when the
	// user is missing, mutate declines, or the result collides with another user.
	Replace(username string, mutate func(User) (User, bool)) bool
	Count() int
	ListAll() []User
}
