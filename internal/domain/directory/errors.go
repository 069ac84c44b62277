package directory

import "errors"

// ErrDuplicateKey indicates two users sharing a username or email.
var ErrDuplicateKey = errors.New("duplicate key")

// CodeDuplicateKey tags duplicate key failures wrapped in apperrors.
const CodeDuplicateKey = "duplicate_key"
