package utils

// NewNullString is a helper for string pointers, returning nil if the string
// is empty. Useful for optional fields that should be NULL in the DB if not
// provided. Whitespace is kept as sent.
func NewNullString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
