package utils

import "strconv"

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// StrToIntOrDefault parses s as an int, returning fallback when s is empty or
// not a number.
func StrToIntOrDefault(s string, fallback int) int {
	num, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return num
}
