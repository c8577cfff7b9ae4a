package utils

// TruncateString shortens long strings with a trailing ellipsis,
// keeping addresses readable in narrow terminal columns.
func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}
