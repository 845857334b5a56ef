package auth

import (
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 8

// PasswordStrong 校验密码复杂度：至少 8 个字符，且包含大写字母、小写字母、数字和符号。
// 符号指既不是单词字符 [A-Za-z0-9_] 也不是空白的字符。
func PasswordStrong(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case r == '_' || unicode.IsSpace(r):
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
