package domain

import "strings"

// TokenSignature извлекает из JWT его третью часть (подпись).
// Именно подпись хранится в allow-list активных сессий: её достаточно,
// чтобы однозначно восстановить идентичность токена, и она короче целого JWT.
// Для токена не из трёх частей возвращается пустая строка.
func TokenSignature(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}
