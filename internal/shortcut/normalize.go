package shortcut

import "strings"

// synonyms сворачивает разные написания модификаторов к одному.
var synonyms = map[string]string{
	"ctrl":    "control",
	"cmd":     "super",
	"command": "super",
	"meta":    "super",
	"win":     "super",
	"windows": "super",
	"option":  "alt",
	"opt":     "alt",
}

// Normalize приводит строку горячей клавиши к каноническому виду для сравнения:
// нижний регистр, синонимы модификаторов свёрнуты ("Ctrl+Shift+A" и
// "control+shift+a" дают одно и то же). Повторная нормализация ничего не меняет.
func Normalize(s string) string {
	parts := strings.Split(strings.ToLower(s), "+")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if canon, ok := synonyms[p]; ok {
			p = canon
		}
		out = append(out, p)
	}
	return strings.Join(out, "+")
}
