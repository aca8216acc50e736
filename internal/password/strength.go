// Package password оценивает надёжность пароля и генерирует стойкие пароли
// для форм создания сотрудников.
package password

import (
	"strings"
	"unicode"
)

const (
	MinLength    = 12
	strongLength = 16
)

// Requirements: шесть независимых проверок.
type Requirements struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Digit     bool `json:"digit"`
	Special   bool `json:"special"`
	NotCommon bool `json:"not_common"`
}

func (r Requirements) Met() int {
	n := 0
	for _, ok := range []bool{r.Length, r.Uppercase, r.Lowercase, r.Digit, r.Special, r.NotCommon} {
		if ok {
			n++
		}
	}
	return n
}

func (r Requirements) All() bool { return r.Met() == 6 }

// Strength: результат оценки, готовый к показу (label/color/percentage).
type Strength struct {
	Score        int          `json:"score"` // 0..4
	Label        string       `json:"label"`
	Color        string       `json:"color"`
	Percentage   int          `json:"percentage"`
	Requirements Requirements `json:"requirements"`
}

var levels = [...]struct {
	label string
	color string
}{
	{"Very Weak", "#ef4444"},
	{"Weak", "#f97316"},
	{"Fair", "#eab308"},
	{"Good", "#22c55e"},
	{"Strong", "#16a34a"},
}

func Check(pw string) Requirements {
	var r Requirements
	r.Length = len([]rune(pw)) >= MinLength
	for _, c := range pw {
		switch {
		case unicode.IsUpper(c):
			r.Uppercase = true
		case unicode.IsLower(c):
			r.Lowercase = true
		case unicode.IsDigit(c):
			r.Digit = true
		case !unicode.IsSpace(c) && !unicode.IsLetter(c):
			r.Special = true
		}
	}
	r.NotCommon = pw != "" && !IsCommon(pw)
	return r
}

// CalculateStrength детерминированно переводит выполненные требования и длину в 0..4.
func CalculateStrength(pw string) Strength {
	req := Check(pw)
	met := req.Met()

	var score int
	switch {
	case met <= 2:
		score = 0
	case met == 3:
		score = 1
	case met == 4:
		score = 2
	case met == 5:
		score = 3
	default:
		score = 3
		if len([]rune(pw)) >= strongLength {
			score = 4
		}
	}
	// популярный пароль не бывает выше "Weak"
	if !req.NotCommon && score > 1 {
		score = 1
	}

	pct := (score + 1) * 20
	if pw == "" {
		pct = 0
	}
	return Strength{
		Score:        score,
		Label:        levels[score].label,
		Color:        levels[score].color,
		Percentage:   pct,
		Requirements: req,
	}
}

// IsCommon сверяет пароль со статическим списком (без учёта регистра).
func IsCommon(pw string) bool {
	_, ok := commonPasswords[strings.ToLower(pw)]
	return ok
}

var commonPasswords = func() map[string]struct{} {
	list := []string{
		"password", "password1", "password12", "password123", "password1234",
		"123456", "12345678", "123456789", "1234567890", "qwerty", "qwerty123",
		"qwertyuiop", "abc123", "111111", "123123", "letmein", "welcome",
		"welcome123", "admin", "admin123", "administrator", "iloveyou",
		"monkey", "dragon", "football", "baseball", "sunshine", "princess",
		"master", "shadow", "superman", "trustno1", "passw0rd", "p@ssw0rd",
		"p@ssword123", "changeme", "security", "security123", "guard123",
		"1q2w3e4r", "zaq12wsx", "qazwsx", "000000", "654321", "access",
	}
	m := make(map[string]struct{}, len(list))
	for _, p := range list {
		m[p] = struct{}{}
	}
	return m
}()
