package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnopqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "!@#$%^&*()-_=+[]{};:,.?"
	allChars     = upperChars + lowerChars + digitChars + specialChars

	MaxLength = 128
)

// GenerateStrong возвращает случайный пароль, удовлетворяющий всем шести
// требованиям. Длина ниже MinLength поднимается до MinLength.
func GenerateStrong(length int) (string, error) {
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		return "", fmt.Errorf("password length %d exceeds %d", length, MaxLength)
	}
	for {
		pw, err := generate(length)
		if err != nil {
			return "", err
		}
		if Check(pw).All() {
			return pw, nil
		}
	}
}

func generate(length int) (string, error) {
	buf := make([]byte, 0, length)
	// по одному символу каждого класса, остальное: из общего алфавита
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := pick(allChars)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	// Fisher-Yates на crypto/rand
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := int(j.Int64())
		buf[i], buf[k] = buf[k], buf[i]
	}
	return string(buf), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
