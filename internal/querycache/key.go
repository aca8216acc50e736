package querycache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Key: структурный ключ кэша, кортеж частей; первая часть содержит имя ресурса.
// Части приводятся к каноничному JSON, поэтому равные фильтры дают равные ключи.
type Key struct {
	parts []string
}

const sep = "\x1f"

func NewKey(resource string, parts ...any) Key {
	k := Key{parts: make([]string, 0, len(parts)+1)}
	k.parts = append(k.parts, canon(resource))
	for _, p := range parts {
		k.parts = append(k.parts, canon(p))
	}
	return k
}

// Append возвращает новый, более узкий ключ; исходный не меняется.
func (k Key) Append(parts ...any) Key {
	out := Key{parts: make([]string, 0, len(k.parts)+len(parts))}
	out.parts = append(out.parts, k.parts...)
	for _, p := range parts {
		out.parts = append(out.parts, canon(p))
	}
	return out
}

func (k Key) Len() int { return len(k.parts) }

func (k Key) IsZero() bool { return len(k.parts) == 0 }

func (k Key) Equal(o Key) bool {
	if len(k.parts) != len(o.parts) {
		return false
	}
	for i := range k.parts {
		if k.parts[i] != o.parts[i] {
			return false
		}
	}
	return true
}

// HasPrefix: почастевое сравнение; пустой префикс совпадает со всем.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.parts) > len(k.parts) {
		return false
	}
	for i := range prefix.parts {
		if k.parts[i] != prefix.parts[i] {
			return false
		}
	}
	return true
}

func (k Key) Resource() string {
	if len(k.parts) == 0 {
		return ""
	}
	var s string
	_ = json.Unmarshal([]byte(k.parts[0]), &s)
	return s
}

// String: стабильное представление, годится как ключ map/LRU.
func (k Key) String() string { return strings.Join(k.parts, sep) }

// Debug возвращает человекочитаемый вид для логов: ["staff","list",{"status":"active"}]
func (k Key) Debug() string { return "[" + strings.Join(k.parts, ",") + "]" }

func (k Key) MarshalJSON() ([]byte, error) { return []byte(k.Debug()), nil }

func canon(v any) string {
	if v == nil {
		return "null"
	}
	// указатель на фильтр и сам фильтр должны давать один ключ
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return string(b)
}
