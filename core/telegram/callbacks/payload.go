package callbacks

import "strings"

// Callback data layout used on inline keyboards: "<key>|<payload>".
// telebot prefixes pressed callbacks with "\f", Split handles both shapes.

// Join builds callback data from a key and an optional payload.
func Join(key, payload string) string {
	if payload == "" {
		return key
	}
	return key + "|" + payload
}

// Split parses callback data into key and payload, tolerating the
// "\f" prefix telebot adds on delivery.
func Split(data string) (key, payload string) {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}
