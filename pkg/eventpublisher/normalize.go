package eventpublisher

import "strings"

const typePrefix = "com.supportdeck."

var typeReplacer = strings.NewReplacer(":", ".", " ", "_", "/", ".")

func normalizeProvider(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeType(provider, value string) string {
	v := typeReplacer.Replace(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		v = "received"
	}
	if strings.HasPrefix(v, typePrefix) {
		return v
	}
	return typePrefix + provider + "." + v
}
