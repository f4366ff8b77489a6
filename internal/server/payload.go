package server

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeBase64 accepts plain base64 or a data URL. The MIME type of a
// data URL is returned when it carries one.
func decodeBase64(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var mime string
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("data URL has no payload")
		}
		meta := s[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("data URL is not base64 encoded")
		}
		mime = strings.TrimSuffix(meta, ";base64")
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip padding or use the URL alphabet.
		if raw, rerr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rerr == nil {
			return raw, mime, nil
		}
		if raw, rerr := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "=")); rerr == nil {
			return raw, mime, nil
		}
		return nil, "", err
	}
	return data, mime, nil
}
