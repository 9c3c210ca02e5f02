package transport

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a message shown once on the page after a redirect.
type Flash struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func Success(text string) *Flash {
	return &Flash{Kind: FlashSuccess, Text: text}
}

func Failure(text string) *Flash {
	return &Flash{Kind: FlashError, Text: text}
}

func SetFlash(w http.ResponseWriter, f Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads the pending message and expires the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return Flash{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Flash{}, false
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Text == "" {
		return Flash{}, false
	}
	return f, true
}
