package view

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Kind colours the banner.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is the single active banner.
type Message struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

const bannerKey = "banner"

// Feedback keeps at most one message, expiring after ttl. Setting a new
// message replaces the current one and restarts its lifetime.
type Feedback struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewFeedback(ttl time.Duration) *Feedback {
	return &Feedback{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (f *Feedback) Set(kind Kind, text string) Message {
	msg := Message{Kind: kind, Text: text, ExpiresAt: f.now().Add(f.ttl)}
	f.cache.Set(bannerKey, msg, f.ttl)
	return msg
}

func (f *Feedback) Success(text string) Message { return f.Set(KindSuccess, text) }
func (f *Feedback) Error(text string) Message   { return f.Set(KindError, text) }
func (f *Feedback) Info(text string) Message    { return f.Set(KindInfo, text) }

// Current returns the active message, if any.
func (f *Feedback) Current() (Message, bool) {
	v, ok := f.cache.Get(bannerKey)
	if !ok {
		return Message{}, false
	}
	return v.(Message), true
}

// Clear drops the active message. Actions call it before they start so an
// old banner never sits next to a running action.
func (f *Feedback) Clear() {
	f.cache.Delete(bannerKey)
}

func (f *Feedback) TTL() time.Duration {
	return f.ttl
}
