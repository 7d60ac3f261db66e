package domain

import "errors"

var (
	// ErrCompletionUnavailable is returned when no completion backend is configured
	ErrCompletionUnavailable = errors.New("completion backend unavailable")

	// ErrCompletionFailed is returned when a completion request fails
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrNoSpeech is returned when the transcriber captures no usable speech
	ErrNoSpeech = errors.New("no speech detected")

	// ErrVoiceUnavailable is returned when no voice backend is wired
	ErrVoiceUnavailable = errors.New("voice backend unavailable")
)
