package domain

import "errors"

var (
	// ErrEmptyText is returned when a request carries no analysable text.
	ErrEmptyText = errors.New("domain: text is empty")

	// ErrUnknownEmotion indicates an emotion label with no genre mapping.
	ErrUnknownEmotion = errors.New("domain: unknown emotion")

	// ErrRemoteDisabled indicates the remote recommendation provider has no credentials.
	ErrRemoteDisabled = errors.New("domain: remote provider disabled")

	// ErrNoTracks indicates the remote provider answered without any tracks.
	ErrNoTracks = errors.New("domain: no tracks returned")

	// ErrCatalogueUnavailable indicates the fallback catalogue could not be read.
	ErrCatalogueUnavailable = errors.New("domain: catalogue unavailable")
)
