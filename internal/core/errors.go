package core

import (
	"errors"

	"github.com/iTschetter/PhishingDetection/internal/verdict"
)

// ErrUpstreamFailure is returned when the model or the item could not be reached
var ErrUpstreamFailure = verdict.ErrUpstreamFailure

// ErrNoItem is returned by an ItemSource when nothing is selected
var ErrNoItem = errors.New("no item selected")
