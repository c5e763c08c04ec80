package collect

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedList is matched by every FeedListError.
	ErrFeedList = errors.New("feed list error")

	// ErrFeed is matched by every FeedError.
	ErrFeed = errors.New("feed error")

	// ErrDocument is matched by every DocumentError.
	ErrDocument = errors.New("document error")
)

// FeedListError means the root feed-list document could not be fetched or parsed.
type FeedListError struct {
	URI string
	Err error
}

func (e *FeedListError) Error() string {
	return fmt.Sprintf("feed list %q: %v", e.URI, e.Err)
}

func (e *FeedListError) Unwrap() error {
	return e.Err
}

func (e *FeedListError) Is(target error) bool {
	return target == ErrFeedList
}

// FeedError means a single feed could not be fetched or parsed.
type FeedError struct {
	URL string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %q: %v", e.URL, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

func (e *FeedError) Is(target error) bool {
	return target == ErrFeed
}

// DocumentError means a single article could not be fetched or tokenized.
type DocumentError struct {
	URL string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %q: %v", e.URL, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrDocument
}
