// Package browser opens links returned by the backend in the user's browser.
package browser

import (
	"fmt"
	"io"
	"net/url"

	web "github.com/pkg/browser"
)

func init() {
	// xdg-open chatter would land on top of the TUI.
	web.Stdout = io.Discard
	web.Stderr = io.Discard
}

// Opener opens a URL.
type Opener interface {
	Open(link string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(link string) error

func (f OpenerFunc) Open(link string) error { return f(link) }

// System opens links with the platform's default handler.
var System Opener = OpenerFunc(Open)

// Open launches the default browser for an http(s) link.
func Open(link string) error {
	if err := checkLink(link); err != nil {
		return err
	}
	if err := web.OpenURL(link); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func checkLink(link string) error {
	if link == "" {
		return fmt.Errorf("empty url")
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http and https links are supported", link)
	}
	return nil
}
