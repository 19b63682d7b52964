package models

import "github.com/slack-go/slack"

// Response is a reply ready to post: fallback text plus rich blocks
type Response struct {
	Text   string
	Blocks []slack.Block
}
