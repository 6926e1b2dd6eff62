package domain

// PageSnapshot is one fetched page of group content as the navigation layer
// hands it over: raw text fields pulled from the DOM, not yet normalized.
// NextCursor is empty on the last page.
type PageSnapshot struct {
	URL        string
	Cursor     string
	NextCursor string
	Posts      []RawPost
}

// RawPost carries the unparsed field values of one article element.
type RawPost struct {
	NativeID      string
	PermalinkURL  string
	AuthorText    string
	TextLines     []string
	TimestampText string
	ReactionsText string
	CommentsText  string
	Comments      []RawComment
}

// RawComment mirrors RawPost for a comment element. Addressable is set when
// the source exposes the comment with its own stable anchor, making it a
// valid parent for replies.
type RawComment struct {
	NativeID      string
	AuthorText    string
	TextLines     []string
	TimestampText string
	ReactionsText string
	Addressable   bool
	Replies       []RawComment
}
