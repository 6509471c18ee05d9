package models

import "time"

// IsPublic reports whether anyone may read the post at now. The category must
// be loaded for the result to be meaningful.
func (p *Post) IsPublic(now time.Time) bool {
	return p.IsPublished && p.Category.IsPublished && !p.PubDate.After(now)
}

// VisibleTo reports whether viewerID may read the post. Zero means anonymous.
func (p *Post) VisibleTo(viewerID int, now time.Time) bool {
	if viewerID != 0 && p.AuthorID == viewerID {
		return true
	}
	return p.IsPublic(now)
}

// PublishedFor derives the published flag from the publication date on edit:
// a post dated in the future is held back.
func PublishedFor(pubDate, now time.Time) bool {
	return !pubDate.After(now)
}

// Owned is implemented by every record that has an author.
type Owned interface {
	OwnerID() int
}

func (p *Post) OwnerID() int    { return p.AuthorID }
func (c *Comment) OwnerID() int { return c.AuthorID }

// CanMutate reports whether viewerID may edit or delete r.
func CanMutate(r Owned, viewerID int) bool {
	return viewerID != 0 && r.OwnerID() == viewerID
}
