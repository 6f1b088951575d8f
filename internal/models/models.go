package models

import "time"

// User represents an account within the ClipShare platform.
type User struct {
	ID          string
	Username    string
	Email       string
	Password    string
	ProfilePic  string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Video is an uploaded clip owned by a single user.
type Video struct {
	ID        string
	OwnerID   string
	Title     string
	Filename  string
	CreatedAt time.Time
}

// VideoSummary is the view-ready projection rendered on the index and
// profile pages.
type VideoSummary struct {
	ID       string
	Title    string
	Filename string
	Uploader string
	Likes    int
	Dislikes int
}

// Reaction kinds. A user holds at most one reaction per video.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Profile aggregates the data shown on a user's profile page.
type Profile struct {
	User        User
	Followers   int
	Following   int
	IsFollowing bool
	Videos      []VideoSummary
}
