package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPostTextLen caps post text length, in runes.
const MaxPostTextLen = 500

var (
	ErrEmptyPost    = errors.New("post must contain text, image, or video")
	ErrTextTooLong  = errors.New("post text exceeds 500 characters")
	ErrEmptyComment = errors.New("comment text is required")
)

// Like records that a user liked a post. The username is a snapshot taken
// at like time and is never refreshed if the user renames.
type Like struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Username string             `bson:"username" json:"username"`
}

// Comment is embedded in its post and is never addressable on its own.
// Comments only ever grow: there is no edit or delete.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Username      string             `bson:"username" json:"username"`
	Text          string             `bson:"text" json:"text"`
	Image         string             `bson:"image" json:"image"`
	ImagePublicID string             `bson:"imagePublicId" json:"imagePublicId"`
	Video         string             `bson:"video" json:"video"`
	VideoPublicID string             `bson:"videoPublicId" json:"videoPublicId"`
	Likes         []Like             `bson:"likes" json:"likes"`
	Comments      []Comment          `bson:"comments" json:"comments"`
	LikesCount    int                `bson:"likesCount" json:"likesCount"`
	CommentsCount int                `bson:"commentsCount" json:"commentsCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
	Author        *Author            `bson:"author,omitempty" json:"author,omitempty"`
}

// Author is the display identity joined from the users collection on reads.
type Author struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
}

// ValidatePostContent enforces the one content rule shared by the API
// boundary and the store: a post needs text, an image, or a video.
func ValidatePostContent(text string, hasImage, hasVideo bool) error {
	text = strings.TrimSpace(text)
	if text == "" && !hasImage && !hasVideo {
		return ErrEmptyPost
	}
	if len([]rune(text)) > MaxPostTextLen {
		return ErrTextTooLong
	}
	return nil
}

func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
