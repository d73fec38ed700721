package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrPostNotFound = errors.New("post not found")

// RecentPostsLimit caps the feed read; there is no pagination beyond it.
const RecentPostsLimit = 50

type PostStore struct {
	posts *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{posts: db.Collection("posts")}
}

// LikeResult reports what a like toggle did.
type LikeResult struct {
	Liked      bool
	LikesCount int
}

// Create validates and inserts a new post. Counts start at zero and the
// like/comment arrays are initialized so later pipeline updates never see
// a missing field.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	if err := models.ValidatePostContent(post.Text, post.Image != "", post.Video != ""); err != nil {
		return err
	}

	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.Text = strings.TrimSpace(post.Text)
	post.Likes = []models.Like{}
	post.Comments = []models.Comment{}
	post.LikesCount = 0
	post.CommentsCount = 0
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := s.posts.InsertOne(ctx, post)
	return err
}

// ListRecent returns the newest posts, capped at RecentPostsLimit, with the
// author identity joined from the users collection for display.
func (s *PostStore) ListRecent(ctx context.Context) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: RecentPostsLimit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike likes the post on behalf of the user, or unlikes it if the
// user already liked it. The whole toggle runs as one pipeline update on
// the server, so likesCount is recomputed from the new array in the same
// write and concurrent toggles on the same post cannot lose each other.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID, username string) (*LikeResult, error) {
	now := time.Now().UTC()
	like := bson.D{{Key: "userId", Value: userID}, {Key: "username", Value: username}}

	// The appended element goes through $literal: in pipeline expression
	// context a bare string starting with "$" would be evaluated as a
	// field path, so a username like "$likes" would poison the document.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{userID, "$likes.userId"}}}},
			{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$likes"},
				{Key: "as", Value: "like"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$like.userId", userID}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				"$likes",
				bson.D{{Key: "$literal", Value: bson.A{like}}},
			}}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "likesCount", Value: bson.D{{Key: "$size", Value: "$likes"}}},
			{Key: "updatedAt", Value: now},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &LikeResult{
		Liked:      updated.IsLikedBy(userID),
		LikesCount: updated.LikesCount,
	}, nil
}

// AddComment appends a comment with a server-assigned id and timestamp.
// The push and the count increment happen in one document update.
func (s *PostStore) AddComment(ctx context.Context, postID, userID primitive.ObjectID, username, text string) (*models.Comment, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, models.ErrEmptyComment
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$inc":  bson.M{"commentsCount": 1},
		"$set":  bson.M{"updatedAt": comment.CreatedAt},
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"commentsCount": 1})

	var updated models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, 0, ErrPostNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	return &comment, updated.CommentsCount, nil
}

// ListComments returns the post's comments in insertion order.
func (s *PostStore) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.FindOne().SetProjection(bson.M{"comments": 1})

	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": postID}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return post.Comments, nil
}

// Get fetches a single post by id.
func (s *PostStore) Get(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
