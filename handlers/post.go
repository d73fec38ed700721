package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"socialapp/media"
	"socialapp/models"
	"socialapp/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore is what the post handlers need from persistence.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	ListRecent(ctx context.Context) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID, username string) (*store.LikeResult, error)
	AddComment(ctx context.Context, postID, userID primitive.ObjectID, username, text string) (*models.Comment, int, error)
	ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
}

type PostHandler struct {
	store    PostStore
	uploader media.Service
}

func NewPostHandler(store PostStore, uploader media.Service) *PostHandler {
	return &PostHandler{store: store, uploader: uploader}
}

type CommentRequest struct {
	Text string `json:"text"`
}

// CreatePost accepts multipart form data: a "text" field and an optional
// single file under "image" (videos arrive through the same field and are
// classified by content type). The upload must succeed before the post is
// saved; if the save then fails, the stored media is destroyed so no
// orphaned object outlives the request.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	// Uploads are the slow path, give them headroom.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	text := strings.TrimSpace(c.PostForm("text"))

	var upload *media.Result
	file, header, err := c.Request.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()

		upload, err = h.uploader.Upload(ctx, file, header)
		if err != nil {
			var ue *media.UploadError
			if errors.As(err, &ue) {
				c.JSON(ue.Status, gin.H{"message": ue.Reason})
				return
			}
			log.Printf("CreatePost upload error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Media upload failed"})
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No file attached; the post may still carry text.
	default:
		// A broken part must not silently degrade into a text-only post.
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid media upload"})
		return
	}

	hasImage := upload != nil && !upload.IsVideo
	hasVideo := upload != nil && upload.IsVideo
	if err := models.ValidatePostContent(text, hasImage, hasVideo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": contentErrorMessage(err)})
		return
	}

	post := models.Post{
		UserID:   userID,
		Username: username,
		Text:     text,
	}
	if hasImage {
		post.Image = upload.URL
		post.ImagePublicID = upload.PublicID
	}
	if hasVideo {
		post.Video = upload.URL
		post.VideoPublicID = upload.PublicID
	}

	if err := h.store.Create(ctx, &post); err != nil {
		if upload != nil {
			if destroyErr := h.uploader.Destroy(ctx, upload.PublicID, upload.IsVideo); destroyErr != nil {
				log.Printf("CreatePost media cleanup error: %v", destroyErr)
			}
		}
		if errors.Is(err, models.ErrEmptyPost) || errors.Is(err, models.ErrTextTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"message": contentErrorMessage(err)})
			return
		}
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error creating post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.store.ListRecent(ctx)
	if err != nil {
		log.Printf("GetPosts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error fetching posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// LikePost toggles the caller's like on the post: first call likes, the
// next unlikes. There is no separate unlike endpoint.
func (h *PostHandler) LikePost(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.store.ToggleLike(ctx, postID, userID, username)
	if errors.Is(err, store.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("LikePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error liking post"})
		return
	}

	message := "Post liked"
	if !result.Liked {
		message = "Post unliked"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"likesCount": result.LikesCount,
		"isLiked":    result.Liked,
	})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	comment, commentsCount, err := h.store.AddComment(ctx, postID, userID, username, req.Text)
	if errors.Is(err, store.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if errors.Is(err, models.ErrEmptyComment) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}
	if err != nil {
		log.Printf("AddComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error adding comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Comment added successfully",
		"comment":       comment,
		"commentsCount": commentsCount,
	})
}

func (h *PostHandler) GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	comments, err := h.store.ListComments(ctx, postID)
	if errors.Is(err, store.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("GetComments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error fetching comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func identity(c *gin.Context) (primitive.ObjectID, string, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	return userID, c.GetString("username"), true
}

func contentErrorMessage(err error) string {
	if errors.Is(err, models.ErrTextTooLong) {
		return "Post text must be 500 characters or fewer"
	}
	return "Post must contain text, image, or video"
}
