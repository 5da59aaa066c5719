package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/dto"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns every comment the current user may see
func (h *CommentHandler) ListComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := idParam(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), commentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateCommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), user, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "created_task_comment", dto.ToCommentDTO(*comment))
}

// UpdateComment returns the comment itself rather than an envelope.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Comment.Null {
		apierrors.BadRequest(c, "comment may not be null.")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), user, commentID, services.UpdateCommentInput{
		Comment: req.Comment.Ptr(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.commentService.DeleteComment(c.Request.Context(), user, commentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":          dto.ResultSuccess,
		"message":         "Task comment successfully deleted.",
		"deleted_comment": deleted.Comment,
		"deleted_by":      deleted.DeletedBy,
		"status_code":     http.StatusOK,
	})
}
