package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/taskforge/task-manager-api/internal/dto"
	"github.com/taskforge/task-manager-api/internal/models"
)

// CommentHandlerTestSuite covers the /api/task-comments routes
type CommentHandlerTestSuite struct {
	handlerSuite
	task *models.Task
}

func (s *CommentHandlerTestSuite) SetupTest() {
	s.handlerSuite.SetupTest()
	s.task = s.createTask(s.manager, "Discussed", s.member.ID)
}

func commentPath(id uint64) string {
	return fmt.Sprintf("/api/task-comments/%d", id)
}

func (s *CommentHandlerTestSuite) TestCreateComment_Assignee() {
	w := s.request(http.MethodPost, "/api/task-comments", map[string]any{
		"task_id": s.task.ID,
		"comment": "Started",
	}, s.member)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Result     string         `json:"result"`
		Created    dto.CommentDTO `json:"created_task_comment"`
		StatusCode int            `json:"status_code"`
	}
	s.decode(w, &resp)
	s.Equal(dto.ResultSuccess, resp.Result)
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(s.task.ID, resp.Created.TaskID)
	s.Equal(s.member.ID, resp.Created.CreatorID)
	s.Equal("Started", resp.Created.Comment)
}

func (s *CommentHandlerTestSuite) TestCreateComment_WhoMayComment() {
	otherManager := s.createUser("manager2", models.RoleManager)

	cases := []struct {
		user   *models.User
		status int
	}{
		{s.admin, http.StatusCreated},
		{s.manager, http.StatusCreated},
		{s.member, http.StatusCreated},
		{s.member2, http.StatusForbidden},
		{otherManager, http.StatusForbidden},
	}

	for _, tc := range cases {
		w := s.request(http.MethodPost, "/api/task-comments", map[string]any{
			"task_id": s.task.ID,
			"comment": "from " + tc.user.Username,
		}, tc.user)
		s.Equal(tc.status, w.Code, tc.user.Username)
	}
	s.Equal(int64(3), s.commentCount())
}

func (s *CommentHandlerTestSuite) TestCreateComment_Validation() {
	for _, body := range []map[string]any{
		{"task_id": 9999, "comment": "orphan"},
		{"task_id": s.task.ID, "comment": " "},
		{"comment": "no task"},
	} {
		w := s.request(http.MethodPost, "/api/task-comments", body, s.admin)
		s.assertError(w, http.StatusBadRequest, "INVALID_INPUT")
	}
	s.Equal(int64(0), s.commentCount())
}

func (s *CommentHandlerTestSuite) TestListComments_OwnOnlyForNonAdmins() {
	byMember := s.createComment(s.member, s.task.ID, "member note")
	byManager := s.createComment(s.manager, s.task.ID, "manager note")

	list := func(user *models.User) []uint64 {
		w := s.request(http.MethodGet, "/api/task-comments", nil, user)
		s.Require().Equal(http.StatusOK, w.Code)

		var comments []dto.CommentDTO
		s.decode(w, &comments)
		ids := make([]uint64, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		return ids
	}

	s.Equal([]uint64{byMember.ID, byManager.ID}, list(s.admin))
	s.Equal([]uint64{byManager.ID}, list(s.manager))
	s.Equal([]uint64{byMember.ID}, list(s.member))
	s.Equal([]uint64{}, list(s.member2))
}

func (s *CommentHandlerTestSuite) TestGetComment() {
	comment := s.createComment(s.member, s.task.ID, "look")

	w := s.request(http.MethodGet, commentPath(comment.ID), nil, s.member2)
	s.Require().Equal(http.StatusOK, w.Code)

	var got dto.CommentDTO
	s.decode(w, &got)
	s.Equal("look", got.Comment)

	w = s.request(http.MethodGet, commentPath(9999), nil, s.admin)
	env := s.assertError(w, http.StatusNotFound, "NOT_FOUND")
	s.Equal("Task comment not found.", env.Message)
}

func (s *CommentHandlerTestSuite) TestUpdateComment_CreatorOnly() {
	comment := s.createComment(s.member, s.task.ID, "draft")

	// Admins may delete any comment but may not edit one.
	w := s.request(http.MethodPatch, commentPath(comment.ID), map[string]any{"comment": "admin edit"}, s.admin)
	s.assertError(w, http.StatusForbidden, "FORBIDDEN")

	w = s.request(http.MethodPatch, commentPath(comment.ID), map[string]any{"comment": "final"}, s.member)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var got dto.CommentDTO
	s.decode(w, &got)
	s.Equal(comment.ID, got.ID)
	s.Equal("final", got.Comment)
}

func (s *CommentHandlerTestSuite) TestUpdateComment_Validation() {
	comment := s.createComment(s.member, s.task.ID, "draft")

	for _, body := range []string{`{"comment": null}`, `{"comment": ""}`, `{"comment": 5}`} {
		w := s.request(http.MethodPatch, commentPath(comment.ID), body, s.member)
		s.assertError(w, http.StatusBadRequest, "INVALID_INPUT")
	}
}

func (s *CommentHandlerTestSuite) TestDeleteComment_ManagerForbiddenAdminAllowed() {
	comment := s.createComment(s.member, s.task.ID, "to remove")
	before := s.commentCount()

	w := s.request(http.MethodDelete, commentPath(comment.ID), nil, s.manager)
	s.assertError(w, http.StatusForbidden, "FORBIDDEN")
	s.Equal(before, s.commentCount())

	w = s.request(http.MethodDelete, commentPath(comment.ID), nil, s.admin)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result         string `json:"result"`
		Message        string `json:"message"`
		DeletedComment string `json:"deleted_comment"`
		DeletedBy      string `json:"deleted_by"`
		StatusCode     int    `json:"status_code"`
	}
	s.decode(w, &resp)
	s.Equal(dto.ResultSuccess, resp.Result)
	s.Equal("Task comment successfully deleted.", resp.Message)
	s.Equal("to remove", resp.DeletedComment)
	s.Equal("admin", resp.DeletedBy)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(before-1, s.commentCount())

	w = s.request(http.MethodDelete, commentPath(comment.ID), nil, s.admin)
	s.assertError(w, http.StatusNotFound, "NOT_FOUND")
}

func TestCommentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CommentHandlerTestSuite))
}
