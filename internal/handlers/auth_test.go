package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/taskforge/task-manager-api/internal/dto"
)

type AuthHandlerTestSuite struct {
	handlerSuite
}

type loginResponse struct {
	Result     string      `json:"result"`
	User       dto.UserDTO `json:"user"`
	Token      string      `json:"token"`
	StatusCode int         `json:"status_code"`
}

func (s *AuthHandlerTestSuite) login(username, password string) *httptest.ResponseRecorder {
	return s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

func (s *AuthHandlerTestSuite) TestLogin_Success() {
	w := s.login("manager", testPassword)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp loginResponse
	s.decode(w, &resp)
	s.Equal(dto.ResultSuccess, resp.Result)
	s.Equal(s.manager.ID, resp.User.ID)
	s.Equal("manager", resp.User.Username)
	s.NotEmpty(resp.Token)
	s.NotEmpty(w.Result().Cookies(), "expected session cookie to be set")
}

func (s *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	w := s.login("manager", "wrong")
	s.assertError(w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func (s *AuthHandlerTestSuite) TestLogin_MissingFields() {
	w := s.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "manager"}, nil)
	s.assertError(w, http.StatusBadRequest, "INVALID_INPUT")
}

func (s *AuthHandlerTestSuite) TestSessionCookieAuthenticates() {
	w := s.login("member", testPassword)
	s.Require().Equal(http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)

	s.Require().Equal(http.StatusOK, me.Code, me.Body.String())
	var user dto.UserDTO
	s.decode(me, &user)
	s.Equal(s.member.ID, user.ID)
}

func (s *AuthHandlerTestSuite) TestTokenSchemeAuthenticates() {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token "+s.tokens[s.admin.ID])
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal("admin", user.Username)
	s.Equal("admin", string(user.Role))
}

func (s *AuthHandlerTestSuite) TestMe_Unauthenticated() {
	w := s.request(http.MethodGet, "/api/auth/me", nil, nil)
	s.assertError(w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func (s *AuthHandlerTestSuite) TestMe_MalformedHeader() {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.assertError(w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func (s *AuthHandlerTestSuite) TestMe_TamperedToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+s.tokens[s.admin.ID]+"x")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.assertError(w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func (s *AuthHandlerTestSuite) TestLogout_RevokesToken() {
	w := s.request(http.MethodPost, "/api/auth/logout", nil, s.manager)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.denylist.revoked, 1)

	w = s.request(http.MethodGet, "/api/auth/me", nil, s.manager)
	s.assertError(w, http.StatusUnauthorized, "UNAUTHORIZED")

	// Other users' tokens keep working.
	w = s.request(http.MethodGet, "/api/auth/me", nil, s.member)
	s.Equal(http.StatusOK, w.Code)
}

func (s *AuthHandlerTestSuite) TestRoleIsReadOnEveryRequest() {
	s.Require().NoError(s.db.Model(s.member).Update("role", "intern").Error)

	w := s.request(http.MethodGet, "/api/tasks", nil, s.member)
	s.assertError(w, http.StatusForbidden, "FORBIDDEN")
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
