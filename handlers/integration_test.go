package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit-cms/config"
	"conduit-cms/models"
	"conduit-cms/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	tokens map[string]string
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (suite *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DBDriver:        "sqlite",
		DatabaseURL:     ":memory:",
		JWTSecret:       "test-secret",
		JWTExpiration:   time.Hour,
		RosterCacheSize: 8,
		RosterCacheTTL:  time.Millisecond,
		CORSOrigins:     []string{"*"},
		AdminEmails:     []string{"root@example.com"},
	}
	logger := zaptest.NewLogger(suite.T())

	db, err := config.InitDB(cfg, logger)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	router, err := routes.NewRouter(db, cfg, logger)
	suite.Require().NoError(err)

	suite.router = router
	suite.tokens = map[string]string{}
}

func (suite *IntegrationTestSuite) request(method, path, user string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := suite.tokens[user]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (suite *IntegrationTestSuite) register(username string, role models.UserRole) {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &auth))
	suite.Require().NotEmpty(auth.Token)
	suite.tokens[username] = auth.Token
}

func (suite *IntegrationTestSuite) createArticle(user, title string, coauthors ...string) models.ArticleResponse {
	w, env := suite.request(http.MethodPost, "/api/v1/articles", user, models.CreateArticleRequest{
		Title:     title,
		Body:      "body",
		TagList:   []string{"cms"},
		CoAuthors: coauthors,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var article models.ArticleResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &article))
	return article
}

func (suite *IntegrationTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestRegisterAndLogin() {
	suite.register("alice", "")

	w, _ := suite.request(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Equal(http.StatusConflict, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, env := suite.request(http.MethodGet, "/api/v1/user", "alice", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var user models.User
	suite.Require().NoError(json.Unmarshal(env.Data, &user))
	suite.Equal("alice", user.Username)
}

func (suite *IntegrationTestSuite) TestValidationError() {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "al",
		"email":    "not-an-email",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validationError", env.CodeType)
}

func (suite *IntegrationTestSuite) TestAuthRequired() {
	w, _ := suite.request(http.MethodPost, "/api/v1/articles", "", models.CreateArticleRequest{Title: "t", Body: "b"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestLockingFlow() {
	suite.register("alice", "")
	suite.register("bob", "")
	suite.register("mallory", "")
	article := suite.createArticle("alice", "Shared draft", "bob@example.com")
	base := "/api/v1/articles/" + article.Slug

	suite.Require().Len(article.Coauthors, 1)
	suite.Equal("bob", article.Coauthors[0].Username)

	w, _ := suite.request(http.MethodPost, base+"/lock", "mallory", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env := suite.request(http.MethodPost, base+"/lock", "alice", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var locked models.ArticleResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &locked))
	suite.True(locked.IsLocked)
	suite.Equal("alice", locked.LockedBy.Username)

	w, env = suite.request(http.MethodPost, base+"/lock", "bob", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(models.CodeArticleLocked, env.CodeType)

	w, env = suite.request(http.MethodGet, base+"/permissions", "bob", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var perms models.PermissionsResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &perms))
	suite.True(perms.CanEdit)
	suite.False(perms.CanEnterEditor)

	title := "Hijacked"
	w, _ = suite.request(http.MethodPut, base, "bob", models.UpdateArticleRequest{Title: &title})
	suite.Equal(http.StatusConflict, w.Code)

	w, _ = suite.request(http.MethodDelete, base+"/lock", "bob", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodDelete, base+"/lock", "alice", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodPut, base, "bob", models.UpdateArticleRequest{Title: &title})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestArticleLifecycle() {
	suite.register("alice", "")
	suite.register("bob", "")
	article := suite.createArticle("alice", "Lifecycle")
	base := "/api/v1/articles/" + article.Slug

	w, env := suite.request(http.MethodPost, base+"/favorite", "bob", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var favorited models.ArticleResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &favorited))
	suite.Equal(1, favorited.FavoritesCount)

	w, env = suite.request(http.MethodPost, base+"/comments", "bob", models.CreateCommentRequest{Body: "great"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var comment models.CommentResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &comment))

	w, env = suite.request(http.MethodGet, "/api/v1/articles?favorited=bob", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list models.ArticleListResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &list))
	suite.Equal(int64(1), list.ArticlesCount)

	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("%s/comments/%d", base, comment.ID), "bob", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodDelete, base, "bob", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodDelete, base, "alice", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodGet, base, "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestFollowArticleAuthor() {
	suite.register("alice", "")
	suite.register("bob", "")
	suite.register("reader", "")
	article := suite.createArticle("alice", "Followable", "bob@example.com")
	base := "/api/v1/articles/" + article.Slug

	w, env := suite.request(http.MethodPost, base+"/authors/bob/follow", "reader", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var profile models.Profile
	suite.Require().NoError(json.Unmarshal(env.Data, &profile))
	suite.True(profile.Following)

	w, env = suite.request(http.MethodGet, base+"/coauthors", "reader", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var coauthors []models.CoauthorResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &coauthors))
	suite.Require().Len(coauthors, 1)
	suite.True(coauthors[0].Following)

	w, _ = suite.request(http.MethodPost, "/api/v1/profiles/reader/follow", "reader", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.request(http.MethodPost, base+"/authors/nobody/follow", "reader", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestTagsAndRoster() {
	suite.register("alice", "")
	suite.createArticle("alice", "Tagged")

	w, env := suite.request(http.MethodGet, "/api/v1/tags", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tags struct {
		Tags []string `json:"tags"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &tags))
	suite.Equal([]string{"cms"}, tags.Tags)

	w, env = suite.request(http.MethodGet, "/api/v1/roster-profiles", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var roster []models.RosterEntry
	suite.Require().NoError(json.Unmarshal(env.Data, &roster))
	suite.Require().Len(roster, 1)
	suite.Equal(1, roster[0].AuthoredArticles)
}

func (suite *IntegrationTestSuite) TestUpdateCurrentUser() {
	suite.register("alice", "")
	suite.register("bob", "")

	bio := "writes about go"
	w, env := suite.request(http.MethodPut, "/api/v1/user", "alice", models.UpdateUserRequest{Bio: &bio})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user models.User
	suite.Require().NoError(json.Unmarshal(env.Data, &user))
	suite.Equal(bio, user.Bio)

	taken := "bob"
	w, _ = suite.request(http.MethodPut, "/api/v1/user", "alice", models.UpdateUserRequest{Username: &taken})
	suite.Equal(http.StatusConflict, w.Code)

	password := "new-password"
	w, _ = suite.request(http.MethodPut, "/api/v1/user", "alice", models.UpdateUserRequest{Password: &password})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: password,
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestAdminTagRefresh() {
	suite.register("alice", "")
	suite.register("root", "")

	w, _ := suite.request(http.MethodPost, "/api/v1/admin/tags/refresh", "alice", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/admin/tags/refresh", "root", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validationError", env.CodeType)
}
