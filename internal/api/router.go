package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/managers"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db          *db.DB
	users       *managers.UserManager
	blogs       *managers.BlogManager
	posts       *managers.PostManager
	comments    *managers.CommentManager
	permissions *managers.Permissions
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	logger      *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, tokens *auth.TokenService, passwords *auth.PasswordService) *Router {
	users := managers.NewUserManager(database.DB, passwords)
	blogs := managers.NewBlogManager(database.DB)
	posts := managers.NewPostManager(database.DB)

	return &Router{
		db:          database,
		users:       users,
		blogs:       blogs,
		posts:       posts,
		comments:    managers.NewCommentManager(database.DB),
		permissions: managers.NewPermissions(blogs, posts),
		tokens:      tokens,
		passwords:   passwords,
		logger:      logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// Users exposes the user manager for middleware wiring.
func (r *Router) Users() *managers.UserManager {
	return r.users
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.POST("/login", r.login)

	users := engine.Group("/users")
	{
		users.POST("", r.createUser)
		users.GET("", r.listUsers)
		users.GET("/:id", r.getUser)
		users.PATCH("/:id", r.updateUser)
		users.DELETE("/:id", r.deleteUser)
	}

	blogs := engine.Group("/blogs")
	{
		blogs.GET("", r.listBlogs)
		blogs.GET("/:id", r.getBlog)
		blogs.POST("", r.createBlog)
		blogs.PATCH("/:id", r.updateBlog)
		blogs.DELETE("/:id", r.deleteBlog)
		blogs.POST("/:id/authors", r.addBlogAuthor)
		blogs.DELETE("/:id/authors", r.removeBlogAuthor)
	}

	posts := engine.Group("/posts")
	{
		posts.GET("", r.listPosts)
		posts.GET("/:id", r.getPost)
		posts.POST("", r.createPost)
		posts.PATCH("/:id", r.updatePost)
		posts.DELETE("/:id", r.deletePost)
		posts.PATCH("/:id/like", r.toggleLike)
		posts.GET("/:id/comments", r.listComments)
	}

	comments := engine.Group("/comments")
	{
		comments.POST("", r.createComment)
		comments.PATCH("/:id", r.updateComment)
		comments.DELETE("/:id", r.deleteComment)
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"service": "inkwell-api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "inkwell-api",
	})
}
