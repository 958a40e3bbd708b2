package api

import (
	"Ripple/internal/api/middleware"
	"Ripple/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/:user_id/profile", group.UserHandler.GetUserProfile)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
			}
		}

		usersGroup := apiGroup.Group("/users")
		usersGroup.Use(middleware.AuthMiddleware())
		{
			usersGroup.GET("", group.UserHandler.GetAllUsers)
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.GET("/followers/count/:user_id", group.UserFollowHandler.GetFollowerCount)
			userFollowGroup.GET("/followings/count/:user_id", group.UserFollowHandler.GetFollowingCount)

			authGroup := userFollowGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/isfollow/:following_id", group.UserFollowHandler.IsFollowing)
				authGroup.POST("/follow/:following_id", group.UserFollowHandler.Follow)
				authGroup.DELETE("/follow/:following_id", group.UserFollowHandler.Unfollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(middleware.AuthMiddleware())
		{
			postGroup.POST("", group.PostHandler.CreatePost)
			postGroup.GET("/feed", group.PostHandler.GetFeed)
			postGroup.GET("/list/:user_id", group.PostHandler.GetPostsByUser)
			postGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
		}

		postActionGroup := apiGroup.Group("/post/action")
		{
			postActionGroup.GET("/comments/:post_id", group.PostActionHandler.GetComments)

			authActionGroup := postActionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:post_id", group.PostActionHandler.LikePost)
				authActionGroup.DELETE("/likes/:post_id", group.PostActionHandler.CancelLikePost)
				authActionGroup.POST("/comments", group.PostActionHandler.CreateComment)
				authActionGroup.DELETE("/comments/:comment_id", group.PostActionHandler.DeleteComment)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			// WebSocket 握手通过 query token 自行鉴权
			imGroup.GET("", group.WSHandler.Connect)

			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send", group.IMHandler.SendMessage)
				authGroup.GET("/conversations", group.IMHandler.GetConversationList)
				authGroup.GET("/thread/:peer_id", group.IMHandler.OpenThread)
				authGroup.POST("/typing", group.IMHandler.NotifyTyping)
			}
		}
	}

	return r
}
