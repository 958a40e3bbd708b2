package wire

import (
	"Ripple/internal/api"
	"Ripple/internal/api/handler"
	"Ripple/internal/job"
	"Ripple/internal/pkg/cron"
	pkgmongo "Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/ws"
	"Ripple/internal/repository"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	postRepo := repository.NewPostRepo(db)
	postActionRepo := repository.NewPostActionRepo(db)
	messageRepo := pkgmongo.NewMessageRepo(mongoDB)

	registry := ws.NewRegistry()

	userService := service.NewUserService(userRepo, userFollowRepo)
	userFollowService := service.NewUserFollowService(userFollowRepo, userRepo)
	postService := service.NewPostService(postRepo, postActionRepo, registry)
	postActionService := service.NewPostActionService(postActionRepo, postRepo, userRepo)
	imService := service.NewIMService(messageRepo, userRepo, registry)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		IMHandler:         handler.NewIMHandler(imService),
		WSHandler:         handler.NewWsHandler(imService, registry),
	}

	router := api.SetupRouter(handlers)

	counterSyncJob := job.NewCounterSyncJob(postRepo, postActionRepo)
	cronMgr := cron.NewCronManager(counterSyncJob)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
