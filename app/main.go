package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	mysqlRepo "github.com/qalamhq/qalam/internal/repository/mysql"
	"github.com/qalamhq/qalam/internal/repository/mysql/model"
	redisRepo "github.com/qalamhq/qalam/internal/repository/redis"
	"github.com/qalamhq/qalam/internal/rest"
	"github.com/qalamhq/qalam/internal/rest/middleware"
	"github.com/qalamhq/qalam/internal/usecase/engagement"
	"github.com/qalamhq/qalam/internal/usecase/post"
	"github.com/qalamhq/qalam/internal/usecase/user"
	"github.com/qalamhq/qalam/internal/workers"
)

const (
	defaultTimeout          = 30
	defaultAddress          = ":9090"
	defaultRedisDB          = 0
	defaultReconcileMinutes = 10
	defaultUploadDir        = "uploads"
	dbMaxRetry              = 10
	dbRetryIntervalSec      = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, relying on environment variables")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < dbMaxRetry; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	err = db.AutoMigrate(&model.User{}, &model.Post{}, &model.PostLike{}, &model.PostView{})
	if err != nil {
		log.Fatal("failed to run database migrations: ", err)
	}

	// prepare redis, used for the token revocation list
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisPass := os.Getenv("REDIS_PASS")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		log.Println("failed to parse redis DB, using default")
		redisDB = defaultRedisDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisHost + ":" + redisPort,
		Password: redisPass,
		DB:       redisDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the redis connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to redis", err)
		return
	}

	// prepare gin
	route := gin.Default()
	origins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	route.Use(middleware.CORS(origins))
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	postRepo := mysqlRepo.NewPostRepository(db)
	engagementRepo := mysqlRepo.NewEngagementRepository(db)
	tokenStore := redisRepo.NewTokenStore(client)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconcileStr := os.Getenv("RECONCILE_INTERVAL_MINUTES")
	reconcileMinutes, err := strconv.Atoi(reconcileStr)
	if err != nil {
		reconcileMinutes = defaultReconcileMinutes
	}
	reconciler := workers.NewReconcileViewsWorker(engagementRepo, time.Duration(reconcileMinutes)*time.Minute)
	go reconciler.Start(ctx)

	// Build service layer
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	jwtTTLStr := os.Getenv("JWT_EXPIRE_HOURS")
	jwtTTL, err := strconv.Atoi(jwtTTLStr)
	if err != nil {
		log.Println("failed to parse JWT TTL, using default 24 hours")
		jwtTTL = 24
	}
	postSvc := post.NewService(postRepo, userRepo)
	engagementSvc := engagement.NewService(engagementRepo)
	userSvc := user.NewService(userRepo, tokenStore, jwtSecret, time.Duration(jwtTTL)*time.Hour)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = defaultUploadDir
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatal("failed to create upload directory: ", err)
	}

	postHandler := rest.NewPostHandler(postSvc, engagementSvc)
	userHandler := rest.NewUserHandler(userSvc)
	uploadHandler := rest.NewUploadHandler(uploadDir, os.Getenv("PUBLIC_BASE_URL"))

	authMiddleware := middleware.Auth(jwtSecret, tokenStore)

	// Register routes
	route.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	route.Static("/uploads", uploadDir)

	api := route.Group("/api")

	api.POST("/auth/register", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)

	api.GET("/posts", postHandler.Fetch)
	api.GET("/posts/:id", postHandler.GetByID)
	api.GET("/posts/:id/likes", postHandler.LikeCount)
	api.POST("/posts/:id/share", postHandler.Share)
	api.GET("/users/:id/posts", postHandler.FetchByAuthor)

	authorized := api.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.POST("/posts", postHandler.Store)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)

		authorized.GET("/posts/:id/liked", postHandler.LikeStatus)
		authorized.POST("/posts/:id/like", postHandler.ToggleLike)
		authorized.DELETE("/posts/:id/like", postHandler.Unlike)

		authorized.GET("/posts/:id/analytics", postHandler.Analytics)
		authorized.GET("/posts/:id/likes/analytics", postHandler.LikeAnalytics)

		authorized.GET("/auth/verify", userHandler.Verify)
		authorized.PUT("/auth/profile", userHandler.UpdateProfile)
		authorized.POST("/auth/logout", userHandler.Logout)

		authorized.POST("/upload", uploadHandler.Upload)
	}

	// Start server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
