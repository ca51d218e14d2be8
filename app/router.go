// Package app wires the HTTP surface together: router, middleware and the
// services behind every endpoint
package app

import (
	"fmt"
	"time"

	"discoverlx/poi-api/app/content"
	"discoverlx/poi-api/app/root"
	"discoverlx/poi-api/app/user"
	"discoverlx/poi-api/db"
	"discoverlx/poi-api/internal"
	"discoverlx/poi-api/internal/account"
	contentsvc "discoverlx/poi-api/internal/content"
	"discoverlx/poi-api/internal/service"
	"discoverlx/poi-api/internal/storage"
	"discoverlx/poi-api/pkg/middleware"
	"discoverlx/poi-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	database, err := db.New(viper.GetString("db.path"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	st, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage, %w", err)
	}
	d.Store = st

	secret := viper.GetString("app.secret_key")

	codec := security.NewTokenCodec(secret)
	argon := security.NewArgon()
	mailer := service.NewMailer(
		viper.GetString("smtp.host"),
		viper.GetInt("smtp.port"),
		viper.GetString("smtp.email"),
		viper.GetString("smtp.password"),
	)

	d.Sessions = security.NewSessionGate(secret)
	d.Accounts = account.NewService(database, codec, argon, mailer, st, viper.GetString("app.base_url"))
	d.Contents = contentsvc.NewService(database, st)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(database, d.Sessions)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// GET /validate/:token		-> Validates an email through the mailed link
	router.GET("/validate/:token", func(c *gin.Context) { user.Validate(c, d) })

	// GET /media/:key		-> Serves a stored media file
	router.GET("/media/:key", func(c *gin.Context) { content.Serve(c, d) })

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/search-location	-> Acknowledges a geocoding query
		m.GET("/search-location", root.SearchLocation)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register 	-> Registers a new account and mails the activation link
		a.POST("/register", func(c *gin.Context) { user.Register(c, d) })

		// POST /api/auth/set-password	-> Sets the password after email validation
		a.POST("/set-password", func(c *gin.Context) { user.SetPassword(c, d) })

		// POST /api/auth/login 	-> Logs in a user and sets the session cookie
		a.POST("/login", func(c *gin.Context) { user.Login(c, d) })

		// POST /api/auth/logout	-> Destroys the session
		a.POST("/logout", user.Logout)

		// DELETE /api/auth/account	-> Deletes the account and all its contents
		a.DELETE("/account", auth, func(c *gin.Context) { user.Delete(c, d) })
	}

	co := m.Group("/contents")
	{
		// GET /api/contents		-> Public geo-tagged listing for the map
		co.GET("", cacheFor(30), func(c *gin.Context) { content.List(c, d) })

		// GET /api/contents/mine	-> The logged-in user's own contents
		co.GET("/mine", auth, func(c *gin.Context) { content.Mine(c, d) })

		// GET /api/contents/:id	-> A single content with its author
		co.GET("/:id", func(c *gin.Context) { content.Fetch(c, d) })

		// POST /api/contents		-> Creates a content with its media file
		co.POST("", auth, middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { content.Create(c, d) })

		// PUT /api/contents/:id	-> Edits an owned content
		co.PUT("/:id", auth, middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { content.Edit(c, d) })

		// DELETE /api/contents/:id	-> Deletes an owned content
		co.DELETE("/:id", auth, func(c *gin.Context) { content.Delete(c, d) })
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
