package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"vidtube/internal/handler"
	"vidtube/internal/httputil"
	"vidtube/internal/logging"
	"vidtube/internal/model"
	authmw "vidtube/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	VideoHandler     *handler.VideoHandler
	CommentHandler   *handler.CommentHandler
	TweetHandler     *handler.TweetHandler
	SocialHandler    *handler.SocialHandler
	PlaylistHandler  *handler.PlaylistHandler
	DashboardHandler *handler.DashboardHandler

	Authenticator  authmw.Authenticator
	AuthLimiter    authmw.RateLimiter
	Logger         *logrus.Logger
	RequestTimeout time.Duration
}

// NewRouter creates and configures a new Chi router with all route groups
// mounted under /api/v1.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	auth := authmw.Auth(cfg.Authenticator)
	optional := authmw.OptionalAuth(cfg.Authenticator)
	limited := authmw.RateLimit(cfg.AuthLimiter, "auth")

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(limited).Post("/register", cfg.AuthHandler.Register)
			r.With(limited).Post("/login", cfg.AuthHandler.Login)
			r.With(limited).Post("/refresh-token", cfg.AuthHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Post("/change-password", cfg.UserHandler.ChangePassword)
				r.Get("/current-user", cfg.UserHandler.CurrentUser)
				r.Patch("/update-details", cfg.UserHandler.UpdateAccount)
				r.Patch("/change-avatar", cfg.UserHandler.UpdateAvatar)
				r.Patch("/change-coverImage", cfg.UserHandler.UpdateCoverImage)
				r.Get("/c/{username}", cfg.UserHandler.ChannelProfile)
				r.Get("/watch-history", cfg.UserHandler.WatchHistory)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", cfg.VideoHandler.List)
			r.With(optional).Get("/{id}", cfg.VideoHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", cfg.VideoHandler.Upload)
				r.Patch("/{id}", cfg.VideoHandler.Update)
				r.Delete("/{id}", cfg.VideoHandler.Delete)
				r.Patch("/{id}/toggle", cfg.VideoHandler.TogglePublish)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(optional).Get("/{id}", cfg.CommentHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/{id}", cfg.CommentHandler.Add)
				r.Patch("/{id}", cfg.CommentHandler.Update)
				r.Delete("/{id}", cfg.CommentHandler.Delete)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.With(optional).Get("/user/{userId}", cfg.TweetHandler.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", cfg.TweetHandler.Create)
				r.Get("/my-tweets", cfg.TweetHandler.Mine)
				r.Put("/{id}", cfg.TweetHandler.Update)
				r.Delete("/{id}", cfg.TweetHandler.Delete)
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/channel/{channelId}/subscribers", cfg.SocialHandler.Subscribers)
			r.Get("/user/{subscriberId}/channels", cfg.SocialHandler.SubscribedChannels)
			r.With(auth).Post("/toggle/{channelId}", cfg.SocialHandler.ToggleSubscription)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(auth)
			r.Post("/video/{id}/toggle", cfg.SocialHandler.ToggleLike(model.LikeVideo))
			r.Post("/comment/{id}/toggle", cfg.SocialHandler.ToggleLike(model.LikeComment))
			r.Post("/tweet/{id}/toggle", cfg.SocialHandler.ToggleLike(model.LikeTweet))
			r.Get("/videos/{userId}", cfg.SocialHandler.LikedVideos)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/user/{userId}", cfg.PlaylistHandler.ListByUser)
			r.With(optional).Get("/{id}", cfg.PlaylistHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", cfg.PlaylistHandler.Create)
				r.Post("/{id}/videos/{videoId}", cfg.PlaylistHandler.AddVideo)
				r.Delete("/{id}/videos/{videoId}", cfg.PlaylistHandler.RemoveVideo)
				r.Put("/{id}", cfg.PlaylistHandler.Update)
				r.Delete("/{id}", cfg.PlaylistHandler.Delete)
			})
		})

		r.Route("/channel", func(r chi.Router) {
			r.Use(auth)
			r.Get("/stats", cfg.DashboardHandler.Stats)
			r.Get("/videos", cfg.DashboardHandler.Videos)
		})

		r.Get("/search", cfg.VideoHandler.Search)
	})

	return r
}
