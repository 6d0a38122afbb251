package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NhutViet/tinder-backend/internal/config"
	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	feedsvc "github.com/NhutViet/tinder-backend/internal/services/feed"
	matchsvc "github.com/NhutViet/tinder-backend/internal/services/matches"
	messagesvc "github.com/NhutViet/tinder-backend/internal/services/messages"
	swipesvc "github.com/NhutViet/tinder-backend/internal/services/swipes"
	userssvc "github.com/NhutViet/tinder-backend/internal/services/users"
	"github.com/NhutViet/tinder-backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	UserService    *userssvc.Service
	SwipeService   *swipesvc.Service
	MatchService   *matchsvc.Service
	MessageService *messagesvc.Service
	FeedService    *feedsvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	candidateHandler := handlers.NewCandidateHandler(deps.FeedService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
		r.Put("/{id}/interests", userHandler.UpdateInterests)
	})

	r.Route("/candidates", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/swipe", candidateHandler.Swipe)
		r.Get("/home", candidateHandler.Home)
	})

	r.Route("/swipes", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", swipeHandler.Swipe)
		r.Get("/check/{targetID}", swipeHandler.Check)
		r.Get("/liked/{targetID}", swipeHandler.LikedMe)
		r.Get("/decided", swipeHandler.Decided)
		r.Get("/stats", swipeHandler.Stats)
	})

	r.Route("/matches", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", matchesHandler.List)
		r.Get("/with/{otherID}", matchesHandler.GetWith)
		r.Get("/can-chat/{otherID}", matchesHandler.CanChat)
		r.Delete("/{otherID}", matchesHandler.Unmatch)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", messagesHandler.Send)
		r.Get("/with/{otherID}", messagesHandler.ListWith)
		r.Post("/with/{otherID}/seen", messagesHandler.MarkSeenFrom)
		r.Get("/match/{matchID}", messagesHandler.ListByMatch)
		r.Post("/match/{matchID}/seen", messagesHandler.MarkSeenByMatch)
		r.Get("/unread/count", messagesHandler.UnreadCount)
		r.Get("/unread/count/{otherID}", messagesHandler.UnreadCountWith)
	})
}
