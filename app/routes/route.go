package routes

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/handlers"
	"github.com/UltraPon/SellUp/app/handlers/admin"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/middlewares"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/UltraPon/SellUp/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/unrolled/render"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const csrfPath = "/csrf"

type Dependencies struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Render   *render.Render
	Sessions sessions.SessionStore
	Tokens   *services.TokenService
	Notifier *services.Notifier
	Images   services.ImageHost
	// CategoryCache is optional.
	CategoryCache services.CategoryCache

	CSRFKey        []byte
	SecureCookies  bool
	AllowedOrigins []string
	BackendURL     string
	FrontendURL    string
}

func NewRouter(deps Dependencies) http.Handler {
	db, logger, rnd := deps.DB, deps.Logger, deps.Render
	validate := helpers.NewValidator()

	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	filterRepo := repositories.NewFilterAttributeRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	linkRepo := repositories.NewListingCategoryRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	resolver := services.NewCategoryResolver(categoryRepo, deps.CategoryCache, services.DefaultResolverMaxDepth, logger)
	categorySvc := services.NewCategoryService(categoryRepo, filterRepo, resolver, deps.CategoryCache, logger)
	listingSvc := services.NewListingService(listingRepo, categoryRepo, deps.Images, logger)
	listingQuery := services.NewListingQuery(listingRepo, resolver, logger)
	authSvc := services.NewAuthService(userRepo, roleRepo, deps.Tokens, deps.Notifier, deps.BackendURL, deps.FrontendURL, logger)

	base := handlers.Base{Render: rnd, Validator: validate, Logger: logger}
	authHandler := handlers.NewAuthHandler(base, authSvc, deps.Sessions)
	categoryHandler := handlers.NewCategoryHandler(base, categorySvc)
	listingHandler := handlers.NewListingHandler(base, listingSvc, listingQuery)
	imageHandler := handlers.NewImageHandler(base, imageRepo, listingSvc)
	linkHandler := handlers.NewListingCategoryHandler(base, linkRepo, categoryRepo, listingSvc)
	favoriteHandler := handlers.NewFavoriteHandler(base, favoriteRepo, listingSvc)
	reviewHandler := handlers.NewReviewHandler(base, reviewRepo, userRepo)
	messageHandler := handlers.NewMessageHandler(base, messageRepo, userRepo)
	adminHandler := admin.NewAdminHandler(rnd, validate, logger, categorySvc, userRepo, roleRepo)

	mw := middlewares.New(rnd, logger)
	authed := func(h http.HandlerFunc) http.Handler { return mw.RequireAuth(h) }
	staff := func(h http.HandlerFunc) http.Handler { return mw.RequireStaff(h) }

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusNotFound, helpers.ErrorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusMethodNotAllowed, helpers.ErrorResponse{Error: "method not allowed"})
	})

	// Accounts
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/confirm-email/{token}/", authHandler.ConfirmEmail).Methods("GET")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/current-user", authHandler.CurrentUser).Methods("GET")
	router.Handle("/profile", authed(authHandler.Profile)).Methods("GET")
	router.Handle("/profile", authed(authHandler.UpdateProfile)).Methods("PUT")
	router.HandleFunc("/request-password-reset", authHandler.RequestPasswordReset).Methods("POST")
	router.HandleFunc("/validate-reset-token/{token}/", authHandler.ValidateResetToken).Methods("GET")
	router.HandleFunc("/reset-password/{token}/", authHandler.ResetPassword).Methods("POST")
	router.HandleFunc(csrfPath, authHandler.CSRFToken).Methods("GET")
	router.Handle("/users", staff(adminHandler.ListUsers)).Methods("GET")
	router.Handle("/users/{id}", authed(adminHandler.GetUser)).Methods("GET")
	router.HandleFunc("/roles", adminHandler.ListRoles).Methods("GET")

	// Categories
	router.HandleFunc("/categories", categoryHandler.Tree).Methods("GET")
	router.Handle("/categories", staff(adminHandler.CreateCategory)).Methods("POST")
	router.HandleFunc("/categories/{id}", categoryHandler.Get).Methods("GET")
	router.Handle("/categories/{id}", staff(adminHandler.UpdateCategory)).Methods("PUT")
	router.Handle("/categories/{id}", staff(adminHandler.DeleteCategory)).Methods("DELETE")
	router.HandleFunc("/categories/{id}/filters", categoryHandler.Filters).Methods("GET")
	router.Handle("/categories/{id}/filters", staff(adminHandler.CreateFilter)).Methods("POST")
	router.HandleFunc("/categories/{id}/filter-options", categoryHandler.FilterOptions).Methods("GET")
	router.HandleFunc("/categories/{id}/descendants", categoryHandler.Descendants).Methods("GET")
	router.Handle("/filters/{id}", staff(adminHandler.UpdateFilter)).Methods("PUT")
	router.Handle("/filters/{id}", staff(adminHandler.DeleteFilter)).Methods("DELETE")

	// Listings
	router.HandleFunc("/listings", listingHandler.List).Methods("GET")
	router.Handle("/listings", authed(listingHandler.Create)).Methods("POST")
	router.Handle("/listings/my", authed(listingHandler.Mine)).Methods("GET")
	router.Handle("/my-listings", authed(listingHandler.Mine)).Methods("GET")
	router.HandleFunc("/listings/by-category", listingHandler.ByCategory).Methods("GET")
	router.HandleFunc("/listings/{id:[0-9]+}", listingHandler.Get).Methods("GET")
	router.Handle("/listings/{id:[0-9]+}", authed(listingHandler.Update)).Methods("PUT")
	router.Handle("/listings/{id:[0-9]+}", authed(listingHandler.Delete)).Methods("DELETE")
	router.HandleFunc("/images/{id}", imageHandler.Get).Methods("GET")
	router.Handle("/images/{id}", authed(imageHandler.Delete)).Methods("DELETE")
	router.HandleFunc("/listing-categories", linkHandler.List).Methods("GET")
	router.Handle("/listing-categories", authed(linkHandler.Create)).Methods("POST")
	router.Handle("/listing-categories/{id}", authed(linkHandler.Delete)).Methods("DELETE")

	// Favorites, reviews, messages
	router.Handle("/favorites", authed(favoriteHandler.List)).Methods("GET")
	router.Handle("/my-favorites", authed(favoriteHandler.List)).Methods("GET")
	router.Handle("/favorites", authed(favoriteHandler.Create)).Methods("POST")
	router.Handle("/favorites/{id}", authed(favoriteHandler.Delete)).Methods("DELETE")
	router.HandleFunc("/reviews", reviewHandler.List).Methods("GET")
	router.Handle("/reviews", authed(reviewHandler.Create)).Methods("POST")
	router.Handle("/reviews/{id}", authed(reviewHandler.Delete)).Methods("DELETE")
	router.Handle("/messages", authed(messageHandler.Thread)).Methods("GET")
	router.Handle("/messages", authed(messageHandler.Create)).Methods("POST")
	router.Handle("/messages/conversations", authed(messageHandler.Conversations)).Methods("GET")
	router.Handle("/messages/{id}/read", authed(messageHandler.MarkRead)).Methods("POST")

	chain := alice.New(
		mw.RecoverPanic,
		mw.LogRequest,
		middlewares.SecureHeaders,
		middlewares.CORS(deps.AllowedOrigins),
		mw.Authenticate(deps.Tokens, deps.Sessions, userRepo),
		mw.CSRF(deps.CSRFKey, deps.SecureCookies, csrfPath),
	)
	return chain.Then(router)
}
