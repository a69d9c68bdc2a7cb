package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkambbaki/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoint handlers of the API
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Game    *handler.GameHandler
	Ranking *handler.RankingHandler
	Report  *handler.ReportHandler
	System  *handler.SystemHandler
}

// Guards are the authentication steps routes are wrapped in
type Guards struct {
	// JWT requires a bearer access token
	JWT gin.HandlerFunc
	// JWTOrBot also accepts a report bot token
	JWTOrBot gin.HandlerFunc
	// ActiveUser rejects deactivated accounts; it runs after JWT or JWTOrBot
	ActiveUser gin.HandlerFunc
}

var childMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch}

// UserRoutes serves /users: login, signup, tokens and the account profile
func UserRoutes(h Handlers, g Guards) *DomainGroup {
	users := NewDomainGroup("users", "/users")
	users.POST("/login/", h.Auth.Login).
		POST("/registration/", h.Auth.Register).
		POST("/token/refresh/", h.Auth.RefreshToken).
		POST("/token/verify/", h.Auth.VerifyToken).
		GET("/check-username/", h.Auth.CheckUsername)

	users.Group("session", "").Use(g.JWT).
		POST("/logout/", h.Auth.Logout)

	users.Group("account", "").Use(g.JWT, g.ActiveUser).
		GET("/user/", h.User.GetCurrentUser).
		PATCH("/email/", h.User.UpdateEmail).
		GET("/child/", h.User.GetChild).
		Match(childMethods, "/child/", h.User.SaveChild)
	return users
}

// GameRoutes serves /games: sessions for signed-in parents and the public leaderboard
func GameRoutes(h Handlers, g Guards) *DomainGroup {
	games := NewDomainGroup("games", "/games")

	games.Group("ranking", "/api/ranking").
		GET("/", h.Ranking.GetBoard).
		POST("/", h.Ranking.Record)

	games.Group("play", "").Use(g.JWT, g.ActiveUser).
		GET("/", h.Game.ListGames).
		POST("/bb-star/start/", h.Game.StartBBStar).
		POST("/bb-star/finish/", h.Game.FinishBBStar).
		POST("/kids-traffic/start/", h.Game.StartKidsTraffic).
		POST("/kids-traffic/finish/", h.Game.FinishKidsTraffic)
	return games
}

// ReportRoutes serves /reports. The detail and status endpoints are also
// reachable with the bot token the PDF renderer carries.
func ReportRoutes(h Handlers, g Guards) *DomainGroup {
	reports := NewDomainGroup("reports", "/reports")

	reports.Group("viewer", "").Use(g.JWTOrBot, g.ActiveUser).
		Match([]string{http.MethodGet, http.MethodPost}, "/", h.Report.GetDetail).
		POST("/status/", h.Report.CheckStatus)

	reports.Group("owner", "").Use(g.JWT, g.ActiveUser).
		POST("/email/", h.Report.RequestEmail).
		POST("/set-report-pin/", h.Report.SetPin)
	return reports
}

// SystemRoutes serves /system
func SystemRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/ping", h.System.Ping).
		GET("/info", h.System.GetSystemInfo)
}

// APIGroups returns every domain group of the versioned API
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		UserRoutes(h, g),
		GameRoutes(h, g),
		ReportRoutes(h, g),
		SystemRoutes(h),
	}
}

// RegisterAPI wires the API groups into the router
func (r *Router) RegisterAPI(h Handlers, g Guards) *Router {
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	return r
}
