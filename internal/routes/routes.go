package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/auth"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/config"
	"github.com/BruksfildServices01/binda/internal/events"
	"github.com/BruksfildServices01/binda/internal/handlers"
	"github.com/BruksfildServices01/binda/internal/infra/assets"
	"github.com/BruksfildServices01/binda/internal/infra/payment"
	"github.com/BruksfildServices01/binda/internal/infra/redislock"
	infraRepo "github.com/BruksfildServices01/binda/internal/infra/repository"
	"github.com/BruksfildServices01/binda/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/binda/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/binda/internal/usecase/catalog"
	ucSlot "github.com/BruksfildServices01/binda/internal/usecase/slot"
	ucTenant "github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// Infra carries the process-wide collaborators built in main. Gateway and
// Store are nil when payments or object storage are not configured.
type Infra struct {
	Log       *slog.Logger
	Locker    redislock.Locker
	Listings  cache.Listings
	Publisher events.Publisher
	Audit     audit.Recorder
	Gateway   payment.Gateway
	Store     assets.Store
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {
	log := infra.Log
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SessionRefresh(issuer, cfg.SessionRefreshWindow, nil))

	// ======================================================
	// INFRA
	// ======================================================
	tenantRepo := infraRepo.NewTenantGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)
	lockRepo := infraRepo.NewSlotLockGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	resolver := ucTenant.NewResolver(tenantRepo)
	effects := ucAppointment.Effects{
		Cache:     infra.Listings,
		Audit:     infra.Audit,
		Publisher: infra.Publisher,
		Log:       log,
	}

	// ======================================================
	// USE CASES
	// ======================================================
	registerUC := ucTenant.NewRegister(tenantRepo, infra.Audit)
	loginUC := ucTenant.NewLogin(tenantRepo)
	settingsUC := ucTenant.NewSettings(tenantRepo, infra.Listings, infra.Audit, infra.Store)

	publicCatalogUC := ucCatalog.NewPublic(catalogRepo, resolver)
	manageCatalogUC := ucCatalog.NewManage(catalogRepo, infra.Listings, infra.Audit)

	availabilityUC := ucSlot.NewGetAvailability(catalogRepo, appointmentRepo, resolver)
	acquireUC := ucSlot.NewAcquireLock(catalogRepo, lockRepo, resolver, infra.Locker, cfg.SlotLockTTL, log)
	releaseUC := ucSlot.NewReleaseLock(lockRepo, resolver, log)

	createBookingUC := ucAppointment.NewCreateBooking(
		appointmentRepo,
		lockRepo,
		catalogRepo,
		resolver,
		infra.Locker,
		infra.Gateway,
		effects,
	)
	confirmPaymentUC := ucAppointment.NewConfirmPayment(appointmentRepo, resolver, infra.Gateway, effects)
	updateStatusUC := ucAppointment.NewUpdateStatus(appointmentRepo, effects)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, infra.Listings)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)
	dashboardUC := ucAppointment.NewDashboard(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(resolver, publicCatalogUC, availabilityUC, log)
	slotHandler := handlers.NewSlotHandler(acquireUC, releaseUC, log)
	bookingHandler := handlers.NewBookingHandler(createBookingUC, confirmPaymentUC, log)

	authHandler := handlers.NewAuthHandler(registerUC, loginUC, issuer, log)
	meHandler := handlers.NewMeHandler(tenantRepo, log)
	settingsHandler := handlers.NewSettingsHandler(settingsUC, log)
	catalogHandler := handlers.NewCatalogHandler(manageCatalogUC, log)
	workingHoursHandler := handlers.NewWorkingHoursHandler(manageCatalogUC, log)
	appointmentHandler := handlers.NewAppointmentHandler(listByDateUC, listByMonthUC, updateStatusUC, log)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUC, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(db), log)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// PUBLIC API
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/tenants/:slug", publicHandler.GetTenant)
		api.GET("/public/services", publicHandler.ListServices)
		api.GET("/public/staff", publicHandler.ListStaff)
		api.GET("/public/availability", publicHandler.Availability)

		api.POST("/slots/lock", slotHandler.Lock)
		api.POST("/slots/unlock", slotHandler.Unlock)

		api.POST("/public/bookings", bookingHandler.Create)
		api.POST("/public/payments/verify", bookingHandler.VerifyPayment)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// ======================================================
	// DASHBOARD API
	// ======================================================
	app := r.Group("/app")
	app.Use(middleware.AuthMiddleware(issuer, tenantRepo))
	{
		app.GET("/me", meHandler.GetMe)
		app.GET("/dashboard", dashboardHandler.Today)

		app.GET("/settings", settingsHandler.Get)
		app.PATCH("/settings", settingsHandler.Update)
		app.PUT("/settings/logo", settingsHandler.UploadLogo)

		app.GET("/services", catalogHandler.ListServices)
		app.POST("/services", catalogHandler.CreateService)
		app.PATCH("/services/:id", catalogHandler.UpdateService)
		app.PUT("/services/:id/staff", catalogHandler.SetServiceStaff)

		app.GET("/staff", catalogHandler.ListStaff)
		app.POST("/staff", catalogHandler.CreateStaff)
		app.PATCH("/staff/:id", catalogHandler.UpdateStaff)
		app.GET("/staff/:id/working-hours", workingHoursHandler.Get)
		app.PUT("/staff/:id/working-hours", workingHoursHandler.Update)

		app.GET("/appointments", appointmentHandler.ListByDate)
		app.GET("/appointments/month", appointmentHandler.ListByMonth)
		app.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

		app.GET("/customers", dashboardHandler.Customers)
		app.GET("/audit-logs", auditLogsHandler.List)
	}
}
