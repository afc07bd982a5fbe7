package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/controllers"
	"github.com/innerchild2401/qr-menu-sub002/middlewares"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Registered before any route so every handler chain includes it.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	restaurantCache := services.NewRestaurantCache(db, 5*time.Minute)

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db, restaurantCache)
	areaCtrl := controllers.NewAreaController(db)
	tableCtrl := controllers.NewTableController(db, restaurantCache)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	crmCtrl := controllers.NewCRMController(db, restaurantCache)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	whatsappCtrl := controllers.NewWhatsAppController(db, restaurantCache)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/restaurants", restaurantCtrl.CreateRestaurant)
	}

	// QR entrypoint: resolves the table session and redirects to the menu.
	r.GET("/table-redirect", tableCtrl.RedirectFromQR)

	// Customer-facing menu data
	r.GET("/restaurants/:restaurant_id/categories", categoryCtrl.GetAllCategories)
	r.GET("/restaurants/:restaurant_id/menus", menuCtrl.GetAllMenus)

	// Shared cart (no login; scope comes from the QR session)
	r.POST("/carts/items", cartCtrl.AddItem)
	r.PATCH("/carts/items", cartCtrl.UpdateItem)
	r.DELETE("/carts/items", cartCtrl.RemoveItem)
	r.GET("/carts", cartCtrl.GetCart)

	// Order placement + lookup
	r.POST("/orders", orderCtrl.PlaceOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// CRM endpoints hit by the customer frontend
	r.POST("/crm/track-visit", crmCtrl.TrackVisit)
	r.POST("/crm/whatsapp/create-token", whatsappCtrl.CreateOrderToken)
	r.POST("/crm/whatsapp/webhook", whatsappCtrl.HandleWebhook)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// RESTAURANT (tenant settings; admin only)
	auth.GET("/restaurant", restaurantCtrl.GetRestaurant)
	auth.PATCH("/restaurant", middlewares.RequireRole("admin"), restaurantCtrl.UpdateRestaurant)

	// AREAS
	auth.GET("/areas", areaCtrl.GetAllAreas)
	auth.POST("/areas", areaCtrl.CreateArea)
	auth.PATCH("/areas/:area_id", areaCtrl.UpdateArea)
	auth.DELETE("/areas/:area_id", areaCtrl.DeleteArea)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	auth.POST("/tables/:table_id/reset-session", tableCtrl.ResetSession)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// MENU CATEGORIES
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENUS
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// CRM
	auth.GET("/customers", crmCtrl.GetAllCustomers)
	auth.GET("/customers/:customer_id", crmCtrl.GetCustomerByID)
	auth.GET("/visits", crmCtrl.GetVisits)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)

	// DASHBOARD
	auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// Realtime staff dashboard
	auth.GET("/ws", controllers.DashboardWSHandler)

	return r
}
