package routes

import (
	"net/http"

	"sparex/admin"
	"sparex/auth"
	"sparex/cart"
	"sparex/dashboard"
	"sparex/middleware"
	"sparex/notifications"
	"sparex/orders"
	"sparex/payments"
	"sparex/products"
	"sparex/ratelim"
	"sparex/realtime"
	"sparex/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))

	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
	router.PUT("/api/auth/me", middleware.Authenticate(auth.UpdateProfile))

	router.POST("/api/auth/addresses", middleware.Authenticate(auth.AddAddress))
	router.PUT("/api/auth/addresses/:addressid", middleware.Authenticate(auth.UpdateAddress))
	router.DELETE("/api/auth/addresses/:addressid", middleware.Authenticate(auth.DeleteAddress))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.POST("/api/admin/login", ratelim.RateLimit(admin.Login))
	router.GET("/api/admin/me", middleware.AdminOnly(admin.Me))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", ratelim.RateLimit(products.List))
	router.GET("/api/products/featured", products.Featured)
	router.GET("/api/products/category/:category", products.ByCategory)
	router.GET("/api/product/:productid", products.Get)

	router.POST("/api/products", middleware.AdminOnly(products.Create))
	router.PUT("/api/product/:productid", middleware.AdminOnly(products.Update))
	router.DELETE("/api/product/:productid", middleware.AdminOnly(products.SoftDelete))
	router.PATCH("/api/product/:productid/stock", middleware.AdminOnly(products.UpdateStock))
	router.POST("/api/product/:productid/images", middleware.AdminOnly(products.UploadImages))
	router.DELETE("/api/product/:productid/images/:fileid", middleware.AdminOnly(products.DeleteImage))

	router.GET("/api/admin/products/low-stock", middleware.AdminOnly(products.LowStock))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.Get))
	router.POST("/api/cart/items", middleware.Authenticate(cart.AddItem))
	router.PUT("/api/cart/items/:itemid", middleware.Authenticate(cart.UpdateItem))
	router.DELETE("/api/cart/items/:itemid", middleware.Authenticate(cart.RemoveItem))
	router.DELETE("/api/cart", middleware.Authenticate(cart.Clear))
	router.POST("/api/cart/sync", middleware.Authenticate(cart.Sync))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", ratelim.RateLimit(middleware.Authenticate(orders.Place)))
	router.GET("/api/orders", middleware.Authenticate(orders.ListMine))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.Get))
	router.POST("/api/orders/:orderid/cancel", middleware.Authenticate(orders.Cancel))
	router.GET("/api/orders/:orderid/invoice", middleware.Authenticate(orders.DownloadInvoice))

	router.GET("/api/admin/orders", middleware.AdminOnly(orders.AdminList))
	router.PATCH("/api/admin/orders/:orderid/status", middleware.AdminOnly(orders.AdminUpdateStatus))
}

func AddPaymentRoutes(router *httprouter.Router) {
	router.POST("/api/payments/gateway-order", ratelim.RateLimit(middleware.Authenticate(payments.CreateGatewayOrder)))
	router.POST("/api/payments/verify", ratelim.RateLimit(middleware.Authenticate(payments.Verify)))
	router.POST("/api/payments/failure", middleware.Authenticate(payments.RecordFailure))
	router.GET("/api/payments/order/:orderid", middleware.Authenticate(payments.GetByOrder))
	router.GET("/api/payments/history", middleware.Authenticate(payments.MyHistory))

	router.GET("/api/admin/payments", middleware.AdminOnly(payments.AdminList))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.Get))
	router.POST("/api/wishlist/:productid", middleware.Authenticate(wishlist.Toggle))
	router.GET("/api/wishlist/:productid/check", middleware.Authenticate(wishlist.Check))
	router.DELETE("/api/wishlist", middleware.Authenticate(wishlist.Clear))
}

func AddNotificationRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.List))
	router.PATCH("/api/notifications/:notificationid/read", middleware.Authenticate(notifications.MarkRead))
	router.POST("/api/notifications/read-all", middleware.Authenticate(notifications.MarkAllRead))
}

func AddDashboardRoutes(router *httprouter.Router) {
	router.GET("/api/admin/dashboard/stats", middleware.AdminOnly(dashboard.Stats))
	router.GET("/api/admin/dashboard/revenue/monthly", middleware.AdminOnly(dashboard.MonthlyRevenue))
	router.GET("/api/admin/dashboard/revenue/daily", middleware.AdminOnly(dashboard.DailyRevenue))
	router.GET("/api/admin/dashboard/orders/recent", middleware.AdminOnly(dashboard.RecentOrders))
	router.GET("/api/admin/dashboard/products/top-selling", middleware.AdminOnly(dashboard.TopSelling))
	router.GET("/api/admin/dashboard/sales/by-category", middleware.AdminOnly(dashboard.SalesByCategory))
	router.GET("/api/admin/dashboard/customers/growth", middleware.AdminOnly(dashboard.CustomerGrowth))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/notifications", realtime.WebSocketHandler(hub))
}
