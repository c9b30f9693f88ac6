package routes

import (
	"kirana/address"
	"kirana/cart"
	"kirana/delhivery"
	"kirana/middleware"
	"kirana/orders"
	"kirana/ratelim"
	"kirana/shipping"

	"github.com/julienschmidt/httprouter"
)

// AddOrderRoutes wires the order lifecycle endpoints.
func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, svc *orders.Service) {
	// User routes
	router.POST("/api/orders/place",
		middleware.Chain(
			rl.Limit,
			middleware.Authenticate,
			orders.Idempotent(orders.MongoIdempotencyStore{}),
		)(svc.PlaceOrder),
	)
	router.GET("/api/orders/my-orders", middleware.Authenticate(svc.GetMyOrders))
	router.GET("/api/orders/order/:id", middleware.Authenticate(svc.GetOrderByID))
	router.PUT("/api/orders/cancel/:id",
		middleware.Chain(
			rl.Limit,
			middleware.Authenticate,
		)(svc.CancelOrder),
	)

	// Admin routes
	router.GET("/api/orders/admin/all",
		middleware.Chain(
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(svc.GetAllOrders),
	)
	router.PUT("/api/orders/status/:id",
		middleware.Chain(
			rl.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(svc.UpdateOrderStatus),
	)
	router.PUT("/api/orders/bulk-status",
		middleware.Chain(
			rl.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(svc.BulkUpdateOrderStatus),
	)
}

func AddShippingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/shipping/calculate", rl.Limit(shipping.CalculateShipping))
	router.POST("/api/shipping/check-serviceability", rl.Limit(shipping.CheckServiceabilityHandler))
}

func AddPincodeRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, client *delhivery.Client) {
	router.GET("/api/pincode/:pincode", rl.Limit(client.CheckPincodeHandler))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.PUT("/api/cart/item/:productid", rl.Limit(middleware.Authenticate(cart.UpdateCartItem)))
	router.DELETE("/api/cart", rl.Limit(middleware.Authenticate(cart.ClearCart)))
}

func AddAddressRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, svc *address.Service) {
	router.POST("/api/addresses", rl.Limit(middleware.Authenticate(svc.CreateAddress)))
	router.GET("/api/addresses", middleware.Authenticate(svc.GetAddresses))
	router.GET("/api/addresses/address/:id", middleware.Authenticate(svc.GetAddressByID))
	router.PUT("/api/addresses/address/:id", rl.Limit(middleware.Authenticate(svc.UpdateAddress)))
	router.DELETE("/api/addresses/address/:id", rl.Limit(middleware.Authenticate(svc.DeleteAddress)))
	router.PUT("/api/addresses/address/:id/default", rl.Limit(middleware.Authenticate(svc.SetDefaultAddress)))

	router.GET("/api/addresses/user/:userid",
		middleware.Chain(
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(svc.GetUserAddresses),
	)
}
