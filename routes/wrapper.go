package routes

import (
	"kirana/address"
	"kirana/cart"
	"kirana/delhivery"
	"kirana/mq"
	"kirana/orders"
	"kirana/products"
	"kirana/ratelim"

	"github.com/julienschmidt/httprouter"
)

// RoutesWrapper builds the services and mounts every route group.
func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	carrier := delhivery.NewClientFromEnv()
	carts := cart.NewReader(cart.MongoStore{}, products.MongoCatalog{})

	orderService := orders.NewService(
		orders.MongoStore{},
		carts,
		carrier,
		mq.RedisPublisher{},
		carrier.PickupPin,
	)
	addressService := address.NewService(address.MongoStore{})

	AddOrderRoutes(router, rateLimiter, orderService)
	AddShippingRoutes(router, rateLimiter)
	AddPincodeRoutes(router, rateLimiter, carrier)
	AddCartRoutes(router, rateLimiter)
	AddAddressRoutes(router, rateLimiter, addressService)
}
