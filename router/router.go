package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"brewmenu/controllers"
	"brewmenu/middlewares"
	"brewmenu/repository"
	"brewmenu/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	orders := repository.NewGormOrderRepository(db)
	tables := repository.NewGormTableRepository(db)
	service := services.NewOrderService(orders, tables)
	return SetupRouterWith(service, tables)
}

// SetupRouterWith wires routes over explicit collaborators so tests can
// substitute the in-memory store.
func SetupRouterWith(service *services.OrderService, tables repository.TableRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	orderCtrl := controllers.NewOrderController(service)
	tableCtrl := controllers.NewTableController(tables)

	// customer-facing
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.GET("/ws/orders", controllers.OrderFeed)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// staff
	staff := r.Group("/")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
		staff.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
		staff.PATCH("/orders/:order_id/items/:item_id", orderCtrl.UpdateOrderItem)
		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
