package internal

import (
	"net/http"
	"nsxd/internal/controllers"
	"nsxd/internal/providers"
)

func InitRoutes(pushController *controllers.PushController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/push", http.HandlerFunc(pushController.ReceivePush))
	routers.Post("/expire", http.HandlerFunc(pushController.Expire))
	return routers
}
