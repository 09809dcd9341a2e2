package api

import "github.com/gin-gonic/gin"

// RouteRegistrar mounts a set of related endpoints on a gin router.
type RouteRegistrar interface {
	Register(r gin.IRouter)
}

// NewRouter builds the gin engine and mounts every registrar on it.
func NewRouter(registrars ...RouteRegistrar) *gin.Engine {
	router := gin.Default()
	NewRouterWithGinEngine(router, registrars...)
	return router
}

// NewRouterWithGinEngine mounts the registrars on an existing engine. Tests
// use it to wire handlers onto a bare engine without default middleware.
func NewRouterWithGinEngine(router *gin.Engine, registrars ...RouteRegistrar) *gin.Engine {
	for _, registrar := range registrars {
		if registrar == nil {
			continue
		}
		registrar.Register(router)
	}
	return router
}
