package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicegen/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DocsSpecPath is where the OpenAPI document is served
const DocsSpecPath = "/swagger/openapi.json"

// RegisterDocs mounts the OpenAPI document and the Swagger UI.
// protect runs before both, typically middleware.SwaggerProtection.
func RegisterDocs(engine *gin.Engine, protect ...gin.HandlerFunc) {
	ui := ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL(DocsSpecPath),
		ginSwagger.DocExpansion("list"),
	)

	g := engine.Group("/swagger", protect...)
	g.GET("/*any", func(c *gin.Context) {
		if c.Request.URL.Path == DocsSpecPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", docs.OpenAPI)
			return
		}
		ui(c)
	})
}
