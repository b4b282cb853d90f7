package http

import (
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

// RegisterSwagger serves the YAML API description as JSON at
// /swagger/doc.json and the UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			logger.Error("load swagger spec", zap.String("path", specPath), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load swagger spec"))
		}
		jsonSpec, err := yaml.YAMLToJSON(data)
		if err != nil {
			logger.Error("convert swagger spec", zap.String("path", specPath), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, util.Error("unable to parse swagger spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
