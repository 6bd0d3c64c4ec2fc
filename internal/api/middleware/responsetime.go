package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// HeaderXResponseTime is the timing header set on every response.
const HeaderXResponseTime = "X-Response-Time"

// ResponseTime measures how long the inner stages take and reports it as
// X-Response-Time in milliseconds with two decimals. The header is written
// just before the response commits, so it covers the whole downstream
// chain.
func ResponseTime() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
				c.Response().Header().Set(HeaderXResponseTime, fmt.Sprintf("%.2fms", elapsed))
			})
			return next(c)
		}
	}
}
