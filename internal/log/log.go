package log

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	zerolog.TimestampFieldName = "ts"
	SetOutput(os.Stdout)
}

// SetOutput redirects every subsequent entry to w.
func SetOutput(w io.Writer) {
	l := zerolog.New(w).With().Timestamp().Logger()
	logger.Store(&l)
}

func write(e *zerolog.Event, c *fiber.Ctx, action string, err error, fields map[string]any) {
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			e = e.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
		if uid, ok := c.Locals("userID").(string); ok && uid != "" {
			e = e.Str("user_id", uid)
		}
	}
	if err != nil {
		e = e.Str("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.Interface("fields", fields)
	}
	e.Str("action", action).Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Load().Info(), c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Load().Log().Str("level", "audit"), c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Load().Warn(), c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logger.Load().Error(), c, action, err, fields)
}

// Warn logs outside of a request.
func Warn(action string, err error, fields map[string]any) {
	write(logger.Load().Warn(), nil, action, err, fields)
}

// Migrations adapts the logger to goose's Logger interface.
type Migrations struct{}

func (Migrations) Printf(format string, v ...any) {
	write(logger.Load().Info(), nil, "db.migrate", nil, map[string]any{"msg": fmt.Sprintf(format, v...)})
}

func (Migrations) Fatalf(format string, v ...any) {
	write(logger.Load().Fatal(), nil, "db.migrate", fmt.Errorf(format, v...), nil)
}
