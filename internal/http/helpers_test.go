package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/docstore"
	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	"storefront/internal/identity"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

type testEnv struct {
	app   *fiber.App
	deps  *handlers.Deps
	cfg   config.Config
	store docstore.Store
	users *identity.SQLProvider
	cats  *repos.CategoryRepo
	prods *repos.ProductRepo
	items *repos.OrderItemRepo
}

// newTestEnv builds the full route table over a private in-memory database.
func newTestEnv(t *testing.T, tweak ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Config{
		APIURL:    "/api/v1",
		DBDSN:     ":memory:",
		UploadDir: t.TempDir(),
		Secret:    "test-secret",
		TokenTTL:  time.Hour,
		BodyLimit: 1 << 20,
	}
	for _, fn := range tweak {
		fn(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	store := docstore.NewSQLStore(db)
	users := identity.NewSQLProvider(db)
	users.Cost = bcrypt.MinCost

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, BodyLimit: cfg.BodyLimit})
	app.Use(requestid.New())
	deps := handlers.NewDeps(store, users, cfg)
	deps.Mount(app)

	return &testEnv{
		app:   app,
		deps:  deps,
		cfg:   cfg,
		store: store,
		users: users,
		cats:  repos.NewCategoryRepo(store),
		prods: repos.NewProductRepo(store),
		items: repos.NewOrderItemRepo(store),
	}
}

// call sends body (JSON-encoded unless nil) and returns status and raw body.
func (e *testEnv) call(t *testing.T, method, path string, body any, header ...string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeAs[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), "body=%s", b)
	return v
}

func (e *testEnv) category(t *testing.T, name string) domain.Category {
	t.Helper()
	c, err := e.cats.Create(context.Background(), domain.Category{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) product(t *testing.T, name, price string, featured bool) domain.Product {
	t.Helper()
	p, err := e.prods.Create(context.Background(), domain.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		IsFeatured: featured,
	})
	require.NoError(t, err)
	return p
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

// multipartBody encodes fields and files into a multipart/form-data body.
func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// pngBytes is the smallest file the content sniffer recognises as PNG.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Status int            `json:"status"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
