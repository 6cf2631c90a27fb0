// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"edushareqa/internal/database"
	"edushareqa/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database and migrates models.
func NewDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("failed to migrate db: %v", err)
		}
	}
	return db
}

// FakeAuth authenticates requests from the X-Test-User-ID and X-Test-Roles
// headers.
func FakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Test-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "AUTH_HEADER_MISSING", "message": "unauthorized"},
			})
			return
		}
		id, _ := strconv.ParseInt(raw, 10, 64)
		var roles []string
		if r := c.GetHeader("X-Test-Roles"); r != "" {
			roles = strings.Split(r, ",")
		}
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRoles, roles)
		c.Next()
	}
}

// NewRouter returns a test-mode engine with an /api group behind FakeAuth.
func NewRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, r.Group("/api", FakeAuth())
}

// Caller identifies who sends a test request; the zero value is anonymous.
type Caller struct {
	ID    int64
	Roles []string
	Token string
}

func As(id int64, roles ...string) Caller {
	return Caller{ID: id, Roles: roles}
}

// Bearer authenticates with a real access token instead of FakeAuth headers.
func Bearer(token string) Caller {
	return Caller{Token: token}
}

func (c Caller) apply(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return
	}
	if c.ID == 0 {
		return
	}
	req.Header.Set("X-Test-User-ID", strconv.FormatInt(c.ID, 10))
	req.Header.Set("X-Test-Roles", strings.Join(c.Roles, ","))
}

func DoJSON(r http.Handler, who Caller, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	who.apply(req)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// Part is one file part of a multipart request.
type Part struct {
	Field    string
	Filename string
	Content  []byte
}

// DoMultipart sends metadata as a JSON `metadata` part followed by files.
func DoMultipart(r http.Handler, who Caller, method, path string, metadata any, files ...Part) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		_ = mw.WriteField("metadata", string(b))
	}
	for _, f := range files {
		fw, _ := mw.CreateFormFile(f.Field, f.Filename)
		_, _ = fw.Write(f.Content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	who.apply(req)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// Envelope is the decoded JSON response envelope.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Decode(t *testing.T, rr *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}
