package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/config"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/testutil"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
	Data    json.RawMessage   `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		Version: "test",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Cookie:  config.CookieConfig{SameSite: "Lax"},
		Chat:    config.ChatConfig{MaxFileBytes: 1024},
	}
	db := testutil.OpenDB(t)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg, NewServices(db, cfg))
	return &testServer{t: t, app: app}
}

// do sends a request; headers are key/value pairs
func (s *testServer) do(method, path, token string, body interface{}, headers ...string) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) register(name, phone string) string {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"fullName":    name,
		"phoneNumber": phone,
		"pin":         "123456",
		"confirmPin":  "123456",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Error)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.AccessToken)
	return data.AccessToken
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func onlineOrder() map[string]interface{} {
	return map[string]interface{}{
		"subject":         "Maths",
		"calculationType": "pages",
		"pages":           10,
		"class":           "8",
		"section":         "B",
		"deliveryDays":    5,
		"paymentMethod":   "Online",
	}
}

func TestHealthAndRates(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/rates", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/requests/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = s.do(http.MethodGet, "/api/v1/requests/mine", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStudentCannotReachOwnerRoutes(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Asha", "9000000001")

	status, _ := s.do(http.MethodGet, "/api/v1/owner/transactions/pending", student, nil,
		middleware.VerificationPinHeader, domain.DefaultOwnerPin)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/v1/admin/analytics", student, nil,
		middleware.DashboardPinHeader, domain.DefaultOwnerPin)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateRequestValidation(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Asha", "9000000001")

	order := onlineOrder()
	order["section"] = "Z"
	order["deliveryDays"] = 0

	status, env := s.do(http.MethodPost, "/api/v1/requests", student, order)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Fields, "section")
	assert.Contains(t, env.Fields, "deliveryDays")
}

func TestOnlineOrderVerificationFlow(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Asha", "9000000001")
	owner := s.register("Owner", domain.OwnerPhone)

	status, env := s.do(http.MethodPost, "/api/v1/requests", student, onlineOrder())
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created struct {
		ID              string          `json:"id"`
		EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
		Grade           string          `json:"grade"`
	}
	decode(t, env, &created)
	assert.Equal(t, "19.00", created.EstimatedAmount.StringFixed(2))
	assert.Equal(t, "Class 8 - Section B (10 Pages)", created.Grade)

	status, env = s.do(http.MethodPost, "/api/v1/transactions", student, map[string]string{
		"homeworkId":    created.ID,
		"transactionId": "UPI123456",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var tx struct {
		ID string `json:"id"`
	}
	decode(t, env, &tx)

	// a second claim while the first is pending conflicts
	status, _ = s.do(http.MethodPost, "/api/v1/transactions", student, map[string]string{
		"homeworkId":    created.ID,
		"transactionId": "UPI999999",
	})
	assert.Equal(t, http.StatusConflict, status)

	pending := "/api/v1/owner/transactions/pending"
	status, _ = s.do(http.MethodGet, pending, owner, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodGet, pending, owner, nil, middleware.VerificationPinHeader, "0000")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(http.MethodGet, pending, owner, nil, middleware.VerificationPinHeader, domain.DefaultOwnerPin)
	require.Equal(t, http.StatusOK, status, env.Error)
	var queue struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, env, &queue)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, tx.ID, queue.Items[0].ID)

	status, env = s.do(http.MethodPost, "/api/v1/owner/transactions/"+tx.ID+"/approve", owner, nil,
		middleware.VerificationPinHeader, domain.DefaultOwnerPin)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = s.do(http.MethodGet, "/api/v1/requests/"+created.ID, student, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var view struct {
		PaymentStatus string                `json:"paymentStatus"`
		Payment       domain.PaymentDisplay `json:"payment"`
	}
	decode(t, env, &view)
	assert.Equal(t, string(domain.PaymentPaid), view.PaymentStatus)
	assert.Equal(t, domain.LabelPaid, view.Payment.PaymentLabel)
	assert.Equal(t, domain.LabelApproved, view.Payment.VerificationLabel)

	status, env = s.do(http.MethodGet, "/api/v1/owner/investment", owner, nil,
		middleware.VerificationPinHeader, domain.DefaultOwnerPin)
	require.Equal(t, http.StatusOK, status, env.Error)
	var summary struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decode(t, env, &summary)
	assert.Equal(t, "19.00", summary.Balance.StringFixed(2))
}

func TestOtherStudentsRequestIsHidden(t *testing.T) {
	s := newTestServer(t)
	asha := s.register("Asha", "9000000001")
	ravi := s.register("Ravi", "9000000002")

	status, env := s.do(http.MethodPost, "/api/v1/requests", asha, onlineOrder())
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, env, &created)

	status, _ = s.do(http.MethodGet, "/api/v1/requests/"+created.ID, ravi, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDashboardExport(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("Owner", domain.OwnerPhone)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/export", nil)
	req.Header.Set("Authorization", "Bearer "+owner)
	req.Header.Set(middleware.DashboardPinHeader, domain.DefaultOwnerPin)

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "homework_")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.Equal(t, []byte("PK"), body[:2])
}

func TestChatBetweenStudentAndOwner(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Asha", "9000000001")
	owner := s.register("Owner", domain.OwnerPhone)

	status, env := s.do(http.MethodPost, "/api/v1/chat/messages", student, map[string]string{"text": "Is my order ready?"})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = s.do(http.MethodGet, "/api/v1/chat/unread", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var unread struct {
		Unread int64 `json:"unread"`
	}
	decode(t, env, &unread)
	assert.Equal(t, int64(1), unread.Unread)

	status, env = s.do(http.MethodGet, "/api/v1/owner/chat/inbox", owner, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var inbox []struct {
		LastMessage string `json:"lastMessage"`
	}
	decode(t, env, &inbox)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Is my order ready?", inbox[0].LastMessage)
}
