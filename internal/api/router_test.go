package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foodshare/engine/internal/api/handlers"
	mw "github.com/foodshare/engine/internal/api/middleware"
	"github.com/foodshare/engine/internal/auth"
	"github.com/foodshare/engine/internal/repository"
	"github.com/foodshare/engine/internal/services"
	"github.com/foodshare/engine/internal/testutil"
	"github.com/foodshare/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiClient struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	donations := repository.NewDonationRepository(db)
	requests := repository.NewRequestRepository(db)

	authSvc := services.NewAuthService(users, auth.NewTokenManager([]byte("0123456789abcdef0123"), time.Hour), auth.NewMemoryDenylist())
	donationSvc := services.NewDonationService(donations, requests)
	requestSvc := services.NewRequestService(donations, nil)

	h := NewRouter(Dependencies{
		Authenticator:   authSvc,
		AuthLimiter:     mw.NewMemoryLimiter(1000, 1000),
		CORSOrigins:     []string{"*"},
		AuthHandler:     handlers.NewAuthHandler(authSvc),
		DonorHandler:    handlers.NewDonorHandler(donationSvc),
		ReceiverHandler: handlers.NewReceiverHandler(donationSvc, requestSvc),
		HealthHandler:   handlers.NewHealthHandler(map[string]handlers.Pinger{"database": func(context.Context) error { return nil }}),
	})
	return &apiClient{t: t, h: h}
}

func (c *apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func signupBody(username string) map[string]string {
	return map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "s3cret-pass",
		"confirm_password": "s3cret-pass",
		"mobile_number":    "0712345678",
	}
}

// login signs a user up for role and returns a bearer token.
func (c *apiClient) login(role, username string) string {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/auth/"+role+"/signup", "", signupBody(username))
	require.Equal(c.t, http.StatusCreated, code, env)

	code, env = c.do(http.MethodPost, "/api/v1/auth/"+role+"/login", "", map[string]string{"username": username, "password": "s3cret-pass"})
	require.Equal(c.t, http.StatusOK, code, env)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &tok))
	return tok.AccessToken
}

func donationBody() map[string]any {
	pickup := time.Now().Add(4 * time.Hour).UTC().Truncate(time.Second)
	return map[string]any{
		"food_type":       "Rice",
		"quantity":        "5kg",
		"pickup_location": "12 Market Street",
		"pickup_time":     pickup.Format(time.RFC3339),
		"expiry_date":     pickup.AddDate(0, 0, 2).Format("2006-01-02"),
	}
}

func (c *apiClient) createDonation(token string) string {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/donor/donations", token, donationBody())
	require.Equal(c.t, http.StatusCreated, code, env)
	var d struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &d))
	return d.ID
}

func TestSignupScenarios(t *testing.T) {
	c := newAPI(t)

	code, env := c.do(http.MethodPost, "/api/v1/auth/donor/signup", "", signupBody("alice"))
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Donor account created successfully! You can now login.", env.Message)

	mismatch := signupBody("bob")
	mismatch["confirm_password"] = "different-pass"
	code, env = c.do(http.MethodPost, "/api/v1/auth/receiver/signup", "", mismatch)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error.Message, "passwords do not match")

	missing := signupBody("bob")
	delete(missing, "username")
	delete(missing, "email")
	code, env = c.do(http.MethodPost, "/api/v1/auth/receiver/signup", "", missing)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error.Message, "username is required")

	code, env = c.do(http.MethodPost, "/api/v1/auth/receiver/signup", "", signupBody("alice"))
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "conflict", env.Error.Code)
}

func TestLoginScenarios(t *testing.T) {
	c := newAPI(t)
	c.login("donor", "alice")

	code, env := c.do(http.MethodPost, "/api/v1/auth/donor/login", "", map[string]string{"username": "alice", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "invalid credentials or not a donor account", env.Error.Message)

	code, _ = c.do(http.MethodPost, "/api/v1/auth/donor/login", "", map[string]string{"password": "s3cret-pass"})
	require.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodPost, "/api/v1/auth/receiver/login", "", map[string]string{"username": "alice", "password": "s3cret-pass"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "invalid credentials or not a receiver account", env.Error.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	c := newAPI(t)
	tok := c.login("donor", "alice")

	code, _ := c.do(http.MethodGet, "/api/v1/donor/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodPost, "/api/v1/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/api/v1/donor/dashboard", tok, nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestDonationFormScenarios(t *testing.T) {
	c := newAPI(t)
	tok := c.login("donor", "alice")

	code, env := c.do(http.MethodPost, "/api/v1/donor/donations", tok, donationBody())
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Donation posted successfully!", env.Message)

	missing := donationBody()
	delete(missing, "food_type")
	code, env = c.do(http.MethodPost, "/api/v1/donor/donations", tok, missing)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error.Message, "food_type is required")

	bad := donationBody()
	bad["quantity"] = "-10"
	code, env = c.do(http.MethodPost, "/api/v1/donor/donations", tok, bad)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error.Message, "quantity")

	long := donationBody()
	long["pickup_location"] = strings.Repeat("a", 256)
	code, env = c.do(http.MethodPost, "/api/v1/donor/donations", tok, long)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error.Message, "pickup_location must be at most 255 characters")

	badDate := donationBody()
	badDate["expiry_date"] = "22/10/2026"
	code, _ = c.do(http.MethodPost, "/api/v1/donor/donations", tok, badDate)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestRoleGates(t *testing.T) {
	c := newAPI(t)
	donorTok := c.login("donor", "alice")
	receiverTok := c.login("receiver", "bob")

	code, _ := c.do(http.MethodPost, "/api/v1/donor/donations", receiverTok, donationBody())
	require.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodGet, "/api/v1/receiver/donations", donorTok, nil)
	require.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodGet, "/api/v1/receiver/donations", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequestFoodScenario(t *testing.T) {
	c := newAPI(t)
	alice := c.login("donor", "alice")
	bob := c.login("receiver", "bob")
	carl := c.login("receiver", "carl")
	id := c.createDonation(alice)

	code, env := c.do(http.MethodGet, "/api/v1/receiver/donations", bob, nil)
	require.Equal(t, http.StatusOK, code)
	var listings []struct {
		ID            string `json:"id"`
		DonorUsername string `json:"donor_username"`
		DonorMobile   string `json:"donor_mobile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listings))
	require.Len(t, listings, 1)
	require.Equal(t, "alice", listings[0].DonorUsername)
	require.Equal(t, "0712345678", listings[0].DonorMobile)

	code, env = c.do(http.MethodPost, "/api/v1/receiver/donations/"+id+"/request", bob, map[string]string{"message": "for the shelter"})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Food request submitted successfully.", env.Message)

	code, env = c.do(http.MethodPost, "/api/v1/receiver/donations/"+id+"/request", carl, nil)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "donation is no longer available", env.Error.Message)

	code, env = c.do(http.MethodGet, "/api/v1/receiver/donations", bob, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(env.Data))

	code, env = c.do(http.MethodGet, "/api/v1/donor/dashboard", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		Donations []struct {
			Status string `json:"status"`
		} `json:"donations"`
		Requests []struct {
			RequesterUsername string `json:"requester_username"`
			Message           string `json:"message"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	require.Len(t, dash.Donations, 1)
	require.Equal(t, "Requested", dash.Donations[0].Status)
	require.Len(t, dash.Requests, 1)
	require.Equal(t, "bob", dash.Requests[0].RequesterUsername)
	require.Equal(t, "for the shelter", dash.Requests[0].Message)
}

func TestRequestFoodAcceptsChunkedEmptyBody(t *testing.T) {
	c := newAPI(t)
	alice := c.login("donor", "alice")
	bob := c.login("receiver", "bob")
	carl := c.login("receiver", "carl")
	first := c.createDonation(alice)
	second := c.createDonation(alice)

	post := func(id, token string, body io.Reader) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/receiver/donations/"+id+"/request", body)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		c.h.ServeHTTP(rr, req)
		return rr.Code
	}

	// an unsized reader leaves ContentLength at -1, as with chunked encoding
	chunked := struct{ io.Reader }{strings.NewReader("")}
	require.Equal(t, -1, int(httptest.NewRequest(http.MethodPost, "/", chunked).ContentLength))
	require.Equal(t, http.StatusCreated, post(first, bob, chunked))

	require.Equal(t, http.StatusBadRequest, post(second, carl, strings.NewReader(`{"message":`)))
	require.Equal(t, http.StatusCreated, post(second, carl, nil))
}

func TestForeignDonationLooksMissing(t *testing.T) {
	c := newAPI(t)
	alice := c.login("donor", "alice")
	carol := c.login("donor", "carol")
	id := c.createDonation(carol)

	code, env := c.do(http.MethodDelete, "/api/v1/donor/donations/"+id, alice, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "donation not found", env.Error.Message)

	code, _ = c.do(http.MethodPut, "/api/v1/donor/donations/"+id, alice, donationBody())
	require.Equal(t, http.StatusNotFound, code)

	code, env = c.do(http.MethodGet, "/api/v1/donor/dashboard", carol, nil)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(env.Data), id)

	code, _ = c.do(http.MethodDelete, "/api/v1/donor/donations/"+id, carol, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodDelete, "/api/v1/donor/donations/not-a-uuid", carol, nil)
	require.Equal(t, http.StatusBadRequest, code)
}
