package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/money"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestClient_AttachesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(models.User{ID: 1})
	})
	client.SetToken("secret-token")

	_, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_DecodesAmountsIntoCents(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Float noise as a real JSON encoder would produce it.
		w.Write([]byte(`{"balances":[{"user_id":1,"user_name":"Alice","balance":3.3299999999999996}],
			"suggested_settlements":[{"paid_by_id":2,"paid_to_id":1,"amount":5.5}]}`))
	})

	balances, err := client.GetGroupBalances(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, balances.Balances, 1)
	assert.Equal(t, money.Money(333), balances.Balances[0].Balance)
	require.Len(t, balances.SuggestedSettlements, 1)
	assert.Equal(t, money.Money(550), balances.SuggestedSettlements[0].Amount)
}

func TestClient_EncodesExpenseAmountsAsDecimals(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.Expense{ID: 9})
	})

	payload := models.ExpensePayload{
		Amount:      1000,
		Description: "Dinner",
		PaidByID:    10,
		Splits: []models.ExpenseSplit{
			{UserID: 10, Amount: 334},
			{UserID: 20, Amount: 333},
			{UserID: 30, Amount: 333},
		},
	}
	expense, err := client.CreateExpense(context.Background(), 1, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(9), expense.ID)

	assert.Equal(t, 10.0, body["amount"])
	assert.Equal(t, float64(1), body["group_id"], "group id is injected from the path argument")
	splits := body["splits"].([]any)
	first := splits[0].(map[string]any)
	assert.Equal(t, 3.34, first["amount"])
}

func TestClient_SurfacesServiceDetail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not a member of this group"})
	})

	_, err := client.GetGroupBalances(context.Background(), 1)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Not a member of this group", apiErr.Detail)
}

func TestClient_LoginIsFormEncoded(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		// The service names the email field "username".
		assert.Equal(t, "alice@example.com", r.PostFormValue("username"))
		json.NewEncoder(w).Encode(AuthResponse{AccessToken: "tok", TokenType: "bearer"})
	})

	auth, err := client.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.AccessToken)
}

func TestClient_UpdateProfilePatchesCurrentUser(t *testing.T) {
	var body map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/me", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.User{ID: 1, FullName: body["full_name"]})
	})

	user, err := client.UpdateProfile(context.Background(), "Alice Cooper")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", user.FullName)
	assert.Equal(t, map[string]string{"full_name": "Alice Cooper"}, body)
}

func TestClient_ChangePasswordSendsBothFields(t *testing.T) {
	var body map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/me/change-password", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
	})

	err := client.ChangePassword(context.Background(), "old-pw", "new-pw")
	require.NoError(t, err)
	assert.Equal(t, "old-pw", body["current_password"])
	assert.Equal(t, "new-pw", body["new_password"])
}

func TestClient_CreateAndDeleteGroup(t *testing.T) {
	var gotMethod, gotPath string
	var body map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(models.Group{ID: 7, Name: body["name"]})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	group, err := client.CreateGroup(context.Background(), "Ski trip", "January weekend")
	require.NoError(t, err)
	assert.Equal(t, int64(7), group.ID)
	assert.Equal(t, "Ski trip", group.Name)
	assert.Equal(t, "January weekend", body["description"])

	require.NoError(t, client.DeleteGroup(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/groups/7", gotPath)
}

func TestClient_UploadProfilePictureAbsolutizesURL(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/profile-picture", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "me.png", header.Filename)
		json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/profiles/me.png"})
	})

	url, err := client.UploadProfilePicture(context.Background(), Upload{
		Filename: "me.png",
		Data:     []byte("\x89PNG\r\n\x1a\ndata"),
	})
	require.NoError(t, err)
	assert.Equal(t, client.BaseURL()+"/uploads/profiles/me.png", url)
}

func TestClient_UploadReceiptIsMultipart(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.png", header.Filename)
		json.NewEncoder(w).Encode(map[string]string{"receipt_url": "/uploads/receipts/r.png"})
	})

	url, err := client.UploadReceipt(context.Background(), 1, 9, Upload{
		Filename: "receipt.png",
		Data:     []byte("\x89PNG\r\n\x1a\ndata"),
	})
	require.NoError(t, err)
	assert.Equal(t, client.BaseURL()+"/uploads/receipts/r.png", url, "relative URLs are absolutized")
}

func TestUpload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{
			name:   "png passes",
			upload: Upload{Filename: "r.png", Data: []byte("\x89PNG\r\n\x1a\ndata")},
		},
		{
			name:   "jpeg passes",
			upload: Upload{Filename: "r.jpg", Data: []byte("\xff\xd8\xff\xe0rest")},
		},
		{
			name:    "oversized rejected",
			upload:  Upload{Filename: "big.png", Data: make([]byte, MaxUploadSize+1)},
			wantErr: ErrFileTooLarge,
		},
		{
			name:    "text rejected",
			upload:  Upload{Filename: "notes.txt", Data: []byte("hello world")},
			wantErr: ErrNotAnImage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.upload.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
