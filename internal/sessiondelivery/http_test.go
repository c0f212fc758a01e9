package sessiondelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/errorspkg"
	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
	"github.com/go-demi/demi-bank/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRenewAccessToken(t *testing.T) {
	refreshToken := randompkg.String(32)

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("new-access-token", time.Now().Add(time.Minute), nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "MissingRefreshToken",
			requestBody: gin.H{},
			buildStubs: func(service *MockService) {
				service.EXPECT().RenewAccessToken(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "InvalidToken",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("", time.Time{}, tokenpkg.ErrInvalidToken)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrInvalidToken.Error(),
		},
		{
			name: "BlockedSession",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("", time.Time{}, domain.ErrBlockedSession)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrBlockedSession.Error(),
		},
		{
			name: "ExpiredSession",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("", time.Time{}, domain.ErrExpiredSession)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrExpiredSession.Error(),
		},
		{
			name: "SessionNotFound",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("", time.Time{}, domain.ErrSessionNotFound)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrSessionNotFound.Error(),
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"refresh_token": refreshToken,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RenewAccessToken(gomock.Any(), gomock.Eq(refreshToken)).
					Times(1).
					Return("", time.Time{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			handler := NewHandler(service)

			server := gin.New()
			server.POST("/sessions", handler.RenewAccessToken)

			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantStatusCode == http.StatusOK {
				var rsp struct {
					AccessToken          string    `json:"access_token"`
					AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
				}

				if err := json.NewDecoder(recorder.Body).Decode(&rsp); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if rsp.AccessToken == "" {
					t.Error(`rsp.AccessToken = "", want non empty`)
				}

				return
			}

			var res web.Response
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantError != "" && res.Error != tc.wantError {
				t.Errorf("res.Error=%q, want %q", res.Error, tc.wantError)
			}
		})
	}
}
