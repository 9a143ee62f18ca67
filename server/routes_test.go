package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"room-relay/auth"
	"room-relay/domain"
	"room-relay/errors"
	"room-relay/mocks"
	"room-relay/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeAccounts struct {
	token services.Token
	err   error
}

func (f fakeAccounts) Login(_, _ string) (services.Token, error)    { return f.token, f.err }
func (f fakeAccounts) Register(_, _ string) (services.Token, error) { return f.token, f.err }

func newRouter(t *testing.T, requireAuth bool, accounts services.IAuthService) (http.Handler, *mocks.MockIRoomService, *auth.TokenManager) {
	rooms := mocks.NewMockIRoomService(gomock.NewController(t))
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := NewRouter(Dependencies{
		Log:         slog.Default(),
		Rooms:       rooms,
		Accounts:    accounts,
		Verifier:    tokens,
		RequireAuth: requireAuth,
		ServeWs: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	})
	return router, rooms, tokens
}

func do(router http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestRoutes_Health(t *testing.T) {
	router, _, _ := newRouter(t, false, fakeAccounts{})

	w := do(router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_Create_Room(t *testing.T) {
	req := require.New(t)
	router, rooms, _ := newRouter(t, false, fakeAccounts{})
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rooms.EXPECT().Create(gomock.Any(), "Team").Return(domain.NewRoom("abcd1234", "Team", at), nil)

	w := do(router, http.MethodPost, "/rooms", `{"name":"Team"}`)

	req.Equal(http.StatusCreated, w.Code)
	req.JSONEq(`{"roomKey":"abcd1234","roomName":"Team","createdAt":"2026-01-02T03:04:05Z"}`, w.Body.String())
}

func TestRoutes_Create_Room_Errors(t *testing.T) {
	req := require.New(t)
	router, rooms, _ := newRouter(t, false, fakeAccounts{})

	w := do(router, http.MethodPost, "/rooms", `not json`)
	req.Equal(http.StatusBadRequest, w.Code)

	rooms.EXPECT().Create(gomock.Any(), "").Return(domain.Room{}, errors.ErrMalformedEvent)
	w = do(router, http.MethodPost, "/rooms", `{"name":""}`)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Contains(w.Body.String(), "malformed")
}

func TestRoutes_Get_And_List_Rooms(t *testing.T) {
	req := require.New(t)
	router, rooms, _ := newRouter(t, false, fakeAccounts{})
	at := time.Now().UTC()

	rooms.EXPECT().Get(domain.RoomKey("nope")).Return(domain.Room{}, errors.ErrRoomNotFound)
	w := do(router, http.MethodGet, "/rooms/nope", "")
	req.Equal(http.StatusNotFound, w.Code)

	rooms.EXPECT().List().Return([]domain.Room{domain.NewRoom("r1", "one", at), domain.NewRoom("r2", "two", at)}, nil)
	w = do(router, http.MethodGet, "/rooms", "")
	req.Equal(http.StatusOK, w.Code)
	var listed []roomResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	req.Len(listed, 2)
	req.Equal("two", listed[1].RoomName)
}

func TestRoutes_Delete_Room_Requires_Token(t *testing.T) {
	req := require.New(t)
	router, rooms, tokens := newRouter(t, true, fakeAccounts{})

	w := do(router, http.MethodDelete, "/rooms/r1", "")
	req.Equal(http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateToken("alice")
	req.NoError(err)
	rooms.EXPECT().Delete(gomock.Any(), domain.RoomKey("r1")).Return(nil)

	w = do(router, http.MethodDelete, "/rooms/r1", "", "Authorization", "Bearer "+token)
	req.Equal(http.StatusNoContent, w.Code)
}

func TestRoutes_Websocket_Is_Protected(t *testing.T) {
	req := require.New(t)
	router, _, tokens := newRouter(t, true, fakeAccounts{})

	w := do(router, http.MethodGet, "/ws", "")
	req.Equal(http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateToken("alice")
	req.NoError(err)
	w = do(router, http.MethodGet, "/ws?token="+token, "")
	req.Equal(http.StatusTeapot, w.Code)
}

func TestRoutes_Accounts(t *testing.T) {
	req := require.New(t)

	router, _, _ := newRouter(t, false, fakeAccounts{token: "signed"})
	w := do(router, http.MethodPost, "/register", `{"username":"alice","password":"longenough"}`)
	req.Equal(http.StatusCreated, w.Code)
	req.JSONEq(`{"token":"signed"}`, w.Body.String())

	w = do(router, http.MethodPost, "/login", `{"username":"alice","password":"longenough"}`)
	req.Equal(http.StatusOK, w.Code)

	router, _, _ = newRouter(t, false, fakeAccounts{err: errors.ErrInvalidCredentials})
	w = do(router, http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)
	req.Equal(http.StatusUnauthorized, w.Code)

	router, _, _ = newRouter(t, false, fakeAccounts{err: errors.ErrUserAlreadyExists})
	w = do(router, http.MethodPost, "/register", `{"username":"alice","password":"longenough"}`)
	req.Equal(http.StatusConflict, w.Code)
}
