package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/pokedex-api/config"
	"github.com/oksasatya/pokedex-api/internal/container"
	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/infrastructure/memory"
	"github.com/oksasatya/pokedex-api/internal/interface/middleware"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type APISuite struct {
	suite.Suite
	engine *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTTL:      time.Hour,
		BcryptCost:     4,
		AvatarMaxBytes: 1024,
	}
	catalog := memory.NewCatalog(
		entity.CatalogEntry{ID: 1, Name: "bulbasaur", Source: json.RawMessage(`{"id":1,"name":"bulbasaur"}`)},
		entity.CatalogEntry{ID: 4, Name: "charmander", Source: json.RawMessage(`{"id":4,"name":"charmander"}`)},
	)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := container.NewWithRepositories(cfg, logger, container.MemoryRepositories(catalog), nil)

	s.engine = gin.New()
	s.engine.Use(middleware.RequestIDMiddleware())
	reg := NewRegistry(s.engine)
	InitModules(reg, c)
	reg.RegisterAll()
}

func (s *APISuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *APISuite) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (s *APISuite) registerRequest(fields map[string]string, image []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("profileImage", "avatar.png")
		s.Require().NoError(err)
		_, _ = fw.Write(image)
	}
	s.Require().NoError(w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (s *APISuite) register(username, email string) string {
	rec, env := s.serve(s.registerRequest(map[string]string{
		"username": username, "email": email, "password": "pikachu1",
	}, pngBytes))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var sess struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &sess))
	s.Require().NotEmpty(sess.Token)
	return sess.Token
}

func (s *APISuite) TestRegisterThenFetchProfile() {
	token := s.register("Ash", "ash@x.com")

	rec, env := s.do(http.MethodGet, "/api/profile", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got struct {
		Username string `json:"username"`
		Profile  struct {
			Theme             string            `json:"theme"`
			ColorScheme       string            `json:"colorScheme"`
			ProfileImage      map[string]string `json:"profileImage"`
			Teams             []any             `json:"teams"`
			Comparisons       []any             `json:"comparisons"`
			Favourites        []any             `json:"favourites"`
			SilhouetteHistory []any             `json:"silhouetteHistory"`
		} `json:"profile"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal("ash", got.Username)
	s.Equal("light", got.Profile.Theme)
	s.Equal("default", got.Profile.ColorScheme)
	s.Equal("image/png", got.Profile.ProfileImage["contentType"])
	s.NotEmpty(got.Profile.ProfileImage["data"])
	s.NotNil(got.Profile.Teams)
	s.Empty(got.Profile.Teams)
	s.Empty(got.Profile.Comparisons)
	s.Empty(got.Profile.Favourites)
	s.Empty(got.Profile.SilhouetteHistory)
}

func (s *APISuite) TestRegisterRejections() {
	s.Run("duplicate email", func() {
		s.register("misty", "misty@x.com")
		rec, env := s.serve(s.registerRequest(map[string]string{
			"username": "other", "email": "misty@x.com", "password": "pikachu1",
		}, pngBytes))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Account with email already registered", env.Message)
	})

	s.Run("content that is not an image", func() {
		rec, env := s.serve(s.registerRequest(map[string]string{
			"username": "gary", "email": "gary@x.com", "password": "pikachu1",
		}, []byte("definitely text")))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Unsupported image type.", env.Message)
	})

	s.Run("file over the cap", func() {
		big := append(append([]byte{}, pngBytes...), make([]byte, 4096)...)
		rec, env := s.serve(s.registerRequest(map[string]string{
			"username": "brock", "email": "brock@x.com", "password": "pikachu1",
		}, big))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("File too large", env.Message)
	})

	s.Run("field errors are reported together", func() {
		rec, env := s.serve(s.registerRequest(map[string]string{
			"username": "ab", "email": "nope", "password": "1",
		}, pngBytes))
		s.Equal(http.StatusBadRequest, rec.Code)
		var details map[string]string
		s.Require().NoError(json.Unmarshal(env.Error, &details))
		s.Len(details, 3)
	})
}

func (s *APISuite) TestLogin() {
	s.register("ash", "ash@x.com")

	rec, env := s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "ASH", "password": "pikachu1"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Login successful", env.Message)
	s.NotEmpty(rec.Result().Cookies())

	rec1, wrong := s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "ash", "password": "nope-nope"})
	rec2, unknown := s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "nobody", "password": "pikachu1"})
	s.Equal(http.StatusUnauthorized, rec1.Code)
	s.Equal(http.StatusUnauthorized, rec2.Code)
	s.Equal(wrong.Message, unknown.Message)
	s.Equal("Invalid credentials.", wrong.Message)
}

func (s *APISuite) TestSessionRequired() {
	rec, _ := s.do(http.MethodGet, "/api/profile", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/profile/teams", "garbage", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestComparisonRoundTrip() {
	token := s.register("ash", "ash@x.com")

	rec, env := s.do(http.MethodPost, "/api/profile/comparison/add", token, map[string]any{
		"name": "Starters", "comparison": []int{1, 4},
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	var created struct {
		ID string `json:"_id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))

	rec, env = s.do(http.MethodGet, "/api/profile/comparisons/"+created.ID, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var got struct {
		Comparison struct {
			Name       string `json:"name"`
			Comparison []int  `json:"comparison"`
		} `json:"comparison"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal("Starters", got.Comparison.Name)
	s.Equal([]int{1, 4}, got.Comparison.Comparison)

	rec, _ = s.do(http.MethodGet, "/api/profile/comparisons/unknown", token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestTeamsLifecycle() {
	token := s.register("ash", "ash@x.com")

	rec, env := s.do(http.MethodPost, "/api/profile/teams/add", token, map[string]any{
		"teamName": "Kanto", "teamToAdd": []int{1, 2, 3},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(string(env.Error), "Team must have exactly 6 Pokémon.")

	rec, env = s.do(http.MethodPost, "/api/profile/teams/add", token, map[string]any{
		"teamName": "Kanto", "teamToAdd": []any{1, nil, 3, 4, 5, 6},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(string(env.Error), "Team members must be valid Pokémon ids.")

	ids := make([]string, 0, 2)
	for _, name := range []string{"A", "B"} {
		rec, env = s.do(http.MethodPost, "/api/profile/teams/add", token, map[string]any{
			"teamName": name, "teamToAdd": []int{1, 2, 3, 4, 5, 6},
		})
		s.Require().Equal(http.StatusOK, rec.Code)
		var t struct {
			ID string `json:"_id"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &t))
		ids = append(ids, t.ID)
	}

	rec, _ = s.do(http.MethodPatch, "/api/profile/teams/name/update", token, map[string]string{"teamId": "missing", "name": "X"})
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/profile/teams/remove", token, map[string]any{
		"teams": []map[string]any{{"_id": ids[1]}, {"_id": "forged", "name": "injected", "team": []int{9}}},
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/profile/teams", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list struct {
		Teams []struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"teams"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Require().Len(list.Teams, 1)
	s.Equal("B", list.Teams[0].Name)

	rec, _ = s.do(http.MethodDelete, "/api/profile/teams/"+ids[1], token, nil)
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/profile/teams/"+ids[1], token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestFavourites() {
	token := s.register("ash", "ash@x.com")
	for _, id := range []int{25, 4, 25} {
		rec, _ := s.do(http.MethodPost, "/api/profile/favourites/add", token, map[string]int{"favouriteId": id})
		s.Require().Equal(http.StatusOK, rec.Code)
	}
	rec, env := s.do(http.MethodPut, "/api/profile/favourites/remove", token, map[string]int{"IdToRemove": 25})
	s.Require().Equal(http.StatusOK, rec.Code)
	var got struct {
		Profile struct {
			Favourites []int `json:"favourites"`
		} `json:"profile"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal([]int{4}, got.Profile.Favourites)
}

func (s *APISuite) TestColorSchemeAndUser() {
	token := s.register("ash", "ash@x.com")

	rec, env := s.do(http.MethodPut, "/api/profile/theme", token, map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(string(env.Error), "Colour scheme is required")

	rec, _ = s.do(http.MethodPut, "/api/profile/theme", token, map[string]string{"colorScheme": "water"})
	s.Require().Equal(http.StatusOK, rec.Code)
	_, env = s.do(http.MethodGet, "/api/profile/colorScheme", token, nil)
	s.JSONEq(`{"colorScheme":"water"}`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/auth/user", token, nil)
	s.JSONEq(`{"username":"ash"}`, string(env.Data))
}

func (s *APISuite) TestCatalog() {
	rec, env := s.do(http.MethodGet, "/api/pokemon/light?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"total":2}`, string(env.Meta))

	rec, env = s.do(http.MethodPost, "/api/pokemon/individual", "", map[string]any{"pokeId": "4"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"id":4,"name":"charmander"}`, string(env.Data))

	rec, _ = s.do(http.MethodPost, "/api/pokemon/individual", "", map[string]any{"pokeId": 151})
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/pokemon/list", "", map[string]any{"ids": []int{1}})
	s.Equal(http.StatusUnauthorized, rec.Code)
}
