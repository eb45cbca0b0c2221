package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" validate:"required,handle"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,secret"`
}

func TestStructCollectsEveryViolation(t *testing.T) {
	details := Struct(signup{Username: "ab", Email: "nope", Password: "123"})
	assert.Equal(t, map[string]string{
		"username": "must be at least 3 characters",
		"email":    "must be a valid email",
		"password": "must be at least 6 characters",
	}, details)
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(signup{Username: "ash", Email: "ash@x.com", Password: "pikachu1"}))
}

func TestHandleIgnoresSurroundingSpace(t *testing.T) {
	details := Struct(signup{Username: "  a ", Email: "ash@x.com", Password: "pikachu1"})
	assert.Equal(t, "must be at least 3 characters", details["username"])
}

func TestHandleCountsRunes(t *testing.T) {
	details := Struct(signup{Username: "山田", Email: "ash@x.com", Password: "pikachu1"})
	assert.Equal(t, "must be at least 3 characters", details["username"])
	assert.Nil(t, Struct(signup{Username: "山田太", Email: "ash@x.com", Password: "pikachu1"}))
}

func TestToDetailsJSONErrors(t *testing.T) {
	var v struct{ A int }
	err := json.Unmarshal([]byte(`{"A":"x"}`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
	assert.Nil(t, ToDetails(nil))
}
