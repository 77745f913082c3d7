package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	notFound := From(WrapRedis(redis.Nil))
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.True(t, errors.Is(notFound, redis.Nil))

	boom := errors.New("connection refused")
	wrapped := From(WrapRedis(boom))
	assert.Equal(t, http.StatusBadGateway, wrapped.Status)
	assert.Equal(t, RedisErrorMessage+": connection refused", wrapped.Error())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	plain := From(errors.New("disk on fire"))
	require.NotNil(t, plain)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, SystemErrorMessage, plain.Message)

	nested := fmt.Errorf("load: %w", NotFound("conversation not found"))
	got := From(nested)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "conversation not found", got.Error())
}

func TestValidation(t *testing.T) {
	err := Validation("text exceeds %d characters", 10)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "text exceeds 10 characters", err.Message)
}
