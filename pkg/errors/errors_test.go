package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = stderrors.New("sentinel")

func TestCustomizedError(t *testing.T) {
	err := New("logic.Start", "error.notfound", errSentinel).Code(http.StatusNotFound)
	traced := Trace("handler.Start", err)

	assert.Equal(t, http.StatusNotFound, traced.GetCode())
	assert.Equal(t, "error.notfound", traced.Message())
	assert.True(t, Is(traced, errSentinel))
	assert.Contains(t, traced.Error(), "logic.Start->handler.Start")

	ce, ok := As(traced)
	assert.True(t, ok)
	assert.Same(t, err, ce)
}

func TestTracePlainError(t *testing.T) {
	ce := Trace("store.Append", errSentinel)
	assert.Equal(t, "sentinel", ce.Message())
	assert.True(t, Is(ce, errSentinel))

	_, ok := As(errSentinel)
	assert.False(t, ok)
}

func TestErrorIsValidJSON(t *testing.T) {
	inner := New("store.Get", "error.internal", stderrors.New(`bad "quote"`))
	outer := Wrap(inner, "logic.Get", "error.notfound").WithData(map[string]interface{}{"Platform": "x"})

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal([]byte(outer.Error()), &decoded))
	assert.Equal(t, "logic.Get", decoded["trace"])
	assert.Equal(t, http.StatusInternalServerError, outer.GetCode())
	assert.Equal(t, "x", outer.Data()["Platform"])
}
