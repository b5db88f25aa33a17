package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenUniqID(t *testing.T) {
	SetupIDWorker(1)
	a, b := GenUniqID(), GenUniqID()
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
}

func TestWhatLang(t *testing.T) {
	assert.Equal(t, "en", WhatLang("Sharing your writing with the people who care about it is the best part of publishing."))
	assert.Equal(t, "", WhatLang(""))
}
