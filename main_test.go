package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"sjsage522/vintedscout/logger"
	scouterr "sjsage522/vintedscout/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestFailureDetailsIncludeUpstreamAnswer(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	logger.InitWithWriter(&buf)

	remoteErr := scouterr.NewRemoteRequest("items", "https://www.vinted.fr/api/v2/catalog/items",
		http.StatusForbidden, "", "Just a moment...")
	remoteErr.Time = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := fmt.Errorf("run: %w", remoteErr)

	withFailureDetails(logger.Default.Error(), err).Msg("Run failed")

	out := buf.String()
	assert.Contains(t, out, `"error_type":"remote"`)
	assert.Contains(t, out, `"status":403`)
	assert.Contains(t, out, `"url":"https://www.vinted.fr/api/v2/catalog/items"`)
	assert.Contains(t, out, `"answered_at":"2024-06-01T12:00:00Z"`)
}

func TestFailureDetailsWithoutUpstreamAnswer(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	logger.InitWithWriter(&buf)

	withFailureDetails(logger.Default.Error(), errors.New("boom")).Msg("Run failed")

	out := buf.String()
	assert.Contains(t, out, `"error_type":"unknown"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.NotContains(t, out, "answered_at")
}
