package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/tj/assert"
)

func TestNotifyServerReceives(t *testing.T) {
	var got []a2a.Artifact

	srv := NewNotifyServer(WithNotifyHandler(func(artifact a2a.Artifact) {
		got = append(got, artifact)
	}))

	body, err := json.Marshal(a2a.NewArtifact(a2a.NewTextPart("Echo: Hello")))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"received"}`, string(raw))

	assert.Len(t, got, 1)
	assert.Equal(t, "Echo: Hello", got[0].Text())
}

func TestNotifyServerRejectsMalformed(t *testing.T) {
	called := false

	srv := NewNotifyServer(WithNotifyHandler(func(a2a.Artifact) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader("{not json"))

	resp, err := srv.App().Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
}
