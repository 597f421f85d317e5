package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"igfetch/pkg/config"
	"igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	imageURL = "https://scontent.cdninstagram.com/v/t51/XYZ_n.jpg?se=7"
	videoURL = "https://scontent.cdninstagram.com/o1/v/t16/XYZ.mp4"
)

// mockRoundTripper serves canned responses keyed by the exact request URL
type mockRoundTripper struct {
	mu        sync.Mutex
	responses map[string]func() (*http.Response, error)
	requested []string
}

func newMockRoundTripper() *mockRoundTripper {
	return &mockRoundTripper{responses: make(map[string]func() (*http.Response, error))}
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	url := req.URL.String()
	m.requested = append(m.requested, url)
	if respond, ok := m.responses[url]; ok {
		return respond()
	}
	return newResponse(http.StatusNotFound, "not found"), nil
}

func (m *mockRoundTripper) respond(url string, statusCode int, body string) {
	m.responses[url] = func() (*http.Response, error) {
		return newResponse(statusCode, body), nil
	}
}

func (m *mockRoundTripper) fail(url string, err error) {
	m.responses[url] = func() (*http.Response, error) {
		return nil, err
	}
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestFetcher(t *testing.T, rt http.RoundTripper) (*MediaFetcher, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = dir
	cfg.Download.Timeout = 5 * time.Second

	fetcher, err := New(cfg, WithTransport(rt), WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)
	return fetcher, dir
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunImage(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	fetcher, dir := newTestFetcher(t, rt)

	var out bytes.Buffer
	err := fetcher.Run(context.Background(), "https://www.instagram.com/p/XYZ/", &out)
	require.NoError(t, err)

	path := filepath.Join(dir, "XYZ.jpg")
	assert.Equal(t, "Downloaded: "+path+"\n", out.String())
	assert.Equal(t, []string{"https://www.instagram.com/p/XYZ/?__a=1", imageURL}, rt.requested)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestRunVideo(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/reel/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","video_url":%q}}}`, videoURL))
	rt.respond(videoURL, http.StatusOK, "mp4 bytes")

	fetcher, dir := newTestFetcher(t, rt)

	var out bytes.Buffer
	require.NoError(t, fetcher.Run(context.Background(), "https://www.instagram.com/reel/XYZ/", &out))

	assert.Equal(t, "Downloaded: "+filepath.Join(dir, "XYZ.mp4")+"\n", out.String())
	assert.Equal(t, []string{"XYZ.mp4"}, listFiles(t, dir))
}

func TestRunPrefersDisplayURL(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/tv/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q,"video_url":%q}}}`, imageURL, videoURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")
	rt.respond(videoURL, http.StatusOK, "mp4 bytes")

	fetcher, dir := newTestFetcher(t, rt)

	result, err := fetcher.Fetch(context.Background(), "https://www.instagram.com/tv/XYZ/")
	require.NoError(t, err)
	assert.Equal(t, instagram.MediaKindImage, result.Media.Kind)
	assert.Equal(t, []string{"XYZ.jpg"}, listFiles(t, dir))
	assert.NotContains(t, rt.requested, videoURL)
}

func TestRunStory(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/stories/1234567890/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"STORY1","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	fetcher, dir := newTestFetcher(t, rt)

	var out bytes.Buffer
	require.NoError(t, fetcher.Run(context.Background(), "https://www.instagram.com/stories/someuser/1234567890/", &out))
	assert.Equal(t, "Downloaded: "+filepath.Join(dir, "STORY1.jpg")+"\n", out.String())
}

func TestRunInvalid(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		lookup string
	}{
		{name: "not instagram", url: "https://example.com/p/XYZ/"},
		{name: "profile URL", url: "https://www.instagram.com/someuser/"},
		{name: "empty input", url: ""},
		{name: "no graphql key", url: "https://www.instagram.com/p/XYZ/", lookup: `{"items":[]}`},
		{name: "no media fields", url: "https://www.instagram.com/p/XYZ/", lookup: `{"graphql":{"shortcode_media":{"shortcode":"XYZ"}}}`},
		{name: "null body", url: "https://www.instagram.com/p/XYZ/", lookup: `null`},
		{name: "array body", url: "https://www.instagram.com/p/XYZ/", lookup: `[]`},
		{name: "string body", url: "https://www.instagram.com/p/XYZ/", lookup: `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newMockRoundTripper()
			if tt.lookup != "" {
				rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK, tt.lookup)
			}
			fetcher, dir := newTestFetcher(t, rt)

			var out bytes.Buffer
			err := fetcher.Run(context.Background(), tt.url, &out)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidURL(err))
			assert.Equal(t, "Invalid Instagram URL\n", out.String())
			assert.Empty(t, listFiles(t, dir))

			if tt.lookup == "" {
				assert.Empty(t, rt.requested, "unrecognized URLs must not hit the network")
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	lookupURL := "https://www.instagram.com/p/XYZ/?__a=1"
	okLookup := fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL)

	tests := []struct {
		name    string
		setup   func(rt *mockRoundTripper)
		errType errors.ErrorType
	}{
		{
			name: "lookup network failure",
			setup: func(rt *mockRoundTripper) {
				rt.fail(lookupURL, fmt.Errorf("dial tcp: no such host"))
			},
			errType: errors.ErrorTypeNetwork,
		},
		{
			name: "lookup not JSON",
			setup: func(rt *mockRoundTripper) {
				rt.respond(lookupURL, http.StatusOK, "<html>Login</html>")
			},
			errType: errors.ErrorTypeMalformedResponse,
		},
		{
			name: "missing shortcode",
			setup: func(rt *mockRoundTripper) {
				rt.respond(lookupURL, http.StatusOK, fmt.Sprintf(`{"graphql":{"shortcode_media":{"display_url":%q}}}`, imageURL))
			},
			errType: errors.ErrorTypeMalformedResponse,
		},
		{
			name: "media network failure",
			setup: func(rt *mockRoundTripper) {
				rt.respond(lookupURL, http.StatusOK, okLookup)
				rt.fail(imageURL, fmt.Errorf("connection reset by peer"))
			},
			errType: errors.ErrorTypeNetwork,
		},
		{
			name: "media error status",
			setup: func(rt *mockRoundTripper) {
				rt.respond(lookupURL, http.StatusOK, okLookup)
				rt.respond(imageURL, http.StatusForbidden, "URL signature expired")
			},
			errType: errors.ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newMockRoundTripper()
			tt.setup(rt)
			fetcher, dir := newTestFetcher(t, rt)

			var out bytes.Buffer
			err := fetcher.Run(context.Background(), "https://www.instagram.com/p/XYZ/", &out)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
			assert.Equal(t, "Error downloading media: "+err.Error()+"\n", out.String())
			assert.Empty(t, listFiles(t, dir))
		})
	}
}

func TestRunLookupNon2xxIsDecoded(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusNotFound,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	fetcher, dir := newTestFetcher(t, rt)

	_, err := fetcher.Fetch(context.Background(), "https://www.instagram.com/p/XYZ/")
	require.NoError(t, err)
	assert.Equal(t, []string{"XYZ.jpg"}, listFiles(t, dir))
}

func TestRunOverwrites(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "new bytes")

	fetcher, dir := newTestFetcher(t, rt)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "XYZ.jpg"), []byte("old bytes, longer"), 0644))

	_, err := fetcher.Fetch(context.Background(), "https://www.instagram.com/p/XYZ/")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "XYZ.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new bytes", string(data))
	assert.Equal(t, []string{"XYZ.jpg"}, listFiles(t, dir))
}

func TestRunCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	fetcher, err := New(config.DefaultConfig(), WithTransport(rt), WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, fetcher.Run(context.Background(), "https://www.instagram.com/p/XYZ/", &out))
	assert.Equal(t, "Downloaded: XYZ.jpg\n", out.String())
	assert.FileExists(t, filepath.Join(dir, "XYZ.jpg"))
}

func TestUserAgentHeader(t *testing.T) {
	var agents []string
	rt := &headerRecorder{record: func(req *http.Request) {
		agents = append(agents, req.Header.Get("User-Agent"))
	}}

	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	cfg.Instagram.UserAgent = "igfetch-test/1.0"

	fetcher, err := New(cfg, WithTransport(rt), WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "https://www.instagram.com/p/XYZ/")
	require.Error(t, err)
	assert.Equal(t, []string{"igfetch-test/1.0"}, agents)
}

type headerRecorder struct {
	record func(req *http.Request)
}

func (h *headerRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	h.record(req)
	return newResponse(http.StatusOK, `{}`), nil
}

// stubClient lets Fetch run without HTTP at all
type stubClient struct {
	payload map[string]interface{}
	data    []byte
}

func (s *stubClient) Lookup(ctx context.Context, m *instagram.MediaURL) (map[string]interface{}, error) {
	return s.payload, nil
}

func (s *stubClient) Download(ctx context.Context, mediaURL string) ([]byte, error) {
	return s.data, nil
}

func TestWithClient(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()

	client := &stubClient{
		payload: map[string]interface{}{
			"graphql": map[string]interface{}{
				"shortcode_media": map[string]interface{}{
					"shortcode": "XYZ",
					"video_url": videoURL,
				},
			},
		},
		data: []byte("mp4 bytes"),
	}

	fetcher, err := New(cfg, WithClient(client), WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	result, err := fetcher.Fetch(context.Background(), "https://www.instagram.com/reel/XYZ/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.BaseDirectory, "XYZ.mp4"), result.Path)
	assert.Equal(t, "XYZ", result.Media.Shortcode)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Download.Timeout = 0

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "Downloaded: XYZ.jpg", StatusLine(&Result{Path: "XYZ.jpg"}, nil))
	assert.Equal(t, "Invalid Instagram URL", StatusLine(nil, errors.New(errors.ErrorTypeUnrecognizedURL, "x")))
	assert.Equal(t, "Invalid Instagram URL", StatusLine(nil, errors.New(errors.ErrorTypeMissingMediaFields, "x")))
	assert.Equal(t, "Error downloading media: network error: boom", StatusLine(nil, errors.New(errors.ErrorTypeNetwork, "boom")))
}

func TestFetchLogsMediaMetadata(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q,"owner":{"username":"someuser"},"taken_at_timestamp":1700000000}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	log := logger.NewTestLogger()

	fetcher, err := New(cfg, WithTransport(rt), WithLogger(log))
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "https://www.instagram.com/p/XYZ/")
	require.NoError(t, err)

	var saved *logger.LogMessage
	for _, msg := range log.GetMessagesByLevel("INFO") {
		if msg.Message == "media saved" {
			msg := msg
			saved = &msg
		}
	}
	require.NotNil(t, saved)
	assert.Equal(t, "someuser", saved.Fields["owner"])
	assert.Equal(t, "2023-11-14T22:13:20Z", saved.Fields["taken_at"])
	assert.Equal(t, "XYZ", saved.Fields["shortcode"])
}

func TestFetchOmitsMissingMetadata(t *testing.T) {
	rt := newMockRoundTripper()
	rt.respond("https://www.instagram.com/p/XYZ/?__a=1", http.StatusOK,
		fmt.Sprintf(`{"graphql":{"shortcode_media":{"shortcode":"XYZ","display_url":%q}}}`, imageURL))
	rt.respond(imageURL, http.StatusOK, "jpeg bytes")

	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	log := logger.NewTestLogger()

	fetcher, err := New(cfg, WithTransport(rt), WithLogger(log))
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "https://www.instagram.com/p/XYZ/")
	require.NoError(t, err)

	infos := log.GetMessagesByLevel("INFO")
	require.NotEmpty(t, infos)
	saved := infos[len(infos)-1]
	assert.Equal(t, "media saved", saved.Message)
	assert.NotContains(t, saved.Fields, "owner")
	assert.NotContains(t, saved.Fields, "taken_at")
}
